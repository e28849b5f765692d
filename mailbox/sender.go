package mailbox

import (
	"context"
	"time"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/interfaces"
	"github.com/underground-railroad/railroad/internal/logging"
	"github.com/underground-railroad/railroad/limits"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// ErrMailboxFull is returned when every subkey 0..49 of the recipient's
// mailbox record is occupied.
var ErrMailboxFull = railerr.New(railerr.KindNetwork, "mailbox.Send", "mailbox full")

// Send encrypts msg for recipientPub, signs the envelope with the
// sender's signing key, and writes it to the first empty subkey of the
// recipient's mailbox record. It probes subkeys 0..49 in order; a
// non-empty read just moves to the next slot, so concurrent senders
// racing for the same mailbox naturally fan out across subkeys.
func Send(ctx context.Context, rctx interfaces.RoutingContext, descriptor interfaces.Descriptor, senderID types.PersonId, signing *crypto.SigningKeyPair, recipientPub crypto.PublicKey, msg *domain.Message) error {
	const op = "mailbox.Send"

	plaintext, err := encodeMessage(msg)
	if err != nil {
		return err
	}

	ciphertext, err := crypto.Encrypt(plaintext, recipientPub)
	if err != nil {
		return railerr.Wrap(railerr.KindCrypto, op, "encrypt message", err)
	}

	env := sealEnvelope(msg.ID, senderID, signing, ciphertext)
	wire, err := env.encode()
	if err != nil {
		return err
	}
	if err := limitCiphertext(wire); err != nil {
		return err
	}

	for subkey := 0; subkey < limits.MaxMailboxSubkeys; subkey++ {
		existing, err := rctx.GetDHTValue(ctx, descriptor, subkey, false)
		if err != nil {
			return railerr.Wrap(railerr.KindNetwork, op, "read subkey", err)
		}
		if existing != nil && len(existing.Data) > 0 {
			continue
		}
		if err := rctx.SetDHTValue(ctx, descriptor, subkey, wire, nil); err != nil {
			return railerr.Wrap(railerr.KindNetwork, op, "write subkey", err)
		}
		logging.New("mailbox", "Send").
			WithField("message_id", msg.ID.String()).
			WithField("subkey", subkey).
			Debug("message written to mailbox")
		return nil
	}

	return ErrMailboxFull
}

// backoff computes the delay after failed attempt n (0-indexed, as
// SendWithRetry counts): 2^n seconds, capped at 5 minutes.
func backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * time.Second
	const cap = 5 * time.Minute
	if d > cap || d <= 0 {
		return cap
	}
	return d
}

// SendWithRetry calls Send, retrying on transient network errors with
// exponential backoff up to limits.MaxSendRetryAttempts. It does not
// retry MailboxFull or crypto/serialization failures — those are not
// transient and a retry would reproduce the same outcome.
func SendWithRetry(ctx context.Context, rctx interfaces.RoutingContext, descriptor interfaces.Descriptor, senderID types.PersonId, signing *crypto.SigningKeyPair, recipientPub crypto.PublicKey, msg *domain.Message) error {
	var lastErr error
	for attempt := 0; attempt < limits.MaxSendRetryAttempts; attempt++ {
		err := Send(ctx, rctx, descriptor, senderID, signing, recipientPub, msg)
		if err == nil {
			return nil
		}
		if railerr.Is(err, railerr.KindNetwork) && err != ErrMailboxFull {
			lastErr = err
			select {
			case <-time.After(backoff(attempt)):
				continue
			case <-ctx.Done():
				return railerr.Wrap(railerr.KindNetwork, "mailbox.SendWithRetry", "cancelled during retry", ctx.Err())
			}
		}
		return err
	}
	return railerr.Wrap(railerr.KindNetwork, "mailbox.SendWithRetry", "retry budget exhausted", lastErr)
}
