package mailbox

import (
	"context"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/interfaces"
	"github.com/underground-railroad/railroad/internal/logging"
	"github.com/underground-railroad/railroad/limits"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// VerifierFunc resolves a sender's signing public key, e.g. by looking
// up the sender in the contact book. Poll skips (with a warning, does
// not tombstone) any envelope whose sender is unknown or whose
// signature fails verification.
type VerifierFunc func(sender types.PersonId) (senderPublic [32]byte, ok bool)

// Drained is one successfully decrypted, verified message found during
// a poll, alongside the subkey it occupied.
type Drained struct {
	Message *domain.Message
	Subkey  int
}

// Poll scans subkeys 0..49 of descriptor with force-refresh, decrypts
// and verifies anything it finds, and tombstones every subkey it
// successfully processes by overwriting it with a zero-length value.
// A subkey that fails to deserialise is skipped and left untouched —
// the spec's contract is "record a warning, do not delete" so a
// transient read glitch doesn't silently drop a message.
func Poll(ctx context.Context, rctx interfaces.RoutingContext, descriptor interfaces.Descriptor, recipient *crypto.HybridKeyPair, verify VerifierFunc) ([]Drained, error) {
	const op = "mailbox.Poll"

	var out []Drained
	for subkey := 0; subkey < limits.MaxMailboxSubkeys; subkey++ {
		value, err := rctx.GetDHTValue(ctx, descriptor, subkey, true)
		if err != nil {
			logging.New("mailbox", "Poll").WithField("subkey", subkey).WithError(err, "network", "read subkey").
				Warn("mailbox subkey read failed, continuing")
			continue
		}
		if value == nil || len(value.Data) == 0 {
			continue
		}

		env, err := decodeEnvelope(value.Data)
		if err != nil {
			logging.New("mailbox", "Poll").WithField("subkey", subkey).WithError(err, "serialization", "decode envelope").
				Warn("mailbox subkey did not deserialise, skipping")
			continue
		}

		if verify != nil {
			senderPublic, ok := verify(env.Sender)
			if !ok {
				logging.New("mailbox", "Poll").WithField("subkey", subkey).WithField("sender", env.Sender.String()).
					Warn("mailbox envelope from unknown sender, skipping")
				continue
			}
			if !env.verify(senderPublic) {
				logging.New("mailbox", "Poll").WithField("subkey", subkey).WithField("sender", env.Sender.String()).
					Warn("mailbox envelope signature invalid, skipping")
				continue
			}
		}

		plaintext, err := crypto.Decrypt(env.Ciphertext, recipient)
		if err != nil {
			logging.New("mailbox", "Poll").WithField("subkey", subkey).WithError(err, "crypto", "decrypt envelope").
				Warn("mailbox envelope failed to decrypt, skipping")
			continue
		}

		msg, err := decodeMessage(plaintext)
		if err != nil {
			logging.New("mailbox", "Poll").WithField("subkey", subkey).WithError(err, "serialization", "decode message").
				Warn("mailbox plaintext did not deserialise, skipping")
			continue
		}

		if err := rctx.SetDHTValue(ctx, descriptor, subkey, nil, nil); err != nil {
			return out, railerr.Wrap(railerr.KindNetwork, op, "tombstone subkey", err)
		}
		out = append(out, Drained{Message: msg, Subkey: subkey})
	}
	return out, nil
}
