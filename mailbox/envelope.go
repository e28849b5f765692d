package mailbox

import (
	"encoding/json"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// envelope is what actually occupies a mailbox subkey: the sender's
// signature over the hybrid ciphertext, so a receiver can check
// provenance before committing the decrypted Message to the store.
// MessageID rides outside the ciphertext too, to dedup without
// decrypting first.
type envelope struct {
	MessageID  types.MessageId        `json:"message_id"`
	Sender     types.PersonId         `json:"sender"`
	Ciphertext *crypto.HybridCiphertext `json:"ciphertext"`
	Signature  crypto.Signature       `json:"signature"`
}

// signedPayload is the byte string the sender's signature covers: the
// message id and sender id bind the signature to this envelope, so a
// replayed ciphertext under a different id/sender is not exploitable.
func signedPayload(messageID types.MessageId, sender types.PersonId, ciphertext *crypto.HybridCiphertext) []byte {
	buf := make([]byte, 0, 32+len(ciphertext.Ciphertext)+len(ciphertext.LatticeCiphertext)+48)
	buf = append(buf, messageID.Bytes()...)
	buf = append(buf, sender.Bytes()...)
	buf = append(buf, ciphertext.Ciphertext...)
	buf = append(buf, ciphertext.Nonce[:]...)
	buf = append(buf, ciphertext.EphemeralClassical[:]...)
	buf = append(buf, ciphertext.LatticeCiphertext...)
	return buf
}

// sealEnvelope signs ciphertext with the sender's signing key and wraps
// it for wire transmission.
func sealEnvelope(messageID types.MessageId, sender types.PersonId, signing *crypto.SigningKeyPair, ciphertext *crypto.HybridCiphertext) *envelope {
	sig := signing.Sign(signedPayload(messageID, sender, ciphertext))
	return &envelope{
		MessageID:  messageID,
		Sender:     sender,
		Ciphertext: ciphertext,
		Signature:  sig,
	}
}

// verify checks the envelope's signature against the sender's known
// signing public key.
func (e *envelope) verify(senderPublic [32]byte) bool {
	return crypto.Verify(signedPayload(e.MessageID, e.Sender, e.Ciphertext), e.Signature, senderPublic)
}

// encode serialises an envelope for a mailbox subkey write. JSON keeps
// this consistent with every other wire-adjacent blob in the store;
// nothing here is read by anything outside this process, so a
// schema-driven binary codec would only add ceremony.
func (e *envelope) encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, "mailbox.envelope.encode", "marshal envelope", err)
	}
	return b, nil
}

// decodeEnvelope reverses encode.
func decodeEnvelope(b []byte) (*envelope, error) {
	var e envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, "mailbox.decodeEnvelope", "unmarshal envelope", err)
	}
	return &e, nil
}
