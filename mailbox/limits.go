package mailbox

import (
	"github.com/underground-railroad/railroad/limits"
	"github.com/underground-railroad/railroad/railerr"
)

// limitPlaintext rejects a message body that won't fit a single
// hybrid-encrypted mailbox subkey once framing and the AEAD tag are
// added.
func limitPlaintext(b []byte) error {
	if err := limits.ValidatePlaintextMessage(b); err != nil {
		return railerr.Wrap(railerr.KindInvalid, "mailbox.limitPlaintext", "message size", err)
	}
	return nil
}

// limitCiphertext rejects an encrypted envelope too large for a subkey.
func limitCiphertext(b []byte) error {
	if err := limits.ValidateHybridCiphertext(b); err != nil {
		return railerr.Wrap(railerr.KindInvalid, "mailbox.limitCiphertext", "ciphertext size", err)
	}
	return nil
}
