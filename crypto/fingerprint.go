package crypto

import (
	"encoding/hex"
)

// Fingerprint is the 32-byte SHA-256 digest of a signing public key,
// the stable peer identifier used for out-of-band verification.
type Fingerprint [32]byte

// FingerprintOf computes the Fingerprint of a signing public key.
func FingerprintOf(signingPublicKey [32]byte) Fingerprint {
	return Fingerprint(sha256Sum(signingPublicKey[:]))
}

// Hex renders the fingerprint as lowercase hex.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f[:])
}

// verificationWords is the fixed 24-word list verification words are
// drawn from. Chosen to be short, phonetically distinct, and
// unambiguous when read aloud.
var verificationWords = [24]string{
	"anchor", "bridge", "cedar", "delta", "ember", "falcon",
	"granite", "harbor", "island", "jasper", "kindle", "lagoon",
	"meadow", "nectar", "oasis", "prairie", "quartz", "river",
	"summit", "tundra", "umbra", "valley", "willow", "zephyr",
}

// VerificationWords returns the ordered triple of words used for
// out-of-band fingerprint verification. Each word is indexed by 16 bits
// of the fingerprint, taken modulo the list length.
func (f Fingerprint) VerificationWords() [3]string {
	var words [3]string
	for i := 0; i < 3; i++ {
		hi, lo := f[i*2], f[i*2+1]
		idx := (uint16(hi)<<8 | uint16(lo)) % uint16(len(verificationWords))
		words[i] = verificationWords[idx]
	}
	return words
}
