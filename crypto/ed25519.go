package crypto

import (
	"crypto/ed25519"
)

// SignatureSize is the size of an Ed25519 signature in bytes.
const SignatureSize = ed25519.SignatureSize

// Signature is a 64-byte Ed25519 signature.
type Signature [SignatureSize]byte

// Sign produces a signature for message under the 32-byte Ed25519 seed
// (the private half of a SigningKeyPair).
func Sign(message []byte, seed [32]byte) Signature {
	priv := ed25519.NewKeyFromSeed(seed[:])
	raw := ed25519.Sign(priv, message)
	var sig Signature
	copy(sig[:], raw)
	return sig
}

// Verify checks sig against message and a 32-byte Ed25519 public key.
// It uses Go's crypto/ed25519 cofactorless check, which rejects a
// non-canonical S and a non-canonical R encoding; it accepts
// non-canonical public-key encodings and does not reject small-order or
// mixed-order public keys.
func Verify(message []byte, sig Signature, publicKey [32]byte) bool {
	return ed25519.Verify(publicKey[:], message, sig[:])
}
