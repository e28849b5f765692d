package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"

	"github.com/underground-railroad/railroad/internal/logging"
)

// HybridNonceSize is the AEAD nonce length.
const HybridNonceSize = chacha20poly1305.NonceSize // 12 bytes

// messageKeyLabel labels the HKDF-SHA512 expansion that combines the
// classical and lattice shared secrets into one AEAD key.
const messageKeyLabel = "underground-railroad-message-key-v1"

// HybridCiphertext is the wire form of a hybrid-encrypted message: the
// AEAD ciphertext+tag, its nonce, the sender's ephemeral classical
// public point, and the lattice KEM ciphertext.
type HybridCiphertext struct {
	Ciphertext          []byte // includes the 16-byte Poly1305 tag
	Nonce               [HybridNonceSize]byte
	EphemeralClassical  [32]byte
	LatticeCiphertext   []byte
}

// ErrDecryptionFailed is the single opaque error returned by Decrypt on
// any authentication failure; it is never more specific, so there is no
// padding-oracle surface to distinguish failure modes from outside.
var ErrDecryptionFailed = fmt.Errorf("hybrid decryption failed")

// Encrypt implements the hybrid message AEAD construction: an ephemeral
// ECDH exchange plus an ephemeral KEM encapsulation, combined into one
// authenticated ciphertext. recipientPub is the recipient's published
// hybrid public key.
func Encrypt(plaintext []byte, recipientPub PublicKey) (*HybridCiphertext, error) {
	logger := logging.New("crypto", "Encrypt")

	// ephemeral classical scalar and point.
	var ephemeralPriv [32]byte
	if _, err := rand.Read(ephemeralPriv[:]); err != nil {
		return nil, fmt.Errorf("generate ephemeral scalar: %w", err)
	}
	clamp(&ephemeralPriv)
	defer ZeroBytes(ephemeralPriv[:])

	var ephemeralPub [32]byte
	curve25519.ScalarBaseMult(&ephemeralPub, &ephemeralPriv)

	// lattice KEM encapsulation against the recipient's lattice key.
	latticeCT, latticeSS, err := latticeEncapsulate(recipientPub.Lattice)
	if err != nil {
		return nil, fmt.Errorf("lattice encapsulate: %w", err)
	}
	defer ZeroBytes(latticeSS)

	// classical shared secret via ECDH.
	classicalSS, err := DeriveSharedSecret(recipientPub.Classical, ephemeralPriv)
	if err != nil {
		return nil, fmt.Errorf("classical ECDH: %w", err)
	}
	defer ZeroBytes(classicalSS[:])

	// derive message key from the combined secrets.
	key, err := deriveMessageKey(classicalSS[:], latticeSS)
	if err != nil {
		return nil, fmt.Errorf("derive message key: %w", err)
	}
	defer ZeroBytes(key)

	// random nonce.
	var nonce [HybridNonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// AEAD seal.
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("construct AEAD: %w", err)
	}
	sealed := aead.Seal(nil, nonce[:], plaintext, nil)

	logger.WithField("plaintext_size", len(plaintext)).
		WithField("ciphertext_size", len(sealed)).
		Debug("hybrid message encrypted")

	return &HybridCiphertext{
		Ciphertext:         sealed,
		Nonce:              nonce,
		EphemeralClassical: ephemeralPub,
		LatticeCiphertext:  latticeCT,
	}, nil
}

// Decrypt reverses Encrypt using the recipient's HybridKeyPair. Any
// authentication failure, tampered ciphertext, wrong key, or truncated
// input returns ErrDecryptionFailed with no further detail.
func Decrypt(ct *HybridCiphertext, recipient *HybridKeyPair) ([]byte, error) {
	latticeSS, err := latticeDecapsulate(recipient.LatticePrivate, ct.LatticeCiphertext)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	defer ZeroBytes(latticeSS)

	classicalSS, err := DeriveSharedSecret(ct.EphemeralClassical, recipient.ClassicalPrivate)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	defer ZeroBytes(classicalSS[:])

	key, err := deriveMessageKey(classicalSS[:], latticeSS)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	defer ZeroBytes(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, ct.Nonce[:], ct.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// deriveMessageKey combines the classical and lattice shared secrets
// into one 32-byte AEAD key via HKDF-SHA512 extract-then-expand. Either
// secret breaking leaves confidentiality intact because both are mixed
// into the output through a single uniform KDF call.
func deriveMessageKey(classicalSS, latticeSS []byte) ([]byte, error) {
	combined := make([]byte, 0, len(classicalSS)+len(latticeSS))
	combined = append(combined, classicalSS...)
	combined = append(combined, latticeSS...)
	defer ZeroBytes(combined)
	return hkdfExpand512(combined, messageKeyLabel, 32)
}
