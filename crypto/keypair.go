package crypto

import (
	"crypto/ed25519"
	"fmt"

	"golang.org/x/crypto/curve25519"

	"github.com/underground-railroad/railroad/internal/logging"
)

// SigningKeyPair is an Ed25519 keypair used to sign and verify messages
// and to derive a Fingerprint.
type SigningKeyPair struct {
	Seed   [32]byte // private: the Ed25519 seed
	Public [32]byte
}

// GenerateSigningKeyPair derives an Ed25519 keypair from a 32-byte seed
// (the identity seed's signing expansion).
func GenerateSigningKeyPair(seed [32]byte) (*SigningKeyPair, error) {
	logger := logging.New("crypto", "GenerateSigningKeyPair")

	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)

	kp := &SigningKeyPair{Seed: seed}
	copy(kp.Public[:], pub)

	logger.WithFields(logging.SecureFieldHash(kp.Public[:], "public_key")).Debug("signing keypair derived")
	return kp, nil
}

// Sign signs message with this keypair's private seed.
func (kp *SigningKeyPair) Sign(message []byte) Signature {
	return Sign(message, kp.Seed)
}

// Destroy zeroises the private seed.
func (kp *SigningKeyPair) Destroy() {
	if kp == nil {
		return
	}
	ZeroBytes(kp.Seed[:])
}

// HybridKeyPair is the pair (classical ECDH key, lattice-KEM key) used
// for hybrid message encryption. The classical half is derived
// deterministically from a seed; the lattice half is derived
// deterministically too, via ML-KEM's seeded keygen, from a distinct
// 64-byte expansion of the same seed so a passphrase-based restore
// always reproduces the same hybrid public key.
type HybridKeyPair struct {
	ClassicalPrivate [32]byte
	ClassicalPublic  [32]byte
	LatticePrivate   []byte
	LatticePublic    []byte
}

// hybridLatticeSeedLabel expands the encryption keypair seed to the
// lattice scheme's required seed length without reusing the classical
// scalar material.
const hybridLatticeSeedLabel = "underground-railroad-hybrid-lattice-seed-v1"

// GenerateHybridKeyPair derives a HybridKeyPair from a 32-byte seed (the
// identity seed's encryption expansion).
func GenerateHybridKeyPair(seed [32]byte) (*HybridKeyPair, error) {
	logger := logging.New("crypto", "GenerateHybridKeyPair")

	var classicalPriv [32]byte
	copy(classicalPriv[:], seed[:])
	clamp(&classicalPriv)

	var classicalPub [32]byte
	curve25519.ScalarBaseMult(&classicalPub, &classicalPriv)

	latticeSeed, err := hkdfExpand512(seed[:], hybridLatticeSeedLabel, LatticeSeedSize)
	if err != nil {
		return nil, fmt.Errorf("derive lattice seed: %w", err)
	}
	defer ZeroBytes(latticeSeed)

	latticePub, latticePriv, err := deriveLatticeKeyPair(latticeSeed)
	if err != nil {
		return nil, fmt.Errorf("derive lattice keypair: %w", err)
	}

	kp := &HybridKeyPair{
		ClassicalPrivate: classicalPriv,
		ClassicalPublic:  classicalPub,
		LatticePrivate:   latticePriv,
		LatticePublic:    latticePub,
	}

	logger.WithFields(logging.SecureFieldHash(classicalPub[:], "classical_public")).
		WithField("lattice_public_size", len(latticePub)).
		Debug("hybrid keypair derived")
	return kp, nil
}

// PublicKey is the publishable half of a HybridKeyPair: the classical
// point plus the packed lattice public key (classical 32 bytes, lattice
// public key roughly 1.5-2 KiB).
type PublicKey struct {
	Classical [32]byte
	Lattice   []byte
}

// Public returns the publishable hybrid public key.
func (kp *HybridKeyPair) Public() PublicKey {
	return PublicKey{Classical: kp.ClassicalPublic, Lattice: kp.LatticePublic}
}

// Destroy zeroises both private halves.
func (kp *HybridKeyPair) Destroy() {
	if kp == nil {
		return
	}
	ZeroBytes(kp.ClassicalPrivate[:])
	ZeroBytes(kp.LatticePrivate)
}

// clamp applies the standard X25519 scalar clamp in place.
func clamp(scalar *[32]byte) {
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64
}
