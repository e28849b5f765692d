package crypto

import (
	"encoding"
	"fmt"

	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// latticeScheme is the lattice-based KEM used for the post-quantum half
// of the hybrid encryption keypair. ML-KEM-768 targets the same security
// tier as the classical X25519 half.
func latticeScheme() kem.Scheme { return mlkem768.Scheme() }

// LatticeSeedSize is the seed length ML-KEM-768 needs for deterministic
// key derivation: the scheme's seeded-keygen API means passphrase-based
// restore reproduces an identical lattice public key every time.
var LatticeSeedSize = latticeScheme().SeedSize()

// LatticePublicKeySize and LatticeCiphertextSize expose the wire sizes of
// the lattice half for callers sizing buffers.
var (
	LatticePublicKeySize  = latticeScheme().PublicKeySize()
	LatticeCiphertextSize = latticeScheme().CiphertextSize()
)

// deriveLatticeKeyPair deterministically derives a lattice keypair from a
// seed of LatticeSeedSize bytes.
func deriveLatticeKeyPair(seed []byte) (pub, priv []byte, err error) {
	if len(seed) != LatticeSeedSize {
		return nil, nil, fmt.Errorf("lattice seed must be %d bytes, got %d", LatticeSeedSize, len(seed))
	}
	pk, sk := latticeScheme().DeriveKeyPair(seed)
	pubBytes, err := marshalKEMKey(pk)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal lattice public key: %w", err)
	}
	privBytes, err := marshalKEMKey(sk)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal lattice private key: %w", err)
	}
	return pubBytes, privBytes, nil
}

// marshalKEMKey marshals a kem.PublicKey or kem.PrivateKey to bytes.
func marshalKEMKey(k interface{}) ([]byte, error) {
	m, ok := k.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("lattice key does not implement BinaryMarshaler")
	}
	return m.MarshalBinary()
}

// latticeEncapsulate runs KEM encapsulation against a packed public key,
// returning the KEM ciphertext and shared secret.
func latticeEncapsulate(packedPub []byte) (ciphertext, sharedSecret []byte, err error) {
	pub, err := latticeScheme().UnmarshalBinaryPublicKey(packedPub)
	if err != nil {
		return nil, nil, fmt.Errorf("unmarshal lattice public key: %w", err)
	}
	ct, ss, err := latticeScheme().Encapsulate(pub)
	if err != nil {
		return nil, nil, fmt.Errorf("lattice encapsulate: %w", err)
	}
	return ct, ss, nil
}

// latticeDecapsulate recovers the shared secret from a KEM ciphertext
// using a packed private key.
func latticeDecapsulate(packedPriv, ciphertext []byte) (sharedSecret []byte, err error) {
	priv, err := latticeScheme().UnmarshalBinaryPrivateKey(packedPriv)
	if err != nil {
		return nil, fmt.Errorf("unmarshal lattice private key: %w", err)
	}
	ss, err := latticeScheme().Decapsulate(priv, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("lattice decapsulate: %w", err)
	}
	return ss, nil
}
