package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/underground-railroad/railroad/internal/logging"
)

// SaltSize is the length in bytes of the random salt persisted alongside
// the encrypted store.
const SaltSize = 32

// MasterKeySize is the length in bytes of the derived master key and of
// every sub-key expanded from it.
const MasterKeySize = 32

// Argon2id parameters: m=64 MiB, t=3, p=4, output=32 bytes, algorithm
// identifier "id", version 0x13.
const (
	argon2Time    = 3
	argon2MemoryK = 64 * 1024 // KiB
	argon2Threads = 4
)

// Sub-key derivation labels. Each produces a distinct 32-byte child via
// HKDF-SHA256 extract-then-expand over the master key.
const (
	labelIdentitySeed   = "underground-railroad-identity-v1"
	labelEncryptionSeed = "underground-railroad-encryption-v1"
	labelStorageKey     = "underground-railroad-storage-v1"

	labelSigningSeed    = "underground-railroad-identity-v1-signing"
	labelEncryptKeySeed = "underground-railroad-identity-v1-encryption"
)

// DeriveMasterKey derives the deterministic 32-byte master key from a
// passphrase and a 32-byte salt using Argon2id. The same (passphrase,
// salt) pair always yields the same master key.
func DeriveMasterKey(passphrase string, salt []byte) ([32]byte, error) {
	logger := logging.New("crypto", "DeriveMasterKey")

	if len(salt) != SaltSize {
		logger.WithField("salt_len", len(salt)).Error("invalid salt length")
		return [32]byte{}, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	if passphrase == "" {
		return [32]byte{}, fmt.Errorf("passphrase must not be empty")
	}

	raw := argon2.IDKey([]byte(passphrase), salt, argon2Time, argon2MemoryK, argon2Threads, MasterKeySize)
	var master [32]byte
	copy(master[:], raw)
	ZeroBytes(raw)

	logger.Debug("master key derived")
	return master, nil
}

// hkdfExpand256 runs HKDF-SHA256 extract-then-expand over ikm with the
// given label, producing outLen bytes.
func hkdfExpand256(ikm []byte, label string, outLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, ikm, nil, []byte(label))
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}

// hkdfExpand512 runs HKDF-SHA512 extract-then-expand over ikm with the
// given label, producing outLen bytes. Used for the identity seed's
// further expansion into signing/encryption seeds and for the hybrid
// message-key derivation.
func hkdfExpand512(ikm []byte, label string, outLen int) ([]byte, error) {
	reader := hkdf.New(sha512.New, ikm, nil, []byte(label))
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubKeys holds the three 32-byte children derived from a master key:
// the identity seed, encryption seed, and storage key.
type SubKeys struct {
	IdentitySeed   [32]byte
	EncryptionSeed [32]byte
	StorageKey     [32]byte
}

// Destroy zeroises all three sub-keys.
func (s *SubKeys) Destroy() {
	ZeroBytes(s.IdentitySeed[:])
	ZeroBytes(s.EncryptionSeed[:])
	ZeroBytes(s.StorageKey[:])
}

// DeriveSubKeys expands a master key into the identity, encryption, and
// storage sub-keys via HKDF-SHA256 with three distinct labels.
// Key-separation follows from HKDF's PRF guarantee applied to three
// distinct labels over the same input keying material.
func DeriveSubKeys(master [32]byte) (*SubKeys, error) {
	identity, err := hkdfExpand256(master[:], labelIdentitySeed, 32)
	if err != nil {
		return nil, fmt.Errorf("derive identity seed: %w", err)
	}
	encryption, err := hkdfExpand256(master[:], labelEncryptionSeed, 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption seed: %w", err)
	}
	storage, err := hkdfExpand256(master[:], labelStorageKey, 32)
	if err != nil {
		return nil, fmt.Errorf("derive storage key: %w", err)
	}

	sk := &SubKeys{}
	copy(sk.IdentitySeed[:], identity)
	copy(sk.EncryptionSeed[:], encryption)
	copy(sk.StorageKey[:], storage)
	ZeroBytes(identity)
	ZeroBytes(encryption)
	ZeroBytes(storage)
	return sk, nil
}

// IdentitySeeds holds the two 32-byte seeds the identity seed expands
// into for keypair generation: one for the signing keypair, one for both
// halves (classical and lattice) of the hybrid encryption keypair.
type IdentitySeeds struct {
	SigningSeed    [32]byte
	EncryptionSeed [32]byte
}

// Destroy zeroises both seeds.
func (s *IdentitySeeds) Destroy() {
	ZeroBytes(s.SigningSeed[:])
	ZeroBytes(s.EncryptionSeed[:])
}

// ExpandIdentitySeed expands the identity seed into signing and
// encryption seeds via HKDF-SHA512.
func ExpandIdentitySeed(identitySeed [32]byte) (*IdentitySeeds, error) {
	signing, err := hkdfExpand512(identitySeed[:], labelSigningSeed, 32)
	if err != nil {
		return nil, fmt.Errorf("derive signing seed: %w", err)
	}
	enc, err := hkdfExpand512(identitySeed[:], labelEncryptKeySeed, 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption keypair seed: %w", err)
	}

	out := &IdentitySeeds{}
	copy(out.SigningSeed[:], signing)
	copy(out.EncryptionSeed[:], enc)
	ZeroBytes(signing)
	ZeroBytes(enc)
	return out, nil
}

// sha256Sum is a small helper kept local to this package so callers
// never need to import crypto/sha256 themselves for a fingerprint.
func sha256Sum(b []byte) [32]byte {
	return sha256.Sum256(b)
}
