package identity

import (
	"crypto/rand"
	"encoding/json"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// exportedFields is the private material an export blob carries — the
// seeds, not the store's deterministic derivation of them, so a
// restored identity works even if the passphrase used to encrypt the
// export differs from the one the original identity was set up with.
type exportedFields struct {
	ID                types.PersonId `json:"id"`
	Name              string         `json:"name"`
	SigningSeed       [32]byte       `json:"signing_seed"`
	ClassicalPrivate  [32]byte       `json:"classical_private"`
	ClassicalPublic   [32]byte       `json:"classical_public"`
	LatticePrivate    []byte         `json:"lattice_private"`
	LatticePublic     []byte         `json:"lattice_public"`
	CreatedAt         int64          `json:"created_at"`
	MailboxDescriptor []byte         `json:"mailbox_descriptor,omitempty"`
}

// Export encrypts id's private material under a key derived from
// passphrase and a freshly generated salt, producing a salt-prepended
// blob safe to write to removable media. The export passphrase need not
// match the one id was originally set up with.
func Export(id *domain.Identity, passphrase string) ([]byte, error) {
	const op = "identity.Export"

	fields := exportedFields{
		ID:                id.ID,
		Name:              id.Name,
		SigningSeed:       id.Signing.Seed,
		ClassicalPrivate:  id.Hybrid.ClassicalPrivate,
		ClassicalPublic:   id.Hybrid.ClassicalPublic,
		LatticePrivate:    id.Hybrid.LatticePrivate,
		LatticePublic:     id.Hybrid.LatticePublic,
		CreatedAt:         int64(id.CreatedAt),
		MailboxDescriptor: id.MailboxDescriptor,
	}
	plaintext, err := json.Marshal(fields)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "marshal export fields", err)
	}

	salt := make([]byte, crypto.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, railerr.Wrap(railerr.KindCrypto, op, "generate export salt", err)
	}
	key, err := crypto.DeriveMasterKey(passphrase, salt)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindCrypto, op, "derive export key", err)
	}
	defer crypto.ZeroBytes(key[:])

	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, railerr.Wrap(railerr.KindCrypto, op, "construct export aead", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, railerr.Wrap(railerr.KindCrypto, op, "generate export nonce", err)
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)
	crypto.ZeroBytes(plaintext)

	blob := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// Import reverses Export, rebuilding the identity's keypairs from the
// decrypted seeds.
func Import(blob []byte, passphrase string) (*domain.Identity, error) {
	const op = "identity.Import"

	if len(blob) < crypto.SaltSize+chacha20poly1305.NonceSize {
		return nil, railerr.New(railerr.KindInvalid, op, "export blob too short")
	}
	salt := blob[:crypto.SaltSize]
	nonce := blob[crypto.SaltSize : crypto.SaltSize+chacha20poly1305.NonceSize]
	ciphertext := blob[crypto.SaltSize+chacha20poly1305.NonceSize:]

	key, err := crypto.DeriveMasterKey(passphrase, salt)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindCrypto, op, "derive export key", err)
	}
	defer crypto.ZeroBytes(key[:])

	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, railerr.Wrap(railerr.KindCrypto, op, "construct export aead", err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindCrypto, op, "decrypt export blob", crypto.ErrDecryptionFailed)
	}
	defer crypto.ZeroBytes(plaintext)

	var fields exportedFields
	if err := json.Unmarshal(plaintext, &fields); err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "unmarshal export fields", err)
	}

	signing, err := crypto.GenerateSigningKeyPair(fields.SigningSeed)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindCrypto, op, "rebuild signing keypair", err)
	}
	hybrid := &crypto.HybridKeyPair{
		ClassicalPrivate: fields.ClassicalPrivate,
		ClassicalPublic:  fields.ClassicalPublic,
		LatticePrivate:   fields.LatticePrivate,
		LatticePublic:    fields.LatticePublic,
	}

	return &domain.Identity{
		ID:                fields.ID,
		Name:              fields.Name,
		Signing:           signing,
		Hybrid:            hybrid,
		Fingerprint:       crypto.FingerprintOf(signing.Public),
		CreatedAt:         types.CoarseTimestamp(fields.CreatedAt),
		MailboxDescriptor: fields.MailboxDescriptor,
	}, nil
}
