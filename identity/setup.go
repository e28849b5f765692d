package identity

import (
	"crypto/rand"
	"os"
	"path/filepath"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/internal/logging"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// saltFileName is the sidecar file holding the Argon2id salt. It lives
// next to, not inside, the encrypted store: the storage key is derived
// from (passphrase, salt), so the salt cannot itself be a row in the
// store it unlocks.
const saltFileName = "identity.salt"

// SaltPath returns the salt sidecar's path under dataDir.
func SaltPath(dataDir string) string {
	return filepath.Join(dataDir, saltFileName)
}

// Setup derives a brand-new identity from name and passphrase, writing
// a freshly generated salt to dataDir so Recover can later reproduce
// the same keys. It returns the identity (flagged primary) and the
// storage key the caller passes to store.Open.
func Setup(dataDir, name, passphrase string) (*domain.Identity, [32]byte, error) {
	const op = "identity.Setup"

	salt := make([]byte, crypto.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, [32]byte{}, railerr.Wrap(railerr.KindCrypto, op, "generate salt", err)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, [32]byte{}, railerr.Wrap(railerr.KindStorage, op, "create data directory", err)
	}
	if err := os.WriteFile(SaltPath(dataDir), salt, 0o600); err != nil {
		return nil, [32]byte{}, railerr.Wrap(railerr.KindStorage, op, "write salt", err)
	}

	id, storageKey, err := deriveIdentity(name, passphrase, salt)
	if err != nil {
		return nil, [32]byte{}, err
	}
	id.IsPrimary = true

	logging.New("identity", "Setup").WithField("person", id.ID.String()).Info("identity created")
	return id, storageKey, nil
}

// Recover re-derives the storage key from passphrase and the salt
// previously written by Setup. It does not reconstruct the identity
// record itself — callers open the store with the returned key and
// load the primary identity from there.
func Recover(dataDir, passphrase string) ([32]byte, error) {
	const op = "identity.Recover"

	salt, err := os.ReadFile(SaltPath(dataDir))
	if err != nil {
		return [32]byte{}, railerr.Wrap(railerr.KindStorage, op, "read salt", err)
	}

	master, err := crypto.DeriveMasterKey(passphrase, salt)
	if err != nil {
		return [32]byte{}, railerr.Wrap(railerr.KindCrypto, op, "derive master key", err)
	}
	sub, err := crypto.DeriveSubKeys(master)
	if err != nil {
		crypto.ZeroBytes(master[:])
		return [32]byte{}, railerr.Wrap(railerr.KindCrypto, op, "derive sub-keys", err)
	}
	storageKey := sub.StorageKey
	crypto.ZeroBytes(master[:])
	sub.Destroy()
	return storageKey, nil
}

// RecoverIdentity re-derives the full identity (not just the storage
// key) for recovery flows that need to verify a passphrase against a
// known fingerprint before a store exists to check it against.
func RecoverIdentity(name, passphrase string, salt []byte) (*domain.Identity, [32]byte, error) {
	return deriveIdentity(name, passphrase, salt)
}

// deriveIdentity runs the full key hierarchy: master key, sub-keys,
// identity seed expansion, signing and hybrid keypairs, fingerprint.
func deriveIdentity(name, passphrase string, salt []byte) (*domain.Identity, [32]byte, error) {
	const op = "identity.deriveIdentity"

	master, err := crypto.DeriveMasterKey(passphrase, salt)
	if err != nil {
		return nil, [32]byte{}, railerr.Wrap(railerr.KindCrypto, op, "derive master key", err)
	}
	defer crypto.ZeroBytes(master[:])

	sub, err := crypto.DeriveSubKeys(master)
	if err != nil {
		return nil, [32]byte{}, railerr.Wrap(railerr.KindCrypto, op, "derive sub-keys", err)
	}
	defer sub.Destroy()

	seeds, err := crypto.ExpandIdentitySeed(sub.IdentitySeed)
	if err != nil {
		return nil, [32]byte{}, railerr.Wrap(railerr.KindCrypto, op, "expand identity seed", err)
	}
	defer seeds.Destroy()

	signing, err := crypto.GenerateSigningKeyPair(seeds.SigningSeed)
	if err != nil {
		return nil, [32]byte{}, railerr.Wrap(railerr.KindCrypto, op, "generate signing keypair", err)
	}
	hybrid, err := crypto.GenerateHybridKeyPair(seeds.EncryptionSeed)
	if err != nil {
		signing.Destroy()
		return nil, [32]byte{}, railerr.Wrap(railerr.KindCrypto, op, "generate hybrid keypair", err)
	}

	fingerprint := crypto.FingerprintOf(signing.Public)

	id := &domain.Identity{
		ID:          types.NewPersonId(),
		Name:        name,
		Signing:     signing,
		Hybrid:      hybrid,
		Fingerprint: fingerprint,
		CreatedAt:   types.Now(),
	}
	return id, sub.StorageKey, nil
}
