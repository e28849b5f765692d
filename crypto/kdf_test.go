package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSalt() []byte {
	salt := make([]byte, SaltSize)
	for i := range salt {
		salt[i] = 0x2A
	}
	return salt
}

// TestDeriveMasterKeyDeterministic covers S1: the same passphrase and
// salt must always yield the same master key, across independent calls.
func TestDeriveMasterKeyDeterministic(t *testing.T) {
	passphrase := "correct horse battery staple"
	salt := fixedSalt()

	first, err := DeriveMasterKey(passphrase, salt)
	require.NoError(t, err)
	second, err := DeriveMasterKey(passphrase, salt)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDeriveMasterKeyRejectsBadSalt(t *testing.T) {
	_, err := DeriveMasterKey("anything", []byte{1, 2, 3})
	assert.Error(t, err)
}

func TestDeriveMasterKeyRejectsEmptyPassphrase(t *testing.T) {
	_, err := DeriveMasterKey("", fixedSalt())
	assert.Error(t, err)
}

func TestDeriveMasterKeyDifferentPassphrasesDiffer(t *testing.T) {
	salt := fixedSalt()
	a, err := DeriveMasterKey("alpha", salt)
	require.NoError(t, err)
	b, err := DeriveMasterKey("bravo", salt)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

// TestDeriveSubKeysPairwiseDistinct covers key-separation: the three
// sub-keys derived from one master key are pairwise unequal.
func TestDeriveSubKeysPairwiseDistinct(t *testing.T) {
	master, err := DeriveMasterKey("correct horse battery staple", fixedSalt())
	require.NoError(t, err)

	sub, err := DeriveSubKeys(master)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(sub.IdentitySeed[:], sub.EncryptionSeed[:]))
	assert.False(t, bytes.Equal(sub.IdentitySeed[:], sub.StorageKey[:]))
	assert.False(t, bytes.Equal(sub.EncryptionSeed[:], sub.StorageKey[:]))
}

func TestDeriveSubKeysDeterministic(t *testing.T) {
	master, err := DeriveMasterKey("correct horse battery staple", fixedSalt())
	require.NoError(t, err)

	a, err := DeriveSubKeys(master)
	require.NoError(t, err)
	b, err := DeriveSubKeys(master)
	require.NoError(t, err)

	assert.Equal(t, a.IdentitySeed, b.IdentitySeed)
	assert.Equal(t, a.EncryptionSeed, b.EncryptionSeed)
	assert.Equal(t, a.StorageKey, b.StorageKey)
}

func TestExpandIdentitySeedDistinctOutputs(t *testing.T) {
	master, err := DeriveMasterKey("correct horse battery staple", fixedSalt())
	require.NoError(t, err)
	sub, err := DeriveSubKeys(master)
	require.NoError(t, err)

	seeds, err := ExpandIdentitySeed(sub.IdentitySeed)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(seeds.SigningSeed[:], seeds.EncryptionSeed[:]))
}
