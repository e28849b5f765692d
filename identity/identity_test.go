package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

func TestSetupAndRecoverProduceSameStorageKey(t *testing.T) {
	dir := t.TempDir()
	id, storageKey, err := Setup(dir, "Alex", "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, id.IsPrimary)
	assert.NotEmpty(t, id.Fingerprint)

	recoveredKey, err := Recover(dir, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, storageKey, recoveredKey)
}

func TestRecoverWrongPassphraseDiffers(t *testing.T) {
	dir := t.TempDir()
	_, storageKey, err := Setup(dir, "Alex", "correct horse battery staple")
	require.NoError(t, err)

	wrongKey, err := Recover(dir, "wrong passphrase entirely")
	require.NoError(t, err)
	assert.NotEqual(t, storageKey, wrongKey)
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	id, _, err := Setup(dir, "Alex", "correct horse battery staple")
	require.NoError(t, err)

	blob, err := Export(id, "backup passphrase")
	require.NoError(t, err)

	restored, err := Import(blob, "backup passphrase")
	require.NoError(t, err)
	assert.Equal(t, id.Name, restored.Name)
	assert.Equal(t, id.Fingerprint, restored.Fingerprint)
	assert.Equal(t, id.Signing.Public, restored.Signing.Public)
}

func TestImportWrongPassphraseFails(t *testing.T) {
	dir := t.TempDir()
	id, _, err := Setup(dir, "Alex", "correct horse battery staple")
	require.NoError(t, err)

	blob, err := Export(id, "backup passphrase")
	require.NoError(t, err)

	_, err = Import(blob, "not the backup passphrase")
	require.Error(t, err)
	assert.Equal(t, railerr.KindCrypto, railerr.KindOf(err))
}

func TestContactCardRoundTrip(t *testing.T) {
	now := types.Now()
	card := &Card{
		Name:                  "Alex",
		PersonID:              types.NewPersonId(),
		SigningPublicKey:      [32]byte{1, 2, 3},
		HybridClassicalPublic: [32]byte{4, 5, 6},
		HybridLatticePublic:   []byte("lattice-public-key-bytes"),
		MailboxDescriptor:     []byte("mailbox/0"),
	}
	card.Fingerprint[0] = 9

	url, err := card.EncodeURL()
	require.NoError(t, err)
	assert.Contains(t, url, contactURLPrefix)

	decoded, err := DecodeCardURL(url, now)
	require.NoError(t, err)
	assert.Equal(t, card.Name, decoded.Name)
	assert.Equal(t, card.PersonID, decoded.PersonID)
	assert.Equal(t, card.SigningPublicKey, decoded.SigningPublicKey)
	assert.Equal(t, card.HybridClassicalPublic, decoded.HybridClassicalPublic)
	assert.Equal(t, card.HybridLatticePublic, decoded.HybridLatticePublic)
	assert.Equal(t, card.MailboxDescriptor, decoded.MailboxDescriptor)
}

func TestContactCardRejectsExpired(t *testing.T) {
	now := types.Now()
	past := types.CoarseTimestamp(int64(now) - 10000)
	card := &Card{
		Name:      "Alex",
		PersonID:  types.NewPersonId(),
		ExpiresAt: &past,
	}

	payload, err := card.Encode()
	require.NoError(t, err)

	_, err = DecodeCard(payload, now)
	require.Error(t, err)
	assert.Equal(t, railerr.KindInvalid, railerr.KindOf(err))
}
