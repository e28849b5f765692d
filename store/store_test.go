package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

func testKey(t *testing.T) [32]byte {
	t.Helper()
	var key [32]byte
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "railroad.db")
	db, err := Open(ctx, path, testKey(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDB(t)
	var name string
	err := db.conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='contacts'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "contacts", name)
}

func TestOpenWrongKeyFailsAsCryptoError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "railroad.db")

	key := testKey(t)
	db, err := Open(ctx, path, key)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var wrongKey [32]byte
	for i := range wrongKey {
		wrongKey[i] = byte(255 - i)
	}
	reopened, err := Open(ctx, path, wrongKey)
	if err != nil {
		assert.Equal(t, railerr.KindCrypto, railerr.KindOf(err))
		return
	}
	defer reopened.Close()
	_, err = reopened.conn.QueryContext(ctx, `SELECT COUNT(1) FROM contacts`)
	require.Error(t, err)
	assert.True(t, isCipherAuthFailure(err))
}

func TestIsCipherAuthFailureMatchesKnownSignatures(t *testing.T) {
	assert.True(t, isCipherAuthFailure(errors.New("file is not a database")))
	assert.True(t, isCipherAuthFailure(errors.New("file is encrypted or is not a database")))
	assert.False(t, isCipherAuthFailure(errors.New("disk I/O error")))
	assert.False(t, isCipherAuthFailure(nil))
}

func TestContactRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := db.Contacts()
	ctx := context.Background()

	now := types.Now()
	c := &domain.Contact{
		ID:         types.NewPersonId(),
		Name:       "Alex",
		TrustLevel: types.TrustIntroduced,
		Languages:  []string{"en", "es"},
		Tags:       []string{"medical"},
		AddedAt:    now,
		Available:  true,
	}
	c.HybridPublic.Classical[0] = 7
	c.HybridPublic.Lattice = []byte("lattice-public-key-bytes")
	c.SigningPublicKey[0] = 3

	require.NoError(t, repo.Put(ctx, c))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.TrustLevel, got.TrustLevel)
	assert.Equal(t, c.Languages, got.Languages)
	assert.Equal(t, c.Tags, got.Tags)
	assert.Equal(t, c.HybridPublic, got.HybridPublic)
	assert.Equal(t, c.SigningPublicKey, got.SigningPublicKey)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.Get(ctx, c.ID)
	assert.True(t, railerr.Is(err, railerr.KindNotFound))
}

func TestEmergencyRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := db.Emergencies()
	ctx := context.Background()

	now := types.Now()
	region := types.WithCenter("Riverside", 40.0, -74.0, 5)
	e := domain.NewEmergency(types.NewEmergencyId(), []domain.Need{domain.NeedShelter, domain.NeedMedical}, region, types.UrgencyHigh, 3, 1, now)

	require.NoError(t, repo.Put(ctx, e))

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Needs, got.Needs)
	assert.Equal(t, e.Urgency, got.Urgency)
	assert.Equal(t, e.NumPeople, got.NumPeople)
	assert.Equal(t, e.Status, got.Status)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	e.Resolve()
	require.NoError(t, repo.Put(ctx, e))
	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 0)
}

func TestTrustRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := db.Trust()
	ctx := context.Background()

	a, b := types.NewPersonId(), types.NewPersonId()
	edge := &domain.TrustEdge{
		Truster:       a,
		Trustee:       b,
		Level:         types.TrustVerifiedRemote,
		EstablishedAt: types.Now(),
		UpdatedAt:     types.Now(),
	}
	require.NoError(t, repo.Put(ctx, edge))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, a, all[0].Truster)
	assert.Equal(t, b, all[0].Trustee)
	assert.Equal(t, types.TrustVerifiedRemote, all[0].Level)

	require.NoError(t, repo.Delete(ctx, a, b))
	all, err = repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 0)
}

func TestMessageDedup(t *testing.T) {
	db := openTestDB(t)
	repo := db.Messages()
	ctx := context.Background()

	sender, recipient := types.NewPersonId(), types.NewPersonId()
	body := domain.MessageBody{Kind: domain.BodyText, Text: "hello"}
	m := domain.NewMessage(types.NewMessageId(), sender, recipient, body, types.Now())

	exists, err := repo.Exists(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Put(ctx, m))

	exists, err = repo.Exists(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	queued, err := repo.ListByRecipientStatus(ctx, recipient, domain.MessageDraft)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, "hello", queued[0].Body.Text)
}

func TestDestroyRemovesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "railroad.db")
	db, err := Open(ctx, path, testKey(t))
	require.NoError(t, err)

	require.NoError(t, db.Destroy())
	assert.NoFileExists(t, path)
}
