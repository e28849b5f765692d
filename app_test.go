package railroad

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underground-railroad/railroad/railerr"
)

func TestInitRequiresDataDir(t *testing.T) {
	_, err := Init(Options{})
	require.Error(t, err)
	assert.Equal(t, railerr.KindInvalid, railerr.KindOf(err))
}

func TestSetupThenShutdownThenRecover(t *testing.T) {
	t.Setenv("RAILROAD_OVERLAY_MODE", "simulation")
	dir := t.TempDir()
	ctx := context.Background()

	app, err := Init(Options{DataDir: dir})
	require.NoError(t, err)

	id, err := app.Identity().Setup(ctx, "Alex", "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, id.IsPrimary)
	assert.NotNil(t, app.DB())

	require.NoError(t, app.Shutdown())

	app2, err := Init(Options{DataDir: dir})
	require.NoError(t, err)
	defer app2.Shutdown()

	recovered, err := app2.Identity().Recover(ctx, "correct horse battery staple")
	require.NoError(t, err)
	assert.Equal(t, id.ID, recovered.ID)
	assert.Equal(t, id.Fingerprint, recovered.Fingerprint)
}

func TestOperationsRequireActiveIdentity(t *testing.T) {
	t.Setenv("RAILROAD_OVERLAY_MODE", "simulation")
	dir := t.TempDir()
	app, err := Init(Options{DataDir: dir})
	require.NoError(t, err)
	defer app.Shutdown()

	_, err = app.requireDB()
	assert.ErrorIs(t, err, ErrNoActiveIdentity)
}
