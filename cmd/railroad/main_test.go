package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

func TestExitCodeMapsEveryDocumentedKind(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(railerr.New(railerr.KindInvalid, "op", "bad")))
	assert.Equal(t, 1, exitCode(railerr.New(railerr.KindNotFound, "op", "missing")))
	assert.Equal(t, 2, exitCode(railerr.New(railerr.KindNetwork, "op", "down")))
	assert.Equal(t, 2, exitCode(railerr.New(railerr.KindTimeout, "op", "slow")))
	assert.Equal(t, 3, exitCode(railerr.New(railerr.KindCrypto, "op", "bad key")))
	assert.Equal(t, 4, exitCode(railerr.New(railerr.KindStorage, "op", "disk")))
	assert.Equal(t, 70, exitCode(railerr.New(railerr.KindInternal, "op", "unreachable")))
}

func TestParseNeedAcceptsKnownNames(t *testing.T) {
	n, err := parseNeed("Danger")
	require.NoError(t, err)
	assert.Equal(t, domain.NeedImmediateDanger, n)

	_, err = parseNeed("bogus")
	require.Error(t, err)
	assert.Equal(t, railerr.KindInvalid, railerr.KindOf(err))
}

func TestParseUrgencyAcceptsKnownNames(t *testing.T) {
	u, err := parseUrgency("critical")
	require.NoError(t, err)
	assert.Equal(t, types.UrgencyCritical, u)

	_, err = parseUrgency("urgent")
	require.Error(t, err)
}

func TestParseCapabilitiesSplitsCommaList(t *testing.T) {
	caps, err := parseCapabilities("shelter, medical,legal")
	require.NoError(t, err)
	assert.Equal(t, []domain.Capability{domain.CapabilityShelter, domain.CapabilityMedical, domain.CapabilityLegal}, caps)

	empty, err := parseCapabilities("")
	require.NoError(t, err)
	assert.Nil(t, empty)
}
