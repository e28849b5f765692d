package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/underground-railroad/railroad/types"
)

// TestFindPathMultiHopStrength covers S4: Alice->Bob->Charlie->David with
// descending trust levels, expecting the weakest-link strength.
func TestFindPathMultiHopStrength(t *testing.T) {
	alice, bob, charlie, david := types.NewPersonId(), types.NewPersonId(), types.NewPersonId(), types.NewPersonId()

	g := NewGraph()
	g.AddTrust(alice, bob, types.TrustVerifiedInPerson)
	g.AddTrust(bob, charlie, types.TrustVerifiedRemote)
	g.AddTrust(charlie, david, types.TrustIntroduced)

	path := g.FindPath(alice, david, 5)
	require.NotNil(t, path)
	assert.Equal(t, []types.PersonId{alice, bob, charlie, david}, path.Nodes)
	assert.Equal(t, 3, path.Hops)
	assert.Equal(t, types.TrustIntroduced, path.Strength)
}

func TestFindPathDirectEdgeIsOneHop(t *testing.T) {
	a, b := types.NewPersonId(), types.NewPersonId()
	g := NewGraph()
	g.AddTrust(a, b, types.TrustVerifiedRemote)

	path := g.FindPath(a, b, 5)
	require.NotNil(t, path)
	assert.Equal(t, 1, path.Hops)
	assert.Equal(t, types.TrustVerifiedRemote, path.Strength)
}

func TestFindPathRespectsMaxHops(t *testing.T) {
	a, b, c := types.NewPersonId(), types.NewPersonId(), types.NewPersonId()
	g := NewGraph()
	g.AddTrust(a, b, types.TrustIntroduced)
	g.AddTrust(b, c, types.TrustIntroduced)

	assert.Nil(t, g.FindPath(a, c, 1))
	assert.NotNil(t, g.FindPath(a, c, 2))
}

func TestFindPathNoPathReturnsNil(t *testing.T) {
	a, b := types.NewPersonId(), types.NewPersonId()
	g := NewGraph()
	assert.Nil(t, g.FindPath(a, b, 5))
}

// TestPathCacheInvalidatedOnMutation covers property 10: no cache hit
// precedes a recomputation after add_trust/remove_trust.
func TestPathCacheInvalidatedOnMutation(t *testing.T) {
	a, b, c := types.NewPersonId(), types.NewPersonId(), types.NewPersonId()
	g := NewGraph()
	g.AddTrust(a, b, types.TrustIntroduced)
	g.AddTrust(b, c, types.TrustIntroduced)

	first := g.FindPath(a, c, 5)
	require.NotNil(t, first)
	assert.Equal(t, 2, first.Hops)

	// A direct, stronger edge should now win as the shortest path.
	g.AddTrust(a, c, types.TrustVerifiedInPerson)

	second := g.FindPath(a, c, 5)
	require.NotNil(t, second)
	assert.Equal(t, 1, second.Hops)
	assert.Equal(t, types.TrustVerifiedInPerson, second.Strength)
}

func TestPathCacheInvalidatedOnRemoval(t *testing.T) {
	a, b := types.NewPersonId(), types.NewPersonId()
	g := NewGraph()
	g.AddTrust(a, b, types.TrustIntroduced)
	require.NotNil(t, g.FindPath(a, b, 5))

	g.RemoveTrust(a, b)
	assert.Nil(t, g.FindPath(a, b, 5))
}

func TestGetTrustedAndGetTrusters(t *testing.T) {
	a, b, c := types.NewPersonId(), types.NewPersonId(), types.NewPersonId()
	g := NewGraph()
	g.AddTrust(a, b, types.TrustIntroduced)
	g.AddTrust(c, b, types.TrustVerifiedRemote)

	trusted := g.GetTrusted(a)
	assert.Equal(t, types.TrustIntroduced, trusted[b])

	trusters := g.GetTrusters(b)
	assert.Equal(t, types.TrustIntroduced, trusters[a])
	assert.Equal(t, types.TrustVerifiedRemote, trusters[c])
}

func TestGetNetworkExcludesSelfAndRespectsHops(t *testing.T) {
	a, b, c := types.NewPersonId(), types.NewPersonId(), types.NewPersonId()
	g := NewGraph()
	g.AddTrust(a, b, types.TrustIntroduced)
	g.AddTrust(b, c, types.TrustIntroduced)

	oneHop := g.GetNetwork(a, 1)
	require.Len(t, oneHop, 1)
	assert.Equal(t, b, oneHop[0].Peer)

	twoHop := g.GetNetwork(a, 2)
	require.Len(t, twoHop, 2)
	for _, m := range twoHop {
		assert.NotEqual(t, a, m.Peer)
	}
}

func TestStatsCountsNodesEdgesAndHistogram(t *testing.T) {
	a, b, c := types.NewPersonId(), types.NewPersonId(), types.NewPersonId()
	g := NewGraph()
	g.AddTrust(a, b, types.TrustIntroduced)
	g.AddTrust(a, c, types.TrustVerifiedRemote)

	stats := g.Stats()
	assert.Equal(t, 3, stats.NodeCount)
	assert.Equal(t, 2, stats.EdgeCount)
	assert.Equal(t, 1, stats.LevelHistogram[types.TrustIntroduced])
	assert.Equal(t, 1, stats.LevelHistogram[types.TrustVerifiedRemote])
	assert.InDelta(t, 2.0/3.0, stats.AvgOutDegree, 0.001)
}
