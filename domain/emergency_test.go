package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/underground-railroad/railroad/types"
)

func TestNewEmergencyDefaultExpiryFromUrgency(t *testing.T) {
	now := types.Now()
	e := NewEmergency(types.NewEmergencyId(), []Need{NeedShelter}, types.NewRegion("Northeast"), types.UrgencyCritical, 3, 1, now)

	assert.Equal(t, EmergencyActive, e.Status)
	assert.Equal(t, now.Add(types.UrgencyCritical.DefaultExpiry()), e.ExpiresAt)
}

func TestEmergencyPriorityScoreIncludesImmediateDangerBonus(t *testing.T) {
	now := types.Now()
	withDanger := NewEmergency(types.NewEmergencyId(), []Need{NeedImmediateDanger}, types.NewRegion("R"), types.UrgencyLow, 1, 0, now)
	withoutDanger := NewEmergency(types.NewEmergencyId(), []Need{NeedShelter}, types.NewRegion("R"), types.UrgencyLow, 1, 0, now)

	assert.Equal(t, withoutDanger.PriorityScore(now)+5000, withDanger.PriorityScore(now))
}

func TestEmergencyPriorityScoreCapsAgeAt100Minutes(t *testing.T) {
	now := types.Now()
	e := NewEmergency(types.NewEmergencyId(), nil, types.NewRegion("R"), types.UrgencyLow, 1, 0, now)
	e.CreatedAt = now.Add(-5 * time.Hour)

	score := e.PriorityScore(now)
	assert.Equal(t, types.UrgencyLow.Score()+100, score)
}

func TestEmergencyStatusTransitions(t *testing.T) {
	now := types.Now()
	e := NewEmergency(types.NewEmergencyId(), nil, types.NewRegion("R"), types.UrgencyMedium, 1, 0, now)

	e.StartResponse()
	assert.Equal(t, EmergencyInProgress, e.Status)

	e.Resolve()
	assert.Equal(t, EmergencyResolved, e.Status)

	// Terminal: further transitions are no-ops.
	e.StartResponse()
	assert.Equal(t, EmergencyResolved, e.Status)
}

func TestResolvedEmergencyNeverExpires(t *testing.T) {
	now := types.Now()
	e := NewEmergency(types.NewEmergencyId(), nil, types.NewRegion("R"), types.UrgencyCritical, 1, 0, now)
	e.Resolve()

	future := now.Add(365 * 24 * time.Hour)
	assert.False(t, e.IsExpired(future))
}

func TestActiveEmergencyExpiresAfterDefaultWindow(t *testing.T) {
	now := types.Now()
	e := NewEmergency(types.NewEmergencyId(), nil, types.NewRegion("R"), types.UrgencyCritical, 1, 0, now)

	assert.False(t, e.IsExpired(now))
	assert.True(t, e.IsExpired(e.ExpiresAt))
}
