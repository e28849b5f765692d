package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/underground-railroad/railroad/types"
)

// TestIntelligenceAutoVerifiesOnSecondConfirmation covers S5: a report
// auto-verifies once confirmations reach two.
func TestIntelligenceAutoVerifiesOnSecondConfirmation(t *testing.T) {
	now := types.Now()
	r := NewIntelligenceReport(types.NewIntelReportId(), types.NewPersonId(), IntelSurveillance,
		types.NewRegion("R"), "checkpoint spotted", types.UrgencyHigh, now)

	assert.Equal(t, 0, r.Confirmations)
	assert.False(t, r.Verified)

	r.AddConfirmation()
	assert.False(t, r.Verified)

	r.AddConfirmation()
	assert.Equal(t, 2, r.Confirmations)
	assert.True(t, r.Verified)
}

func TestIntelligencePropagationBudget(t *testing.T) {
	now := types.Now()
	r := NewIntelligenceReport(types.NewIntelReportId(), types.NewPersonId(), IntelDangerZone,
		types.NewRegion("R"), "danger", types.UrgencyLow, now)

	assert.Equal(t, 1, r.Urgency.PropagationHops())
	assert.True(t, r.ShouldPropagate(now))

	r.HopCount = 1
	assert.False(t, r.ShouldPropagate(now))
}

func TestIntelligenceDoesNotPropagateWhenExpired(t *testing.T) {
	now := types.Now()
	r := NewIntelligenceReport(types.NewIntelReportId(), types.NewPersonId(), IntelAllClear,
		types.NewRegion("R"), "all clear", types.UrgencyCritical, now)

	assert.False(t, r.ShouldPropagate(r.ExpiresAt))
}

func TestIntelligenceCategoryExpirySchedule(t *testing.T) {
	now := types.Now()

	enforcement := NewIntelligenceReport(types.NewIntelReportId(), types.NewPersonId(), IntelEnforcementActivity,
		types.NewRegion("R"), "", types.UrgencyCritical, now)
	assert.Equal(t, now.Add(2*time.Hour), enforcement.ExpiresAt)

	compromise := NewIntelligenceReport(types.NewIntelReportId(), types.NewPersonId(), IntelCompromise,
		types.NewRegion("R"), "", types.UrgencyLow, now)
	assert.Equal(t, now.Add(365*24*time.Hour), compromise.ExpiresAt)
}

func TestIntelligencePriorityScoreWeightsVerifiedAndDanger(t *testing.T) {
	now := types.Now()
	danger := 3
	r := &IntelligenceReport{
		Urgency:     types.UrgencyHigh,
		DangerLevel: &danger,
		Verified:    true,
		ReportedAt:  now,
	}
	score := r.PriorityScore(now)
	assert.Equal(t, types.UrgencyHigh.Score()+3*500+200+100, score)
}
