package domain

import (
	"time"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/types"
)

// IntelCategory classifies an IntelligenceReport, governing its default
// expiry.
type IntelCategory int

const (
	IntelEnforcementActivity IntelCategory = iota
	IntelSurveillance
	IntelDangerZone
	IntelResource
	IntelSafeRoute
	IntelCompromise
	IntelAllClear
	IntelOther
)

// defaultExpiry returns the default expiry duration for category at the
// given urgency, per the category-specific schedule.
func (c IntelCategory) defaultExpiry(u types.Urgency) time.Duration {
	switch c {
	case IntelEnforcementActivity:
		switch u {
		case types.UrgencyCritical:
			return 2 * time.Hour
		case types.UrgencyHigh:
			return 6 * time.Hour
		default:
			return 12 * time.Hour
		}
	case IntelSurveillance, IntelDangerZone:
		return 3 * 24 * time.Hour
	case IntelResource, IntelSafeRoute:
		return 30 * 24 * time.Hour
	case IntelCompromise:
		return 365 * 24 * time.Hour
	case IntelAllClear:
		return 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// IntelligenceReport is a situational report shared and propagated
// across the trust graph.
type IntelligenceReport struct {
	ID           types.IntelReportId
	Reporter     types.PersonId
	Category     IntelCategory
	DangerLevel  *int
	Region       types.Region
	Summary      string
	Details      *crypto.SealedBuffer
	Urgency      types.Urgency
	ReportedAt   types.CoarseTimestamp
	ExpiresAt    types.CoarseTimestamp
	HopCount     int
	Verified     bool
	Confirmations int
}

// NewIntelligenceReport creates an unverified report with zero hops and
// zero confirmations, with ExpiresAt derived from category and urgency.
func NewIntelligenceReport(id types.IntelReportId, reporter types.PersonId, category IntelCategory, region types.Region, summary string, urgency types.Urgency, now types.CoarseTimestamp) *IntelligenceReport {
	return &IntelligenceReport{
		ID:         id,
		Reporter:   reporter,
		Category:   category,
		Region:     region,
		Summary:    summary,
		Urgency:    urgency,
		ReportedAt: now,
		ExpiresAt:  now.Add(category.defaultExpiry(urgency)),
	}
}

// AddConfirmation increments Confirmations and auto-verifies the report
// once it reaches two.
func (r *IntelligenceReport) AddConfirmation() {
	r.Confirmations++
	if r.Confirmations >= 2 {
		r.Verified = true
	}
}

// IsExpired reports whether now is at or past ExpiresAt.
func (r *IntelligenceReport) IsExpired(now types.CoarseTimestamp) bool {
	return !now.Before(r.ExpiresAt)
}

// ShouldPropagate reports whether this report should be re-sent on
// receipt: not expired and still within its urgency's propagation-hop
// budget.
func (r *IntelligenceReport) ShouldPropagate(now types.CoarseTimestamp) bool {
	return !r.IsExpired(now) && r.HopCount < r.Urgency.PropagationHops()
}

// dangerLevelScore returns DangerLevel or zero if unset.
func (r *IntelligenceReport) dangerLevelScore() int {
	if r.DangerLevel == nil {
		return 0
	}
	return *r.DangerLevel
}

// PriorityScore ranks IntelligenceReport records for display and
// propagation sequencing.
func (r *IntelligenceReport) PriorityScore(now types.CoarseTimestamp) int {
	score := r.Urgency.Score() + r.dangerLevelScore()*500
	if r.Verified {
		score += 200
	}
	ageHours := int(now.Time().Sub(r.ReportedAt.Time()).Hours())
	remaining := 100 - ageHours
	if remaining > 0 {
		score += remaining
	}
	return score
}
