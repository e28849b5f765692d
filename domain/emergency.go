package domain

import (
	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/types"
)

// EmergencyStatus is the closed state machine an Emergency moves through.
type EmergencyStatus int

const (
	EmergencyActive EmergencyStatus = iota
	EmergencyInProgress
	EmergencyResolved
	EmergencyCancelled
	EmergencyExpired
)

func (s EmergencyStatus) String() string {
	switch s {
	case EmergencyActive:
		return "active"
	case EmergencyInProgress:
		return "in_progress"
	case EmergencyResolved:
		return "resolved"
	case EmergencyCancelled:
		return "cancelled"
	case EmergencyExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Need is a category of assistance an Emergency requests.
type Need int

const (
	NeedShelter Need = iota
	NeedFood
	NeedMedical
	NeedTransport
	NeedImmediateDanger
	NeedOther
)

// Emergency is an assistance request raised by or on behalf of a person
// in need.
type Emergency struct {
	ID             types.EmergencyId
	Requester      *types.PersonId
	Needs          []Need
	Region         types.Region
	Urgency        types.Urgency
	NumPeople      int
	NumChildren    int
	SpecialNeeds   *crypto.SealedBuffer
	Notes          *crypto.SealedBuffer
	Status         EmergencyStatus
	CreatedAt      types.CoarseTimestamp
	ExpiresAt      types.CoarseTimestamp
}

// NewEmergency creates an Active emergency whose expiry defaults from
// urgency unless overridden.
func NewEmergency(id types.EmergencyId, needs []Need, region types.Region, urgency types.Urgency, numPeople, numChildren int, now types.CoarseTimestamp) *Emergency {
	return &Emergency{
		ID:          id,
		Needs:       needs,
		Region:      region,
		Urgency:     urgency,
		NumPeople:   numPeople,
		NumChildren: numChildren,
		Status:      EmergencyActive,
		CreatedAt:   now,
		ExpiresAt:   now.Add(urgency.DefaultExpiry()),
	}
}

// hasImmediateDanger reports whether needs contains NeedImmediateDanger.
func (e *Emergency) hasImmediateDanger() bool {
	for _, n := range e.Needs {
		if n == NeedImmediateDanger {
			return true
		}
	}
	return false
}

// PriorityScore ranks Emergency records for display ordering and
// outbound mailbox sequencing: urgency dominates, then recency (capped
// at 100 minutes), with a fixed bonus for immediate danger.
func (e *Emergency) PriorityScore(now types.CoarseTimestamp) int {
	ageMinutes := int(now.Time().Sub(e.CreatedAt.Time()).Minutes())
	if ageMinutes > 100 {
		ageMinutes = 100
	}
	if ageMinutes < 0 {
		ageMinutes = 0
	}
	score := e.Urgency.Score() + ageMinutes
	if e.hasImmediateDanger() {
		score += 5000
	}
	return score
}

// IsExpired reports whether now is at or past ExpiresAt for a
// non-terminal emergency; Resolved records are never considered expired.
func (e *Emergency) IsExpired(now types.CoarseTimestamp) bool {
	if e.Status == EmergencyResolved {
		return false
	}
	return !now.Before(e.ExpiresAt)
}

// transition applies a status change; callers are expected to check
// validity themselves since the state machine here has no forbidden
// transitions beyond "do nothing once terminal".
func (e *Emergency) transition(next EmergencyStatus) {
	if e.Status == EmergencyResolved || e.Status == EmergencyCancelled || e.Status == EmergencyExpired {
		return
	}
	e.Status = next
}

// StartResponse moves an Active emergency to InProgress.
func (e *Emergency) StartResponse() { e.transition(EmergencyInProgress) }

// Resolve marks the emergency handled.
func (e *Emergency) Resolve() { e.transition(EmergencyResolved) }

// Cancel marks the emergency withdrawn.
func (e *Emergency) Cancel() { e.transition(EmergencyCancelled) }

// Expire marks the emergency lapsed by time.
func (e *Emergency) Expire() { e.transition(EmergencyExpired) }
