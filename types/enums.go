package types

import (
	"fmt"
	"time"
)

// TrustLevel is a totally ordered trust level between two people in the
// web of trust. Ordering matters: comparisons use the underlying
// integer values directly.
type TrustLevel int

const (
	TrustBlocked TrustLevel = iota
	TrustUnknown
	TrustIntroduced
	TrustVerifiedRemote
	TrustVerifiedInPerson
)

// String renders a TrustLevel for logs and CLI output.
func (l TrustLevel) String() string {
	switch l {
	case TrustBlocked:
		return "Blocked"
	case TrustUnknown:
		return "Unknown"
	case TrustIntroduced:
		return "Introduced"
	case TrustVerifiedRemote:
		return "VerifiedRemote"
	case TrustVerifiedInPerson:
		return "VerifiedInPerson"
	default:
		return fmt.Sprintf("TrustLevel(%d)", int(l))
	}
}

// CanSeeActivity reports whether this level is Introduced or above,
// the threshold for seeing a contact's activity.
func (l TrustLevel) CanSeeActivity() bool { return l >= TrustIntroduced }

// CanRelay reports whether this level is VerifiedRemote or above, the
// threshold for relaying intelligence reports and messages.
func (l TrustLevel) CanRelay() bool { return l >= TrustVerifiedRemote }

// Min returns the weaker (lower) of two trust levels, used to compute
// multi-hop path strength.
func Min(a, b TrustLevel) TrustLevel {
	if a < b {
		return a
	}
	return b
}

// Urgency is a totally ordered urgency level attached to emergencies,
// intelligence reports, and messages.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "Low"
	case UrgencyMedium:
		return "Medium"
	case UrgencyHigh:
		return "High"
	case UrgencyCritical:
		return "Critical"
	default:
		return fmt.Sprintf("Urgency(%d)", int(u))
	}
}

// PropagationHops returns the intelligence re-propagation hop budget for
// this urgency level: 1 hop at Low, rising to 5 at Critical.
func (u Urgency) PropagationHops() int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	case UrgencyCritical:
		return 5
	default:
		return 1
	}
}

// DefaultExpiry returns the default emergency expiry duration for this
// urgency level: 7 days at Low, down to 6 hours at Critical.
func (u Urgency) DefaultExpiry() time.Duration {
	switch u {
	case UrgencyLow:
		return 7 * 24 * time.Hour
	case UrgencyMedium:
		return 3 * 24 * time.Hour
	case UrgencyHigh:
		return 24 * time.Hour
	case UrgencyCritical:
		return 6 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Score returns the base component (urgency*1000) shared by every
// priority-score formula.
func (u Urgency) Score() int { return int(u) * 1000 }
