package domain

import (
	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/types"
)

// ShelterStatus is the closed state machine a Shelter moves through.
type ShelterStatus int

const (
	ShelterAvailable ShelterStatus = iota
	ShelterOccupied
	ShelterClosed
	ShelterTemporarilyUnavailable
)

func (s ShelterStatus) String() string {
	switch s {
	case ShelterAvailable:
		return "available"
	case ShelterOccupied:
		return "occupied"
	case ShelterClosed:
		return "closed"
	case ShelterTemporarilyUnavailable:
		return "temporarily_unavailable"
	default:
		return "unknown"
	}
}

// Capability is a service a Shelter or TransportOffer can provide, or a
// service an Emergency or TransportRequest needs.
type Capability int

const (
	CapabilityShelter Capability = iota
	CapabilityFood
	CapabilityMedical
	CapabilityLegal
	CapabilityChildcare
	CapabilityOther
)

// Accommodation is a special accessibility or accommodation feature.
type Accommodation int

const (
	AccommodationWheelchairAccessible Accommodation = iota
	AccommodationPetFriendly
	AccommodationLanguageSupport
	AccommodationOther
)

// Shelter is a registered safe house with bounded occupancy.
type Shelter struct {
	ID                types.ShelterId
	Operator          types.PersonId
	Name              string
	Region            types.Region
	Capabilities      []Capability
	Capacity          int
	CurrentOccupancy  int
	Status            ShelterStatus
	Accommodations    []Accommodation
	MaxStayDays       *int
	Verified          bool
	Notes             *crypto.SealedBuffer
	RegisteredAt      types.CoarseTimestamp
	UpdatedAt         types.CoarseTimestamp
}

// NewShelter creates an Available shelter with zero occupancy.
func NewShelter(id types.ShelterId, operator types.PersonId, name string, region types.Region, capacity int, caps []Capability, now types.CoarseTimestamp) *Shelter {
	return &Shelter{
		ID:           id,
		Operator:     operator,
		Name:         name,
		Region:       region,
		Capabilities: caps,
		Capacity:     capacity,
		Status:       ShelterAvailable,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
}

// HasCapacity reports whether n additional occupants fit without
// exceeding Capacity.
func (s *Shelter) HasCapacity(n int) bool {
	return s.CurrentOccupancy+n <= s.Capacity
}

// MeetsNeeds reports whether every requested capability is present.
func (s *Shelter) MeetsNeeds(needed []Capability) bool {
	have := make(map[Capability]bool, len(s.Capabilities))
	for _, c := range s.Capabilities {
		have[c] = true
	}
	for _, n := range needed {
		if !have[n] {
			return false
		}
	}
	return true
}

// HasAccommodation reports whether acc is present among the shelter's
// accommodations.
func (s *Shelter) HasAccommodation(acc Accommodation) bool {
	for _, a := range s.Accommodations {
		if a == acc {
			return true
		}
	}
	return false
}

// UpdateOccupancy sets current occupancy and derives status: reaching
// capacity transitions to Occupied; falling below from Occupied reverts
// to Available. Status values set externally (Closed,
// TemporarilyUnavailable) are left untouched.
func (s *Shelter) UpdateOccupancy(occupancy int, now types.CoarseTimestamp) {
	s.CurrentOccupancy = occupancy
	if s.Status == ShelterClosed || s.Status == ShelterTemporarilyUnavailable {
		s.UpdatedAt = now
		return
	}
	if s.CurrentOccupancy >= s.Capacity {
		s.Status = ShelterOccupied
	} else if s.Status == ShelterOccupied {
		s.Status = ShelterAvailable
	}
	s.UpdatedAt = now
}
