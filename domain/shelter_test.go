package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/underground-railroad/railroad/types"
)

// TestShelterMatchingScenario covers S3: a shelter that matches a
// request at n=3 no longer matches the identical request at n=4.
func TestShelterMatchingScenario(t *testing.T) {
	now := types.Now()
	region := types.NewRegion("Northeast")
	alpha := NewShelter(types.NewShelterId(), types.NewPersonId(), "Alpha", region, 4,
		[]Capability{CapabilityShelter, CapabilityFood, CapabilityMedical}, now)
	alpha.Accommodations = []Accommodation{AccommodationWheelchairAccessible}
	alpha.CurrentOccupancy = 1

	needed := []Capability{CapabilityShelter, CapabilityFood}

	assert.True(t, alpha.MeetsNeeds(needed))
	assert.True(t, alpha.HasAccommodation(AccommodationWheelchairAccessible))
	assert.True(t, alpha.HasCapacity(3))
	assert.False(t, alpha.HasCapacity(4))
}

func TestShelterOccupancyTransitionsToOccupiedAtCapacity(t *testing.T) {
	now := types.Now()
	s := NewShelter(types.NewShelterId(), types.NewPersonId(), "Beta", types.NewRegion("R"), 4, nil, now)

	s.UpdateOccupancy(4, now)
	assert.Equal(t, ShelterOccupied, s.Status)

	s.UpdateOccupancy(2, now)
	assert.Equal(t, ShelterAvailable, s.Status)
}

func TestShelterOccupancyLeavesClosedStatusAlone(t *testing.T) {
	now := types.Now()
	s := NewShelter(types.NewShelterId(), types.NewPersonId(), "Gamma", types.NewRegion("R"), 4, nil, now)
	s.Status = ShelterClosed

	s.UpdateOccupancy(4, now)
	assert.Equal(t, ShelterClosed, s.Status)
}

func TestShelterMeetsNeedsRequiresEveryCapability(t *testing.T) {
	now := types.Now()
	s := NewShelter(types.NewShelterId(), types.NewPersonId(), "Delta", types.NewRegion("R"), 2,
		[]Capability{CapabilityShelter}, now)

	assert.False(t, s.MeetsNeeds([]Capability{CapabilityShelter, CapabilityMedical}))
}
