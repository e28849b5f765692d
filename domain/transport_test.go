package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/underground-railroad/railroad/types"
)

func TestTransportOfferCanServeWithinDistanceAndCapacity(t *testing.T) {
	now := types.Now()
	origin := types.WithCenter("Origin", 40.0, -74.0, 5)
	destination := types.WithCenter("Destination", 40.02, -74.0, 5) // ~2km away

	offer := &TransportOffer{
		ID:            types.NewTransportId(),
		Operator:      types.NewPersonId(),
		ServiceRegion: origin,
		Capabilities:  []Capability{CapabilityMedical},
		Capacity:      4,
		Status:        TransportActive,
		CreatedAt:     now,
	}
	req := &TransportRequest{
		ID:           types.NewTransportId(),
		Requester:    types.NewPersonId(),
		Endpoints:    []types.Region{destination},
		Requirements: []Capability{CapabilityMedical},
		NumPeople:    3,
		Status:       TransportActive,
		CreatedAt:    now,
	}

	assert.True(t, offer.CanServe(req))
}

func TestTransportOfferRejectsInsufficientCapacity(t *testing.T) {
	now := types.Now()
	region := types.WithCenter("R", 40.0, -74.0, 5)

	offer := &TransportOffer{Status: TransportActive, Capacity: 2, ServiceRegion: region, CreatedAt: now}
	req := &TransportRequest{Endpoints: []types.Region{region}, NumPeople: 3, CreatedAt: now}

	assert.False(t, offer.CanServe(req))
}

func TestTransportOfferRejectsMissingCapability(t *testing.T) {
	now := types.Now()
	region := types.WithCenter("R", 40.0, -74.0, 5)

	offer := &TransportOffer{
		Status: TransportActive, Capacity: 4, ServiceRegion: region,
		Capabilities: []Capability{CapabilityFood}, CreatedAt: now,
	}
	req := &TransportRequest{
		Endpoints: []types.Region{region}, NumPeople: 1,
		Requirements: []Capability{CapabilityMedical}, CreatedAt: now,
	}

	assert.False(t, offer.CanServe(req))
}

func TestTransportOfferRejectsOutOfRangeEndpoint(t *testing.T) {
	now := types.Now()
	nearby := types.WithCenter("Near", 40.0, -74.0, 0)
	farAway := types.WithCenter("Far", 45.0, -70.0, 0) // hundreds of km away

	offer := &TransportOffer{Status: TransportActive, Capacity: 4, ServiceRegion: nearby, CreatedAt: now}
	req := &TransportRequest{Endpoints: []types.Region{farAway}, NumPeople: 1, CreatedAt: now}

	assert.False(t, offer.CanServe(req))
}

func TestTransportOfferRejectsInactiveStatus(t *testing.T) {
	now := types.Now()
	region := types.WithCenter("R", 40.0, -74.0, 5)

	offer := &TransportOffer{Status: TransportCompleted, Capacity: 4, ServiceRegion: region, CreatedAt: now}
	req := &TransportRequest{Endpoints: []types.Region{region}, NumPeople: 1, CreatedAt: now}

	assert.False(t, offer.CanServe(req))
}
