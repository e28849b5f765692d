package domain

import (
	"github.com/underground-railroad/railroad/types"
)

// TransportStatus is the closed state machine a TransportOffer or
// TransportRequest moves through.
type TransportStatus int

const (
	TransportActive TransportStatus = iota
	TransportMatched
	TransportCompleted
	TransportCancelled
)

func (s TransportStatus) String() string {
	switch s {
	case TransportActive:
		return "active"
	case TransportMatched:
		return "matched"
	case TransportCompleted:
		return "completed"
	case TransportCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// maxServiceDistanceKm bounds how far a TransportOffer's service region
// may sit from a TransportRequest endpoint and still be considered
// serviceable.
const maxServiceDistanceKm = 50.0

// TransportOffer is a standing offer to move people between regions.
type TransportOffer struct {
	ID            types.TransportId
	Operator      types.PersonId
	ServiceRegion types.Region
	Capabilities  []Capability
	Capacity      int
	Status        TransportStatus
	CreatedAt     types.CoarseTimestamp
	UpdatedAt     types.CoarseTimestamp
}

// TransportRequest is a request to be moved, naming the capabilities and
// endpoint regions needed.
type TransportRequest struct {
	ID           types.TransportId
	Requester    types.PersonId
	Endpoints    []types.Region
	Requirements []Capability
	NumPeople    int
	Status       TransportStatus
	CreatedAt    types.CoarseTimestamp
	UpdatedAt    types.CoarseTimestamp
}

// CanServe reports whether o can serve req: o must be Active, have
// capacity for req.NumPeople, have a service region within
// maxServiceDistanceKm of at least one of req's endpoints, and carry
// every capability req requires.
func (o *TransportOffer) CanServe(req *TransportRequest) bool {
	if o.Status != TransportActive {
		return false
	}
	if o.Capacity < req.NumPeople {
		return false
	}
	if !o.withinServiceDistance(req.Endpoints) {
		return false
	}
	have := make(map[Capability]bool, len(o.Capabilities))
	for _, c := range o.Capabilities {
		have[c] = true
	}
	for _, r := range req.Requirements {
		if !have[r] {
			return false
		}
	}
	return true
}

func (o *TransportOffer) withinServiceDistance(endpoints []types.Region) bool {
	for _, e := range endpoints {
		if types.WithinKm(o.ServiceRegion, e, maxServiceDistanceKm) {
			return true
		}
	}
	return false
}
