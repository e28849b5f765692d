package store

import (
	"context"
	"database/sql"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// transportKind discriminates the two rows sharing the transportation
// table: an offer (one service region) or a request (multiple endpoints).
type transportKind int

const (
	transportKindOffer transportKind = iota
	transportKindRequest
)

// TransportRepository persists domain.TransportOffer and
// domain.TransportRequest records in a single shared table.
type TransportRepository struct {
	db *DB
}

// Transportation constructs a TransportRepository over db.
func (d *DB) Transportation() *TransportRepository { return &TransportRepository{db: d} }

// PutOffer inserts or replaces a transport offer.
func (r *TransportRepository) PutOffer(ctx context.Context, o *domain.TransportOffer) error {
	const op = "store.Transportation.PutOffer"
	region, err := encodeRegions(op, []types.Region{o.ServiceRegion})
	if err != nil {
		return err
	}
	capabilities, err := encodeCapabilities(op, o.Capabilities)
	if err != nil {
		return err
	}
	return r.put(ctx, op, o.ID, transportKindOffer, o.Operator, region, capabilities, o.Capacity, int(o.Status), o.CreatedAt, o.UpdatedAt)
}

// PutRequest inserts or replaces a transport request.
func (r *TransportRepository) PutRequest(ctx context.Context, req *domain.TransportRequest) error {
	const op = "store.Transportation.PutRequest"
	region, err := encodeRegions(op, req.Endpoints)
	if err != nil {
		return err
	}
	capabilities, err := encodeCapabilities(op, req.Requirements)
	if err != nil {
		return err
	}
	return r.put(ctx, op, req.ID, transportKindRequest, req.Requester, region, capabilities, req.NumPeople, int(req.Status), req.CreatedAt, req.UpdatedAt)
}

func (r *TransportRepository) put(ctx context.Context, op string, id types.TransportId, kind transportKind, person types.PersonId, regionData, capabilities string, capacityOrPeople, status int, createdAt, updatedAt types.CoarseTimestamp) error {
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO transportation (id, kind, person, region_data, capabilities, capacity_people, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			region_data=excluded.region_data, capabilities=excluded.capabilities,
			capacity_people=excluded.capacity_people, status=excluded.status, updated_at=excluded.updated_at`,
		id.Bytes(), int(kind), person.Bytes(), regionData, capabilities, capacityOrPeople, status, int64(createdAt), int64(updatedAt),
	)
	if err != nil {
		return wrapStorageErr(op, "insert transportation record", err)
	}
	return nil
}

// ListActiveOffers returns every active transport offer.
func (r *TransportRepository) ListActiveOffers(ctx context.Context) ([]*domain.TransportOffer, error) {
	const op = "store.Transportation.ListActiveOffers"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, person, region_data, capabilities, capacity_people, status, created_at, updated_at
		FROM transportation WHERE kind = ? AND status = ?`, int(transportKindOffer), int(domain.TransportActive))
	if err != nil {
		return nil, wrapStorageErr(op, "query transport offers", err)
	}
	defer rows.Close()

	var out []*domain.TransportOffer
	for rows.Next() {
		o, err := scanOffer(op, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// ListActiveRequests returns every active transport request.
func (r *TransportRepository) ListActiveRequests(ctx context.Context) ([]*domain.TransportRequest, error) {
	const op = "store.Transportation.ListActiveRequests"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, person, region_data, capabilities, capacity_people, status, created_at, updated_at
		FROM transportation WHERE kind = ? AND status = ?`, int(transportKindRequest), int(domain.TransportActive))
	if err != nil {
		return nil, wrapStorageErr(op, "query transport requests", err)
	}
	defer rows.Close()

	var out []*domain.TransportRequest
	for rows.Next() {
		req, err := scanRequest(op, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// Delete removes a transportation record by ID, regardless of kind.
func (r *TransportRepository) Delete(ctx context.Context, id types.TransportId) error {
	const op = "store.Transportation.Delete"
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM transportation WHERE id = ?`, id.Bytes()); err != nil {
		return wrapStorageErr(op, "delete transportation record", err)
	}
	return nil
}

func scanOffer(op string, row rowScanner) (*domain.TransportOffer, error) {
	var (
		idBytes, personBytes                 []byte
		regionJSON, capabilitiesJSON          string
		capacity, status                      int
		createdAt, updatedAt                  int64
	)
	if err := row.Scan(&idBytes, &personBytes, &regionJSON, &capabilitiesJSON, &capacity, &status, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, wrapStorageErr(op, "scan transport offer", err)
	}
	id, err := types.ParseTransportId(idBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse transport id", err)
	}
	operator, err := types.ParsePersonId(personBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse operator id", err)
	}
	regions, err := decodeRegions(op, regionJSON)
	if err != nil {
		return nil, err
	}
	capabilities, err := decodeCapabilities(op, capabilitiesJSON)
	if err != nil {
		return nil, err
	}
	var region types.Region
	if len(regions) > 0 {
		region = regions[0]
	}
	return &domain.TransportOffer{
		ID:            id,
		Operator:      operator,
		ServiceRegion: region,
		Capabilities:  capabilities,
		Capacity:      capacity,
		Status:        domain.TransportStatus(status),
		CreatedAt:     types.CoarseTimestamp(createdAt),
		UpdatedAt:     types.CoarseTimestamp(updatedAt),
	}, nil
}

func scanRequest(op string, row rowScanner) (*domain.TransportRequest, error) {
	var (
		idBytes, personBytes         []byte
		regionJSON, capabilitiesJSON string
		numPeople, status            int
		createdAt, updatedAt         int64
	)
	if err := row.Scan(&idBytes, &personBytes, &regionJSON, &capabilitiesJSON, &numPeople, &status, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, wrapStorageErr(op, "scan transport request", err)
	}
	id, err := types.ParseTransportId(idBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse transport id", err)
	}
	requester, err := types.ParsePersonId(personBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse requester id", err)
	}
	endpoints, err := decodeRegions(op, regionJSON)
	if err != nil {
		return nil, err
	}
	requirements, err := decodeCapabilities(op, capabilitiesJSON)
	if err != nil {
		return nil, err
	}
	return &domain.TransportRequest{
		ID:           id,
		Requester:    requester,
		Endpoints:    endpoints,
		Requirements: requirements,
		NumPeople:    numPeople,
		Status:       domain.TransportStatus(status),
		CreatedAt:    types.CoarseTimestamp(createdAt),
		UpdatedAt:    types.CoarseTimestamp(updatedAt),
	}, nil
}
