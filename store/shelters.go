package store

import (
	"context"
	"database/sql"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// ShelterRepository persists domain.Shelter records.
type ShelterRepository struct {
	db *DB
}

// Shelters constructs a ShelterRepository over db.
func (d *DB) Shelters() *ShelterRepository { return &ShelterRepository{db: d} }

// Put inserts or replaces a shelter.
func (r *ShelterRepository) Put(ctx context.Context, s *domain.Shelter) error {
	const op = "store.Shelters.Put"

	region, err := encodeRegion(op, s.Region)
	if err != nil {
		return err
	}
	capabilities, err := encodeCapabilities(op, s.Capabilities)
	if err != nil {
		return err
	}
	accommodations, err := encodeAccommodations(op, s.Accommodations)
	if err != nil {
		return err
	}

	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO safe_houses (id, operator, name, region, capabilities, capacity, current_occupancy, status, accommodations, max_stay_days, verified, notes, registered_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, region=excluded.region, capabilities=excluded.capabilities,
			capacity=excluded.capacity, current_occupancy=excluded.current_occupancy, status=excluded.status,
			accommodations=excluded.accommodations, max_stay_days=excluded.max_stay_days,
			verified=excluded.verified, notes=excluded.notes, updated_at=excluded.updated_at`,
		s.ID.Bytes(), s.Operator.Bytes(), s.Name, region, capabilities, s.Capacity, s.CurrentOccupancy,
		int(s.Status), accommodations, s.MaxStayDays, s.Verified, sealedOrNil(s.Notes),
		int64(s.RegisteredAt), int64(s.UpdatedAt),
	)
	if err != nil {
		return wrapStorageErr(op, "insert shelter", err)
	}
	return nil
}

// Get fetches a single shelter by ID.
func (r *ShelterRepository) Get(ctx context.Context, id types.ShelterId) (*domain.Shelter, error) {
	const op = "store.Shelters.Get"
	row := r.db.conn.QueryRowContext(ctx, `
		SELECT id, operator, name, region, capabilities, capacity, current_occupancy, status, accommodations, max_stay_days, verified, notes, registered_at, updated_at
		FROM safe_houses WHERE id = ?`, id.Bytes())
	s, err := scanShelter(op, row)
	if err == sql.ErrNoRows {
		return nil, railerr.New(railerr.KindNotFound, op, "shelter not found")
	}
	return s, err
}

// ListAvailable returns every shelter currently in the Available status,
// ordered by remaining capacity descending.
func (r *ShelterRepository) ListAvailable(ctx context.Context) ([]*domain.Shelter, error) {
	const op = "store.Shelters.ListAvailable"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, operator, name, region, capabilities, capacity, current_occupancy, status, accommodations, max_stay_days, verified, notes, registered_at, updated_at
		FROM safe_houses WHERE status = ? ORDER BY (capacity - current_occupancy) DESC`, int(domain.ShelterAvailable))
	if err != nil {
		return nil, wrapStorageErr(op, "query available shelters", err)
	}
	defer rows.Close()
	return scanShelters(op, rows)
}

// List returns every shelter.
func (r *ShelterRepository) List(ctx context.Context) ([]*domain.Shelter, error) {
	const op = "store.Shelters.List"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, operator, name, region, capabilities, capacity, current_occupancy, status, accommodations, max_stay_days, verified, notes, registered_at, updated_at
		FROM safe_houses`)
	if err != nil {
		return nil, wrapStorageErr(op, "query shelters", err)
	}
	defer rows.Close()
	return scanShelters(op, rows)
}

// Delete removes a shelter by ID.
func (r *ShelterRepository) Delete(ctx context.Context, id types.ShelterId) error {
	const op = "store.Shelters.Delete"
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM safe_houses WHERE id = ?`, id.Bytes()); err != nil {
		return wrapStorageErr(op, "delete shelter", err)
	}
	return nil
}

func scanShelters(op string, rows *sql.Rows) ([]*domain.Shelter, error) {
	var out []*domain.Shelter
	for rows.Next() {
		s, err := scanShelter(op, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func scanShelter(op string, row rowScanner) (*domain.Shelter, error) {
	var (
		idBytes, operatorBytes, notes                        []byte
		name, regionJSON, capabilitiesJSON, accommodationsJSON string
		capacity, currentOccupancy, status                   int
		maxStayDays                                           *int
		verified                                              bool
		registeredAt, updatedAt                               int64
	)
	if err := row.Scan(&idBytes, &operatorBytes, &name, &regionJSON, &capabilitiesJSON, &capacity, &currentOccupancy, &status, &accommodationsJSON, &maxStayDays, &verified, &notes, &registeredAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, wrapStorageErr(op, "scan shelter", err)
	}

	id, err := types.ParseShelterId(idBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse shelter id", err)
	}
	operator, err := types.ParsePersonId(operatorBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse operator id", err)
	}
	region, err := decodeRegion(op, regionJSON)
	if err != nil {
		return nil, err
	}
	capabilities, err := decodeCapabilities(op, capabilitiesJSON)
	if err != nil {
		return nil, err
	}
	accommodations, err := decodeAccommodations(op, accommodationsJSON)
	if err != nil {
		return nil, err
	}

	s := &domain.Shelter{
		ID:               id,
		Operator:         operator,
		Name:             name,
		Region:           region,
		Capabilities:     capabilities,
		Capacity:         capacity,
		CurrentOccupancy: currentOccupancy,
		Status:           domain.ShelterStatus(status),
		Accommodations:   accommodations,
		MaxStayDays:      maxStayDays,
		Verified:         verified,
		RegisteredAt:     types.CoarseTimestamp(registeredAt),
		UpdatedAt:        types.CoarseTimestamp(updatedAt),
	}
	if notes != nil {
		s.Notes = crypto.Seal(notes)
	}
	return s, nil
}
