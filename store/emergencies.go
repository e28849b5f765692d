package store

import (
	"context"
	"database/sql"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// EmergencyRepository persists domain.Emergency records.
type EmergencyRepository struct {
	db *DB
}

// Emergencies constructs an EmergencyRepository over db.
func (d *DB) Emergencies() *EmergencyRepository { return &EmergencyRepository{db: d} }

// Put inserts or replaces an emergency.
func (r *EmergencyRepository) Put(ctx context.Context, e *domain.Emergency) error {
	const op = "store.Emergencies.Put"

	needs, err := encodeNeeds(op, e.Needs)
	if err != nil {
		return err
	}
	region, err := encodeRegion(op, e.Region)
	if err != nil {
		return err
	}
	var requester []byte
	if e.Requester != nil {
		requester = e.Requester.Bytes()
	}

	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO emergencies (id, requester, needs, region, urgency, num_people, num_children, special_needs, notes, status, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			needs=excluded.needs, region=excluded.region, urgency=excluded.urgency,
			num_people=excluded.num_people, num_children=excluded.num_children,
			special_needs=excluded.special_needs, notes=excluded.notes, status=excluded.status,
			expires_at=excluded.expires_at`,
		e.ID.Bytes(), requester, needs, region, int(e.Urgency), e.NumPeople, e.NumChildren,
		sealedOrNil(e.SpecialNeeds), sealedOrNil(e.Notes), int(e.Status), int64(e.CreatedAt), int64(e.ExpiresAt),
	)
	if err != nil {
		return wrapStorageErr(op, "insert emergency", err)
	}
	return nil
}

// Get fetches a single emergency by ID.
func (r *EmergencyRepository) Get(ctx context.Context, id types.EmergencyId) (*domain.Emergency, error) {
	const op = "store.Emergencies.Get"
	row := r.db.conn.QueryRowContext(ctx, `
		SELECT id, requester, needs, region, urgency, num_people, num_children, special_needs, notes, status, created_at, expires_at
		FROM emergencies WHERE id = ?`, id.Bytes())
	e, err := scanEmergency(op, row)
	if err == sql.ErrNoRows {
		return nil, railerr.New(railerr.KindNotFound, op, "emergency not found")
	}
	return e, err
}

// ListActive returns every emergency in the Active status, ordered by
// urgency descending then creation time ascending.
func (r *EmergencyRepository) ListActive(ctx context.Context) ([]*domain.Emergency, error) {
	const op = "store.Emergencies.ListActive"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, requester, needs, region, urgency, num_people, num_children, special_needs, notes, status, created_at, expires_at
		FROM emergencies WHERE status = ? ORDER BY urgency DESC, created_at ASC`, int(domain.EmergencyActive))
	if err != nil {
		return nil, wrapStorageErr(op, "query active emergencies", err)
	}
	defer rows.Close()
	return scanEmergencies(op, rows)
}

// List returns every emergency.
func (r *EmergencyRepository) List(ctx context.Context) ([]*domain.Emergency, error) {
	const op = "store.Emergencies.List"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, requester, needs, region, urgency, num_people, num_children, special_needs, notes, status, created_at, expires_at
		FROM emergencies`)
	if err != nil {
		return nil, wrapStorageErr(op, "query emergencies", err)
	}
	defer rows.Close()
	return scanEmergencies(op, rows)
}

// Delete removes an emergency by ID.
func (r *EmergencyRepository) Delete(ctx context.Context, id types.EmergencyId) error {
	const op = "store.Emergencies.Delete"
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM emergencies WHERE id = ?`, id.Bytes()); err != nil {
		return wrapStorageErr(op, "delete emergency", err)
	}
	return nil
}

func scanEmergencies(op string, rows *sql.Rows) ([]*domain.Emergency, error) {
	var out []*domain.Emergency
	for rows.Next() {
		e, err := scanEmergency(op, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func scanEmergency(op string, row rowScanner) (*domain.Emergency, error) {
	var (
		idBytes, requesterBytes, specialNeeds, notes []byte
		needsJSON, regionJSON                        string
		urgency, numPeople, numChildren, status      int
		createdAt, expiresAt                         int64
	)
	if err := row.Scan(&idBytes, &requesterBytes, &needsJSON, &regionJSON, &urgency, &numPeople, &numChildren, &specialNeeds, &notes, &status, &createdAt, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, wrapStorageErr(op, "scan emergency", err)
	}

	id, err := types.ParseEmergencyId(idBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse emergency id", err)
	}
	needs, err := decodeNeeds(op, needsJSON)
	if err != nil {
		return nil, err
	}
	region, err := decodeRegion(op, regionJSON)
	if err != nil {
		return nil, err
	}

	e := &domain.Emergency{
		ID:          id,
		Needs:       needs,
		Region:      region,
		Urgency:     types.Urgency(urgency),
		NumPeople:   numPeople,
		NumChildren: numChildren,
		Status:      domain.EmergencyStatus(status),
		CreatedAt:   types.CoarseTimestamp(createdAt),
		ExpiresAt:   types.CoarseTimestamp(expiresAt),
	}
	if requesterBytes != nil {
		pid, err := types.ParsePersonId(requesterBytes)
		if err != nil {
			return nil, railerr.Wrap(railerr.KindSerialization, op, "parse requester", err)
		}
		e.Requester = &pid
	}
	if specialNeeds != nil {
		e.SpecialNeeds = crypto.Seal(specialNeeds)
	}
	if notes != nil {
		e.Notes = crypto.Seal(notes)
	}
	return e, nil
}
