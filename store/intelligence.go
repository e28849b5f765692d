package store

import (
	"context"
	"database/sql"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// IntelligenceRepository persists domain.IntelligenceReport records.
type IntelligenceRepository struct {
	db *DB
}

// Intelligence constructs an IntelligenceRepository over db.
func (d *DB) Intelligence() *IntelligenceRepository { return &IntelligenceRepository{db: d} }

// Put inserts or replaces an intelligence report.
func (r *IntelligenceRepository) Put(ctx context.Context, rep *domain.IntelligenceReport) error {
	const op = "store.Intelligence.Put"

	region, err := encodeRegion(op, rep.Region)
	if err != nil {
		return err
	}
	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO intelligence (id, reporter, category, danger_level, region, summary, details, urgency, reported_at, expires_at, hop_count, verified, confirmations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			danger_level=excluded.danger_level, summary=excluded.summary, details=excluded.details,
			hop_count=excluded.hop_count, verified=excluded.verified, confirmations=excluded.confirmations`,
		rep.ID.Bytes(), rep.Reporter.Bytes(), int(rep.Category), rep.DangerLevel, region, rep.Summary,
		sealedOrNil(rep.Details), int(rep.Urgency), int64(rep.ReportedAt), int64(rep.ExpiresAt),
		rep.HopCount, rep.Verified, rep.Confirmations,
	)
	if err != nil {
		return wrapStorageErr(op, "insert intelligence report", err)
	}
	return nil
}

// Get fetches a single report by ID.
func (r *IntelligenceRepository) Get(ctx context.Context, id types.IntelReportId) (*domain.IntelligenceReport, error) {
	const op = "store.Intelligence.Get"
	row := r.db.conn.QueryRowContext(ctx, `
		SELECT id, reporter, category, danger_level, region, summary, details, urgency, reported_at, expires_at, hop_count, verified, confirmations
		FROM intelligence WHERE id = ?`, id.Bytes())
	rep, err := scanIntelligence(op, row)
	if err == sql.ErrNoRows {
		return nil, railerr.New(railerr.KindNotFound, op, "intelligence report not found")
	}
	return rep, err
}

// ListUnexpired returns every report not yet past expiry as of now,
// ordered by urgency descending.
func (r *IntelligenceRepository) ListUnexpired(ctx context.Context, now types.CoarseTimestamp) ([]*domain.IntelligenceReport, error) {
	const op = "store.Intelligence.ListUnexpired"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, reporter, category, danger_level, region, summary, details, urgency, reported_at, expires_at, hop_count, verified, confirmations
		FROM intelligence WHERE expires_at > ? ORDER BY urgency DESC`, int64(now))
	if err != nil {
		return nil, wrapStorageErr(op, "query unexpired reports", err)
	}
	defer rows.Close()
	return scanIntelligenceReports(op, rows)
}

// DeleteExpired removes every report at or past expiry as of now, returning
// the number of rows removed.
func (r *IntelligenceRepository) DeleteExpired(ctx context.Context, now types.CoarseTimestamp) (int64, error) {
	const op = "store.Intelligence.DeleteExpired"
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM intelligence WHERE expires_at <= ?`, int64(now))
	if err != nil {
		return 0, wrapStorageErr(op, "delete expired reports", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapStorageErr(op, "count deleted reports", err)
	}
	return n, nil
}

func scanIntelligenceReports(op string, rows *sql.Rows) ([]*domain.IntelligenceReport, error) {
	var out []*domain.IntelligenceReport
	for rows.Next() {
		rep, err := scanIntelligence(op, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, nil
}

func scanIntelligence(op string, row rowScanner) (*domain.IntelligenceReport, error) {
	var (
		idBytes, reporterBytes, details []byte
		category                        int
		dangerLevel                     *int
		regionJSON, summary              string
		urgency, hopCount, confirmations int
		reportedAt, expiresAt            int64
		verified                         bool
	)
	if err := row.Scan(&idBytes, &reporterBytes, &category, &dangerLevel, &regionJSON, &summary, &details, &urgency, &reportedAt, &expiresAt, &hopCount, &verified, &confirmations); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, wrapStorageErr(op, "scan intelligence report", err)
	}

	id, err := types.ParseIntelReportId(idBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse report id", err)
	}
	reporter, err := types.ParsePersonId(reporterBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse reporter id", err)
	}
	region, err := decodeRegion(op, regionJSON)
	if err != nil {
		return nil, err
	}

	rep := &domain.IntelligenceReport{
		ID:            id,
		Reporter:      reporter,
		Category:      domain.IntelCategory(category),
		DangerLevel:   dangerLevel,
		Region:        region,
		Summary:       summary,
		Urgency:       types.Urgency(urgency),
		ReportedAt:    types.CoarseTimestamp(reportedAt),
		ExpiresAt:     types.CoarseTimestamp(expiresAt),
		HopCount:      hopCount,
		Verified:      verified,
		Confirmations: confirmations,
	}
	if details != nil {
		rep.Details = crypto.Seal(details)
	}
	return rep, nil
}
