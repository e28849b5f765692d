package store

import (
	"context"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// TrustRepository persists domain.TrustEdge records and feeds them back
// into an in-memory trust.Graph on load.
type TrustRepository struct {
	db *DB
}

// Trust constructs a TrustRepository over db.
func (d *DB) Trust() *TrustRepository { return &TrustRepository{db: d} }

// Put inserts or replaces a trust edge.
func (r *TrustRepository) Put(ctx context.Context, e *domain.TrustEdge) error {
	const op = "store.Trust.Put"
	var introducedBy []byte
	if e.IntroducedBy != nil {
		introducedBy = e.IntroducedBy.Bytes()
	}
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO trust_relationships (truster, trustee, level, verification_method, established_at, updated_at, introduced_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(truster, trustee) DO UPDATE SET
			level=excluded.level, verification_method=excluded.verification_method,
			updated_at=excluded.updated_at, introduced_by=excluded.introduced_by`,
		e.Truster.Bytes(), e.Trustee.Bytes(), int(e.Level), e.VerificationMethod,
		int64(e.EstablishedAt), int64(e.UpdatedAt), introducedBy,
	)
	if err != nil {
		return wrapStorageErr(op, "insert trust edge", err)
	}
	return nil
}

// Delete removes the edge truster->trustee.
func (r *TrustRepository) Delete(ctx context.Context, truster, trustee types.PersonId) error {
	const op = "store.Trust.Delete"
	_, err := r.db.conn.ExecContext(ctx, `DELETE FROM trust_relationships WHERE truster = ? AND trustee = ?`, truster.Bytes(), trustee.Bytes())
	if err != nil {
		return wrapStorageErr(op, "delete trust edge", err)
	}
	return nil
}

// All returns every trust edge, for loading into a trust.Graph at startup.
func (r *TrustRepository) All(ctx context.Context) ([]*domain.TrustEdge, error) {
	const op = "store.Trust.All"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT truster, trustee, level, verification_method, established_at, updated_at, introduced_by
		FROM trust_relationships`)
	if err != nil {
		return nil, wrapStorageErr(op, "query trust edges", err)
	}
	defer rows.Close()

	var out []*domain.TrustEdge
	for rows.Next() {
		var trusterB, trusteeB, introducedByB []byte
		var level int
		var method string
		var establishedAt, updatedAt int64
		if err := rows.Scan(&trusterB, &trusteeB, &level, &method, &establishedAt, &updatedAt, &introducedByB); err != nil {
			return nil, wrapStorageErr(op, "scan trust edge", err)
		}
		truster, err := types.ParsePersonId(trusterB)
		if err != nil {
			return nil, railerr.Wrap(railerr.KindSerialization, op, "parse truster", err)
		}
		trustee, err := types.ParsePersonId(trusteeB)
		if err != nil {
			return nil, railerr.Wrap(railerr.KindSerialization, op, "parse trustee", err)
		}
		e := &domain.TrustEdge{
			Truster:            truster,
			Trustee:            trustee,
			Level:              types.TrustLevel(level),
			VerificationMethod: method,
			EstablishedAt:      types.CoarseTimestamp(establishedAt),
			UpdatedAt:          types.CoarseTimestamp(updatedAt),
		}
		if introducedByB != nil {
			pid, err := types.ParsePersonId(introducedByB)
			if err != nil {
				return nil, railerr.Wrap(railerr.KindSerialization, op, "parse introduced_by", err)
			}
			e.IntroducedBy = &pid
		}
		out = append(out, e)
	}
	return out, nil
}
