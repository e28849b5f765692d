package store

import (
	"context"
	"database/sql"

	"github.com/underground-railroad/railroad/crypto"
	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// IdentityRepository persists the local domain.Identity records (almost
// always exactly one primary identity, occasionally more for personas).
type IdentityRepository struct {
	db *DB
}

// Identities constructs an IdentityRepository over db.
func (d *DB) Identities() *IdentityRepository { return &IdentityRepository{db: d} }

// Put inserts or replaces an identity, including its private key
// material — the page cipher is this table's only confidentiality
// boundary, so callers must not additionally log these columns.
func (r *IdentityRepository) Put(ctx context.Context, id *domain.Identity) error {
	const op = "store.Identities.Put"
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO identity (id, name, signing_seed, hybrid_classical_priv, hybrid_classical_pub, hybrid_lattice_priv, hybrid_lattice_pub, fingerprint, created_at, is_primary, mailbox_descriptor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, is_primary=excluded.is_primary, mailbox_descriptor=excluded.mailbox_descriptor`,
		id.ID.Bytes(), id.Name, id.Signing.Seed[:], id.Hybrid.ClassicalPrivate[:], id.Hybrid.ClassicalPublic[:],
		id.Hybrid.LatticePrivate, id.Hybrid.LatticePublic,
		id.Fingerprint[:], int64(id.CreatedAt), id.IsPrimary, id.MailboxDescriptor,
	)
	if err != nil {
		return wrapStorageErr(op, "insert identity", err)
	}
	return nil
}

// GetPrimary fetches the identity flagged primary.
func (r *IdentityRepository) GetPrimary(ctx context.Context) (*domain.Identity, error) {
	const op = "store.Identities.GetPrimary"
	row := r.db.conn.QueryRowContext(ctx, `
		SELECT id, name, signing_seed, hybrid_classical_priv, hybrid_classical_pub, hybrid_lattice_priv, hybrid_lattice_pub, fingerprint, created_at, is_primary, mailbox_descriptor
		FROM identity WHERE is_primary = 1 LIMIT 1`)
	id, err := scanIdentity(op, row)
	if err == sql.ErrNoRows {
		return nil, railerr.New(railerr.KindNotFound, op, "no primary identity")
	}
	return id, err
}

// SetPrimary moves the primary flag to id in a single transaction: every
// other identity's flag is cleared before the target's is set, so at no
// point do two rows read as primary.
func (r *IdentityRepository) SetPrimary(ctx context.Context, id types.PersonId) error {
	const op = "store.Identities.SetPrimary"
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return wrapStorageErr(op, "begin transaction", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE identity SET is_primary = 0`); err != nil {
		tx.Rollback()
		return wrapStorageErr(op, "clear prior primaries", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE identity SET is_primary = 1 WHERE id = ?`, id.Bytes())
	if err != nil {
		tx.Rollback()
		return wrapStorageErr(op, "set new primary", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		tx.Rollback()
		return wrapStorageErr(op, "check rows affected", err)
	} else if n == 0 {
		tx.Rollback()
		return railerr.New(railerr.KindNotFound, op, "unknown identity")
	}
	if err := tx.Commit(); err != nil {
		return wrapStorageErr(op, "commit transaction", err)
	}
	return nil
}

// Delete removes an identity, refusing to delete the primary one: the
// caller must SetPrimary onto another identity first.
func (r *IdentityRepository) Delete(ctx context.Context, id types.PersonId) error {
	const op = "store.Identities.Delete"
	var isPrimary bool
	row := r.db.conn.QueryRowContext(ctx, `SELECT is_primary FROM identity WHERE id = ?`, id.Bytes())
	if err := row.Scan(&isPrimary); err != nil {
		if err == sql.ErrNoRows {
			return railerr.New(railerr.KindNotFound, op, "unknown identity")
		}
		return wrapStorageErr(op, "check primary flag", err)
	}
	if isPrimary {
		return railerr.New(railerr.KindIdentity, op, "cannot delete primary identity")
	}
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM identity WHERE id = ?`, id.Bytes()); err != nil {
		return wrapStorageErr(op, "delete identity", err)
	}
	return nil
}

// List returns every stored identity.
func (r *IdentityRepository) List(ctx context.Context) ([]*domain.Identity, error) {
	const op = "store.Identities.List"
	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT id, name, signing_seed, hybrid_classical_priv, hybrid_classical_pub, hybrid_lattice_priv, hybrid_lattice_pub, fingerprint, created_at, is_primary, mailbox_descriptor
		FROM identity`)
	if err != nil {
		return nil, wrapStorageErr(op, "query identities", err)
	}
	defer rows.Close()

	var out []*domain.Identity
	for rows.Next() {
		id, err := scanIdentity(op, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func scanIdentity(op string, row rowScanner) (*domain.Identity, error) {
	var (
		idBytes, signingSeed, hybridClassicalPriv, hybridClassicalPub, hybridLatticePriv, hybridLatticePub, fingerprintBytes, mailboxDescriptor []byte
		name                                                                                                                                     string
		createdAt                                                                                                                                int64
		isPrimary                                                                                                                                bool
	)
	if err := row.Scan(&idBytes, &name, &signingSeed, &hybridClassicalPriv, &hybridClassicalPub, &hybridLatticePriv, &hybridLatticePub, &fingerprintBytes, &createdAt, &isPrimary, &mailboxDescriptor); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, wrapStorageErr(op, "scan identity", err)
	}

	personID, err := types.ParsePersonId(idBytes)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindSerialization, op, "parse identity id", err)
	}

	signing := &crypto.SigningKeyPair{}
	copy(signing.Seed[:], signingSeed)
	priv, err := crypto.GenerateSigningKeyPair(signing.Seed)
	if err != nil {
		return nil, railerr.Wrap(railerr.KindCrypto, op, "rebuild signing keypair", err)
	}

	hybrid := &crypto.HybridKeyPair{LatticePrivate: hybridLatticePriv, LatticePublic: hybridLatticePub}
	copy(hybrid.ClassicalPrivate[:], hybridClassicalPriv)
	copy(hybrid.ClassicalPublic[:], hybridClassicalPub)

	var fingerprint crypto.Fingerprint
	copy(fingerprint[:], fingerprintBytes)

	return &domain.Identity{
		ID:                personID,
		Name:              name,
		Signing:           priv,
		Hybrid:            hybrid,
		Fingerprint:       fingerprint,
		CreatedAt:         types.CoarseTimestamp(createdAt),
		IsPrimary:         isPrimary,
		MailboxDescriptor: mailboxDescriptor,
	}, nil
}
