package store

import (
	"context"
)

// schemaVersion is bumped whenever a migration is appended; migrate
// applies every statement group whose index is >= the value recorded
// in the metadata table, so existing databases only run what's new.
const schemaVersion = 1

var migrations = [][]string{
	// v1: base schema.
	{
		`CREATE TABLE IF NOT EXISTS metadata (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS identity (
			id                     BLOB PRIMARY KEY,
			name                   TEXT NOT NULL,
			signing_seed           BLOB NOT NULL,
			hybrid_classical_priv  BLOB NOT NULL,
			hybrid_classical_pub   BLOB NOT NULL,
			hybrid_lattice_priv    BLOB NOT NULL,
			hybrid_lattice_pub     BLOB NOT NULL,
			fingerprint            BLOB NOT NULL,
			created_at             INTEGER NOT NULL,
			is_primary             INTEGER NOT NULL DEFAULT 0,
			mailbox_descriptor     BLOB
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id                   BLOB PRIMARY KEY,
			name                 TEXT NOT NULL,
			fingerprint          BLOB NOT NULL,
			signing_public_key   BLOB NOT NULL,
			hybrid_classical_pub BLOB NOT NULL,
			hybrid_lattice_pub   BLOB NOT NULL,
			mailbox_handle       BLOB,
			trust_level          INTEGER NOT NULL,
			languages            TEXT NOT NULL DEFAULT '[]',
			capabilities         TEXT NOT NULL DEFAULT '[]',
			tags                 TEXT NOT NULL DEFAULT '[]',
			introduced_by        BLOB,
			added_at             INTEGER NOT NULL,
			last_contact         INTEGER,
			notes                BLOB,
			available            INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS trust_relationships (
			truster             BLOB NOT NULL,
			trustee             BLOB NOT NULL,
			level               INTEGER NOT NULL,
			verification_method TEXT NOT NULL DEFAULT '',
			established_at      INTEGER NOT NULL,
			updated_at          INTEGER NOT NULL,
			introduced_by       BLOB,
			PRIMARY KEY (truster, trustee)
		)`,
		`CREATE TABLE IF NOT EXISTS safe_houses (
			id                BLOB PRIMARY KEY,
			operator          BLOB NOT NULL,
			name              TEXT NOT NULL,
			region            TEXT NOT NULL,
			capabilities      TEXT NOT NULL DEFAULT '[]',
			capacity          INTEGER NOT NULL,
			current_occupancy INTEGER NOT NULL DEFAULT 0,
			status            INTEGER NOT NULL,
			accommodations    TEXT NOT NULL DEFAULT '[]',
			max_stay_days     INTEGER,
			verified          INTEGER NOT NULL DEFAULT 0,
			notes             BLOB,
			registered_at     INTEGER NOT NULL,
			updated_at        INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transportation (
			id               BLOB PRIMARY KEY,
			kind             INTEGER NOT NULL,
			person           BLOB NOT NULL,
			region_data      TEXT NOT NULL,
			capabilities     TEXT NOT NULL DEFAULT '[]',
			capacity_people  INTEGER NOT NULL,
			status           INTEGER NOT NULL,
			created_at       INTEGER NOT NULL,
			updated_at       INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS emergencies (
			id            BLOB PRIMARY KEY,
			requester     BLOB,
			needs         TEXT NOT NULL DEFAULT '[]',
			region        TEXT NOT NULL,
			urgency       INTEGER NOT NULL,
			num_people    INTEGER NOT NULL,
			num_children  INTEGER NOT NULL DEFAULT 0,
			special_needs BLOB,
			notes         BLOB,
			status        INTEGER NOT NULL,
			created_at    INTEGER NOT NULL,
			expires_at    INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS intelligence (
			id            BLOB PRIMARY KEY,
			reporter      BLOB NOT NULL,
			category      INTEGER NOT NULL,
			danger_level  INTEGER,
			region        TEXT NOT NULL,
			summary       TEXT NOT NULL,
			details       BLOB,
			urgency       INTEGER NOT NULL,
			reported_at   INTEGER NOT NULL,
			expires_at    INTEGER NOT NULL,
			hop_count     INTEGER NOT NULL DEFAULT 0,
			verified      INTEGER NOT NULL DEFAULT 0,
			confirmations INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id          BLOB PRIMARY KEY,
			sender      BLOB NOT NULL,
			recipient   BLOB NOT NULL,
			body_kind   INTEGER NOT NULL,
			body        BLOB NOT NULL,
			created_at  INTEGER NOT NULL,
			expires_at  INTEGER,
			status      INTEGER NOT NULL,
			hop_count   INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_trust_level ON contacts(trust_level)`,
		`CREATE INDEX IF NOT EXISTS idx_trust_trustee ON trust_relationships(trustee)`,
		`CREATE INDEX IF NOT EXISTS idx_emergencies_status ON emergencies(status, urgency)`,
		`CREATE INDEX IF NOT EXISTS idx_safe_houses_status ON safe_houses(status, current_occupancy)`,
		`CREATE INDEX IF NOT EXISTS idx_transportation_status_kind ON transportation(status, kind)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_recipient_created ON messages(recipient, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_intelligence_category_urgency ON intelligence(category, urgency)`,
	},
}

// migrate applies every migration group the metadata table's recorded
// version hasn't seen yet, each inside its own transaction.
func (d *DB) migrate(ctx context.Context) error {
	if _, err := d.conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS metadata (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		return wrapStorageErr("store.migrate", "create metadata table", err)
	}

	current := d.readSchemaVersion(ctx)
	for v := current; v < len(migrations); v++ {
		tx, err := d.conn.BeginTx(ctx, nil)
		if err != nil {
			return wrapStorageErr("store.migrate", "begin migration transaction", err)
		}
		for _, stmt := range migrations[v] {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				tx.Rollback()
				return wrapStorageErr("store.migrate", "apply migration statement", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO metadata(key, value) VALUES ('schema_version', ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, v+1); err != nil {
			tx.Rollback()
			return wrapStorageErr("store.migrate", "record schema version", err)
		}
		if err := tx.Commit(); err != nil {
			return wrapStorageErr("store.migrate", "commit migration transaction", err)
		}
	}
	return nil
}

// readSchemaVersion returns the recorded schema version, or 0 for a
// freshly created database.
func (d *DB) readSchemaVersion(ctx context.Context) int {
	var v int
	row := d.conn.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'schema_version'`)
	if err := row.Scan(&v); err != nil {
		return 0
	}
	return v
}
