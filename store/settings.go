package store

import (
	"context"
	"database/sql"
)

// SettingsRepository persists arbitrary key-value configuration, such as
// the overlay mode or cached network parameters.
type SettingsRepository struct {
	db *DB
}

// Settings constructs a SettingsRepository over db.
func (d *DB) Settings() *SettingsRepository { return &SettingsRepository{db: d} }

// Set stores value under key, replacing any prior value.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	const op = "store.Settings.Set"
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return wrapStorageErr(op, "set setting", err)
	}
	return nil
}

// Get fetches the value for key, or ("", false) if unset.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "store.Settings.Get"
	var value string
	row := r.db.conn.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, wrapStorageErr(op, "get setting", err)
	}
	return value, true, nil
}

// Delete removes key, if present.
func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	const op = "store.Settings.Delete"
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return wrapStorageErr(op, "delete setting", err)
	}
	return nil
}
