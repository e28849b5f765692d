package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/underground-railroad/railroad/internal/logging"
	"github.com/underground-railroad/railroad/railerr"
)

// pageSizeBytes, kdfIterations, and the HMAC/KDF algorithm pragmas below
// fix the page cipher's parameters; changing any of them after a
// database has been created makes it unreadable without a matching
// rekey pass, so they are not configurable.
const (
	pageSizeBytes = 4096
	kdfIterations = 256000
	cacheSizePages = 2000
)

// DB wraps an open encrypted database connection and the path it was
// opened from, so Destroy can find it again for secure deletion.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens (creating if absent) the encrypted store at path, keyed by
// storageKey. go-sqlcipher only discovers a wrong key once it reads a
// page, so against a freshly created (empty) file this call succeeds
// regardless of the key; against an existing store keyed with a
// different passphrase, the first page read during migration fails
// cipher authentication and this call returns a railerr.KindCrypto
// error rather than a generic storage failure.
func Open(ctx context.Context, path string, storageKey [32]byte) (*DB, error) {
	logger := logging.New("store", "Open").WithField("path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, wrapStorageErr("store.Open", "create data directory", err)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma_key=x'%s'&_pragma_cipher_page_size=%d&_pragma_kdf_iter=%d&_pragma_cipher_hmac_algorithm=HMAC_SHA512&_pragma_cipher_kdf_algorithm=PBKDF2_HMAC_SHA512&_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=ON&_auto_vacuum=INCREMENTAL",
		path, hex.EncodeToString(storageKey[:]), pageSizeBytes, kdfIterations,
	)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, wrapStorageErr("store.Open", "open database", err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.ExecContext(ctx, fmt.Sprintf("PRAGMA cache_size = %d", cacheSizePages)); err != nil {
		conn.Close()
		return nil, wrapStorageErr("store.Open", "set cache_size", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("database opened")
	return db, nil
}

// Close releases the underlying connection pool.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Path returns the filesystem path this store was opened from.
func (d *DB) Path() string { return d.path }

// cipherAuthFailureSubstrings are the SQLite-level error texts
// go-sqlcipher's page cipher surfaces when the supplied key fails to
// authenticate an existing database's pages (SQLITE_NOTADB, and the
// "file is encrypted" variant some SQLCipher builds emit instead).
// Neither string appears in any error produced by a genuinely corrupt
// or missing file opened with the correct key.
var cipherAuthFailureSubstrings = []string{
	"file is not a database",
	"file is encrypted or is not a database",
}

// isCipherAuthFailure reports whether err is go-sqlcipher's way of
// saying the page key didn't authenticate, as opposed to an ordinary
// I/O or schema error.
func isCipherAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range cipherAuthFailureSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// wrapStorageErr wraps err as railerr.KindStorage, unless it carries
// go-sqlcipher's wrong-key signature, in which case it classifies as
// railerr.KindCrypto instead: a bad passphrase is a credential problem,
// not a disk problem, and callers (store/doc.go's documented contract,
// the CLI's exit code mapping) depend on that distinction.
func wrapStorageErr(op, msg string, err error) error {
	if isCipherAuthFailure(err) {
		return railerr.Wrap(railerr.KindCrypto, op, "wrong storage key (cipher authentication failed)", err)
	}
	return railerr.Wrap(railerr.KindStorage, op, msg, err)
}
