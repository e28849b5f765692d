package store

import (
	"crypto/rand"
	"os"

	"github.com/underground-railroad/railroad/internal/logging"
)

// Destroy closes the database and overwrites its file on disk with three
// passes — random bytes, then all-zero, then all-one — fsyncing after
// each pass before unlinking. A single overwrite can still leave
// recoverable fragments on copy-on-write or wear-levelled filesystems;
// this raises the bar without pretending to guarantee anything beyond
// "ordinary forensic recovery tools find nothing."
func (d *DB) Destroy() error {
	logger := logging.New("store", "Destroy").WithField("path", d.path)

	if err := d.conn.Close(); err != nil {
		return wrapStorageErr("store.Destroy", "close connection", err)
	}

	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		path := d.path + suffix
		if err := securelyOverwrite(path); err != nil && !os.IsNotExist(err) {
			return wrapStorageErr("store.Destroy", "overwrite "+path, err)
		}
	}

	logger.Warn("database securely deleted")
	return nil
}

// securelyOverwrite overwrites path with random bytes, zero bytes, then
// one bytes (fsyncing after each pass) before unlinking it. A no-op,
// returning the stat error, if path does not exist.
func securelyOverwrite(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	size := info.Size()

	f, err := os.OpenFile(path, os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	random := make([]byte, size)
	if _, err := rand.Read(random); err != nil {
		return err
	}
	passes := [][]byte{random, zeroFill(size), oneFill(size)}
	for _, pass := range passes {
		if _, err := f.WriteAt(pass, 0); err != nil {
			return err
		}
		if err := f.Sync(); err != nil {
			return err
		}
	}
	f.Close()

	return os.Remove(path)
}

func zeroFill(n int64) []byte { return make([]byte, n) }

func oneFill(n int64) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}
