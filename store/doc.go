// Package store implements the encrypted relational store: schema
// migrations and typed repositories over a page-encrypted SQLite
// database opened via go-sqlcipher.
//
// # Opening a store
//
//	db, err := store.Open(ctx, dbPath, storageKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
// Opening an existing store with the wrong storage key fails in Open
// itself: the migration step's first page read fails the page cipher's
// authentication check and Open returns a railerr.KindCrypto error. A
// new, empty file opens with any key.
//
// # Repositories
//
// Each aggregate has its own repository (ContactRepository,
// ShelterRepository, EmergencyRepository, IntelligenceRepository,
// IdentityRepository, MessageRepository, TrustRepository), constructed
// from the open DB and sharing its connection pool.
package store
