// Package railroad is the top-level facade for the underground-railroad
// coordination substrate: a passphrase-protected identity, an encrypted
// local store, a web-of-trust graph, and overlay-backed mailbox delivery
// for emergencies, shelters, transport offers, and intelligence reports.
//
// # Getting started
//
//	app, err := railroad.Init(railroad.Options{DataDir: dataDir})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer app.Shutdown()
//
//	id, err := app.Identity().Setup(ctx, "Alice", passphrase)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Core types
//
//   - [App]: the process-wide facade holding the overlay client, database,
//     active identity, and data directory behind the fixed lock order
//     overlay → database → identity → data directory.
//   - [Options]: construction-time configuration for [Init].
//
// # Shutdown
//
// Shutdown releases the overlay client, closes the database, and zeroises
// any key material held by the active identity. It is safe to call more
// than once.
//
// # Thread safety
//
// App is safe for concurrent use. Its singletons are acquired in a fixed
// order to avoid deadlock; callers that need more than one must acquire
// them in that order too.
package railroad
