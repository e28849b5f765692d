// Package identity builds and recovers local identities from a
// passphrase, and encodes/decodes the two blobs identities cross a
// process boundary as: an encrypted export/import backup, and a
// contact card shared with a peer to bootstrap trust.
//
// Setup and Recover both derive deterministically from
// (passphrase, salt) through crypto's key hierarchy, so the same
// passphrase always reconstructs the same keys — the salt is the only
// state that must survive outside the encrypted store, since it is
// needed to derive the very key that opens that store.
package identity
