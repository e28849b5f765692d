// Package mailbox implements asynchronous, store-and-forward message
// delivery over a DHT record with a bounded, multi-writer subkey schema:
// send probes subkeys 0..49 for a free slot and writes the encrypted
// envelope there; receive scans the same range with force-refresh,
// hands anything it finds to the decrypt pipeline, and tombstones the
// subkey by overwriting it with a zero-length value.
//
// Nothing here trusts the overlay to actually delete a tombstoned
// value — an empty read is the only contract a sender or receiver
// relies on. Ordering across subkeys is not guaranteed; each Message
// carries its own timestamp and priority score for the caller to sort
// by after drain.
package mailbox
