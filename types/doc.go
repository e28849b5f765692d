// Package types defines the primitive value types shared across the
// underground-railroad core: opaque 128-bit identifiers, coarse
// (privacy-preserving) timestamps, approximate regions, and the totally
// ordered TrustLevel and Urgency enumerations.
//
// Nothing in this package depends on crypto, storage, or the overlay —
// it is imported by every other package and imports nothing from them.
package types
