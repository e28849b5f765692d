// Package domain defines the core entities of the underground-railroad
// system — identities, contacts, trust edges, emergencies, shelters,
// transport offers and requests, intelligence reports, and messages —
// along with their lifecycle transitions, matching predicates, and
// priority-score formulas. The package is pure: it has no store or
// network dependency and performs no I/O.
package domain
