// Package railerr implements the closed error-kind taxonomy shared across
// every package: every error this module originates carries exactly one
// Kind, so callers can branch on failure category without
// string-matching messages.
package railerr

import (
	"errors"
	"fmt"
)

// Kind is one of the mutually exclusive error categories.
type Kind int

const (
	// KindInternal marks an invariant violation; should be unreachable.
	KindInternal Kind = iota
	KindCrypto
	KindStorage
	KindNetwork
	KindIdentity
	KindTrust
	KindInvalid
	KindNotFound
	KindPermissionDenied
	KindTimeout
	KindSerialization
)

func (k Kind) String() string {
	switch k {
	case KindCrypto:
		return "Crypto"
	case KindStorage:
		return "Storage"
	case KindNetwork:
		return "Network"
	case KindIdentity:
		return "Identity"
	case KindTrust:
		return "Trust"
	case KindInvalid:
		return "Invalid"
	case KindNotFound:
		return "NotFound"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindTimeout:
		return "Timeout"
	case KindSerialization:
		return "Serialization"
	default:
		return "Internal"
	}
}

// Error is a kinded, wrapped error. The wrapped cause is preserved for
// errors.Is/errors.As and logging, but crypto authentication failures
// must never leak a more specific cause than "Crypto" to a caller —
// New/Wrap still records the cause internally for logs, callers simply
// should not format it into user-facing text for those paths.
type Error struct {
	Kind  Kind
	Op    string // short operation name, e.g. "store.OpenDatabase"
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Op, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a kinded error with no wrapped cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap creates a kinded error wrapping an underlying cause.
func Wrap(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Cause: cause}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind == kind
	}
	return false
}

// KindOf extracts the Kind of err, or KindInternal if err is not a
// *railerr.Error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindInternal
}
