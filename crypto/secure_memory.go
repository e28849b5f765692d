package crypto

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"runtime"
)

// SealedBuffer holds sensitive bytes — key material, passphrases, or a
// contact's private notes — that must never appear in logs or debug
// output and must be overwritten before the memory is released. The
// zero value is an empty sealed buffer.
type SealedBuffer struct {
	data []byte
}

// Seal copies b into a new SealedBuffer. The caller's slice is not
// modified; wipe it separately if it must not linger.
func Seal(b []byte) *SealedBuffer {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &SealedBuffer{data: cp}
}

// Expose returns the sealed bytes. Callers must not retain the returned
// slice beyond the immediate operation — it aliases internal storage
// that Destroy will zero.
func (s *SealedBuffer) Expose() []byte {
	if s == nil {
		return nil
	}
	return s.data
}

// Len returns the number of sealed bytes.
func (s *SealedBuffer) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Destroy overwrites the sealed bytes with zeros. Safe to call more than
// once and on a nil receiver.
func (s *SealedBuffer) Destroy() {
	if s == nil || s.data == nil {
		return
	}
	ZeroBytes(s.data)
	s.data = nil
}

// String implements fmt.Stringer with a fixed redacted marker so sealed
// buffers never leak into formatted output, including via %v or %s.
func (s *SealedBuffer) String() string { return "[redacted]" }

// GoString implements fmt.GoStringer for the same reason as String.
func (s *SealedBuffer) GoString() string { return "[redacted]" }

// MarshalJSON encodes the sealed bytes as a base64 string, so a
// SealedBuffer can round-trip through the store's JSON-encoded columns.
// It does not redact: callers persisting a SealedBuffer have already
// decided the ciphertext is safe to write to disk.
func (s *SealedBuffer) MarshalJSON() ([]byte, error) {
	if s == nil || s.data == nil {
		return []byte("null"), nil
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(s.data))
}

// UnmarshalJSON reverses MarshalJSON.
func (s *SealedBuffer) UnmarshalJSON(b []byte) error {
	var encoded *string
	if err := json.Unmarshal(b, &encoded); err != nil {
		return err
	}
	if encoded == nil {
		s.data = nil
		return nil
	}
	decoded, err := base64.StdEncoding.DecodeString(*encoded)
	if err != nil {
		return err
	}
	s.data = decoded
	return nil
}

// SecureWipe attempts to securely erase the contents of a byte slice
// containing sensitive data. It returns an error if the byte slice is nil.
//
// This function uses subtle.XORBytes to perform a constant-time XOR operation
// that the compiler cannot optimize away. XORing data with itself (x XOR x = 0)
// securely zeros the data while providing resistance to compiler optimizations.
func SecureWipe(data []byte) error {
	if data == nil {
		return errors.New("cannot wipe nil data")
	}

	// Overwrite the data with zeros using XOR operation
	// subtle.XORBytes performs constant-time XOR that compilers cannot optimize away
	// XORing data with itself: x XOR x = 0
	subtle.XORBytes(data, data, data)

	// Prevent compiler from optimizing out the zeroing
	runtime.KeepAlive(data)

	return nil
}

// ZeroBytes erases the contents of a byte slice containing sensitive data.
// This is a convenience function that ignores the error from SecureWipe.
func ZeroBytes(data []byte) {
	_ = SecureWipe(data)
}
