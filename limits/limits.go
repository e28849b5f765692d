// Package limits provides centralized size limits shared by the store,
// mailbox, and domain packages so validation stays consistent across the
// system.
package limits

import "errors"

const (
	// MaxPlaintextMessage bounds a single message body before hybrid
	// encryption, keeping messages well under one DHT subkey's capacity.
	MaxPlaintextMessage = 4096

	// MaxHybridCiphertext bounds an encrypted message as written to a
	// mailbox subkey: plaintext + AEAD tag + ephemeral key + KEM
	// ciphertext + framing.
	MaxHybridCiphertext = 8192

	// MaxMailboxSubkeys is the schema-enforced bound on a mailbox's
	// subkey count.
	MaxMailboxSubkeys = 50

	// MaxPathCacheEntries bounds the trust graph's path cache before LRU
	// eviction begins.
	MaxPathCacheEntries = 10000

	// MaxInFlightSendsPerIdentity bounds concurrent mailbox sends for a
	// single identity.
	MaxInFlightSendsPerIdentity = 16

	// MaxSendRetryAttempts bounds retries for a single outbound message.
	MaxSendRetryAttempts = 8

	// MaxContactCardSize bounds a decoded contact card payload.
	MaxContactCardSize = 4096
)

var (
	// ErrMessageEmpty indicates an empty message was provided.
	ErrMessageEmpty = errors.New("empty message")

	// ErrMessageTooLarge indicates a message exceeds the allowed maximum.
	ErrMessageTooLarge = errors.New("message too large")
)

// ValidateMessageSize validates message against maxSize, rejecting empty
// input and oversized input alike.
func ValidateMessageSize(message []byte, maxSize int) error {
	if len(message) == 0 {
		return ErrMessageEmpty
	}
	if len(message) > maxSize {
		return ErrMessageTooLarge
	}
	return nil
}

// ValidatePlaintextMessage validates a message body before encryption.
func ValidatePlaintextMessage(message []byte) error {
	return ValidateMessageSize(message, MaxPlaintextMessage)
}

// ValidateHybridCiphertext validates an encrypted message as written to
// a mailbox subkey.
func ValidateHybridCiphertext(message []byte) error {
	return ValidateMessageSize(message, MaxHybridCiphertext)
}

// ValidateContactCard validates a decoded contact card payload.
func ValidateContactCard(payload []byte) error {
	return ValidateMessageSize(payload, MaxContactCardSize)
}
