// Package limits provides centralized size constants and validation
// functions shared across the store, mailbox, and domain packages,
// ensuring consistent size enforcement everywhere messages and contact
// cards cross a boundary.
//
// # Validation functions
//
//	err := limits.ValidatePlaintextMessage(body)
//	if err != nil {
//	    // ErrMessageEmpty or ErrMessageTooLarge
//	}
//
// For a custom bound, use the generic ValidateMessageSize:
//
//	err := limits.ValidateMessageSize(data, 4096)
package limits
