package ledger

import "errors"

var (
	// ErrValidation is returned for bad input, before any state is touched.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced record does not exist or is soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when an operation does not apply to the record's current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrInsufficientFunds is returned when a withdrawal exceeds the unallocated amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrConcurrencyConflict is returned when the campaign lock could not be taken.
	// The whole operation is safe to retry.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// ErrForbidden is returned when the caller is not allowed to act on the campaign.
	ErrForbidden = errors.New("forbidden")
)
