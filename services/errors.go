package services

import "errors"

// Error taxonomy surfaced to controllers. Callers classify with errors.Is
// and map to HTTP status codes; the wrapped message carries the detail.
var (
	// ErrValidation marks a malformed or out-of-policy request. Nothing is
	// written when it is returned.
	ErrValidation = errors.New("validation error")

	// ErrConflict marks an entity that is not in the expected source state
	// for the requested transition. The original state is reported in the
	// message and nothing is written.
	ErrConflict = errors.New("conflict")

	// ErrInsufficientFunds marks a balance below the requested stake or
	// withdrawal amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound marks a missing game, prediction, deposit or withdrawal.
	ErrNotFound = errors.New("not found")

	// ErrProvider marks a failed or timed out payment provider call. The
	// local record is always moved to a failed/compensated state before
	// this is returned, never left pending.
	ErrProvider = errors.New("payment provider error")
)
