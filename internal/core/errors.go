package core

import "errors"

// Error taxonomy surfaced to the API layer. Storage failures outside the
// best-effort reconciliation propagate unwrapped.
var (
	// ErrNotFound means the task or user does not exist or is owned by
	// someone else. Ownership misses are indistinguishable from absence.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStatus means the requested status is outside the
	// todo/in_progress/done enumeration.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidInput means a request field is outside its allowed domain.
	ErrInvalidInput = errors.New("invalid input")
)
