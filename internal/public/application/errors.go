package application

import "errors"

// Error kinds surfaced to the interface layer. Everything below the
// application boundary (store errors, malformed upstream output) is mapped
// onto one of these before it reaches a handler.
var (
	// ErrInvalidQuery marks malformed or missing request input.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound marks a missing aggregate.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an operation by a non-owner/non-admin.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicate marks a uniqueness violation (e.g. second review).
	ErrDuplicate = errors.New("duplicate")
	// ErrConfiguration marks a missing deployment credential.
	ErrConfiguration = errors.New("configuration error")
	// ErrUpstream marks an external dependency failure after fallbacks.
	ErrUpstream = errors.New("upstream error")
)
