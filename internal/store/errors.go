package store

import "errors"

// Sentinel errors returned by storage methods. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrEmptyWorkspace is returned when an operation names no workspace.
	ErrEmptyWorkspace = errors.New("workspace is required")

	// ErrEmptyKey is returned when a presence entry carries no key.
	ErrEmptyKey = errors.New("presence key is required")
)
