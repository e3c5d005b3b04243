package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates a required record was not found
	ErrNotFound = errors.New("not found")

	// ErrLoad indicates a bulk load of records or suggestions failed
	ErrLoad = errors.New("load failed")

	// ErrNotification indicates a side notification failed after the
	// primary change was already committed
	ErrNotification = errors.New("notification failed")

	// ErrInvalidStatus indicates an unknown linkage review status
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
