package storage

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDisabled is returned by callers that need storage when it is
	// turned off in config.
	ErrDisabled = errors.New("storage is disabled")
)
