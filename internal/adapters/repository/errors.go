package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("evaluation not found")
	ErrInvalidID         = errors.New("evaluation id must not be empty")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
	ErrClosed            = errors.New("store closed")
)
