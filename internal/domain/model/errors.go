package model

import "errors"

// Sentinel kinds for model errors.
var (
	// ErrUnknownRating is returned when a rating value is outside low/medium/high.
	ErrUnknownRating = errors.New("unknown rating")
)
