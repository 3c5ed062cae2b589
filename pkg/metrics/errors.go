package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUnknownCategory = errors.New("metrics: unknown score category")
)
