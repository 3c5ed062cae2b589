package scoring

import (
	"errors"
	"fmt"
)

// Sentinel kinds for scoring errors. Weight and rFactor failures are both
// configuration errors, so errors.Is(err, ErrInvalidConfig) matches either.
var (
	ErrInvalidConfig  = errors.New("invalid scoring config")
	ErrInvalidWeights = fmt.Errorf("%w: weights", ErrInvalidConfig)
	ErrInvalidRFactor = fmt.Errorf("%w: r factor", ErrInvalidConfig)

	// ErrInvalidScores is a data error: a category score outside 0..100.
	ErrInvalidScores = errors.New("invalid category scores")
)
