package scoring

import (
	"fmt"

	"github.com/okian/fitscore/internal/domain/model"
)

// Numeric values of the three ratings.
const (
	lowScore    = 0
	mediumScore = 50
	highScore   = 100
)

// RatingToScore maps a rating onto the 0..100 scale. Unrecognized values are
// an error, never a silent zero.
func RatingToScore(r model.Rating) (float64, error) {
	switch r {
	case model.RatingLow:
		return lowScore, nil
	case model.RatingMedium:
		return mediumScore, nil
	case model.RatingHigh:
		return highScore, nil
	default:
		return 0, fmt.Errorf("%w: %q", model.ErrUnknownRating, string(r))
	}
}
