package scoring

import (
	"fmt"
	"math"

	"github.com/okian/fitscore/internal/domain/model"
)

// WeightedScore combines category scores into trunc(Σ score·weight).
// Weights and scores are validated on every call, so the total stays in
// 0..100 for ad hoc input as well as the engine's own.
func WeightedScore(scores model.CategoryScores, w Weights) (int, error) {
	if err := w.Validate(); err != nil {
		return 0, err
	}
	if err := validateScores(scores); err != nil {
		return 0, err
	}
	total := float64(scores.Education)*w.Education +
		float64(scores.Experience)*w.Experience +
		float64(scores.Skills)*w.Skills
	return int(math.Trunc(total)), nil
}

func validateScores(scores model.CategoryScores) error {
	for _, c := range []struct {
		name  string
		value int
	}{
		{model.CategoryEducation, scores.Education},
		{model.CategoryExperience, scores.Experience},
		{model.CategorySkills, scores.Skills},
	} {
		if c.value < 0 || c.value > maxScore {
			return fmt.Errorf("%w: %s score %d must be in [0,%d]", ErrInvalidScores, c.name, c.value, maxScore)
		}
	}
	return nil
}
