package scoring

import (
	"iter"
	"maps"
	"math"

	"github.com/okian/fitscore/internal/domain/model"
)

// scoreRatings is the single category algorithm behind both input shapes:
// trunc(CappedFactor(n, r) · quality(mean rating)). Empty input scores 0.
func scoreRatings(n int, ratings iter.Seq[model.Rating], rFactor float64, quality QualityTransform) (int, error) {
	if n == 0 {
		return 0, nil
	}
	var sum float64
	for r := range ratings {
		v, err := RatingToScore(r)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	avg := sum / float64(n)
	return int(math.Trunc(CappedFactor(n, rFactor) * quality(avg))), nil
}

// ScoreElements scores a list of rated education or experience entries.
func ScoreElements(elems []model.ScoredElement, rFactor float64, quality QualityTransform) (int, error) {
	return scoreRatings(len(elems), elementRatings(elems), rFactor, quality)
}

// ScoreSkills scores the ratings of a skills map. Key order is irrelevant.
func ScoreSkills(skills model.SkillsScore, rFactor float64, quality QualityTransform) (int, error) {
	return scoreRatings(len(skills), maps.Values(skills), rFactor, quality)
}

func elementRatings(elems []model.ScoredElement) iter.Seq[model.Rating] {
	return func(yield func(model.Rating) bool) {
		for i := range elems {
			if !yield(elems[i].Rating) {
				return
			}
		}
	}
}
