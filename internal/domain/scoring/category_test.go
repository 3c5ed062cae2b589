package scoring_test

import (
	"errors"
	"fmt"
	"testing"

	model "github.com/okian/fitscore/internal/domain/model"
	scoring "github.com/okian/fitscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func elements(ratings ...model.Rating) []model.ScoredElement {
	out := make([]model.ScoredElement, len(ratings))
	for i, r := range ratings {
		idx := i
		out[i] = model.ScoredElement{Rating: r, Reason: fmt.Sprintf("item %d", i), Index: &idx}
	}
	return out
}

func repeat(r model.Rating, n int) []model.ScoredElement {
	ratings := make([]model.Rating, n)
	for i := range ratings {
		ratings[i] = r
	}
	return elements(ratings...)
}

func skills(ratings ...model.Rating) model.SkillsScore {
	out := make(model.SkillsScore, len(ratings))
	for i, r := range ratings {
		out[fmt.Sprintf("skill-%d", i)] = r
	}
	return out
}

func TestRatingToScore(t *testing.T) {
	Convey("Given the rating mapper", t, func() {
		Convey("Then each rating should map onto the 0..100 scale", func() {
			for r, want := range map[model.Rating]float64{
				model.RatingLow:    0,
				model.RatingMedium: 50,
				model.RatingHigh:   100,
			} {
				got, err := scoring.RatingToScore(r)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("When the rating is unrecognized", func() {
			_, err := scoring.RatingToScore("outstanding")

			Convey("Then it should fail rather than default to zero", func() {
				So(errors.Is(err, model.ErrUnknownRating), ShouldBeTrue)
			})
		})
	})
}

func TestScoreElements(t *testing.T) {
	const r = scoring.DefaultRFactor
	logScore := scoring.LogarithmicScore

	Convey("Given the category scorer", t, func() {
		Convey("When the category is empty", func() {
			score, err := scoring.ScoreElements(nil, r, logScore)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 0)

			score, err = scoring.ScoreElements([]model.ScoredElement{}, r, logScore)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 0)
		})

		Convey("When a single high item is scored", func() {
			score, err := scoring.ScoreElements(elements(model.RatingHigh), r, logScore)

			Convey("Then it should be good but not maximal", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 75)
			})
		})

		Convey("When three high items are scored", func() {
			score, err := scoring.ScoreElements(repeat(model.RatingHigh, 3), r, logScore)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 98)
		})

		Convey("When ten medium items are scored", func() {
			score, err := scoring.ScoreElements(repeat(model.RatingMedium, 10), r, logScore)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 84)
		})

		Convey("When comparing quality against quantity", func() {
			fewStrong, _ := scoring.ScoreElements(repeat(model.RatingHigh, 3), r, logScore)
			manyAverage, _ := scoring.ScoreElements(repeat(model.RatingMedium, 10), r, logScore)

			Convey("Then three high items should beat ten medium items", func() {
				So(fewStrong, ShouldBeGreaterThan, manyAverage)
			})
		})

		Convey("When every item is rated low", func() {
			score, err := scoring.ScoreElements(repeat(model.RatingLow, 4), r, logScore)

			Convey("Then the clamped logarithm should yield zero", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 0)
			})
		})

		Convey("When ratings are mixed", func() {
			score, err := scoring.ScoreElements(elements(model.RatingHigh, model.RatingLow), r, logScore)

			Convey("Then the mean rating should drive quality", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 79) // trunc(0.9375 * 84.95)
			})
		})

		Convey("When the identity transform is used", func() {
			score, err := scoring.ScoreElements(repeat(model.RatingMedium, 2), r, scoring.IdentityScore)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 46) // trunc(0.9375 * 50)
		})

		Convey("When an element carries an unknown rating", func() {
			_, err := scoring.ScoreElements(elements(model.RatingHigh, "superb"), r, logScore)
			So(errors.Is(err, model.ErrUnknownRating), ShouldBeTrue)
		})

		Convey("When a very long list of high items is scored", func() {
			score, err := scoring.ScoreElements(repeat(model.RatingHigh, 500), r, logScore)

			Convey("Then the score should approach but not reach 100", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 99)
			})
		})
	})
}

func TestCategoryMonotonicity(t *testing.T) {
	Convey("Given the default rFactor", t, func() {
		const r = scoring.DefaultRFactor

		Convey("When adding items of the same quality", func() {
			for _, rating := range []model.Rating{model.RatingLow, model.RatingMedium, model.RatingHigh} {
				prev := 0
				for n := 1; n <= 40; n++ {
					score, err := scoring.ScoreElements(repeat(rating, n), r, scoring.LogarithmicScore)
					So(err, ShouldBeNil)
					So(score, ShouldBeGreaterThanOrEqualTo, prev)
					So(score, ShouldBeBetweenOrEqual, 0, 100)
					prev = score
				}
			}
		})

		Convey("When upgrading ratings one at a time", func() {
			ratings := []model.Rating{model.RatingLow, model.RatingLow, model.RatingLow, model.RatingLow}
			prev, err := scoring.ScoreElements(elements(ratings...), r, scoring.LogarithmicScore)
			So(err, ShouldBeNil)

			for _, next := range []model.Rating{model.RatingMedium, model.RatingHigh} {
				for i := range ratings {
					ratings[i] = next
					score, err := scoring.ScoreElements(elements(ratings...), r, scoring.LogarithmicScore)
					So(err, ShouldBeNil)
					So(score, ShouldBeGreaterThanOrEqualTo, prev)
					prev = score
				}
			}
		})

		Convey("When the identity transform is used", func() {
			prev := 0
			for n := 1; n <= 20; n++ {
				score, err := scoring.ScoreElements(repeat(model.RatingMedium, n), r, scoring.IdentityScore)
				So(err, ShouldBeNil)
				So(score, ShouldBeGreaterThanOrEqualTo, prev)
				So(score, ShouldBeLessThanOrEqualTo, 50)
				prev = score
			}
		})
	})
}

func TestScoreSkills(t *testing.T) {
	Convey("Given a skills map", t, func() {
		const r = scoring.DefaultRFactor

		Convey("When it is nil or empty", func() {
			score, err := scoring.ScoreSkills(nil, r, scoring.LogarithmicScore)
			So(err, ShouldBeNil)
			So(score, ShouldEqual, 0)
		})

		Convey("When it holds the same ratings as an element list", func() {
			ratings := []model.Rating{model.RatingHigh, model.RatingMedium, model.RatingMedium, model.RatingLow}
			fromMap, err := scoring.ScoreSkills(skills(ratings...), r, scoring.LogarithmicScore)
			So(err, ShouldBeNil)
			fromList, err := scoring.ScoreElements(elements(ratings...), r, scoring.LogarithmicScore)
			So(err, ShouldBeNil)

			Convey("Then both shapes should score identically", func() {
				So(fromMap, ShouldEqual, fromList)
			})
		})

		Convey("When a skill carries an unknown rating", func() {
			_, err := scoring.ScoreSkills(model.SkillsScore{"go": "expert"}, r, scoring.LogarithmicScore)
			So(errors.Is(err, model.ErrUnknownRating), ShouldBeTrue)
		})
	})
}
