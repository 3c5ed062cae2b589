package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	model "github.com/okian/fitscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestParseRating(t *testing.T) {
	Convey("Given external rating strings", t, func() {
		Convey("When the value is recognized", func() {
			for in, want := range map[string]model.Rating{
				"low":       model.RatingLow,
				"Medium":    model.RatingMedium,
				"  HIGH \n": model.RatingHigh,
			} {
				got, err := model.ParseRating(in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
		})

		Convey("When the value is unknown", func() {
			_, err := model.ParseRating("excellent")

			Convey("Then it should fail loudly instead of defaulting", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrUnknownRating), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "excellent")
			})
		})

		Convey("When the value is empty", func() {
			_, err := model.ParseRating("")
			So(errors.Is(err, model.ErrUnknownRating), ShouldBeTrue)
		})
	})
}

func TestScorableDataDecoding(t *testing.T) {
	Convey("Given a JSON document from the element rater", t, func() {
		doc := `{
			"education": [{"rating": "high", "reason": "CS degree", "index": 0}],
			"experience": [{"rating": "medium", "reason": "adjacent domain"}, {"rating": "low", "reason": "unrelated"}],
			"skills": {"go": "high", "sql": "medium"}
		}`

		Convey("When decoding it", func() {
			var data model.ScorableData
			err := json.Unmarshal([]byte(doc), &data)

			Convey("Then every field should be populated", func() {
				So(err, ShouldBeNil)
				So(data.Education, ShouldHaveLength, 1)
				So(data.Education[0].Rating, ShouldEqual, model.RatingHigh)
				So(*data.Education[0].Index, ShouldEqual, 0)
				So(data.Experience, ShouldHaveLength, 2)
				So(data.Experience[1].Index, ShouldBeNil)
				So(data.Skills["go"], ShouldEqual, model.RatingHigh)
				So(data.Validate(), ShouldBeNil)
			})
		})

		Convey("When a rating is unrecognized", func() {
			bad := `{"education": [{"rating": "stellar", "reason": "?"}]}`
			var data model.ScorableData
			err := json.Unmarshal([]byte(bad), &data)

			Convey("Then decoding should fail", func() {
				So(errors.Is(err, model.ErrUnknownRating), ShouldBeTrue)
			})
		})

		Convey("When a skill rating is unrecognized", func() {
			bad := `{"skills": {"go": "amazing"}}`
			var data model.ScorableData
			err := json.Unmarshal([]byte(bad), &data)
			So(errors.Is(err, model.ErrUnknownRating), ShouldBeTrue)
		})
	})

	Convey("Given a YAML document", t, func() {
		doc := `
education:
  - rating: medium
    reason: bootcamp
experience: []
skills:
  kubernetes: low
`
		var data model.ScorableData
		err := yaml.Unmarshal([]byte(doc), &data)

		Convey("Then ratings should be parsed through the same boundary", func() {
			So(err, ShouldBeNil)
			So(data.Education[0].Rating, ShouldEqual, model.RatingMedium)
			So(data.Skills["kubernetes"], ShouldEqual, model.RatingLow)
		})

		Convey("And unknown ratings should be rejected", func() {
			var bad model.ScorableData
			err := yaml.Unmarshal([]byte("skills:\n  go: superb\n"), &bad)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestScorableDataValidate(t *testing.T) {
	Convey("Given data built in code", t, func() {
		Convey("When every rating is valid", func() {
			data := model.ScorableData{
				Education: []model.ScoredElement{{Rating: model.RatingLow}},
				Skills:    model.SkillsScore{"go": model.RatingHigh},
			}
			So(data.Validate(), ShouldBeNil)
		})

		Convey("When the zero value is used", func() {
			So(model.ScorableData{}.Validate(), ShouldBeNil)
		})

		Convey("When an experience rating bypasses decoding", func() {
			data := model.ScorableData{
				Experience: []model.ScoredElement{{Rating: model.RatingHigh}, {Rating: "great"}},
			}
			err := data.Validate()

			Convey("Then the category and position should be reported", func() {
				So(errors.Is(err, model.ErrUnknownRating), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "experience[1]")
			})
		})

		Convey("When a skill rating bypasses decoding", func() {
			data := model.ScorableData{Skills: model.SkillsScore{"rust": "", "go": model.RatingLow}}
			err := data.Validate()
			So(errors.Is(err, model.ErrUnknownRating), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, `"rust"`)
		})
	})
}

func TestScorableDataClone(t *testing.T) {
	Convey("Given scorable data", t, func() {
		idx := 3
		data := model.ScorableData{
			Education: []model.ScoredElement{{Rating: model.RatingHigh, Reason: "MSc", Index: &idx}},
			Skills:    model.SkillsScore{"go": model.RatingHigh},
		}

		Convey("When cloning and mutating the original", func() {
			clone := data.Clone()
			data.Education[0].Reason = "changed"
			*data.Education[0].Index = 9
			data.Skills["go"] = model.RatingLow

			Convey("Then the clone should be unaffected", func() {
				So(clone.Education[0].Reason, ShouldEqual, "MSc")
				So(*clone.Education[0].Index, ShouldEqual, 3)
				So(clone.Skills["go"], ShouldEqual, model.RatingHigh)
			})
		})

		Convey("When cloning empty data", func() {
			clone := model.ScorableData{}.Clone()
			So(clone.Education, ShouldBeNil)
			So(clone.Skills, ShouldBeNil)
		})
	})
}

func TestPendingRecord(t *testing.T) {
	Convey("Given a submitted evaluation", t, func() {
		e := model.Evaluation{ID: "ev-1", CandidateID: "cand-1", JobID: "job-1"}

		Convey("Then its pending record should mirror identifiers", func() {
			rec := model.PendingRecord(e)
			So(rec.ID, ShouldEqual, "ev-1")
			So(rec.CandidateID, ShouldEqual, "cand-1")
			So(rec.Status, ShouldEqual, model.StatusPending)
			So(rec.Result, ShouldBeNil)
		})
	})
}
