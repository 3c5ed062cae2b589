package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/fitscore/internal/adapters/repository"
	"github.com/okian/fitscore/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func scoredRecord(id string) model.EvaluationRecord {
	submitted := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	scored := submitted.Add(150 * time.Millisecond)
	return model.EvaluationRecord{
		ID:          id,
		CandidateID: "cand-1",
		JobID:       "job-9",
		Status:      model.StatusScored,
		Result: &model.ScoringResult{
			Scores:     model.CategoryScores{Education: 75, Experience: 94, Skills: 87},
			TotalScore: 87,
			Breakdown: model.Breakdown{
				Skills: model.CategoryBreakdown[model.SkillsScore]{
					Score: 87,
					Count: 2,
					Data:  model.SkillsScore{"go": model.RatingHigh, "sql": model.RatingMedium},
				},
			},
		},
		SubmittedAt: submitted,
		ScoredAt:    &scored,
	}
}

func openStores(t *testing.T) map[string]repository.Store {
	t.Helper()
	sqlStore, err := repository.OpenSQLStore(context.Background(), repository.DriverSQLite, ":memory:",
		repository.WithMaxOpenConns(1))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	return map[string]repository.Store{
		"memory": repository.NewMemoryStore(repository.WithShardCount(4)),
		"sqlite": sqlStore,
	}
}

func TestStores(t *testing.T) {
	for name, store := range openStores(t) {
		Convey("Given the "+name+" store", t, func() {
			ctx := context.Background()

			Convey("When a record is missing", func() {
				_, err := store.Get(ctx, "nope")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("When a record without an id is saved", func() {
				So(errors.Is(store.Save(ctx, model.EvaluationRecord{}), repository.ErrInvalidID), ShouldBeTrue)
			})

			Convey("When a scored record is saved and read back", func() {
				want := scoredRecord(name + "-r1")
				So(store.Save(ctx, want), ShouldBeNil)

				got, err := store.Get(ctx, want.ID)

				Convey("Then every field survives", func() {
					So(err, ShouldBeNil)
					So(got.ID, ShouldEqual, want.ID)
					So(got.CandidateID, ShouldEqual, "cand-1")
					So(got.JobID, ShouldEqual, "job-9")
					So(got.Status, ShouldEqual, model.StatusScored)
					So(got.SubmittedAt.Equal(want.SubmittedAt), ShouldBeTrue)
					So(got.ScoredAt, ShouldNotBeNil)
					So(got.ScoredAt.Equal(*want.ScoredAt), ShouldBeTrue)
					So(got.Result.TotalScore, ShouldEqual, 87)
					So(got.Result.Scores, ShouldResemble, want.Result.Scores)
					So(got.Result.Breakdown.Skills.Data, ShouldResemble, want.Result.Breakdown.Skills.Data)
				})

				Convey("And saving again replaces it", func() {
					before, err := store.Count(ctx)
					So(err, ShouldBeNil)

					failed := want
					failed.Status = model.StatusFailed
					failed.Result = nil
					failed.Error = "unknown rating"
					So(store.Save(ctx, failed), ShouldBeNil)

					got, err := store.Get(ctx, want.ID)
					So(err, ShouldBeNil)
					So(got.Status, ShouldEqual, model.StatusFailed)
					So(got.Result, ShouldBeNil)
					So(got.Error, ShouldEqual, "unknown rating")

					after, err := store.Count(ctx)
					So(err, ShouldBeNil)
					So(after, ShouldEqual, before)
				})

				Convey("And deleting removes it", func() {
					So(store.Delete(ctx, want.ID), ShouldBeNil)
					So(store.Delete(ctx, want.ID), ShouldBeNil)
					_, err := store.Get(ctx, want.ID)
					So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				})
			})

			Convey("When a pending record is saved", func() {
				pending := model.PendingRecord(model.Evaluation{ID: name + "-p1", SubmittedAt: time.Now()})
				So(store.Save(ctx, pending), ShouldBeNil)

				got, err := store.Get(ctx, pending.ID)
				So(err, ShouldBeNil)
				So(got.Status, ShouldEqual, model.StatusPending)
				So(got.Result, ShouldBeNil)
				So(got.ScoredAt, ShouldBeNil)
			})
		})
	}
}

func TestMemoryStore_Concurrency(t *testing.T) {
	Convey("Given a memory store under concurrent writers", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					_ = store.Save(ctx, scoredRecord(fmt.Sprintf("r-%d-%d", g, i)))
					_ = store.Save(ctx, scoredRecord(fmt.Sprintf("r-%d-%d", g, i)))
				}
			}(g)
		}
		wg.Wait()

		Convey("Then each id is counted once", func() {
			n, err := store.Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 400)
		})

		Convey("And a closed store rejects calls", func() {
			So(store.Close(), ShouldBeNil)
			So(errors.Is(store.Save(ctx, scoredRecord("x")), repository.ErrClosed), ShouldBeTrue)
			_, err := store.Get(ctx, "r-0-0")
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestOpenSQLStore(t *testing.T) {
	Convey("Given an unknown driver", t, func() {
		_, err := repository.OpenSQLStore(context.Background(), "mongo", "")
		So(errors.Is(err, repository.ErrUnsupportedDriver), ShouldBeTrue)
	})
}
