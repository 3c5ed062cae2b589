package worker_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/fitscore/internal/adapters/mq/worker"
	"github.com/okian/fitscore/internal/domain/model"
	logging "github.com/okian/fitscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	ch   chan model.Evaluation
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{ch: make(chan model.Evaluation, 128)}
}

func (q *mockQueue) Dequeue(context.Context) <-chan model.Evaluation { return q.ch }

func (q *mockQueue) add(e model.Evaluation) { q.ch <- e } //nolint:gocritic // test helper

func (q *mockQueue) close() { q.once.Do(func() { close(q.ch) }) }

type mockScorer struct {
	err error
}

func (s *mockScorer) Score(_ context.Context, data model.ScorableData) (model.ScoringResult, error) {
	if s.err != nil {
		return model.ScoringResult{}, s.err
	}
	for _, e := range data.Education {
		if !e.Rating.Valid() {
			return model.ScoringResult{}, fmt.Errorf("education: %w", model.ErrUnknownRating)
		}
	}
	return model.ScoringResult{TotalScore: 10 * len(data.Education)}, nil
}

type mockRecorder struct {
	mu      sync.Mutex
	records map[string]model.EvaluationRecord
	err     error
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{records: make(map[string]model.EvaluationRecord)}
}

func (r *mockRecorder) Save(_ context.Context, rec model.EvaluationRecord) error { //nolint:gocritic // test mock
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records[rec.ID] = rec
	return nil
}

func (r *mockRecorder) get(id string) (model.EvaluationRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	return rec, ok
}

func (r *mockRecorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func evaluation(id string, ratings ...model.Rating) model.Evaluation {
	data := model.ScorableData{}
	for _, r := range ratings {
		data.Education = append(data.Education, model.ScoredElement{Rating: r})
	}
	return model.Evaluation{ID: id, CandidateID: "cand-" + id, Data: data, SubmittedAt: time.Now()}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker over a mock queue", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		scorer := &mockScorer{}
		recorder := newMockRecorder()
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		w := worker.NewInMemoryWorker(q, scorer, recorder,
			worker.WithName("test-worker"),
			worker.WithClock(func() time.Time { return fixed }),
		)

		convey.Convey("When a valid evaluation is processed", func() {
			q.add(evaluation("e1", model.RatingHigh, model.RatingLow))
			q.close()
			w.Run(context.Background())

			rec, ok := recorder.get("e1")

			convey.Convey("Then a scored record is saved", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(rec.Status, convey.ShouldEqual, model.StatusScored)
				convey.So(rec.CandidateID, convey.ShouldEqual, "cand-e1")
				convey.So(rec.Result, convey.ShouldNotBeNil)
				convey.So(rec.Result.TotalScore, convey.ShouldEqual, 20)
				convey.So(rec.ScoredAt.Equal(fixed), convey.ShouldBeTrue)
				convey.So(rec.Error, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When an evaluation carries an unknown rating", func() {
			q.add(evaluation("e2", model.Rating("excellent")))
			q.close()
			w.Run(context.Background())

			rec, ok := recorder.get("e2")

			convey.Convey("Then a failed record explains why", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(rec.Status, convey.ShouldEqual, model.StatusFailed)
				convey.So(rec.Result, convey.ShouldBeNil)
				convey.So(rec.Error, convey.ShouldContainSubstring, "unknown rating")
			})
		})

		convey.Convey("When the scorer fails for another reason", func() {
			scorer.err = errors.New("engine unavailable")
			q.add(evaluation("e3", model.RatingHigh))
			q.close()
			w.Run(context.Background())

			rec, _ := recorder.get("e3")
			convey.So(rec.Status, convey.ShouldEqual, model.StatusFailed)
			convey.So(rec.Error, convey.ShouldEqual, "engine unavailable")
		})

		convey.Convey("When the recorder fails", func() {
			recorder.err = errors.New("disk full")
			q.add(evaluation("e4", model.RatingHigh))
			q.close()
			w.Run(context.Background())

			convey.So(recorder.len(), convey.ShouldEqual, 0)
		})

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go w.Run(ctx)
			cancel()

			convey.Convey("Then Run returns", func() {
				stopped := false
				select {
				case <-w.Done():
					stopped = true
				case <-time.After(time.Second):
				}
				convey.So(stopped, convey.ShouldBeTrue)
			})
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		_ = logging.Init()

		q := newMockQueue()
		scorer := &mockScorer{}
		recorder := newMockRecorder()

		convey.Convey("When created with a non-positive count", func() {
			pool := worker.NewPool(0, q, scorer, recorder)
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})

		convey.Convey("When many evaluations are processed", func() {
			pool := worker.NewPool(4, q, scorer, recorder)
			pool.Start(context.Background())

			const total = 100
			for i := 0; i < total; i++ {
				if i%10 == 0 {
					q.add(evaluation(fmt.Sprintf("e-%d", i), model.Rating("bogus")))
					continue
				}
				q.add(evaluation(fmt.Sprintf("e-%d", i), model.RatingMedium))
			}
			q.close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := pool.Wait(ctx)

			convey.Convey("Then every evaluation has a record and counters add up", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(recorder.len(), convey.ShouldEqual, total)
				convey.So(pool.Scored(), convey.ShouldEqual, 90)
				convey.So(pool.Failed(), convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When waiting with an expired context", func() {
			pool := worker.NewPool(1, q, scorer, recorder)
			pool.Start(context.Background())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := pool.Wait(ctx)

			convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			q.close()
		})
	})
}

func TestInMemoryWorkerLogging(t *testing.T) {
	convey.Convey("Given a worker logging JSON at debug level", t, func() {
		var buf bytes.Buffer
		convey.So(logging.Init(
			logging.WithFormat(logging.FormatJSON),
			logging.WithWriter(&buf),
			logging.WithLevel("debug"),
		), convey.ShouldBeNil)
		convey.Reset(func() { _ = logging.Init() })

		q := newMockQueue()
		w := worker.NewInMemoryWorker(q, &mockScorer{}, newMockRecorder(), worker.WithName("log-worker"))

		convey.Convey("When an evaluation is scored", func() {
			q.add(evaluation("e-log", model.RatingHigh))
			q.close()
			w.Run(context.Background())

			convey.Convey("Then the scored entry carries the scoring latency", func() {
				var scored map[string]any
				for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
					var entry map[string]any
					if json.Unmarshal(line, &entry) == nil && entry["msg"] == "evaluation scored" {
						scored = entry
					}
				}
				convey.So(scored, convey.ShouldNotBeNil)
				convey.So(scored["evaluation_id"], convey.ShouldEqual, "e-log")
				convey.So(scored["logger"], convey.ShouldEqual, "log-worker")
				latency, ok := scored["latency"].(float64)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(latency, convey.ShouldBeGreaterThanOrEqualTo, 0)
			})
		})
	})
}
