// Package worker scores queued evaluations and records their outcome.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/pkg/logger"
	"github.com/okian/fitscore/pkg/metrics"
)

const defaultWorkerMultiplier = 2

// Scorer computes the scoring result for one candidate.
type Scorer interface {
	Score(ctx context.Context, data model.ScorableData) (model.ScoringResult, error)
}

// Recorder persists evaluation records.
type Recorder interface {
	Save(ctx context.Context, rec model.EvaluationRecord) error
}

// Queue defines how workers receive evaluations.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Evaluation
}

// Counters are shared by the workers of one pool.
type Counters struct {
	Scored atomic.Int64
	Failed atomic.Int64
}

// InMemoryWorker drains a Queue until it is closed or ctx is cancelled.
type InMemoryWorker struct {
	queue    Queue
	scorer   Scorer
	recorder Recorder
	counters *Counters
	name     string
	now      func() time.Time
	done     chan struct{}
	logger   logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, scorer Scorer, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		scorer:   scorer,
		recorder: recorder,
		counters: &Counters{},
		name:     "worker",
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes evaluations until the queue closes or ctx is done.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	items := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-items:
			if !ok {
				return
			}
			if err := w.process(ctx, e); err != nil {
				w.logger.Error(ctx, "error processing evaluation",
					logger.String("evaluation_id", e.ID), logger.Error(err))
			}
		}
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// process scores one evaluation. Scoring failures become failed records;
// only a store failure is returned.
func (w *InMemoryWorker) process(ctx context.Context, e model.Evaluation) error { //nolint:gocritic // hugeParam: received by value from the channel
	metrics.WorkerStarted()
	defer metrics.WorkerFinished()

	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	rec := model.PendingRecord(e)
	scoreStart := time.Now()
	result, err := w.scorer.Score(ctx, e.Data)
	elapsed := time.Since(scoreStart)
	metrics.RecordScoringLatency(float64(elapsed.Microseconds()) / 1000)

	scoredAt := w.now().UTC()
	rec.ScoredAt = &scoredAt
	if err != nil {
		rec.Status = model.StatusFailed
		rec.Error = err.Error()
		w.counters.Failed.Add(1)
		metrics.RecordEvaluationFailed()
		if errors.Is(err, model.ErrUnknownRating) {
			metrics.RecordRatingError()
			metrics.RecordErrorByComponent("worker", "invalid_rating")
		} else {
			metrics.RecordErrorByComponent("worker", "scoring_error")
		}
		w.logger.Warn(ctx, "evaluation failed",
			logger.String("evaluation_id", e.ID), logger.Duration("latency", elapsed), logger.Error(err))
	} else {
		rec.Status = model.StatusScored
		rec.Result = &result
		w.counters.Scored.Add(1)
		metrics.RecordEvaluationScored()
		w.logger.Debug(ctx, "evaluation scored",
			logger.String("evaluation_id", e.ID),
			logger.Int("total_score", result.TotalScore),
			logger.Duration("latency", elapsed))
	}

	if err := w.recorder.Save(ctx, rec); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("save evaluation %s: %w", e.ID, err)
	}
	return nil
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	workers  []*InMemoryWorker
	counters *Counters
	logger   logger.Logger
}

// NewPool creates a worker pool. A count below 1 defaults to 2x the CPU count.
func NewPool(count int, q Queue, scorer Scorer, recorder Recorder) *Pool {
	if count < 1 {
		count = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:  make([]*InMemoryWorker, count),
		counters: &Counters{},
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		w := NewInMemoryWorker(q, scorer, recorder, WithName("worker-"+strconv.Itoa(i)))
		w.counters = p.counters
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(count)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Scored returns how many evaluations were scored successfully.
func (p *Pool) Scored() int64 { return p.counters.Scored.Load() }

// Failed returns how many evaluations could not be scored.
func (p *Pool) Failed() int64 { return p.counters.Failed.Load() }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has returned or ctx is done.
// Callers close the queue first so workers drain it and exit.
func (p *Pool) Wait(ctx context.Context) error {
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
		}
	}
	return nil
}
