// Package service wires the scoring engine and the evaluation pipeline
// behind the operations used by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	evalqueue "github.com/okian/fitscore/internal/adapters/mq/queue"
	workerpool "github.com/okian/fitscore/internal/adapters/mq/worker"
	"github.com/okian/fitscore/internal/adapters/repository"
	"github.com/okian/fitscore/internal/domain/dedupe"
	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/scoring"
	"github.com/okian/fitscore/internal/domain/types"
	"github.com/okian/fitscore/pkg/logger"
	"github.com/okian/fitscore/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

// Service implements the API dependencies for the scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine  atomic.Pointer[scoring.Engine]
	store   repository.Store
	deduper dedupe.Deduper
	queue   *evalqueue.InMemoryQueue
	pool    *workerpool.Pool
	cancel  context.CancelFunc

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	scoringCfg  scoring.Config
	storeDriver string
	storeDSN    string
	ownsStore   bool
	now         func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		dedupeSize:  100_000,
		shardCount:  8,
		scoringCfg:  scoring.DefaultConfig(),
		storeDriver: repository.DriverMemory,
		ownsStore:   true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the scoring configuration and starts the pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	engine, err := scoring.NewEngine(scoring.WithConfig(s.scoringCfg))
	if err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	if s.store == nil || s.ownsStore {
		store, err := s.openStore(ctx)
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		s.store = store
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = evalqueue.NewInMemoryQueue(evalqueue.WithCapacity(s.queueSize))

	// Workers outlive the start request.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool = workerpool.NewPool(s.workerCount, s.queue, &engineScorer{svc: s}, s.store)
	s.pool.Start(runCtx)

	s.engine.Store(engine)
	s.started = true

	cfg := engine.Config()
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.String("store", s.storeDriver),
		logger.Float64("r_factor", cfg.RFactor),
		logger.Bool("logarithmic", cfg.UseLogarithmic),
	)
	return nil
}

func (s *Service) openStore(ctx context.Context) (repository.Store, error) {
	switch s.storeDriver {
	case repository.DriverMemory:
		return repository.NewMemoryStore(repository.WithShardCount(s.shardCount)), nil
	default:
		return repository.OpenSQLStore(ctx, s.storeDriver, s.storeDSN)
	}
}

// Stop drains queued evaluations and shuts the pipeline down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping scoring service...")

	_ = s.queue.Close()

	waitCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.pool.Wait(waitCtx); err != nil {
		s.logger.Warn(ctx, "workers did not drain", logger.Error(err))
	}
	s.cancel()
	s.engine.Store(nil)

	if s.ownsStore {
		if err := s.store.Close(); err != nil {
			s.logger.Error(ctx, "closing store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "scoring service stopped",
		logger.Int64("scored", s.pool.Scored()),
		logger.Int64("failed", s.pool.Failed()),
	)
}

func (s *Service) activeEngine() (*scoring.Engine, error) {
	e := s.engine.Load()
	if e == nil {
		return nil, ErrNotStarted
	}
	return e, nil
}

// engineScorer lets workers score without going through Service.Score,
// which records its own latency and rating metrics.
type engineScorer struct {
	svc *Service
}

func (a *engineScorer) Score(_ context.Context, data model.ScorableData) (model.ScoringResult, error) {
	e, err := a.svc.activeEngine()
	if err != nil {
		return model.ScoringResult{}, err
	}
	return observe(e.Score(data))
}

// observe records the score distribution of a successful result.
func observe(result model.ScoringResult, err error) (model.ScoringResult, error) { //nolint:gocritic // hugeParam: pass-through
	if err != nil {
		return result, err
	}
	_ = metrics.RecordCategoryScore(model.CategoryEducation, result.Scores.Education)
	_ = metrics.RecordCategoryScore(model.CategoryExperience, result.Scores.Experience)
	_ = metrics.RecordCategoryScore(model.CategorySkills, result.Scores.Skills)
	metrics.RecordTotalScore(result.TotalScore)
	return result, nil
}

// Score synchronously scores one candidate.
func (s *Service) Score(ctx context.Context, data model.ScorableData) (model.ScoringResult, error) {
	e, err := s.activeEngine()
	if err != nil {
		return model.ScoringResult{}, err
	}

	start := time.Now()
	result, err := observe(e.Score(data))
	metrics.RecordScoringLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		s.recordRatingError(ctx, err)
		return model.ScoringResult{}, err
	}
	return result, nil
}

// ScoreCategory scores the education or experience list on its own.
func (s *Service) ScoreCategory(ctx context.Context, category string, elems []model.ScoredElement) (types.CategoryScore, error) {
	e, err := s.activeEngine()
	if err != nil {
		return types.CategoryScore{}, err
	}
	switch category {
	case model.CategoryEducation, model.CategoryExperience:
	default:
		return types.CategoryScore{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	score, err := e.ScoreCategory(elems)
	if err != nil {
		s.recordRatingError(ctx, err)
		return types.CategoryScore{}, fmt.Errorf("score %s: %w", category, err)
	}
	_ = metrics.RecordCategoryScore(category, score)
	return types.CategoryScore{Category: category, Score: score, Count: len(elems)}, nil
}

// ScoreSkills scores a skills map on its own.
func (s *Service) ScoreSkills(ctx context.Context, skills model.SkillsScore) (types.CategoryScore, error) {
	e, err := s.activeEngine()
	if err != nil {
		return types.CategoryScore{}, err
	}
	score, err := e.ScoreSkills(skills)
	if err != nil {
		s.recordRatingError(ctx, err)
		return types.CategoryScore{}, fmt.Errorf("score %s: %w", model.CategorySkills, err)
	}
	_ = metrics.RecordCategoryScore(model.CategorySkills, score)
	return types.CategoryScore{Category: model.CategorySkills, Score: score, Count: len(skills)}, nil
}

// WeightedScore aggregates precomputed category scores. A nil weights
// pointer uses the active configuration.
func (s *Service) WeightedScore(_ context.Context, scores model.CategoryScores, weights *scoring.Weights) (int, error) {
	e, err := s.activeEngine()
	if err != nil {
		return 0, err
	}
	w := e.Config().Weights
	if weights != nil {
		w = *weights
	}
	return scoring.WeightedScore(scores, w)
}

// ScoringConfig returns the active engine configuration.
func (s *Service) ScoringConfig() (scoring.Config, error) {
	e, err := s.activeEngine()
	if err != nil {
		return scoring.Config{}, err
	}
	return e.Config(), nil
}

func (s *Service) recordRatingError(ctx context.Context, err error) {
	if !errors.Is(err, model.ErrUnknownRating) {
		return
	}
	metrics.RecordRatingError()
	s.logger.Debug(ctx, "rejected unknown rating", logger.Error(err))
}

// Submit queues an evaluation for asynchronous scoring. An empty ID is
// replaced with a random UUID. Resubmitting a known ID is acknowledged as a
// duplicate without being scored again.
func (s *Service) Submit(ctx context.Context, e model.Evaluation) (types.SubmitAck, error) { //nolint:gocritic // hugeParam: copied into the queue
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.SubmitAck{}, ErrNotStarted
	}
	if err := e.Data.Validate(); err != nil {
		s.recordRatingError(ctx, err)
		return types.SubmitAck{}, fmt.Errorf("submit: %w", err)
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SubmittedAt.IsZero() {
		e.SubmittedAt = s.now().UTC()
	}
	e.Data = e.Data.Clone()

	if s.deduper.SeenAndRecord(ctx, e.ID) {
		metrics.RecordEvaluationDuplicate()
		status := model.StatusPending
		if rec, err := s.store.Get(ctx, e.ID); err == nil {
			status = rec.Status
		}
		s.logger.Debug(ctx, "duplicate evaluation", logger.String("evaluation_id", e.ID))
		return types.SubmitAck{EvaluationID: e.ID, Status: status, Duplicate: true}, nil
	}

	if err := s.store.Save(ctx, model.PendingRecord(e)); err != nil {
		s.deduper.Unrecord(ctx, e.ID)
		metrics.RecordErrorByComponent("service", "store_error")
		return types.SubmitAck{}, fmt.Errorf("submit %s: %w", e.ID, err)
	}

	if err := s.queue.Enqueue(ctx, e); err != nil {
		// Roll back so the client can retry the same ID.
		s.deduper.Unrecord(ctx, e.ID)
		if derr := s.store.Delete(ctx, e.ID); derr != nil {
			s.logger.Error(ctx, "rollback pending record", logger.String("evaluation_id", e.ID), logger.Error(derr))
		}
		if errors.Is(err, evalqueue.ErrFull) {
			s.logger.Warn(ctx, "evaluation queue full", logger.String("evaluation_id", e.ID))
			return types.SubmitAck{}, fmt.Errorf("submit %s: %w", e.ID, ErrBackpressure)
		}
		return types.SubmitAck{}, fmt.Errorf("submit %s: %w", e.ID, err)
	}

	metrics.RecordEvaluationSubmitted()
	s.logger.Debug(ctx, "evaluation queued",
		logger.String("evaluation_id", e.ID),
		logger.String("candidate_id", e.CandidateID),
	)
	return types.SubmitAck{EvaluationID: e.ID, Status: model.StatusPending}, nil
}

// Evaluation returns the stored record for id.
func (s *Service) Evaluation(ctx context.Context, id string) (model.EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.EvaluationRecord{}, ErrNotStarted
	}
	rec, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.EvaluationRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"storeDriver": s.storeDriver,
	}

	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		stats["evaluationsScored"] = s.pool.Scored()
		stats["evaluationsFailed"] = s.pool.Failed()
		if n, err := s.store.Count(ctx); err == nil {
			stats["evaluationsStored"] = n
		}
		metrics.CollectSystemMetrics()
	}
	return stats
}
