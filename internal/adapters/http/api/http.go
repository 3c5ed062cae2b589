// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/cors"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/scoring"
	"github.com/okian/fitscore/internal/domain/types"
	"github.com/okian/fitscore/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Scorer exposes the synchronous scoring operations.
type Scorer interface {
	Score(ctx context.Context, data model.ScorableData) (model.ScoringResult, error)
	ScoreCategory(ctx context.Context, category string, elems []model.ScoredElement) (types.CategoryScore, error)
	ScoreSkills(ctx context.Context, skills model.SkillsScore) (types.CategoryScore, error)
	WeightedScore(ctx context.Context, scores model.CategoryScores, weights *scoring.Weights) (int, error)
	ScoringConfig() (scoring.Config, error)
}

// Evaluations exposes the asynchronous pipeline.
type Evaluations interface {
	Submit(ctx context.Context, e model.Evaluation) (types.SubmitAck, error)
	Evaluation(ctx context.Context, id string) (model.EvaluationRecord, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Scorer
	Evaluations
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	scoreHandler       *ScoreHandler
	evaluationsHandler *EvaluationsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		scoreHandler:       NewScoreHandler(deps),
		evaluationsHandler: NewEvaluationsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /config", MetricsMiddleware(s.scoreHandler.HandleConfig, "config"))

	mux.HandleFunc("POST /score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("POST /score/weighted", MetricsMiddleware(s.scoreHandler.HandleWeighted, "score_weighted"))
	mux.HandleFunc("POST /score/skills", MetricsMiddleware(s.scoreHandler.HandleSkills, "score_skills"))
	mux.HandleFunc("POST /score/{category}", MetricsMiddleware(s.scoreHandler.HandleCategory, "score_category"))

	mux.HandleFunc("POST /evaluations", MetricsMiddleware(s.evaluationsHandler.HandleSubmit, "evaluations"))
	mux.HandleFunc("GET /evaluations/{id}", MetricsMiddleware(s.evaluationsHandler.HandleGet, "evaluation"))
}

// WithCORS wraps h in a CORS handler for the given origins. No origins
// disables CORS and returns h unchanged.
func WithCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return h
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})(h)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail classifies err, logs server-side failures and writes the response.
func fail(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Get().Named("api").Error(ctx, "request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}

// decodeJSON reads one JSON document into v. Unknown ratings keep their
// kind so they surface as 422 rather than 400.
func decodeJSON(r *http.Request, op string, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, model.ErrUnknownRating) {
			return Wrap(op, err)
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	if dec.More() {
		return WrapKind(op, ErrBadRequest, fmt.Errorf("unexpected data after JSON body"))
	}
	return nil
}
