package api

import (
	"net/http"

	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/types"
)

// ScoreHandler serves the synchronous scoring endpoints.
type ScoreHandler struct {
	scorer Scorer
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(scorer Scorer) *ScoreHandler {
	return &ScoreHandler{scorer: scorer}
}

// HandleScore handles POST /score.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	var data model.ScorableData
	if err := decodeJSON(r, op, &data); err != nil {
		fail(r.Context(), w, err)
		return
	}
	result, err := h.scorer.Score(r.Context(), data)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleCategory handles POST /score/{category} for education and experience.
func (h *ScoreHandler) HandleCategory(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_category"
	var elems []model.ScoredElement
	if err := decodeJSON(r, op, &elems); err != nil {
		fail(r.Context(), w, err)
		return
	}
	got, err := h.scorer.ScoreCategory(r.Context(), r.PathValue("category"), elems)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, got)
}

// HandleSkills handles POST /score/skills.
func (h *ScoreHandler) HandleSkills(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_skills"
	var skills model.SkillsScore
	if err := decodeJSON(r, op, &skills); err != nil {
		fail(r.Context(), w, err)
		return
	}
	got, err := h.scorer.ScoreSkills(r.Context(), skills)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, got)
}

// HandleWeighted handles POST /score/weighted.
func (h *ScoreHandler) HandleWeighted(w http.ResponseWriter, r *http.Request) {
	const op = "api.score_weighted"
	var req types.WeightedRequest
	if err := decodeJSON(r, op, &req); err != nil {
		fail(r.Context(), w, err)
		return
	}
	total, err := h.scorer.WeightedScore(r.Context(), req.Scores, req.Weights)
	if err != nil {
		fail(r.Context(), w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.WeightedResponse{TotalScore: total})
}

// HandleConfig handles GET /config.
func (h *ScoreHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.scorer.ScoringConfig()
	if err != nil {
		fail(r.Context(), w, Wrap("api.config", err))
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
