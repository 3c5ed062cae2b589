// Package scoring turns category ratings into a bounded 0..100 fitness
// score.
//
// A category score is trunc(CappedFactor(n, r) · LogarithmicScore(mean)),
// combining diminishing returns on quantity with diminishing returns on
// quality. The total is the truncated weighted sum of the three category
// scores. An Engine holds only its validated configuration and is safe for
// concurrent use.
package scoring

import (
	"fmt"

	"github.com/okian/fitscore/internal/domain/model"
)

// Engine scores ScorableData with a fixed, validated configuration.
type Engine struct {
	cfg     Config
	quality QualityTransform
}

// NewEngine builds an Engine from DefaultConfig plus opts. It returns an
// error wrapping ErrInvalidConfig when the result does not validate.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	return &Engine{cfg: cfg, quality: cfg.quality()}, nil
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Score computes every category score, the weighted total and a breakdown
// that carries a copy of the input. The only possible error is an
// unrecognized rating in data.
func (e *Engine) Score(data model.ScorableData) (model.ScoringResult, error) {
	if err := data.Validate(); err != nil {
		return model.ScoringResult{}, fmt.Errorf("score: %w", err)
	}
	data = data.Clone()

	education, err := e.ScoreCategory(data.Education)
	if err != nil {
		return model.ScoringResult{}, fmt.Errorf("score %s: %w", model.CategoryEducation, err)
	}
	experience, err := e.ScoreCategory(data.Experience)
	if err != nil {
		return model.ScoringResult{}, fmt.Errorf("score %s: %w", model.CategoryExperience, err)
	}
	skills, err := e.ScoreSkills(data.Skills)
	if err != nil {
		return model.ScoringResult{}, fmt.Errorf("score %s: %w", model.CategorySkills, err)
	}

	scores := model.CategoryScores{Education: education, Experience: experience, Skills: skills}
	total, err := WeightedScore(scores, e.cfg.Weights)
	if err != nil {
		// Weights were validated in NewEngine.
		return model.ScoringResult{}, fmt.Errorf("score total: %w", err)
	}

	return model.ScoringResult{
		Scores:     scores,
		TotalScore: total,
		Breakdown: model.Breakdown{
			Education:  model.CategoryBreakdown[[]model.ScoredElement]{Score: education, Count: len(data.Education), Data: data.Education},
			Experience: model.CategoryBreakdown[[]model.ScoredElement]{Score: experience, Count: len(data.Experience), Data: data.Experience},
			Skills:     model.CategoryBreakdown[model.SkillsScore]{Score: skills, Count: len(data.Skills), Data: data.Skills},
		},
	}, nil
}

// ScoreCategory scores one list of rated elements with the engine's rFactor.
func (e *Engine) ScoreCategory(elems []model.ScoredElement) (int, error) {
	return ScoreElements(elems, e.cfg.RFactor, e.quality)
}

// ScoreSkills scores a skills map with the engine's rFactor.
func (e *Engine) ScoreSkills(skills model.SkillsScore) (int, error) {
	return ScoreSkills(skills, e.cfg.RFactor, e.quality)
}
