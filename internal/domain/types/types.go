// Package types contains request and response shapes shared by the service and its adapters.
package types

import (
	"github.com/okian/fitscore/internal/domain/model"
	"github.com/okian/fitscore/internal/domain/scoring"
)

// SubmitAck acknowledges an asynchronous evaluation submission.
type SubmitAck struct {
	EvaluationID string                 `json:"evaluation_id"`
	Status       model.EvaluationStatus `json:"status"`
	Duplicate    bool                   `json:"duplicate"`
}

// CategoryScore is the result of scoring a single category.
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Count    int    `json:"count"`
}

// WeightedRequest asks for a weighted total over precomputed category scores.
// Weights falls back to the active configuration when nil.
type WeightedRequest struct {
	Scores  model.CategoryScores `json:"scores"`
	Weights *scoring.Weights     `json:"weights,omitempty"`
}

// WeightedResponse carries the aggregated total.
type WeightedResponse struct {
	TotalScore int `json:"total_score"`
}

// SubmitRequest is the body of an evaluation submission.
type SubmitRequest struct {
	EvaluationID string             `json:"evaluation_id,omitempty" yaml:"evaluation_id,omitempty"`
	CandidateID  string             `json:"candidate_id,omitempty" yaml:"candidate_id,omitempty"`
	JobID        string             `json:"job_id,omitempty" yaml:"job_id,omitempty"`
	Data         model.ScorableData `json:"data" yaml:"data"`
}

// Evaluation converts the request into a domain evaluation.
func (r SubmitRequest) Evaluation() model.Evaluation { //nolint:gocritic // hugeParam: request value
	return model.Evaluation{
		ID:          r.EvaluationID,
		CandidateID: r.CandidateID,
		JobID:       r.JobID,
		Data:        r.Data,
	}
}
