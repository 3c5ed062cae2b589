package model

import "time"

// EvaluationStatus tracks an asynchronous evaluation through the pipeline.
type EvaluationStatus string

// Evaluation statuses.
const (
	StatusPending EvaluationStatus = "pending"
	StatusScored  EvaluationStatus = "scored"
	StatusFailed  EvaluationStatus = "failed"
)

// Evaluation is a pre-rated candidate submitted for asynchronous scoring.
type Evaluation struct {
	ID          string       // unique id for idempotency
	CandidateID string       // candidate/profile identifier
	JobID       string       // job the candidate was rated against
	Data        ScorableData // ratings from the element rater
	SubmittedAt time.Time
}

// EvaluationRecord is the stored state of an evaluation.
type EvaluationRecord struct {
	ID          string           `json:"evaluation_id"`
	CandidateID string           `json:"candidate_id,omitempty"`
	JobID       string           `json:"job_id,omitempty"`
	Status      EvaluationStatus `json:"status"`
	Result      *ScoringResult   `json:"result,omitempty"`
	Error       string           `json:"error,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	ScoredAt    *time.Time       `json:"scored_at,omitempty"`
}

// PendingRecord builds the initial record for a submitted evaluation.
func PendingRecord(e Evaluation) EvaluationRecord { //nolint:gocritic // hugeParam: Evaluation is passed by value through the queue
	return EvaluationRecord{
		ID:          e.ID,
		CandidateID: e.CandidateID,
		JobID:       e.JobID,
		Status:      StatusPending,
		SubmittedAt: e.SubmittedAt,
	}
}
