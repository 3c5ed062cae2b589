package model

// CategoryScores holds one whole-number score per category, each in 0..100.
type CategoryScores struct {
	Education  int `json:"education" yaml:"education"`
	Experience int `json:"experience" yaml:"experience"`
	Skills     int `json:"skills" yaml:"skills"`
}

// CategoryBreakdown keeps a category's derived score next to its input.
type CategoryBreakdown[T any] struct {
	Score int `json:"score" yaml:"score"`
	Count int `json:"count" yaml:"count"`
	Data  T   `json:"data" yaml:"data"`
}

// Breakdown is the per-category audit trail of a scoring call.
type Breakdown struct {
	Education  CategoryBreakdown[[]ScoredElement] `json:"education" yaml:"education"`
	Experience CategoryBreakdown[[]ScoredElement] `json:"experience" yaml:"experience"`
	Skills     CategoryBreakdown[SkillsScore]     `json:"skills" yaml:"skills"`
}

// ScoringResult is the output of one scoring call.
type ScoringResult struct {
	Scores     CategoryScores `json:"scores" yaml:"scores"`
	TotalScore int            `json:"total_score" yaml:"total_score"`
	Breakdown  Breakdown      `json:"breakdown" yaml:"breakdown"`
}
