package scoring

import (
	"fmt"
	"math"
)

// Default scoring configuration constants.
const (
	DefaultEducationWeight  = 0.25
	DefaultExperienceWeight = 0.45
	DefaultSkillsWeight     = 0.30
	DefaultRFactor          = 0.25

	// WeightSumTolerance is how far the weights may drift from 1.0.
	WeightSumTolerance = 0.001
)

// Weights is the relative contribution of each category to the total.
type Weights struct {
	Education  float64 `json:"education" yaml:"education"`
	Experience float64 `json:"experience" yaml:"experience"`
	Skills     float64 `json:"skills" yaml:"skills"`
}

// DefaultWeights returns the default weight distribution.
func DefaultWeights() Weights {
	return Weights{
		Education:  DefaultEducationWeight,
		Experience: DefaultExperienceWeight,
		Skills:     DefaultSkillsWeight,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Education + w.Experience + w.Skills
}

// Validate checks that every weight is in [0,1] and that they sum to 1.0
// within WeightSumTolerance.
func (w Weights) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"education", w.Education},
		{"experience", w.Experience},
		{"skills", w.Skills},
	} {
		if math.IsNaN(v.value) || v.value < 0 || v.value > 1 {
			return fmt.Errorf("%w: %s weight %v must be in [0,1]", ErrInvalidWeights, v.name, v.value)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.4f (education=%.4f, experience=%.4f, skills=%.4f), must sum to 1.0",
			ErrInvalidWeights, sum, w.Education, w.Experience, w.Skills)
	}
	return nil
}

// Config is the immutable configuration of an Engine.
type Config struct {
	Weights Weights `json:"weights" yaml:"weights"`
	// RFactor controls diminishing returns on item count; lower saturates faster.
	RFactor float64 `json:"r_factor" yaml:"r_factor"`
	// UseLogarithmic selects LogarithmicScore; false selects IdentityScore.
	UseLogarithmic bool `json:"use_logarithmic" yaml:"use_logarithmic"`
}

// DefaultConfig returns weights {0.25, 0.45, 0.30}, rFactor 0.25 and the
// logarithmic quality transform.
func DefaultConfig() Config {
	return Config{
		Weights:        DefaultWeights(),
		RFactor:        DefaultRFactor,
		UseLogarithmic: true,
	}
}

// Validate checks the weights and that RFactor is strictly inside (0,1).
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.RFactor) || c.RFactor <= 0 || c.RFactor >= 1 {
		return fmt.Errorf("%w: %v must be in (0,1)", ErrInvalidRFactor, c.RFactor)
	}
	return nil
}

// quality returns the transform selected by UseLogarithmic.
func (c Config) quality() QualityTransform {
	if c.UseLogarithmic {
		return LogarithmicScore
	}
	return IdentityScore
}
