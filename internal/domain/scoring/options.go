package scoring

// Option adjusts the configuration an Engine is built from. Options are
// applied once over DefaultConfig and the result is validated as a whole,
// so an out-of-range value fails construction instead of being ignored.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

// WithWeights sets the category weights.
func WithWeights(education, experience, skills float64) Option {
	return func(c *Config) {
		c.Weights = Weights{Education: education, Experience: experience, Skills: skills}
	}
}

// WithRFactor sets the diminishing-returns base.
func WithRFactor(r float64) Option {
	return func(c *Config) {
		c.RFactor = r
	}
}

// WithLogarithmic toggles the logarithmic quality transform.
func WithLogarithmic(enabled bool) Option {
	return func(c *Config) {
		c.UseLogarithmic = enabled
	}
}
