// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keys are flat so that FITSCORE_R_FACTOR maps straight onto r_factor.
// - New() returns defaults; Load/LoadFrom layer a YAML file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"runtime"

	"github.com/okian/fitscore/internal/domain/scoring"
)

// Supported result store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EventQueueSize bounds the in-memory evaluation queue.
	EventQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many evaluation IDs are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the in-memory result store.
	ShardCount int `koanf:"shard_count"`

	// StoreDriver selects the result store: memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`

	// StoreDSN is the data source name for the sqlite/postgres stores.
	StoreDSN string `koanf:"store_dsn"`

	// CORSAllowedOrigins enables CORS for the listed origins when non-empty.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Scoring engine weights; must sum to 1.0.
	WeightEducation  float64 `koanf:"weight_education"`
	WeightExperience float64 `koanf:"weight_experience"`
	WeightSkills     float64 `koanf:"weight_skills"`

	// RFactor is the diminishing-returns base, strictly inside (0,1).
	RFactor float64 `koanf:"r_factor"`

	// UseLogarithmic selects the logarithmic quality transform.
	UseLogarithmic bool `koanf:"use_logarithmic"`

	// MetricsNamespace prefixes every exported Prometheus metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
}

// New creates a Config populated with defaults.
func New() *Config {
	def := scoring.DefaultConfig()
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		EventQueueSize:   10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       100_000,
		ShardCount:       8,
		StoreDriver:      StoreMemory,
		WeightEducation:  def.Weights.Education,
		WeightExperience: def.Weights.Experience,
		WeightSkills:     def.Weights.Skills,
		RFactor:          def.RFactor,
		UseLogarithmic:   def.UseLogarithmic,
		MetricsNamespace: "fitscore",
	}
}

// Scoring returns the scoring engine configuration.
func (c *Config) Scoring() scoring.Config {
	return scoring.Config{
		Weights: scoring.Weights{
			Education:  c.WeightEducation,
			Experience: c.WeightExperience,
			Skills:     c.WeightSkills,
		},
		RFactor:        c.RFactor,
		UseLogarithmic: c.UseLogarithmic,
	}
}
