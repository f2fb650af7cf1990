// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - The scoring framework section is schema-versioned and validated
//   fail-fast at load time, before any entity is scored.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// SupportedSchemaVersion is the framework schema this build understands.
// Older framework documents must be migrated, not silently reinterpreted.
const SupportedSchemaVersion = "3"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory score-job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the record deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the scorecard store.
	ShardCount int `koanf:"shard_count"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// Datasets lists the metric datasets ingested at startup.
	Datasets []DatasetConfig `koanf:"datasets"`

	// Framework is the scoring framework document.
	Framework FrameworkConfig `koanf:"framework"`
}

// DatasetConfig points at one metric dataset on disk.
type DatasetConfig struct {
	// Path to the dataset file.
	Path string `koanf:"path"`

	// Format is "csv" or "json".
	Format string `koanf:"format"`

	// Source tags every record loaded from this dataset:
	// behavioral, survey, or supply.
	Source string `koanf:"source"`
}

// FrameworkConfig is the schema-versioned scoring framework document,
// the file equivalent of the factor-weight and threshold JSON configs the
// analysis pipeline is driven by.
type FrameworkConfig struct {
	SchemaVersion string `koanf:"schema_version"`

	// Tracks group factors with weight vectors; weights inside a track
	// and across tracks each sum to 1.0.
	Tracks []TrackConfig `koanf:"tracks"`

	// PercentileBoundaries is the default boundary table mapping minimum
	// percentile rank to ordinal score, descending.
	PercentileBoundaries []BoundaryConfig `koanf:"percentile_boundaries"`

	// TierThresholds is the descending tier ladder; the last entry is the
	// catch-all bottom tier.
	TierThresholds []TierConfig `koanf:"tier_thresholds"`

	Quadrant QuadrantConfig `koanf:"quadrant"`

	// MinMeasuredFactors is the measured-factor count required for the
	// Validated evidence level.
	MinMeasuredFactors int `koanf:"min_measured_factors"`

	// PopulationPolicy selects which entities feed percentile
	// populations: "observed_only" (default) or "all".
	PopulationPolicy string `koanf:"population_policy"`

	// EstimatorDefault, when set, is the fallback value for factors with
	// no population prior at all.
	EstimatorDefault *float64 `koanf:"estimator_default"`

	// Taxonomy maps sub-categories to their canonical parent category.
	Taxonomy map[string]string `koanf:"taxonomy"`
}

// TrackConfig configures one scoring track.
type TrackConfig struct {
	Name    string         `koanf:"name"`
	Weight  float64        `koanf:"weight"`
	Factors []FactorConfig `koanf:"factors"`
}

// FactorConfig binds a factor into a track.
type FactorConfig struct {
	Name   string  `koanf:"name"`
	Weight float64 `koanf:"weight"`

	// Boundaries optionally overrides the default boundary table with a
	// named preset: "quintiles" or "top_heavy".
	Boundaries string `koanf:"boundaries"`
}

// BoundaryConfig is one row of a percentile boundary table.
type BoundaryConfig struct {
	MinPercentile float64 `koanf:"min_percentile"`
	Score         int     `koanf:"score"`
}

// TierConfig is one rung of the tier ladder.
type TierConfig struct {
	Cutoff float64 `koanf:"cutoff"`
	Label  string  `koanf:"label"`
}

// QuadrantConfig configures the 2-axis classification grid.
type QuadrantConfig struct {
	// AxisX and AxisY name the tracks feeding the two axes.
	AxisX string  `koanf:"axis_x"`
	AxisY string  `koanf:"axis_y"`
	GateX float64 `koanf:"gate_x"`
	GateY float64 `koanf:"gate_y"`

	Labels QuadrantLabelsConfig `koanf:"labels"`
}

// QuadrantLabelsConfig names the four grid regions plus the reduced
// two-region scheme used when the X axis is not applicable.
type QuadrantLabelsConfig struct {
	HighHigh string `koanf:"high_high"`
	HighLow  string `koanf:"high_low"`
	LowHigh  string `koanf:"low_high"`
	LowLow   string `koanf:"low_low"`
	Prospect string `koanf:"prospect"`
	Monitor  string `koanf:"monitor"`
}

// New builds a Config with the default scoring framework: performance
// and demand tracks at 60/40, even quintile binning, and the
// must-have/should-have/nice-to-have/monitor tier ladder.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		QueueSize:       100_000,
		WorkerCount:     runtime.NumCPU() * 4,
		DedupeSize:      500_000,
		ShardCount:      8,
		MaxRankingLimit: 100,
		Framework: FrameworkConfig{
			SchemaVersion: SupportedSchemaVersion,
			Tracks: []TrackConfig{
				{
					Name:   "performance",
					Weight: 0.6,
					Factors: []FactorConfig{
						{Name: "orders", Weight: 0.583333},
						{Name: "rating", Weight: 0.25},
						{Name: "kids_happy", Weight: 0.166667},
					},
				},
				{
					Name:   "demand",
					Weight: 0.4,
					Factors: []FactorConfig{
						{Name: "latent_demand", Weight: 0.5},
						{Name: "competitor_orders", Weight: 0.5},
					},
				},
			},
			PercentileBoundaries: []BoundaryConfig{
				{MinPercentile: 0.80, Score: 5},
				{MinPercentile: 0.60, Score: 4},
				{MinPercentile: 0.40, Score: 3},
				{MinPercentile: 0.20, Score: 2},
				{MinPercentile: 0.00, Score: 1},
			},
			TierThresholds: []TierConfig{
				{Cutoff: 4.0, Label: "must_have"},
				{Cutoff: 3.0, Label: "should_have"},
				{Cutoff: 2.5, Label: "nice_to_have"},
				{Cutoff: 1.0, Label: "monitor"},
			},
			Quadrant: QuadrantConfig{
				AxisX: "performance",
				AxisY: "demand",
				GateX: 3.0,
				GateY: 3.0,
				Labels: QuadrantLabelsConfig{
					HighHigh: "core_drivers",
					HighLow:  "demand_boosters",
					LowHigh:  "preference_drivers",
					LowLow:   "deprioritised",
					Prospect: "prospect",
					Monitor:  "monitor",
				},
			},
			MinMeasuredFactors: 3,
			PopulationPolicy:   "observed_only",
		},
	}
}
