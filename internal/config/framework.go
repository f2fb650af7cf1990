package config

import (
	"fmt"

	"github.com/dinneroo/zonescore/internal/domain/scorecard"
)

// Population policies for percentile binning.
const (
	// PopulationObservedOnly ranks only against entities that actually
	// reported the factor.
	PopulationObservedOnly = "observed_only"

	// PopulationAll ranks against the full entity population, counting
	// entities without the factor as zero.
	PopulationAll = "all"
)

// Named boundary presets accepted by FactorConfig.Boundaries.
const (
	boundariesQuintiles = "quintiles"
	boundariesTopHeavy  = "top_heavy"
)

// ScoringFramework converts the framework document into a validated
// scorecard.Framework. Any structural problem — wrong schema version,
// weight vectors off 1.0, non-descending thresholds, unknown axis or
// boundary preset — is reported here, naming the offending element.
func (c *Config) ScoringFramework() (*scorecard.Framework, error) {
	fc := c.Framework

	if fc.SchemaVersion != SupportedSchemaVersion {
		return nil, fmt.Errorf("%w: framework schema version %q, want %q", ErrInvalidConfig, fc.SchemaVersion, SupportedSchemaVersion)
	}

	switch fc.PopulationPolicy {
	case PopulationObservedOnly, PopulationAll:
	default:
		return nil, fmt.Errorf("%w: unknown population policy %q", ErrInvalidConfig, fc.PopulationPolicy)
	}

	tracks := make([]scorecard.TrackSpec, 0, len(fc.Tracks))
	for _, tc := range fc.Tracks {
		factors := make([]scorecard.FactorSpec, 0, len(tc.Factors))
		for _, f := range tc.Factors {
			spec := scorecard.FactorSpec{Name: f.Name, Weight: f.Weight}
			switch f.Boundaries {
			case "":
			case boundariesQuintiles:
				spec.Boundaries = scorecard.DefaultQuintiles()
			case boundariesTopHeavy:
				spec.Boundaries = scorecard.TopHeavyBoundaries()
			default:
				return nil, fmt.Errorf("%w: factor %q references unknown boundary preset %q", ErrInvalidConfig, f.Name, f.Boundaries)
			}
			factors = append(factors, spec)
		}
		tracks = append(tracks, scorecard.TrackSpec{Name: tc.Name, Weight: tc.Weight, Factors: factors})
	}

	boundaries := make(scorecard.BoundaryTable, 0, len(fc.PercentileBoundaries))
	for _, b := range fc.PercentileBoundaries {
		boundaries = append(boundaries, scorecard.Boundary{MinPercentile: b.MinPercentile, Score: b.Score})
	}

	tiers := make(scorecard.TierTable, 0, len(fc.TierThresholds))
	for _, t := range fc.TierThresholds {
		tiers = append(tiers, scorecard.TierThreshold{Cutoff: t.Cutoff, Label: t.Label})
	}

	fw := &scorecard.Framework{
		SchemaVersion: fc.SchemaVersion,
		Tracks:        tracks,
		Boundaries:    boundaries,
		Tiers:         tiers,
		Gates:         scorecard.QuadrantGates{X: fc.Quadrant.GateX, Y: fc.Quadrant.GateY},
		Labels: scorecard.QuadrantLabels{
			HighHigh: fc.Quadrant.Labels.HighHigh,
			HighLow:  fc.Quadrant.Labels.HighLow,
			LowHigh:  fc.Quadrant.Labels.LowHigh,
			LowLow:   fc.Quadrant.Labels.LowLow,
			Prospect: fc.Quadrant.Labels.Prospect,
			Monitor:  fc.Quadrant.Labels.Monitor,
		},
		AxisX:       fc.Quadrant.AxisX,
		AxisY:       fc.Quadrant.AxisY,
		MinMeasured: fc.MinMeasuredFactors,
	}
	if err := fw.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return fw, nil
}
