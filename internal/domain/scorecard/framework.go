package scorecard

import "fmt"

// FactorSpec binds one factor into a track: its weight within the track
// and an optional boundary table overriding the framework default (some
// factors use the top-heavy table while the rest use even quintiles).
type FactorSpec struct {
	Name       string
	Weight     float64
	Boundaries BoundaryTable
}

// TrackSpec is a named, weighted group of factors.
type TrackSpec struct {
	Name    string
	Weight  float64
	Factors []FactorSpec
}

// Framework is the validated scoring configuration for one run: factor
// and track weights, boundary tables, tier thresholds, quadrant gates
// and labels, and the evidence rule. It is built once from configuration
// and treated as immutable.
type Framework struct {
	SchemaVersion string
	Tracks        []TrackSpec
	Boundaries    BoundaryTable
	Tiers         TierTable
	Gates         QuadrantGates
	Labels        QuadrantLabels
	AxisX         string // track feeding the quadrant X axis
	AxisY         string // track feeding the quadrant Y axis
	MinMeasured   int    // measured factors required for Validated
}

// factorWeights returns the weight vector over a track's factors.
func (t TrackSpec) factorWeights() Weights {
	w := make(Weights, len(t.Factors))
	for _, f := range t.Factors {
		w[f.Name] = f.Weight
	}
	return w
}

// trackWeights returns the weight vector over all tracks.
func (f *Framework) trackWeights() Weights {
	w := make(Weights, len(f.Tracks))
	for _, t := range f.Tracks {
		w[t.Name] = t.Weight
	}
	return w
}

// Validate fail-fast checks every weight vector and table in the
// framework, naming the offending track or factor in the error. It must
// pass before any entity is scored.
func (f *Framework) Validate() error {
	if len(f.Tracks) == 0 {
		return fmt.Errorf("%w: no tracks configured", ErrInvalidFramework)
	}
	if err := f.Boundaries.Validate(); err != nil {
		return fmt.Errorf("default boundaries: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Tracks))
	for _, t := range f.Tracks {
		if t.Name == "" {
			return fmt.Errorf("%w: track with empty name", ErrInvalidFramework)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: duplicate track %q", ErrInvalidFramework, t.Name)
		}
		seen[t.Name] = struct{}{}
		if len(t.Factors) == 0 {
			return fmt.Errorf("%w: track %q has no factors", ErrInvalidFramework, t.Name)
		}
		if err := t.factorWeights().Validate(); err != nil {
			return fmt.Errorf("track %q factor weights: %w", t.Name, err)
		}
		for _, fa := range t.Factors {
			if fa.Boundaries != nil {
				if err := fa.Boundaries.Validate(); err != nil {
					return fmt.Errorf("factor %q boundaries: %w", fa.Name, err)
				}
			}
		}
	}
	if err := f.trackWeights().Validate(); err != nil {
		return fmt.Errorf("track weights: %w", err)
	}
	if err := f.Tiers.Validate(); err != nil {
		return err
	}
	if err := f.Labels.Validate(); err != nil {
		return err
	}
	if _, ok := seen[f.AxisX]; !ok {
		return fmt.Errorf("%w: quadrant X axis references unknown track %q", ErrInvalidFramework, f.AxisX)
	}
	if _, ok := seen[f.AxisY]; !ok {
		return fmt.Errorf("%w: quadrant Y axis references unknown track %q", ErrInvalidFramework, f.AxisY)
	}
	if f.MinMeasured < 1 {
		return fmt.Errorf("%w: min measured factors must be at least 1", ErrInvalidFramework)
	}
	return nil
}
