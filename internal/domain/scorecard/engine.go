package scorecard

import (
	"context"
	"fmt"

	"github.com/dinneroo/zonescore/internal/domain/model"
	"github.com/dinneroo/zonescore/internal/domain/types"
)

// Estimator supplies a fallback value for a factor the entity has no
// observation for. The second return reports whether an estimate could be
// produced; estimated factors are scored with HasData=false and can only
// ever reach the Estimated or Corroborated evidence levels.
type Estimator interface {
	Estimate(ctx context.Context, entity model.Entity, factor string) (float64, bool)
}

// Populations holds, per factor, the comparable raw values the percentile
// binner ranks against. Built once per run and read-only during scoring.
type Populations map[string][]float64

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithEstimator plugs in a fallback estimator for unobserved factors.
func WithEstimator(est Estimator) Option {
	return func(e *Engine) {
		e.estimator = est
	}
}

// Engine scores entities against an immutable framework. It is stateless
// across invocations and safe for concurrent use.
type Engine struct {
	framework *Framework
	estimator Estimator
}

// NewEngine validates the framework and builds an engine. Validation
// failures here are configuration bugs and abort the run before any
// entity is scored.
func NewEngine(framework *Framework, opts ...Option) (*Engine, error) {
	if err := framework.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{framework: framework}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Score runs one entity through the full pipeline: bin each factor,
// aggregate per track, compose, classify tier and quadrant, annotate
// evidence. Missing observations degrade gracefully (estimator fallback,
// then factor drop, then track drop); only an entity with no usable data
// at all fails, with ErrNoApplicableTracks.
func (e *Engine) Score(ctx context.Context, entity model.Entity, pops Populations) (types.Scorecard, error) {
	select {
	case <-ctx.Done():
		return types.Scorecard{}, fmt.Errorf("scoring cancelled: %w", ctx.Err())
	default:
	}

	var all []FactorScore
	results := make([]TrackResult, 0, len(e.framework.Tracks))

	for _, track := range e.framework.Tracks {
		scores := make(map[string]FactorScore, len(track.Factors))
		var applicable []string

		for _, spec := range track.Factors {
			fs, ok := e.scoreFactor(ctx, entity, spec, pops)
			if !ok {
				continue
			}
			scores[spec.Name] = fs
			applicable = append(applicable, spec.Name)
			all = append(all, fs)
		}

		if len(applicable) == 0 {
			results = append(results, TrackResult{Track: track.Name, Weight: track.Weight})
			continue
		}

		weights := track.factorWeights()
		if len(applicable) < len(track.Factors) {
			renormed, err := weights.Renormalize(applicable)
			if err != nil {
				return types.Scorecard{}, fmt.Errorf("track %q: %w", track.Name, err)
			}
			weights = renormed
		}
		subtotal, err := Aggregate(scores, weights)
		if err != nil {
			return types.Scorecard{}, fmt.Errorf("track %q: %w", track.Name, err)
		}
		results = append(results, TrackResult{
			Track:      track.Name,
			Subtotal:   subtotal,
			Weight:     track.Weight,
			Applicable: true,
		})
	}

	composite, err := Compose(results)
	if err != nil {
		return types.Scorecard{}, fmt.Errorf("entity %q: %w", entity.ID, err)
	}

	tier, err := ClassifyTier(composite.Value, e.framework.Tiers)
	if err != nil {
		return types.Scorecard{}, fmt.Errorf("entity %q: %w", entity.ID, err)
	}

	quadrant := e.classifyQuadrant(results)

	factorScores := make(map[string]int, len(all))
	for _, fs := range all {
		factorScores[fs.Factor] = fs.Score
	}

	return types.Scorecard{
		EntityID:      entity.ID,
		EntityKind:    string(entity.Kind),
		FactorScores:  factorScores,
		TrackSubtotal: composite.Breakdown,
		Composite:     composite.Value,
		Tier:          tier,
		Quadrant:      quadrant,
		Evidence:      Annotate(all, e.framework.MinMeasured, composite.TrackPartial),
		TrackPartial:  composite.TrackPartial,
	}, nil
}

// scoreFactor bins one factor for the entity. The second return is false
// when the factor is structurally inapplicable: no observation, no
// estimate, or no population to rank against.
func (e *Engine) scoreFactor(ctx context.Context, entity model.Entity, spec FactorSpec, pops Populations) (FactorScore, bool) {
	value := 0.0
	hasData := false
	source := model.SourceEstimated

	if obs, ok := entity.Observed(spec.Name); ok {
		value = obs.Value
		source = obs.Source
		hasData = obs.Source.Measured()
	} else if e.estimator != nil {
		est, ok := e.estimator.Estimate(ctx, entity, spec.Name)
		if !ok {
			return FactorScore{}, false
		}
		value = est
	} else {
		return FactorScore{}, false
	}

	population := pops[spec.Name]
	if len(population) == 0 {
		// Nothing to rank against: the factor is dropped rather than
		// binned, so Bin's empty-population contract is never violated
		// on a data gap.
		return FactorScore{}, false
	}

	boundaries := spec.Boundaries
	if boundaries == nil {
		boundaries = e.framework.Boundaries
	}
	score, err := Bin(value, population, boundaries)
	if err != nil {
		return FactorScore{}, false
	}

	return FactorScore{
		Factor:     spec.Name,
		RawValue:   value,
		Score:      score,
		Population: len(population),
		HasData:    hasData,
		Source:     source,
	}, true
}

// classifyQuadrant resolves the configured axis tracks and classifies.
// Returns the empty string when the Y axis track itself has no data.
func (e *Engine) classifyQuadrant(results []TrackResult) string {
	var x, y TrackResult
	for _, r := range results {
		switch r.Track {
		case e.framework.AxisX:
			x = r
		case e.framework.AxisY:
			y = r
		}
	}
	if !y.Applicable {
		return ""
	}
	return ClassifyQuadrant(x.Subtotal, x.Applicable, y.Subtotal, e.framework.Gates, e.framework.Labels)
}
