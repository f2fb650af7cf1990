// Package estimator provides fallback value estimation for factors an
// entity has no observation for.
//
// The scoring engine depends only on the scorecard.Estimator interface,
// so richer estimators (e.g. model-assisted discovery) can be plugged in
// without touching the deterministic core.
package estimator

import (
	"context"

	"github.com/dinneroo/zonescore/internal/domain/model"
)

// Option applies a configuration option to the Prior estimator.
type Option func(*Prior)

// WithDefault sets the value returned for factors with no prior at all.
// Without it, such factors stay unestimated and are dropped.
func WithDefault(value float64) Option {
	return func(p *Prior) {
		p.defaultValue = value
		p.hasDefault = true
	}
}

// Prior estimates a factor by its population prior (typically the median
// of observed values for that factor in the current run). Deterministic
// and stateless, so scoring stays reproducible under estimation.
type Prior struct {
	priors       map[string]float64
	defaultValue float64
	hasDefault   bool
}

// NewPrior builds a Prior over per-factor prior values. The map is copied.
func NewPrior(priors map[string]float64, opts ...Option) *Prior {
	p := &Prior{priors: make(map[string]float64, len(priors))}
	for factor, value := range priors {
		p.priors[factor] = value
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Estimate returns the prior for the factor, or the configured default.
// The entity is unused by this estimator but kept in the contract for
// metadata-aware implementations.
func (p *Prior) Estimate(_ context.Context, _ model.Entity, factor string) (float64, bool) {
	if value, ok := p.priors[factor]; ok {
		return value, true
	}
	if p.hasDefault {
		return p.defaultValue, true
	}
	return 0, false
}
