package scorecard

import (
	"fmt"
	"math"
	"sort"

	"github.com/dinneroo/zonescore/internal/domain/model"
)

// weightTolerance is the accepted drift when checking that a weight
// vector sums to 1.0.
const weightTolerance = 1e-6

// FactorScore is the 1..5 ordinal score derived from one factor for one
// entity. HasData marks whether the underlying value was actually
// observed; estimator fallbacks carry HasData=false.
type FactorScore struct {
	Factor     string
	RawValue   float64
	Score      int
	Population int
	HasData    bool
	Source     model.Source
}

// Weights is a weight vector over factor (or track) names.
type Weights map[string]float64

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += v
	}
	return total
}

// Validate checks that the vector is non-empty, non-negative, and sums to
// 1.0 within tolerance.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: empty weight vector", ErrWeightSum)
	}
	for name, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: negative weight for %q", ErrWeightSum, name)
		}
	}
	if s := w.Sum(); math.Abs(s-1.0) > weightTolerance {
		return fmt.Errorf("%w: got %.6f", ErrWeightSum, s)
	}
	return nil
}

// Renormalize returns a new vector over only the keep subset, scaled so
// the kept weights sum to 1.0. Used when factors or tracks are
// structurally inapplicable for an entity.
func (w Weights) Renormalize(keep []string) (Weights, error) {
	total := 0.0
	for _, name := range keep {
		total += w[name]
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: renormalization subset has zero weight", ErrWeightSum)
	}
	out := make(Weights, len(keep))
	for _, name := range keep {
		out[name] = w[name] / total
	}
	return out, nil
}

// Aggregate combines factor scores into one track subtotal as
// sum(score*weight). The supplied weights must sum to 1.0; callers in
// partial mode renormalize first. Factors without a weight entry are a
// configuration error surfaced as ErrWeightSum via Validate.
func Aggregate(scores map[string]FactorScore, weights Weights) (float64, error) {
	if err := weights.Validate(); err != nil {
		return 0, err
	}
	subtotal := 0.0
	for name, weight := range weights {
		fs, ok := scores[name]
		if !ok {
			return 0, fmt.Errorf("%w: no score for weighted factor %q", ErrWeightSum, name)
		}
		subtotal += float64(fs.Score) * weight
	}
	return subtotal, nil
}

// TrackResult carries one track's subtotal into composition. Applicable
// is false when the entity had no usable factors for the track at all.
type TrackResult struct {
	Track      string
	Subtotal   float64
	Weight     float64
	Applicable bool
}

// Composite is the final composed score plus its audit breakdown.
type Composite struct {
	Value        float64
	Breakdown    map[string]float64
	TrackPartial bool
}

// Compose combines track subtotals into the final composite. Track
// weights must sum to 1.0 over all supplied tracks; inapplicable tracks
// are dropped and the remaining weights renormalized, marking the result
// track-partial. The composite is clamped to [MinScore, MaxScore].
func Compose(tracks []TrackResult) (Composite, error) {
	all := make(Weights, len(tracks))
	var kept []string
	for _, t := range tracks {
		all[t.Track] = t.Weight
		if t.Applicable {
			kept = append(kept, t.Track)
		}
	}
	if err := all.Validate(); err != nil {
		return Composite{}, err
	}
	if len(kept) == 0 {
		return Composite{}, ErrNoApplicableTracks
	}
	sort.Strings(kept)

	effective := all
	partial := len(kept) < len(tracks)
	if partial {
		renormed, err := all.Renormalize(kept)
		if err != nil {
			return Composite{}, err
		}
		effective = renormed
	}

	breakdown := make(map[string]float64, len(kept))
	value := 0.0
	for _, t := range tracks {
		if !t.Applicable {
			continue
		}
		breakdown[t.Track] = t.Subtotal
		value += t.Subtotal * effective[t.Track]
	}
	value = math.Max(MinScore, math.Min(MaxScore, value))

	return Composite{Value: value, Breakdown: breakdown, TrackPartial: partial}, nil
}
