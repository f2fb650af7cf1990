// Package scorecard implements the multi-factor percentile scoring core:
// percentile binning, weighted aggregation, track composition, tier and
// quadrant classification, and evidence annotation.
//
// Conventions:
// - All components are pure functions of their inputs; no state survives a run.
// - External errors must be wrapped via this package's sentinel kinds.
package scorecard

import (
	"fmt"
	"sort"
)

// Scoring scale bounds. Factor scores are ordinal 1..5; composites live in
// the same range after clamping.
const (
	MinScore = 1
	MaxScore = 5

	// neutralScore is assigned when a population is too small to rank
	// against (a single comparable value carries no ordering information).
	neutralScore = 3
)

// Boundary maps a minimum percentile rank to an ordinal score. A value
// whose rank meets or exceeds MinPercentile earns Score; ties on the
// boundary take the higher bucket.
type Boundary struct {
	MinPercentile float64
	Score         int
}

// BoundaryTable is an ordered list of boundaries, descending by
// MinPercentile. The last entry must reach down to 0 so every rank maps
// to a score.
type BoundaryTable []Boundary

// DefaultQuintiles returns the even five-bucket table: top 20% scores 5,
// each lower quintile one less.
func DefaultQuintiles() BoundaryTable {
	return BoundaryTable{
		{MinPercentile: 0.80, Score: 5},
		{MinPercentile: 0.60, Score: 4},
		{MinPercentile: 0.40, Score: 3},
		{MinPercentile: 0.20, Score: 2},
		{MinPercentile: 0.00, Score: 1},
	}
}

// TopHeavyBoundaries returns the coarser top-weighted table used for
// factors where only the head of the distribution matters: top 10% scores
// 5, top 25% scores 4, top 50% scores 3, bottom half scores 2, bottom
// quarter scores 1.
func TopHeavyBoundaries() BoundaryTable {
	return BoundaryTable{
		{MinPercentile: 0.90, Score: 5},
		{MinPercentile: 0.75, Score: 4},
		{MinPercentile: 0.50, Score: 3},
		{MinPercentile: 0.25, Score: 2},
		{MinPercentile: 0.00, Score: 1},
	}
}

// Validate checks ordering, score range, and full coverage of [0,1].
func (t BoundaryTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty boundary table", ErrInvalidFramework)
	}
	prev := 1.0 + 1e-9
	for i, b := range t {
		if b.Score < MinScore || b.Score > MaxScore {
			return fmt.Errorf("%w: boundary %d has score %d outside [%d,%d]", ErrInvalidFramework, i, b.Score, MinScore, MaxScore)
		}
		if b.MinPercentile < 0 || b.MinPercentile >= prev {
			return fmt.Errorf("%w: boundary percentiles must be strictly descending within [0,1]", ErrInvalidFramework)
		}
		prev = b.MinPercentile
	}
	if t[len(t)-1].MinPercentile != 0 {
		return fmt.Errorf("%w: last boundary must cover percentile 0", ErrInvalidFramework)
	}
	return nil
}

// score maps a percentile rank to a score. The table must be valid.
func (t BoundaryTable) score(rank float64) int {
	for _, b := range t {
		if rank >= b.MinPercentile {
			return b.Score
		}
	}
	return t[len(t)-1].Score
}

// Bin converts a raw value into a 1..5 ordinal score based on its
// percentile rank within population. The rank is the fraction of the
// population strictly below value, so the maximum of a population of n
// ranks at (n-1)/n and the minimum at 0. A population of size 1 yields
// the neutral score.
func Bin(value float64, population []float64, table BoundaryTable) (int, error) {
	if len(population) == 0 {
		return 0, fmt.Errorf("%w: empty population", ErrInvalidPopulation)
	}
	if len(population) == 1 {
		return neutralScore, nil
	}
	below := 0
	for _, p := range population {
		if p < value {
			below++
		}
	}
	rank := float64(below) / float64(len(population))
	return table.score(rank), nil
}

// Median returns the median of values, used to seed estimator priors.
// Returns false when values is empty.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}
