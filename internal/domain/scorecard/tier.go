package scorecard

import "fmt"

// TierThreshold is one rung of the tier ladder: composites meeting or
// exceeding Cutoff earn Label unless a higher rung already matched.
type TierThreshold struct {
	Cutoff float64
	Label  string
}

// TierTable is ordered by descending cutoff. The last entry is expected
// to sit at or below the minimum composite so it acts as the catch-all
// bottom tier; Validate enforces this.
type TierTable []TierThreshold

// Validate checks ordering, labels, and catch-all coverage.
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: empty tier table", ErrInvalidFramework)
	}
	prev := 0.0
	for i, th := range t {
		if th.Label == "" {
			return fmt.Errorf("%w: tier %d has empty label", ErrInvalidFramework, i)
		}
		if i > 0 && th.Cutoff >= prev {
			return fmt.Errorf("%w: tier cutoffs must be strictly descending", ErrInvalidFramework)
		}
		prev = th.Cutoff
	}
	if t[len(t)-1].Cutoff > MinScore {
		return fmt.Errorf("%w: lowest tier cutoff %.2f leaves composites unclassifiable", ErrInvalidFramework, t[len(t)-1].Cutoff)
	}
	return nil
}

// ClassifyTier maps a composite to the highest tier it meets or exceeds.
// With a validated table every composite in range matches; a miss means
// the table was never validated and is reported as ErrUnclassifiable.
func ClassifyTier(composite float64, table TierTable) (string, error) {
	for _, th := range table {
		if composite >= th.Cutoff {
			return th.Label, nil
		}
	}
	return "", fmt.Errorf("%w: composite %.3f below catch-all tier", ErrUnclassifiable, composite)
}
