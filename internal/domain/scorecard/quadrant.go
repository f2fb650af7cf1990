package scorecard

import "fmt"

// QuadrantGates holds the two independent axis thresholds. An axis passes
// its gate when the score meets or exceeds it.
type QuadrantGates struct {
	X float64
	Y float64
}

// QuadrantLabels names the four regions of the grid plus the reduced
// two-region scheme used when the X axis is structurally not applicable
// (e.g. an entity with no performance data because it is not yet
// offered). Label sets vary across framework versions, so they are
// injected from configuration rather than baked in.
type QuadrantLabels struct {
	HighHigh string // X and Y above gates
	HighLow  string // X above, Y below
	LowHigh  string // X below, Y above
	LowLow   string // both below
	Prospect string // X not applicable, Y above gate
	Monitor  string // X not applicable, Y below gate
}

// Validate checks that every region is named.
func (l QuadrantLabels) Validate() error {
	for _, label := range []string{l.HighHigh, l.HighLow, l.LowHigh, l.LowLow, l.Prospect, l.Monitor} {
		if label == "" {
			return fmt.Errorf("%w: quadrant label set has empty entries", ErrInvalidFramework)
		}
	}
	return nil
}

// ClassifyQuadrant maps two axis scores onto a named region. When
// xApplicable is false the classification degrades to the two-region
// scheme gated on y alone.
func ClassifyQuadrant(x float64, xApplicable bool, y float64, gates QuadrantGates, labels QuadrantLabels) string {
	if !xApplicable {
		if y >= gates.Y {
			return labels.Prospect
		}
		return labels.Monitor
	}
	switch {
	case x >= gates.X && y >= gates.Y:
		return labels.HighHigh
	case x >= gates.X:
		return labels.HighLow
	case y >= gates.Y:
		return labels.LowHigh
	default:
		return labels.LowLow
	}
}
