// Package types contains common types used across the application
package types

// EvidenceLevel tags a scorecard with how much real data backed it.
type EvidenceLevel string

// Evidence levels, strongest first.
const (
	EvidenceValidated    EvidenceLevel = "validated"
	EvidenceCorroborated EvidenceLevel = "corroborated"
	EvidenceEstimated    EvidenceLevel = "estimated"
)

// Scorecard is the output record for one scored entity, as served by the
// rankings and scorecard endpoints.
type Scorecard struct {
	Rank          int                `json:"rank,omitempty"`
	EntityID      string             `json:"entity_id"`
	EntityKind    string             `json:"entity_kind"`
	FactorScores  map[string]int     `json:"factor_scores"`
	TrackSubtotal map[string]float64 `json:"track_breakdown"`
	Composite     float64            `json:"composite"`
	Tier          string             `json:"tier"`
	Quadrant      string             `json:"quadrant,omitempty"`
	Evidence      EvidenceLevel      `json:"evidence_level"`
	TrackPartial  bool               `json:"track_partial"`
}
