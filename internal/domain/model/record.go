// Package model contains domain models passed between layers.
package model

import "time"

// EntityKind identifies what class of business object a record describes.
type EntityKind string

// Entity kinds scored by the pipeline.
const (
	KindDish    EntityKind = "dish"
	KindZone    EntityKind = "zone"
	KindCuisine EntityKind = "cuisine"
	KindPartner EntityKind = "partner"
)

// Valid reports whether k is one of the known entity kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case KindDish, KindZone, KindCuisine, KindPartner:
		return true
	}
	return false
}

// Source identifies the upstream dataset a metric observation came from.
// Behavioral and survey sources count as independent for evidence
// triangulation; estimated values never count as measured data.
type Source string

// Known metric sources.
const (
	SourceBehavioral Source = "behavioral" // order extracts
	SourceSurvey     Source = "survey"     // survey exports
	SourceSupply     Source = "supply"     // supply spreadsheets
	SourceEstimated  Source = "estimated"  // estimator fallback
)

// Measured reports whether the source carries real observed data.
func (s Source) Measured() bool {
	return s == SourceBehavioral || s == SourceSurvey || s == SourceSupply
}

// MetricRecord is one raw numeric observation about an entity, as produced
// by the ingest layer. RecordID is the idempotency key for deduplication.
type MetricRecord struct {
	RecordID   string
	EntityID   string
	EntityKind EntityKind
	Factor     string
	Value      float64
	Source     Source
	ObservedAt time.Time
}

// Observation is a factor value attached to an entity, after dedupe and
// assembly. Missing factors simply have no Observation.
type Observation struct {
	Value  float64
	Source Source
}

// Entity is the unit of scoring: a stable identity plus the observations
// assembled for it in the current run. Identity is immutable; scorecards
// are recomputed from scratch every run, never mutated incrementally.
type Entity struct {
	ID           string
	Kind         EntityKind
	Observations map[string]Observation // factor name -> observation
}

// Observed returns the observation for a factor, if any.
func (e Entity) Observed(factor string) (Observation, bool) {
	o, ok := e.Observations[factor]
	return o, ok
}
