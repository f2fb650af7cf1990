package scorecard

import "errors"

// Sentinel kinds for scoring errors. Configuration-shaped errors
// (ErrWeightSum, ErrUnclassifiable) are detected eagerly by
// Framework.Validate and abort the run; ErrInvalidPopulation indicates a
// factor was binned against an empty population.
var (
	ErrInvalidPopulation  = errors.New("invalid population")
	ErrWeightSum          = errors.New("weights do not sum to 1.0")
	ErrUnclassifiable     = errors.New("composite not classifiable")
	ErrNoApplicableTracks = errors.New("no applicable tracks")
	ErrInvalidFramework   = errors.New("invalid scoring framework")
)
