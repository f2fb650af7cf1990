package config

import "errors"

// Sentinel kinds for configuration errors, matchable with errors.Is.
// ErrInvalidConfig covers both service settings and the scoring
// framework document; ErrLoadConfig covers file and env layering.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
