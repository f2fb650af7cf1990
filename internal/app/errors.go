package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotConfigured = errors.New("service not configured")
	ErrInvalidRecord = errors.New("invalid metric record")
	ErrRunFailed     = errors.New("scoring run failed")
)
