package repository

import "errors"

// Sentinel kinds for scorecard store errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
