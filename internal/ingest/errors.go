package ingest

import "errors"

// Sentinel kinds for dataset loading errors.
var (
	ErrBadDataset = errors.New("bad dataset")
)
