package seeddata

import "time"

// Config holds configuration for the seed run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumEntities int           // Number of entities to generate per kind
	TopN        int           // Number of top ranking entries to fetch
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated records
	LogFile     string        // Log file for seed output
	Verbose     bool          // Enable verbose logging
}

// Record represents a metric record to be submitted.
type Record struct {
	RecordID   string  `json:"record_id"`
	EntityID   string  `json:"entity_id"`
	EntityKind string  `json:"entity_kind"`
	Factor     string  `json:"factor"`
	Value      float64 `json:"value"`
	Source     string  `json:"source"`
	ObservedAt string  `json:"observed_at"`
}

// RankingEntry represents a ranked scorecard from the rankings endpoint.
type RankingEntry struct {
	Rank       int     `json:"rank"`
	EntityID   string  `json:"entity_id"`
	EntityKind string  `json:"entity_kind"`
	Composite  float64 `json:"composite"`
	Tier       string  `json:"tier"`
	Quadrant   string  `json:"quadrant"`
	Evidence   string  `json:"evidence"`
}

// AckResponse represents the response from record submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// RunResponse represents the response from triggering a scoring run.
type RunResponse struct {
	RunID          string `json:"run_id"`
	RecordCount    int    `json:"record_count"`
	EntitiesScored int    `json:"entities_scored"`
}

// Stats holds seed run statistics.
type Stats struct {
	RecordsGenerated  int
	RecordsSubmitted  int
	RecordsSuccessful int
	RecordsDuplicate  int
	RecordsFailed     int
	EntitiesScored    int
	RankingEntries    int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
