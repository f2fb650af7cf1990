// Package ingest loads metric datasets — survey exports, order extracts,
// supply sheets — into metric records for scoring.
//
// Datasets are long-format: one row per observation. Malformed rows are
// skipped and counted; an unreadable file or a missing required column is
// a dataset error and fails the load.
package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dinneroo/zonescore/internal/domain/model"
	"github.com/dinneroo/zonescore/pkg/logger"
	"github.com/dinneroo/zonescore/pkg/metrics"
)

// Dataset formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Required CSV columns; observed_at and record_id are optional.
var requiredColumns = []string{"entity_id", "entity_kind", "factor", "value"}

// Load reads one dataset file and returns its metric records, all tagged
// with the given source.
func Load(ctx context.Context, path, format string, source model.Source) ([]model.MetricRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadDataset, path, err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return loadCSV(ctx, f, path, source)
	case FormatJSON:
		return loadJSON(ctx, f, path, source)
	default:
		return nil, fmt.Errorf("%w: %s: unknown format %q", ErrBadDataset, path, format)
	}
}

// loadCSV parses a long-format CSV with a header row.
func loadCSV(ctx context.Context, r io.Reader, path string, source model.Source) ([]model.MetricRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: missing header: %w", ErrBadDataset, path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrBadDataset, path, required)
		}
	}

	log := logger.Get().Named("ingest")
	var records []model.MetricRecord
	line := 1
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			skipped++
			metrics.RecordRecordRejected()
			continue
		}
		rec, ok := rowToRecord(row, cols, source)
		if !ok {
			skipped++
			metrics.RecordRecordRejected()
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		log.Warn(ctx, "skipped malformed dataset rows",
			logger.String("path", path),
			logger.Int("skipped", skipped),
		)
	}
	return records, nil
}

func rowToRecord(row []string, cols map[string]int, source model.Source) (model.MetricRecord, bool) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	kind := model.EntityKind(strings.ToLower(get("entity_kind")))
	entityID := get("entity_id")
	factor := strings.ToLower(get("factor"))
	if !kind.Valid() || entityID == "" || factor == "" {
		return model.MetricRecord{}, false
	}
	value, err := strconv.ParseFloat(get("value"), 64)
	if err != nil {
		return model.MetricRecord{}, false
	}

	observedAt := time.Time{}
	if ts := get("observed_at"); ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return model.MetricRecord{}, false
		}
		observedAt = parsed
	}

	recordID := get("record_id")
	if recordID == "" {
		// Deterministic fallback id so replayed extracts still dedupe.
		recordID = fmt.Sprintf("%s_%s_%s_%s", kind, entityID, factor, source)
	}

	return model.MetricRecord{
		RecordID:   recordID,
		EntityID:   entityID,
		EntityKind: kind,
		Factor:     factor,
		Value:      value,
		Source:     source,
		ObservedAt: observedAt,
	}, true
}

// jsonRecord mirrors the JSON dataset row shape.
type jsonRecord struct {
	RecordID   string  `json:"record_id"`
	EntityID   string  `json:"entity_id"`
	EntityKind string  `json:"entity_kind"`
	Factor     string  `json:"factor"`
	Value      float64 `json:"value"`
	ObservedAt string  `json:"observed_at"`
}

// loadJSON parses a JSON array of observation rows.
func loadJSON(ctx context.Context, r io.Reader, path string, source model.Source) ([]model.MetricRecord, error) {
	var rows []jsonRecord
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadDataset, path, err)
	}

	log := logger.Get().Named("ingest")
	var records []model.MetricRecord
	skipped := 0
	for _, row := range rows {
		kind := model.EntityKind(strings.ToLower(row.EntityKind))
		factor := strings.ToLower(strings.TrimSpace(row.Factor))
		if !kind.Valid() || row.EntityID == "" || factor == "" {
			skipped++
			metrics.RecordRecordRejected()
			continue
		}
		observedAt := time.Time{}
		if row.ObservedAt != "" {
			parsed, err := time.Parse(time.RFC3339, row.ObservedAt)
			if err != nil {
				skipped++
				metrics.RecordRecordRejected()
				continue
			}
			observedAt = parsed
		}
		recordID := row.RecordID
		if recordID == "" {
			recordID = fmt.Sprintf("%s_%s_%s_%s", kind, row.EntityID, factor, source)
		}
		records = append(records, model.MetricRecord{
			RecordID:   recordID,
			EntityID:   row.EntityID,
			EntityKind: kind,
			Factor:     factor,
			Value:      row.Value,
			Source:     source,
			ObservedAt: observedAt,
		})
	}
	if skipped > 0 {
		log.Warn(ctx, "skipped malformed dataset rows",
			logger.String("path", path),
			logger.Int("skipped", skipped),
		)
	}
	return records, nil
}
