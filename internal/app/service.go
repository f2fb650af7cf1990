// Package service provides the core business service that implements
// the dependencies required by the HTTP API: record intake, scoring runs,
// and ranked scorecard reads.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dinneroo/zonescore/internal/adapters/mq/queue"
	workerpool "github.com/dinneroo/zonescore/internal/adapters/mq/worker"
	"github.com/dinneroo/zonescore/internal/adapters/repository"
	"github.com/dinneroo/zonescore/internal/config"
	"github.com/dinneroo/zonescore/internal/domain/dedupe"
	"github.com/dinneroo/zonescore/internal/domain/estimator"
	"github.com/dinneroo/zonescore/internal/domain/model"
	"github.com/dinneroo/zonescore/internal/domain/scorecard"
	"github.com/dinneroo/zonescore/internal/domain/taxonomy"
	"github.com/dinneroo/zonescore/internal/domain/types"
	"github.com/dinneroo/zonescore/internal/ingest"
	"github.com/dinneroo/zonescore/pkg/logger"
	"github.com/dinneroo/zonescore/pkg/metrics"
)

// Dataset points at one metric dataset to ingest at startup.
type Dataset struct {
	Path   string
	Format string
	Source model.Source
}

// RunSummary describes one completed scoring run.
type RunSummary struct {
	RunID          string        `json:"run_id"`
	RecordCount    int           `json:"record_count"`
	EntitiesScored int           `json:"entities_scored"`
	Duration       time.Duration `json:"-"`
	DurationMS     int64         `json:"duration_ms"`
	StartedAt      time.Time     `json:"started_at"`
}

// Service implements record intake and batch scoring over the store.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	deduper  dedupe.Deduper
	taxonomy taxonomy.Table

	// Scoring configuration
	framework        *scorecard.Framework
	populationPolicy string
	estimatorDefault *float64

	// Service configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	datasets    []Dataset

	// State
	started bool
	records []model.MetricRecord
	lastRun RunSummary
	runs    int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of scoring workers per run.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the score-job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the record deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of shards in the scorecard store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFramework sets the validated scoring framework.
func WithFramework(fw *scorecard.Framework) Option {
	return func(s *Service) {
		if fw != nil {
			s.framework = fw
		}
	}
}

// WithTaxonomy sets the canonical category table applied at intake.
func WithTaxonomy(t taxonomy.Table) Option {
	return func(s *Service) {
		s.taxonomy = t
	}
}

// WithPopulationPolicy selects how percentile populations are built.
func WithPopulationPolicy(policy string) Option {
	return func(s *Service) {
		if policy != "" {
			s.populationPolicy = policy
		}
	}
}

// WithEstimatorDefault sets the fallback value for factors with no
// population prior. Nil disables the default.
func WithEstimatorDefault(value *float64) Option {
	return func(s *Service) {
		s.estimatorDefault = value
	}
}

// WithDatasets sets the datasets ingested on Start.
func WithDatasets(datasets []Dataset) Option {
	return func(s *Service) {
		s.datasets = datasets
	}
}

// New constructs a new Service with default configuration. A framework
// must be supplied via WithFramework before Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 4,
		queueSize:        100_000,
		dedupeSize:       500_000,
		shardCount:       8,
		populationPolicy: config.PopulationObservedOnly,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes components, ingests configured datasets, and scores
// an initial run when any records were loaded.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.framework == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: no scoring framework configured", ErrNotConfigured)
	}

	s.logger.Info(ctx, "starting zone analysis service...")
	s.store = repository.NewSnapshotStore(ctx, repository.WithShardCount(s.shardCount))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.started = true
	datasets := s.datasets
	s.mu.Unlock()

	loaded := 0
	for _, ds := range datasets {
		records, err := ingest.Load(ctx, ds.Path, ds.Format, ds.Source)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", ds.Path, err)
		}
		for _, rec := range records {
			dup, err := s.SubmitRecord(ctx, rec)
			if err != nil {
				s.logger.Warn(ctx, "rejected dataset record",
					logger.String("recordID", rec.RecordID),
					logger.Error(err),
				)
				continue
			}
			if !dup {
				loaded++
			}
		}
	}

	s.logger.Info(ctx, "zone analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("datasets", len(datasets)),
		logger.Int("recordsLoaded", loaded),
	)

	if loaded > 0 {
		if _, err := s.Run(ctx); err != nil {
			return fmt.Errorf("initial scoring run: %w", err)
		}
	}
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "zone analysis service stopped")
}

// SubmitRecord validates and accepts one metric record for the next run.
// Returns true when the record id was already seen.
func (s *Service) SubmitRecord(ctx context.Context, rec model.MetricRecord) (bool, error) {
	if !rec.EntityKind.Valid() {
		return false, fmt.Errorf("%w: unknown entity kind %q", ErrInvalidRecord, rec.EntityKind)
	}
	if rec.EntityID == "" || rec.Factor == "" {
		return false, fmt.Errorf("%w: entity id and factor are required", ErrInvalidRecord)
	}
	if !rec.Source.Measured() {
		return false, fmt.Errorf("%w: unknown source %q", ErrInvalidRecord, rec.Source)
	}

	// Fold sub-categories (e.g. dish sub-cuisines) into their canonical
	// parent before the record enters any population.
	if rec.EntityKind == model.KindCuisine {
		rec.EntityID = s.taxonomy.Canonical(rec.EntityID)
	}

	if s.deduper.SeenAndRecord(ctx, rec.RecordID) {
		metrics.RecordRecordDuplicate()
		return true, nil
	}

	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	metrics.RecordRecordIngested()
	return false, nil
}

// Run executes one full scoring run over all accepted records: assemble
// entities, build per-kind factor populations, then score every entity
// through the worker pool into a freshly reset store.
func (s *Service) Run(ctx context.Context) (RunSummary, error) {
	start := time.Now()
	metrics.RecordRunStarted()

	s.mu.RLock()
	records := make([]model.MetricRecord, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	summary := RunSummary{
		RunID:       uuid.New().String(),
		RecordCount: len(records),
		StartedAt:   start.UTC(),
	}

	entities := assembleEntities(records)
	if len(entities) == 0 {
		s.logger.Info(ctx, "scoring run skipped: no records", logger.String("runID", summary.RunID))
		return summary, nil
	}

	scorers, err := s.buildScorers(entities)
	if err != nil {
		metrics.RecordRunFailed()
		return RunSummary{}, err
	}

	s.store.Reset(ctx)

	capacity := s.queueSize
	if capacity < len(entities) {
		capacity = len(entities)
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))
	pool := workerpool.NewPool(s.workerCount, q, scorers, s.store)
	pool.Start(ctx)

	for _, e := range entities {
		if !q.Enqueue(ctx, e) {
			_ = q.Close()
			metrics.RecordRunFailed()
			return RunSummary{}, fmt.Errorf("%w: queue rejected entity %s", ErrRunFailed, e.ID)
		}
	}
	_ = q.Close()

	if err := pool.Wait(ctx); err != nil {
		metrics.RecordRunFailed()
		return RunSummary{}, fmt.Errorf("%w: %w", ErrRunFailed, err)
	}

	summary.EntitiesScored = s.store.Count(ctx)
	summary.Duration = time.Since(start)
	summary.DurationMS = summary.Duration.Milliseconds()
	metrics.RecordRunCompleted(summary.Duration.Seconds())

	s.mu.Lock()
	s.lastRun = summary
	s.runs++
	s.mu.Unlock()

	s.logger.Info(ctx, "scoring run completed",
		logger.String("runID", summary.RunID),
		logger.Int("records", summary.RecordCount),
		logger.Int("entitiesScored", summary.EntitiesScored),
		logger.Int("durationMS", int(summary.DurationMS)),
	)
	return summary, nil
}

// TopN returns the top N scorecards for an entity kind.
func (s *Service) TopN(ctx context.Context, kind model.EntityKind, n int) ([]types.Scorecard, error) {
	return s.store.TopN(ctx, kind, n)
}

// Scorecard returns the scorecard for one entity.
func (s *Service) Scorecard(ctx context.Context, entityID string) (types.Scorecard, error) {
	return s.store.Get(ctx, entityID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"records":     len(s.records),
		"runs":        s.runs,
	}
	if s.started {
		stats["entitiesTracked"] = s.store.Count(context.Background())
		stats["dedupeSize"] = s.deduper.Size()
	}
	if s.runs > 0 {
		stats["lastRunID"] = s.lastRun.RunID
		stats["lastRunEntities"] = s.lastRun.EntitiesScored
		stats["lastRunDurationMS"] = s.lastRun.DurationMS
	}
	return stats
}

// assembleEntities folds records into one entity per (kind, id). The last
// record wins for a repeated factor, matching recompute-from-inputs
// semantics: nothing is merged or averaged at intake.
func assembleEntities(records []model.MetricRecord) []model.Entity {
	byKey := make(map[string]*model.Entity)
	var order []string
	for _, rec := range records {
		key := string(rec.EntityKind) + "|" + rec.EntityID
		e, ok := byKey[key]
		if !ok {
			e = &model.Entity{
				ID:           rec.EntityID,
				Kind:         rec.EntityKind,
				Observations: make(map[string]model.Observation),
			}
			byKey[key] = e
			order = append(order, key)
		}
		e.Observations[rec.Factor] = model.Observation{Value: rec.Value, Source: rec.Source}
	}
	out := make([]model.Entity, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}

// kindScorer routes each job to the engine and populations built for its
// entity kind: percentile binning is population-relative, and entities of
// different kinds are never comparable.
type kindScorer struct {
	engines     map[model.EntityKind]*scorecard.Engine
	populations map[model.EntityKind]scorecard.Populations
}

// Score implements worker.Scorer.
func (k *kindScorer) Score(ctx context.Context, job model.Entity) (types.Scorecard, error) {
	engine, ok := k.engines[job.Kind]
	if !ok {
		return types.Scorecard{}, fmt.Errorf("%w: no engine for kind %q", ErrRunFailed, job.Kind)
	}
	return engine.Score(ctx, job, k.populations[job.Kind])
}

// buildScorers constructs, per entity kind present in the run, the factor
// populations, the median-prior estimator, and a scoring engine.
func (s *Service) buildScorers(entities []model.Entity) (*kindScorer, error) {
	byKind := make(map[model.EntityKind][]model.Entity)
	for _, e := range entities {
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}

	ks := &kindScorer{
		engines:     make(map[model.EntityKind]*scorecard.Engine, len(byKind)),
		populations: make(map[model.EntityKind]scorecard.Populations, len(byKind)),
	}
	for kind, kindEntities := range byKind {
		pops := s.buildPopulations(kindEntities)

		priors := make(map[string]float64, len(pops))
		for factor, values := range pops {
			if median, ok := scorecard.Median(values); ok {
				priors[factor] = median
			}
		}
		estOpts := []estimator.Option{}
		if s.estimatorDefault != nil {
			estOpts = append(estOpts, estimator.WithDefault(*s.estimatorDefault))
		}

		engine, err := scorecard.NewEngine(s.framework,
			scorecard.WithEstimator(estimator.NewPrior(priors, estOpts...)),
		)
		if err != nil {
			return nil, fmt.Errorf("building engine for kind %q: %w", kind, err)
		}
		ks.engines[kind] = engine
		ks.populations[kind] = pops
	}
	return ks, nil
}

// buildPopulations collects, per factor, the values the percentile binner
// ranks against. Under the "all" policy every entity of the kind joins
// every factor population, contributing zero when unobserved; under
// "observed_only" a factor's population is only the entities that
// actually reported it.
func (s *Service) buildPopulations(entities []model.Entity) scorecard.Populations {
	pops := make(scorecard.Populations)
	factors := make(map[string]struct{})
	for _, track := range s.framework.Tracks {
		for _, f := range track.Factors {
			factors[f.Name] = struct{}{}
		}
	}
	for factor := range factors {
		var values []float64
		for _, e := range entities {
			if obs, ok := e.Observed(factor); ok {
				values = append(values, obs.Value)
			} else if s.populationPolicy == config.PopulationAll {
				values = append(values, 0)
			}
		}
		if len(values) > 0 {
			pops[factor] = values
		}
	}
	return pops
}
