// Package metrics provides Prometheus metrics for the zonescore service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the zonescore service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion metrics
	recordsIngested  prometheus.Counter
	recordsDuplicate prometheus.Counter
	recordsRejected  prometheus.Counter

	// Run metrics
	runsStarted    prometheus.Counter
	runsCompleted  prometheus.Counter
	runsFailed     prometheus.Counter
	runDuration    prometheus.Histogram
	entitiesScored prometheus.Counter
	scoringLatency prometheus.Histogram
	scoringErrors  prometheus.Counter
	tracksDropped  prometheus.Counter
	evidenceLevels *prometheus.CounterVec

	// Store metrics
	entitiesTracked prometheus.Gauge
	snapshotRebuild prometheus.Histogram

	// Queue metrics
	queueCapacity      prometheus.Gauge
	queueSize          prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount       prometheus.Gauge
	workerErrors      prometheus.Counter
	workerScoringTime prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage prometheus.Gauge
	systemGoroutines  prometheus.Gauge
	systemGCPause     prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "zonescore",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_ingested_total",
		Help: "Total number of metric records accepted for scoring",
	})
	m.recordsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_duplicate_total",
		Help: "Total number of duplicate metric records rejected by dedupe",
	})
	m.recordsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "records_rejected_total",
		Help: "Total number of malformed metric records rejected at ingest",
	})

	m.runsStarted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "runs_started_total",
		Help: "Total number of scoring runs started",
	})
	m.runsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "runs_completed_total",
		Help: "Total number of scoring runs completed",
	})
	m.runsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "runs_failed_total",
		Help: "Total number of scoring runs aborted on configuration or pipeline errors",
	})
	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "run_duration_seconds",
		Help:    "Histogram of end-to-end scoring run duration in seconds",
		Buckets: m.histogramBuckets,
	})
	m.entitiesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "entities_scored_total",
		Help: "Total number of entity scorecards computed",
	})
	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "scoring_latency_milliseconds",
		Help:    "Histogram of per-entity scoring latency in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scoring_errors_total",
		Help: "Total number of entities that failed scoring",
	})
	m.tracksDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "tracks_dropped_total",
		Help: "Total number of track-partial composites (a track renormalized away)",
	})
	m.evidenceLevels = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "evidence_levels_total",
		Help: "Scorecards by evidence level",
	}, []string{"level"})

	m.entitiesTracked = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "entities_tracked",
		Help: "Number of entities currently held in the scorecard store",
	})
	m.snapshotRebuild = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "ranking_snapshot_rebuild_milliseconds",
		Help:    "Histogram of ranking snapshot rebuild duration in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured capacity of the score-job queue",
	})
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current number of queued score jobs",
	})
	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_utilization",
		Help: "Queue fill ratio between 0 and 1",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueues_total",
		Help: "Total number of score jobs enqueued",
	})
	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_dequeues_total",
		Help: "Total number of score jobs dequeued by workers",
	})
	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Total number of rejected enqueues (full or closed queue)",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Number of scoring workers in the pool",
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Total number of worker processing errors",
	})
	m.workerScoringTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_processing_milliseconds",
		Help:    "Histogram of worker job processing time in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method, and status",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_seconds",
		Help:    "Histogram of HTTP request duration by endpoint",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Current allocated heap memory in bytes",
	})
	m.systemGoroutines = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current number of goroutines",
	})
	m.systemGCPause = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "system_gc_pause_milliseconds",
		Help:    "Histogram of average GC pause time in milliseconds",
		Buckets: m.histogramBuckets,
	})
}

// GetRegistry returns the registry backing the global manager, for the
// /metrics exposition handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers against the global manager.

func RecordRecordIngested()  { globalManager.recordsIngested.Inc() }
func RecordRecordDuplicate() { globalManager.recordsDuplicate.Inc() }
func RecordRecordRejected()  { globalManager.recordsRejected.Inc() }

func RecordRunStarted() { globalManager.runsStarted.Inc() }
func RecordRunCompleted(seconds float64) {
	globalManager.runsCompleted.Inc()
	globalManager.runDuration.Observe(seconds)
}
func RecordRunFailed()    { globalManager.runsFailed.Inc() }
func RecordEntityScored() { globalManager.entitiesScored.Inc() }
func RecordScoringLatency(ms float64) {
	globalManager.scoringLatency.Observe(ms)
}
func RecordScoringError() { globalManager.scoringErrors.Inc() }
func RecordTrackDropped() { globalManager.tracksDropped.Inc() }
func RecordEvidenceLevel(level string) {
	globalManager.evidenceLevels.WithLabelValues(level).Inc()
}

func UpdateEntitiesTracked(n int) { globalManager.entitiesTracked.Set(float64(n)) }
func RecordSnapshotRebuild(ms float64) {
	globalManager.snapshotRebuild.Observe(ms)
}

func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueSize(n int)     { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueUtilization(ratio float64) {
	globalManager.queueUtilization.Set(ratio)
}
func RecordQueueEnqueue()      { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()      { globalManager.queueDequeues.Inc() }
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }
func RecordWorkerError()      { globalManager.workerErrors.Inc() }
func RecordWorkerProcessingLatency(ms float64) {
	globalManager.workerScoringTime.Observe(ms)
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}
func ObserveHTTPRequestDuration(endpoint string, seconds float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(seconds)
}

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)     { globalManager.systemGoroutines.Set(float64(n)) }
func RecordSystemGCPauseTime(ms float64) {
	globalManager.systemGCPause.Observe(ms)
}
