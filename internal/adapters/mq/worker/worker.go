// Package worker defines the pool that scores queued entities and writes
// the resulting scorecards.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/dinneroo/zonescore/internal/adapters/mq/queue"
	"github.com/dinneroo/zonescore/internal/domain/types"
	"github.com/dinneroo/zonescore/pkg/logger"
	"github.com/dinneroo/zonescore/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	poolDrainTimeout        = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = queue.Job

// Scorer computes a scorecard for an entity. Entity pipelines are
// independent, so any number of workers may call Score concurrently.
type Scorer interface {
	Score(ctx context.Context, j Job) (types.Scorecard, error)
}

// Writer persists a computed scorecard.
type Writer interface {
	Put(ctx context.Context, card types.Scorecard) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker drains the queue, scoring each entity and writing the result.
type Worker struct {
	queue  Queue
	scorer Scorer
	writer Writer
	name   string

	done   chan struct{}
	logger logger.Logger
}

// NewWorker creates a single worker with configuration options.
func NewWorker(q Queue, scorer Scorer, writer Writer, opts ...Option) *Worker {
	w := &Worker{
		queue:  q,
		scorer: scorer,
		writer: writer,
		name:   "worker",
		done:   make(chan struct{}),
		logger: logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run drains jobs until the queue closes or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "error scoring entity", logger.Error(err))
			}
		}
	}
}

// process scores a single entity and persists the scorecard.
func (w *Worker) process(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	scoreStart := time.Now()
	card, err := w.scorer.Score(ctx, job)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Milliseconds()))
	if err != nil {
		metrics.RecordScoringError()
		metrics.RecordWorkerError()
		return fmt.Errorf("failed to score entity %s: %w", job.ID, err)
	}

	if err := w.writer.Put(ctx, card); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("failed to store scorecard for %s: %w", job.ID, err)
	}

	metrics.RecordEntityScored()
	metrics.RecordEvidenceLevel(string(card.Evidence))
	if card.TrackPartial {
		metrics.RecordTrackDropped()
	}
	return nil
}

// Pool manages multiple workers for one scoring run.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates a worker pool of workerCount workers.
func NewPool(workerCount int, q Queue, scorer Scorer, writer Writer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(q, scorer, writer, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has drained the closed queue, or the
// drain timeout elapses.
func (p *Pool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	drainCtx, cancel := context.WithTimeout(ctx, poolDrainTimeout)
	defer cancel()

	select {
	case <-done:
		metrics.UpdateWorkerCount(0)
		return nil
	case <-drainCtx.Done():
		p.logger.Warn(ctx, "worker pool drain timed out")
		return fmt.Errorf("worker pool drain timed out: %w", drainCtx.Err())
	}
}
