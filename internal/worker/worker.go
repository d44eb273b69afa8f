// Package worker runs the job-processing loop: a single-threaded poller
// that claims at most one job per tick across the receipt, export and
// deletion queues and dispatches it to the matching processor.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/budget-pipeline/constants"
	"github.com/joseph-ayodele/budget-pipeline/internal/entity"
	"github.com/joseph-ayodele/budget-pipeline/internal/repository"
)

// Processor owns one job kind's state transitions and side effects.
// Implementations absorb their own failures into the job row; Process never
// propagates an error, so the loop survives anything a job does.
type Processor interface {
	Process(ctx context.Context, job *entity.Job)
}

type Worker struct {
	jobs         repository.JobStore
	processors   map[constants.JobKind]Processor
	pollInterval time.Duration
	stop         chan struct{}
	done         chan struct{}
	logger       *slog.Logger
}

func New(jobs repository.JobStore, pollInterval time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Worker{
		jobs:         jobs,
		processors:   make(map[constants.JobKind]Processor),
		pollInterval: pollInterval,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		logger:       logger,
	}
}

// Register adds the processor for a job kind.
func (w *Worker) Register(kind constants.JobKind, p Processor) {
	w.processors[kind] = p
}

// Start begins polling in a background goroutine.
func (w *Worker) Start() {
	go func() {
		defer close(w.done)
		w.logger.Info("worker.started", "poll_interval", w.pollInterval.String())

		for {
			select {
			case <-w.stop:
				w.logger.Info("worker.stopping")
				return
			default:
				if !w.Tick(context.Background()) {
					// Idle or claim error: wait before polling again.
					select {
					case <-w.stop:
					case <-time.After(w.pollInterval):
					}
				}
			}
		}
	}()
}

// Stop signals the worker and waits for the in-flight job, if any, to run
// to completion. A job is never cancelled mid-flight.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
	w.logger.Info("worker.stopped")
}

// Tick claims and processes at most one job. Returns false when the queues
// were empty or the claim failed, signalling the caller to back off.
func (w *Worker) Tick(ctx context.Context) bool {
	job, err := w.jobs.ClaimNext(ctx)
	if err != nil {
		w.logger.Error("worker.claim_error", "error", err)
		return false
	}
	if job == nil {
		return false
	}

	p, ok := w.processors[job.Kind]
	if !ok {
		w.logger.Error("worker.unknown_kind", "kind", job.Kind, "job_id", job.ID)
		_ = w.jobs.MarkFailed(ctx, job.Kind, job.ID, "no processor registered for kind "+string(job.Kind))
		observeJob(job.Kind, constants.JobStatusFailed, time.Now())
		return true
	}

	start := time.Now()
	p.Process(ctx, job)
	w.logger.Info("worker.job_processed",
		"kind", job.Kind, "job_id", job.ID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return true
}
