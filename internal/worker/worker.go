// Package worker runs the ingestion pipeline by blocking on the task
// queue and driving the ingestion orchestrator for each popped task.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driving"
)

// Config holds worker configuration.
type Config struct {
	TaskQueue    driven.TaskQueue
	Orchestrator driving.IngestionOrchestrator
	Logger       *slog.Logger
	Concurrency  int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(queue driven.TaskQueue, orchestrator driving.IngestionOrchestrator) Config {
	return Config{
		TaskQueue:    queue,
		Orchestrator: orchestrator,
		Logger:       slog.Default(),
		Concurrency:  1,
	}
}

// Worker pops ingestion tasks from the queue and runs them through the
// ingestion orchestrator. A popped task with no ack mechanism is simply
// gone if the process crashes mid-run — no retry (§4.9).
type Worker struct {
	taskQueue    driven.TaskQueue
	orchestrator driving.IngestionOrchestrator
	logger       *slog.Logger
	concurrency  int

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a Worker from cfg.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		taskQueue:    cfg.TaskQueue,
		orchestrator: cfg.Orchestrator,
		logger:       logger,
		concurrency:  concurrency,
	}
}

// Start begins concurrency worker goroutines, each blocking on the queue
// in a loop until ctx is canceled or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	w.logger.Info("worker starting", "concurrency", w.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.processLoop(ctx, workerID)
		}(i)
	}

	go func() {
		wg.Wait()
		close(w.doneCh)
	}()
}

// Stop signals every worker goroutine to exit and blocks until they do.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.mu.Unlock()

	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("worker stopped")
}

func (w *Worker) processLoop(ctx context.Context, workerID int) {
	logger := w.logger.With("worker_id", workerID)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		default:
		}

		task, err := w.taskQueue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("pop failed, backing off", "error", err)
			time.Sleep(time.Second)
			continue
		}

		start := time.Now()
		if err := w.orchestrator.Process(ctx, task); err != nil {
			logger.Error("ingestion failed", "source_id", task.ID, "duration", time.Since(start), "error", err)
			continue
		}
		logger.Info("ingestion completed", "source_id", task.ID, "duration", time.Since(start))
	}
}
