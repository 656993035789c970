package driven

import (
	"context"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// TaskQueue is the ingestion work queue: a plain FIFO list, pushed to by
// the driving HTTP adapter and consumed by blocking pop in the worker
// (§6). Unlike a streams/consumer-group queue, a popped task with no ack
// mechanism is simply gone if the worker crashes mid-processing — no
// retry, matching spec.md §4.9's "no implicit retry" invariant.
type TaskQueue interface {
	Push(ctx context.Context, task domain.IngestionTask) error
	// Pop blocks until a task is available or ctx is canceled.
	Pop(ctx context.Context) (domain.IngestionTask, error)
}

// StatusChannel is the string-valued per-source status key (§6), read by
// clients polling ingestion progress and written by the ingestion
// orchestrator at each state-machine transition.
type StatusChannel interface {
	Set(ctx context.Context, sourceID string, status domain.IngestionStatus) error
	Get(ctx context.Context, sourceID string) (domain.IngestionStatus, error)
}

// DistributedLock guards against the same source being processed by two
// workers concurrently.
type DistributedLock interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
