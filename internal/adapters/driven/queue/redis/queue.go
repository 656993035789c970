// Package redis implements the work queue on top of a plain Redis list, replacing the streams/consumer-group machinery the
// teacher used: spec.md §6 describes a single list key consumed via
// blocking left-pop, with no ack/claim/retry semantics.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

// queueKey is the Redis list the ingestion worker blocks on.
const queueKey = "file_processing_queue"

// blockTimeout bounds a single BLPOP call so Pop can re-check ctx
// cancellation instead of blocking forever.
const blockTimeout = 5 * time.Second

var _ driven.TaskQueue = (*Queue)(nil)

// Queue implements driven.TaskQueue over a Redis list.
type Queue struct {
	client *redis.Client
}

// NewQueue returns a Queue backed by client.
func NewQueue(client *redis.Client) (*Queue, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &Queue{client: client}, nil
}

// Push serializes task and right-pushes it onto the queue list.
func (q *Queue) Push(ctx context.Context, task domain.IngestionTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	if err := q.client.RPush(ctx, queueKey, data).Err(); err != nil {
		return fmt.Errorf("push task: %w", err)
	}
	return nil
}

// Pop blocks on the queue list until a task is available or ctx is
// canceled. A dropped Redis connection surfaces as
// domain.ErrQueueConnectionLost so the worker can reconnect and resume
// blocking without losing the at-most-once semantics BLPOP already gives.
func (q *Queue) Pop(ctx context.Context) (domain.IngestionTask, error) {
	for {
		result, err := q.client.BLPop(ctx, blockTimeout, queueKey).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return domain.IngestionTask{}, ctx.Err()
			}
			return domain.IngestionTask{}, fmt.Errorf("%w: %v", domain.ErrQueueConnectionLost, err)
		}

		// result[0] is the key name, result[1] is the popped value.
		if len(result) != 2 {
			continue
		}

		var task domain.IngestionTask
		if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
			return domain.IngestionTask{}, fmt.Errorf("unmarshal task: %w", err)
		}
		return task, nil
	}
}
