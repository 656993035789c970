package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	q, err := NewQueue(client)
	require.NoError(t, err)
	return q
}

func TestQueue_PushPop(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	task := domain.IngestionTask{
		Type:   domain.TaskTypeURL,
		ID:     "source-1",
		UserID: "user-1",
		URL:    "https://example.com/doc",
	}

	require.NoError(t, q.Push(ctx, task))

	got, err := q.Pop(ctx)
	require.NoError(t, err)
	require.Equal(t, task, got)
}

func TestQueue_PopBlocksUntilCanceled(t *testing.T) {
	q := newTestQueue(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	require.Error(t, err)
}

func TestQueue_FIFOOrder(t *testing.T) {
	q := newTestQueue(t)
	ctx := context.Background()

	first := domain.IngestionTask{ID: "a", Type: domain.TaskTypeURL, URL: "https://a"}
	second := domain.IngestionTask{ID: "b", Type: domain.TaskTypeURL, URL: "https://b"}

	require.NoError(t, q.Push(ctx, first))
	require.NoError(t, q.Push(ctx, second))

	got1, err := q.Pop(ctx)
	require.NoError(t, err)
	require.Equal(t, "a", got1.ID)

	got2, err := q.Pop(ctx)
	require.NoError(t, err)
	require.Equal(t, "b", got2.ID)
}
