package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

func TestStatusChannel_SetGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ch := NewStatusChannel(client)
	ctx := context.Background()

	require.NoError(t, ch.Set(ctx, "source-1", domain.StatusChunking))

	got, err := ch.Get(ctx, "source-1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusChunking, got)
}

func TestStatusChannel_GetMissing(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	ch := NewStatusChannel(client)
	ctx := context.Background()

	_, err := ch.Get(ctx, "nonexistent")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
