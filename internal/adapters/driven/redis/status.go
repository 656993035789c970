package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

var _ driven.StatusChannel = (*StatusChannel)(nil)

const statusKeyPrefix = "source:"

// StatusChannel implements driven.StatusChannel as a string-valued Redis
// key per source id (§6), polled by clients tracking ingestion progress.
type StatusChannel struct {
	client *redis.Client
}

// NewStatusChannel returns a StatusChannel backed by client.
func NewStatusChannel(client *redis.Client) *StatusChannel {
	return &StatusChannel{client: client}
}

func (s *StatusChannel) Set(ctx context.Context, sourceID string, status domain.IngestionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	if err := s.client.Set(ctx, statusKeyPrefix+sourceID, string(status), 0).Err(); err != nil {
		return fmt.Errorf("set status for %s: %w", sourceID, err)
	}
	return nil
}

func (s *StatusChannel) Get(ctx context.Context, sourceID string) (domain.IngestionStatus, error) {
	val, err := s.client.Get(ctx, statusKeyPrefix+sourceID).Result()
	if err == redis.Nil {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get status for %s: %w", sourceID, err)
	}
	status := domain.IngestionStatus(val)
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrStorageFailure, val)
	}
	return status, nil
}
