package inference

import (
	"context"
	"fmt"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

var _ driven.Embedder = (*EmbedderClient)(nil)

// EmbedderClient produces vector embeddings for text.
type EmbedderClient struct {
	c *client
}

// NewEmbedderClient returns an EmbedderClient configured by cfg.
func NewEmbedderClient(cfg Config) *EmbedderClient {
	return &EmbedderClient{c: newClient(cfg)}
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (e *EmbedderClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var resp embedResponse
	if err := e.c.post(ctx, "/embed", embedRequest{Texts: texts}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d texts",
			domain.ErrRemoteInferenceFailure, len(resp.Embeddings), len(texts))
	}

	return resp.Embeddings, nil
}

func (e *EmbedderClient) HealthCheck(ctx context.Context) error {
	return e.c.healthCheck(ctx)
}
