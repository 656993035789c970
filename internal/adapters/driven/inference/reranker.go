package inference

import (
	"context"
	"fmt"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

var _ driven.Reranker = (*RerankerClient)(nil)

// RerankerClient scores candidate parent chunks against a query (§4.8).
type RerankerClient struct {
	c *client
}

// NewRerankerClient returns a RerankerClient configured by cfg.
func NewRerankerClient(cfg Config) *RerankerClient {
	return &RerankerClient{c: newClient(cfg)}
}

type rerankRequest struct {
	Query      string   `json:"query"`
	Candidates []string `json:"candidates"`
	TopK       int      `json:"top_k"`
}

type rerankResponse struct {
	// Indices is the candidate index order the reranker selected, best
	// first, length at most TopK.
	Indices []int `json:"indices"`
}

// Rerank returns the candidates selected by the remote reranker, in its
// returned order. An empty candidate set returns empty with no remote
// call (§4.8).
func (r *RerankerClient) Rerank(ctx context.Context, query string, candidates []domain.ParentChunk, topK int) ([]domain.ParentChunk, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.CleanContent
	}

	var resp rerankResponse
	err := r.c.post(ctx, "/rerank", rerankRequest{Query: query, Candidates: texts, TopK: topK}, &resp)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ParentChunk, 0, len(resp.Indices))
	for _, idx := range resp.Indices {
		if idx < 0 || idx >= len(candidates) {
			return nil, fmt.Errorf("%w: reranker returned out-of-range index %d", domain.ErrRemoteInferenceFailure, idx)
		}
		out = append(out, candidates[idx])
	}
	return out, nil
}

func (r *RerankerClient) HealthCheck(ctx context.Context) error {
	return r.c.healthCheck(ctx)
}
