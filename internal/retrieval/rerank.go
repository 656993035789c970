package retrieval

import (
	"context"
	"sync"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

// rerankTopK is the number of parent chunks kept per query after
// reranking (§4.8).
const rerankTopK = 10

// RerankDriver narrows each query's candidate parent chunks down to the
// top K via the remote reranker, concurrently across queries.
type RerankDriver struct {
	reranker driven.Reranker
}

// NewRerankDriver returns a RerankDriver backed by reranker.
func NewRerankDriver(reranker driven.Reranker) *RerankDriver {
	return &RerankDriver{reranker: reranker}
}

// Filter reranks each query's ParentChunks against its own text and
// returns the resulting FilteredQueryResult set. A query with no
// candidate chunks produces an empty result with no remote call (§4.8).
func (d *RerankDriver) Filter(ctx context.Context, queries []domain.OptimizedQuery) ([]domain.FilteredQueryResult, error) {
	results := make([]domain.FilteredQueryResult, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q domain.OptimizedQuery) {
			defer wg.Done()

			if len(q.ParentChunks) == 0 {
				results[i] = domain.FilteredQueryResult{Query: q}
				return
			}

			ranked, err := d.reranker.Rerank(ctx, q.OptimizedQuery, q.ParentChunks, rerankTopK)
			if err != nil {
				errs[i] = err
				return
			}

			filtered := make([]domain.FilteredParentChunk, len(ranked))
			for j, c := range ranked {
				filtered[j] = domain.FilteredParentChunk{
					Content:  c.CleanContent,
					SourceID: c.SourceID,
					ChunkID:  c.ID,
				}
			}
			results[i] = domain.FilteredQueryResult{Query: q, ParentChunks: filtered}
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
