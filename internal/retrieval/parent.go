package retrieval

import (
	"context"
	"regexp"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

// ParentFetcher bulk-fetches parent chunks and strips their provenance
// markers before they're handed to the reranker or LLM (§4.7).
type ParentFetcher struct {
	parents driven.ParentChunkStore
}

// NewParentFetcher returns a ParentFetcher backed by parents.
func NewParentFetcher(parents driven.ParentChunkStore) *ParentFetcher {
	return &ParentFetcher{parents: parents}
}

// Fetch bulk-loads every parent chunk referenced across queries and
// assigns each query's ParentChunks field, with CleanContent set to the
// marker-stripped content and Content replaced by it so downstream stages
// never see markers.
func (f *ParentFetcher) Fetch(ctx context.Context, queries []domain.OptimizedQuery) ([]domain.OptimizedQuery, error) {
	ids := uniqueIDs(queries)
	if len(ids) == 0 {
		return queries, nil
	}

	chunks, err := f.parents.GetBatch(ctx, ids)
	if err != nil {
		return nil, err
	}

	markers := regexp.MustCompile(`<<</?\d+>>>`)
	byID := make(map[string]domain.ParentChunk, len(chunks))
	for _, c := range chunks {
		c.CleanContent = markers.ReplaceAllString(c.Content, "")
		c.Content = c.CleanContent
		byID[c.ID] = c
	}

	out := make([]domain.OptimizedQuery, len(queries))
	for i, q := range queries {
		q.ParentChunks = make([]domain.ParentChunk, 0, len(q.ParentIDs))
		for _, id := range q.ParentIDs {
			if c, ok := byID[id]; ok {
				q.ParentChunks = append(q.ParentChunks, c)
			}
		}
		out[i] = q
	}
	return out, nil
}

func uniqueIDs(queries []domain.OptimizedQuery) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, q := range queries {
		for _, id := range q.ParentIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
