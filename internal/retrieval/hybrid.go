// Package retrieval implements the retrieval pipeline's hybrid search
// (§4.6), parent-chunk fetch (§4.7), and reranker driver (§4.8).
package retrieval

import (
	"context"
	"sync"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

// totalCandidates is the combined candidate budget spread across every
// optimized query's concurrent vector+keyword branches (§4.6).
const totalCandidates = 100

// HybridRetriever runs the vector and keyword branches of retrieval
// concurrently per optimized query and unions their hits.
type HybridRetriever struct {
	chunks   driven.DocumentChunkStore
	embedder driven.Embedder
}

// NewHybridRetriever returns a HybridRetriever backed by chunks and
// embedder.
func NewHybridRetriever(chunks driven.DocumentChunkStore, embedder driven.Embedder) *HybridRetriever {
	return &HybridRetriever{chunks: chunks, embedder: embedder}
}

// Retrieve embeds every query in one Embed call and fills in
// ParentIDs with the deduped, first-appearance-ordered union of the
// vector branch's and keyword branch's matching parent chunk ids.
func (r *HybridRetriever) Retrieve(ctx context.Context, notebookID string, queries []domain.OptimizedQuery) ([]domain.OptimizedQuery, error) {
	if len(queries) == 0 {
		return queries, nil
	}

	perQueryLimit := totalCandidates / len(queries)
	if perQueryLimit < 1 {
		perQueryLimit = 1
	}

	texts := make([]string, len(queries))
	for i, q := range queries {
		texts[i] = q.OptimizedQuery
	}
	embeddings, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	errs := make([]error, len(queries))
	out := make([]domain.OptimizedQuery, len(queries))

	for i, q := range queries {
		wg.Add(1)
		go func(i int, q domain.OptimizedQuery) {
			defer wg.Done()
			q.Embedding = embeddings[i]

			var vectorHits, keywordHits []domain.DocumentChunk
			var vecErr, kwErr error
			var branchWG sync.WaitGroup

			branchWG.Add(2)
			go func() {
				defer branchWG.Done()
				vectorHits, vecErr = r.chunks.VectorSearch(ctx, notebookID, q.Embedding, perQueryLimit)
			}()
			go func() {
				defer branchWG.Done()
				keywordHits, kwErr = r.chunks.KeywordSearch(ctx, notebookID, q.Keywords, perQueryLimit)
			}()
			branchWG.Wait()

			if vecErr != nil {
				errs[i] = vecErr
				return
			}
			if kwErr != nil {
				errs[i] = kwErr
				return
			}

			q.ParentIDs = unionParentIDs(vectorHits, keywordHits)
			out[i] = q
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// unionParentIDs flattens the ParentIDs of every chunk across both hit
// sets, deduping while preserving first-appearance order.
func unionParentIDs(sets ...[]domain.DocumentChunk) []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range sets {
		for _, chunk := range set {
			for _, pid := range chunk.ParentIDs {
				if !seen[pid] {
					seen[pid] = true
					out = append(out, pid)
				}
			}
		}
	}
	return out
}
