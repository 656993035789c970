package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

type fakeChunkStore struct {
	vectorResults  []domain.DocumentChunk
	keywordResults []domain.DocumentChunk
}

func (f *fakeChunkStore) CreateBatch(ctx context.Context, chunks []domain.DocumentChunk) error {
	return nil
}

func (f *fakeChunkStore) VectorSearch(ctx context.Context, notebookID string, embedding []float32, limit int) ([]domain.DocumentChunk, error) {
	return f.vectorResults, nil
}

func (f *fakeChunkStore) KeywordSearch(ctx context.Context, notebookID string, keywords []string, limit int) ([]domain.DocumentChunk, error) {
	return f.keywordResults, nil
}

func (f *fakeChunkStore) DeleteBySource(ctx context.Context, sourceID string) error { return nil }

type fakeEmbedder struct{}

func (fakeEmbedder) HealthCheck(ctx context.Context) error { return nil }

func (fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2}
	}
	return out, nil
}

func TestHybridRetriever_UnionsAndDedups(t *testing.T) {
	store := &fakeChunkStore{
		vectorResults:  []domain.DocumentChunk{{ParentIDs: []string{"p1", "p2"}}},
		keywordResults: []domain.DocumentChunk{{ParentIDs: []string{"p2", "p3"}}},
	}
	r := NewHybridRetriever(store, fakeEmbedder{})

	queries := []domain.OptimizedQuery{{ID: "q1", OptimizedQuery: "what is x"}}
	out, err := r.Retrieve(context.Background(), "notebook-1", queries)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, []string{"p1", "p2", "p3"}, out[0].ParentIDs)
}
