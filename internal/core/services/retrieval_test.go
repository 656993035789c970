package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driving"
	"github.com/ragcore-labs/ragcore/internal/ctxmgr"
	"github.com/ragcore-labs/ragcore/internal/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	queries  []domain.OptimizedQuery
	answer   domain.TextWithCitations
	summary  string
	optErr   error
	genErr   error
}

func (s *stubGenerator) HealthCheck(ctx context.Context) error { return nil }
func (s *stubGenerator) OptimizeQuery(ctx context.Context, question string, history []domain.ContextMessage) ([]domain.OptimizedQuery, error) {
	return s.queries, s.optErr
}
func (s *stubGenerator) GenerateAnswer(ctx context.Context, question string, context []domain.FilteredParentChunk) (domain.TextWithCitations, error) {
	return s.answer, s.genErr
}
func (s *stubGenerator) Summarize(ctx context.Context, content string) (string, error) {
	return s.summary, nil
}

type stubVectorStore struct {
	parentIDs []string
}

func (s *stubVectorStore) CreateBatch(ctx context.Context, chunks []domain.DocumentChunk) error {
	return nil
}
func (s *stubVectorStore) VectorSearch(ctx context.Context, notebookID string, embedding []float32, limit int) ([]domain.DocumentChunk, error) {
	return []domain.DocumentChunk{{ID: "chunk-1", ParentIDs: s.parentIDs}}, nil
}
func (s *stubVectorStore) KeywordSearch(ctx context.Context, notebookID string, keywords []string, limit int) ([]domain.DocumentChunk, error) {
	return nil, nil
}
func (s *stubVectorStore) DeleteBySource(ctx context.Context, sourceID string) error { return nil }

type stubParentChunkStore struct {
	chunks []domain.ParentChunk
}

func (s *stubParentChunkStore) CreateBatch(ctx context.Context, chunks []domain.ParentChunk) error {
	return nil
}
func (s *stubParentChunkStore) GetBatch(ctx context.Context, ids []string) ([]domain.ParentChunk, error) {
	return s.chunks, nil
}
func (s *stubParentChunkStore) DeleteBySource(ctx context.Context, sourceID string) error { return nil }

type stubReranker struct{}

func (s *stubReranker) HealthCheck(ctx context.Context) error { return nil }
func (s *stubReranker) Rerank(ctx context.Context, query string, candidates []domain.ParentChunk, topK int) ([]domain.ParentChunk, error) {
	return candidates, nil
}

type stubNotebookStore struct {
	notebook domain.Notebook
	updated  domain.Context
}

func (s *stubNotebookStore) Create(ctx context.Context, notebook *domain.Notebook) error { return nil }
func (s *stubNotebookStore) Get(ctx context.Context, id string) (*domain.Notebook, error) {
	nb := s.notebook
	return &nb, nil
}
func (s *stubNotebookStore) UpdateContext(ctx context.Context, id string, c domain.Context) error {
	s.updated = c
	return nil
}

type stubMessageStore struct {
	history []domain.Message
	created []domain.Message
}

func (s *stubMessageStore) Create(ctx context.Context, notebookID string, message *domain.Message) error {
	s.created = append(s.created, *message)
	return nil
}
func (s *stubMessageStore) ListByNotebook(ctx context.Context, notebookID string) ([]domain.Message, error) {
	return s.history, nil
}

func newTestRetrievalOrchestrator(generator *stubGenerator, vectorStore *stubVectorStore, parentStore *stubParentChunkStore, notebooks *stubNotebookStore, messages *stubMessageStore) *RetrievalOrchestrator {
	hybrid := retrieval.NewHybridRetriever(vectorStore, &stubEmbedder{})
	fetcher := retrieval.NewParentFetcher(parentStore)
	reranker := retrieval.NewRerankDriver(&stubReranker{})
	manager := ctxmgr.New(generator)

	return NewRetrievalOrchestrator(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		generator,
		hybrid,
		fetcher,
		reranker,
		manager,
		notebooks,
		messages,
	)
}

func TestAnswer_RunsCheckpointsInOrderAndReturnsFinalAnswer(t *testing.T) {
	generator := &stubGenerator{
		queries: []domain.OptimizedQuery{{ID: "q1", OptimizedQuery: "whales migration", Keywords: []string{"whale"}}},
		answer:  domain.TextWithCitations{Text: "Whales migrate long distances.", Citations: nil},
	}
	vectorStore := &stubVectorStore{parentIDs: []string{"parent-1"}}
	parentStore := &stubParentChunkStore{chunks: []domain.ParentChunk{{ID: "parent-1", SourceID: "source-1", Content: "<<<0>>>text<<</0>>>", CleanContent: "text"}}}
	notebooks := &stubNotebookStore{notebook: domain.Notebook{ID: "nb-1"}}
	messages := &stubMessageStore{}

	o := newTestRetrievalOrchestrator(generator, vectorStore, parentStore, notebooks, messages)

	var seen []domain.RetrievalCheckpoint
	onCheckpoint := func(cp domain.RetrievalCheckpoint) { seen = append(seen, cp) }

	result, err := o.Answer(context.Background(), "nb-1", "How far do whales migrate?", onCheckpoint)
	require.NoError(t, err)
	assert.Equal(t, "Whales migrate long distances.", result.Text)
	assert.Equal(t, domain.RetrievalCheckpointOrder, seen)
	assert.Len(t, messages.created, 2)
}

func TestAnswer_PropagatesOptimizeQueryFailure(t *testing.T) {
	generator := &stubGenerator{optErr: assertErr}
	notebooks := &stubNotebookStore{notebook: domain.Notebook{ID: "nb-1"}}
	o := newTestRetrievalOrchestrator(generator, &stubVectorStore{}, &stubParentChunkStore{}, notebooks, &stubMessageStore{})

	_, err := o.Answer(context.Background(), "nb-1", "question", func(domain.RetrievalCheckpoint) {})
	require.Error(t, err)
}

func TestAnswer_NoParentChunksStillGeneratesAnswer(t *testing.T) {
	generator := &stubGenerator{
		queries: []domain.OptimizedQuery{{ID: "q1", OptimizedQuery: "empty", Keywords: nil}},
		answer:  domain.TextWithCitations{Text: "No information available."},
	}
	vectorStore := &stubVectorStore{parentIDs: nil}
	notebooks := &stubNotebookStore{notebook: domain.Notebook{ID: "nb-1"}}
	messages := &stubMessageStore{}

	o := newTestRetrievalOrchestrator(generator, vectorStore, &stubParentChunkStore{}, notebooks, messages)

	result, err := o.Answer(context.Background(), "nb-1", "anything?", func(domain.RetrievalCheckpoint) {})
	require.NoError(t, err)
	assert.Equal(t, "No information available.", result.Text)
}

var _ driving.RetrievalCheckpointFunc = func(domain.RetrievalCheckpoint) {}

var assertErr = &testGenError{}

type testGenError struct{}

func (e *testGenError) Error() string { return "optimize query failed" }
