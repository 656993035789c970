// Package driven declares the interfaces the core services depend on but
// do not implement: persistence, the work queue, the status channel, the
// distributed lock, and the remote inference clients. Adapters under
// internal/adapters/driven satisfy these.
package driven

import (
	"context"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// NotebookStore persists notebooks and their rolling conversational
// context (§4.11).
type NotebookStore interface {
	Create(ctx context.Context, notebook *domain.Notebook) error
	Get(ctx context.Context, id string) (*domain.Notebook, error)
	UpdateContext(ctx context.Context, id string, context domain.Context) error
}

// SourceStore persists ingested sources and their flat-chunk content.
type SourceStore interface {
	Create(ctx context.Context, source *domain.Source) error
	Get(ctx context.Context, id string) (*domain.Source, error)
	ListByNotebook(ctx context.Context, notebookID string) ([]domain.Source, error)
	UpdateStatus(ctx context.Context, id string, status domain.IngestionStatus) error
	UpdateContent(ctx context.Context, id string, content []domain.FlatChunk, imagePaths []string) error
}

// ParentChunkStore persists ~2000-char parent chunks, the unit fetched
// for LLM context and reranking.
type ParentChunkStore interface {
	CreateBatch(ctx context.Context, chunks []domain.ParentChunk) error
	GetBatch(ctx context.Context, ids []string) ([]domain.ParentChunk, error)
	DeleteBySource(ctx context.Context, sourceID string) error
}

// DocumentChunkStore persists the embedded ~500-char retrieval units and
// answers the hybrid vector/keyword search (§4.6).
type DocumentChunkStore interface {
	CreateBatch(ctx context.Context, chunks []domain.DocumentChunk) error
	VectorSearch(ctx context.Context, notebookID string, embedding []float32, limit int) ([]domain.DocumentChunk, error)
	KeywordSearch(ctx context.Context, notebookID string, keywords []string, limit int) ([]domain.DocumentChunk, error)
	DeleteBySource(ctx context.Context, sourceID string) error
}

// MessageStore persists notebook chat history.
type MessageStore interface {
	Create(ctx context.Context, notebookID string, message *domain.Message) error
	ListByNotebook(ctx context.Context, notebookID string) ([]domain.Message, error)
}
