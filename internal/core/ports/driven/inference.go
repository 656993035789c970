package driven

import (
	"context"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// HealthChecker is implemented by every remote inference client so the
// wiring layer can gate startup on the downstream services actually being
// reachable, matching spec.md §6's remote-client construction.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Parser turns raw document bytes (PDF page-group or fetched URL content)
// into markdown plus any extracted images (§4.4/§4.5).
type Parser interface {
	HealthChecker
	Parse(ctx context.Context, content []byte, contentType string) (markdown string, images []domain.Image, err error)
}

// PDFSplitter divides a whole PDF document's bytes into page-group
// sub-PDFs so the extracting stage can fan out Parser calls across them
// (§4.4). Each returned element is itself a complete PDF beginning with
// the `%PDF` magic bytes; an empty, nil-error result means data could not
// be split (not a real or page-countable PDF), which the orchestrator
// treats as an ingestion failure.
type PDFSplitter interface {
	Split(data []byte) ([][]byte, error)
}

// Captioner describes an extracted image so its reference in the
// rewritten markdown carries useful context (§4.5). A zip failure (image
// count mismatch with the parser's output) is a hard ingestion failure,
// never silently dropped (§9).
type Captioner interface {
	HealthChecker
	Caption(ctx context.Context, images []domain.Image) ([]string, error)
}

// Embedder produces vector embeddings for text, used both at ingestion
// time (document chunks) and at query time (optimized queries).
type Embedder interface {
	HealthChecker
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Reranker scores a set of candidate parent chunks against a query and
// returns the top K (§4.8).
type Reranker interface {
	HealthChecker
	Rerank(ctx context.Context, query string, candidates []domain.ParentChunk, topK int) ([]domain.ParentChunk, error)
}

// Generator is the chat/completion model used for query optimization,
// citation-grounded answer generation, and message summarization
// (§4.10/§4.11).
type Generator interface {
	HealthChecker
	OptimizeQuery(ctx context.Context, question string, history []domain.ContextMessage) ([]domain.OptimizedQuery, error)
	GenerateAnswer(ctx context.Context, question string, context []domain.FilteredParentChunk) (domain.TextWithCitations, error)
	Summarize(ctx context.Context, content string) (string, error)
}
