// Package driving declares the operations the driving adapters (HTTP,
// worker) call into the core services through.
package driving

import (
	"context"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// IngestionOrchestrator runs a queued ingestion task through the full
// state machine (§4.9): queued -> starting -> extracting -> images ->
// chunking -> uploading -> completed, or failed from any stage.
type IngestionOrchestrator interface {
	Process(ctx context.Context, task domain.IngestionTask) error
}

// RetrievalCheckpointFunc is invoked once per checkpoint, in
// domain.RetrievalCheckpointOrder, as the retrieval orchestrator advances
// (§4.10). Implementations write the checkpoint to the SSE stream.
type RetrievalCheckpointFunc func(checkpoint domain.RetrievalCheckpoint)

// RetrievalOrchestrator answers a notebook question, streaming checkpoint
// progress via onCheckpoint and returning the final cited answer.
type RetrievalOrchestrator interface {
	Answer(ctx context.Context, notebookID, question string, onCheckpoint RetrievalCheckpointFunc) (domain.TextWithCitations, error)
}
