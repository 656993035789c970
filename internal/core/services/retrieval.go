package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ragcore-labs/ragcore/internal/answer"
	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driving"
	"github.com/ragcore-labs/ragcore/internal/ctxmgr"
	"github.com/ragcore-labs/ragcore/internal/retrieval"
)

// RetrievalOrchestrator answers a notebook question, advancing through
// the fixed checkpoint sequence of domain.RetrievalCheckpointOrder (§4.10).
type RetrievalOrchestrator struct {
	log *slog.Logger

	generator driven.Generator
	hybrid    *retrieval.HybridRetriever
	fetcher   *retrieval.ParentFetcher
	reranker  *retrieval.RerankDriver
	ctxmgr    *ctxmgr.Manager

	notebooks driven.NotebookStore
	messages  driven.MessageStore
}

var _ driving.RetrievalOrchestrator = (*RetrievalOrchestrator)(nil)

// NewRetrievalOrchestrator wires a RetrievalOrchestrator from its ports.
func NewRetrievalOrchestrator(
	log *slog.Logger,
	generator driven.Generator,
	hybrid *retrieval.HybridRetriever,
	fetcher *retrieval.ParentFetcher,
	reranker *retrieval.RerankDriver,
	contextManager *ctxmgr.Manager,
	notebooks driven.NotebookStore,
	messages driven.MessageStore,
) *RetrievalOrchestrator {
	return &RetrievalOrchestrator{
		log:       log,
		generator: generator,
		hybrid:    hybrid,
		fetcher:   fetcher,
		reranker:  reranker,
		ctxmgr:    contextManager,
		notebooks: notebooks,
		messages:  messages,
	}
}

// Answer runs the full retrieval pipeline for question against notebookID,
// invoking onCheckpoint before each stage begins, and returns the final
// citation-grounded answer.
func (o *RetrievalOrchestrator) Answer(ctx context.Context, notebookID, question string, onCheckpoint driving.RetrievalCheckpointFunc) (domain.TextWithCitations, error) {
	notebook, err := o.notebooks.Get(ctx, notebookID)
	if err != nil {
		return domain.TextWithCitations{}, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}

	onCheckpoint(domain.CheckpointPreparingQuestion)
	queries, err := o.generator.OptimizeQuery(ctx, question, notebook.Context.Messages)
	if err != nil {
		return domain.TextWithCitations{}, err
	}
	// At most 5 optimized queries are kept, each with a fresh id.
	if len(queries) > 5 {
		queries = queries[:5]
	}
	for i := range queries {
		queries[i].ID = domain.NewID()
	}

	onCheckpoint(domain.CheckpointRetrievingChunks)
	queries, err = o.hybrid.Retrieve(ctx, notebookID, queries)
	if err != nil {
		return domain.TextWithCitations{}, err
	}

	onCheckpoint(domain.CheckpointGettingParentChunks)
	queries, err = o.fetcher.Fetch(ctx, queries)
	if err != nil {
		return domain.TextWithCitations{}, err
	}

	onCheckpoint(domain.CheckpointFilteringParentChunks)
	filteredResults, err := o.reranker.Filter(ctx, queries)
	if err != nil {
		return domain.TextWithCitations{}, err
	}

	onCheckpoint(domain.CheckpointExtractingContent)
	promptChunks := flattenFilteredChunks(filteredResults)

	onCheckpoint(domain.CheckpointGeneratingResponse)
	raw, err := o.generator.GenerateAnswer(ctx, question, promptChunks)
	if err != nil {
		return domain.TextWithCitations{}, fmt.Errorf("%w: %v", domain.ErrSchemaValidationFailure, err)
	}
	final := answer.Finalize(raw)

	onCheckpoint(domain.CheckpointSummarizingContent)
	userMessage := domain.Message{ID: domain.NewID(), Role: domain.RoleUser, Content: question}
	assistantMessage := domain.Message{ID: domain.NewID(), Role: domain.RoleAssistant, Content: final.Text}

	history, err := o.messages.ListByNotebook(ctx, notebookID)
	if err != nil {
		return domain.TextWithCitations{}, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	history = append(history, userMessage, assistantMessage)

	onCheckpoint(domain.CheckpointPreparingContext)
	nextContext, changed, err := o.ctxmgr.Update(ctx, notebook.Context, history)
	if err != nil {
		return domain.TextWithCitations{}, err
	}
	// Update fills Summary on the history copies; carry it to the rows saved below.
	userMessage.Summary = history[len(history)-2].Summary
	assistantMessage.Summary = history[len(history)-1].Summary

	onCheckpoint(domain.CheckpointSavingToDB)
	if err := o.messages.Create(ctx, notebookID, &userMessage); err != nil {
		return domain.TextWithCitations{}, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if err := o.messages.Create(ctx, notebookID, &assistantMessage); err != nil {
		return domain.TextWithCitations{}, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
	}
	if changed {
		if err := o.notebooks.UpdateContext(ctx, notebookID, nextContext); err != nil {
			return domain.TextWithCitations{}, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
		}
	}

	onCheckpoint(domain.CheckpointCleaningUp)
	return final, nil
}

// flattenFilteredChunks concatenates every query's surviving parent
// chunks into the single context list the generator prompt uses,
// deduping by (sourceId, chunkId) since multiple optimized queries can
// independently surface the same chunk.
func flattenFilteredChunks(results []domain.FilteredQueryResult) []domain.FilteredParentChunk {
	seen := make(map[string]bool)
	var out []domain.FilteredParentChunk
	for _, r := range results {
		for _, c := range r.ParentChunks {
			key := c.SourceID + "\x00" + c.ChunkID
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}
