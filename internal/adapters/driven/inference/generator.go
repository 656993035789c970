package inference

import (
	"context"
	"fmt"

	"github.com/ragcore-labs/ragcore/internal/answer"
	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

var _ driven.Generator = (*GeneratorClient)(nil)

// GeneratorClient is the chat/completion model client used for query
// optimization, citation-grounded answer generation, and message
// summarization (§4.10/§4.11).
type GeneratorClient struct {
	c *client
}

// NewGeneratorClient returns a GeneratorClient configured by cfg.
func NewGeneratorClient(cfg Config) *GeneratorClient {
	return &GeneratorClient{c: newClient(cfg)}
}

type optimizeQueryRequest struct {
	Question string                 `json:"question"`
	History  []domain.ContextMessage `json:"history"`
}

type optimizeQueryResponse struct {
	Queries []domain.OptimizedQuery `json:"queries"`
}

// OptimizeQuery rewrites a raw question into 1..5 de-contextualized
// search queries, each with its own keyword list (§4.10).
func (g *GeneratorClient) OptimizeQuery(ctx context.Context, question string, history []domain.ContextMessage) ([]domain.OptimizedQuery, error) {
	var resp optimizeQueryResponse
	err := g.c.post(ctx, "/optimize-query", optimizeQueryRequest{Question: question, History: history}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Queries, nil
}

type generateAnswerRequest struct {
	Question string `json:"question"`
	// Context is the XML-tagged, JSON-escaped chunk sequence built by
	// answer.BuildPromptContext, so the generator's own prompt template
	// doesn't need to know about FilteredParentChunk's Go shape.
	Context string `json:"context"`
}

// GenerateAnswer produces a JSON-schema-constrained citation-grounded
// answer from the filtered context (§4.10).
func (g *GeneratorClient) GenerateAnswer(ctx context.Context, question string, chunks []domain.FilteredParentChunk) (domain.TextWithCitations, error) {
	promptContext, err := answer.BuildPromptContext(chunks)
	if err != nil {
		return domain.TextWithCitations{}, fmt.Errorf("%w: %v", domain.ErrRemoteInferenceFailure, err)
	}

	var resp domain.TextWithCitations
	if err := g.c.post(ctx, "/generate-answer", generateAnswerRequest{Question: question, Context: promptContext}, &resp); err != nil {
		return domain.TextWithCitations{}, err
	}
	return resp, nil
}

type summarizeRequest struct {
	Content string `json:"content"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize condenses content into a short summary, used both for
// per-message summaries and for trimmed context entries (§4.11).
func (g *GeneratorClient) Summarize(ctx context.Context, content string) (string, error) {
	var resp summarizeResponse
	if err := g.c.post(ctx, "/summarize", summarizeRequest{Content: content}, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}
