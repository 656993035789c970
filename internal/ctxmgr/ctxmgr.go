// Package ctxmgr maintains a notebook's rolling conversational context
// (§4.11): a token-budgeted window over message history, walked
// newest-to-oldest, with long messages collapsed to a generated summary
// so a handful of verbose turns don't starve the window of older
// context.
package ctxmgr

import (
	"context"
	"reflect"
	"strings"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

const (
	// tokenLimit bounds the total approximate token count of the
	// messages (and summaries) kept in a notebook's live context.
	tokenLimit = 8000

	// messageSummaryThreshold: messages longer than this get a stored
	// per-message summary (domain.Message.Summary), independent of
	// whether they're still included in the live context verbatim.
	messageSummaryThreshold = 100

	// contextInclusionThreshold: messages longer than this contribute
	// their summary, not their full content, to the live context window,
	// so one long turn can't crowd out the rest of the history.
	contextInclusionThreshold = 400
)

// Manager builds and trims notebook context.
type Manager struct {
	generator driven.Generator
}

// New returns a Manager backed by generator.
func New(generator driven.Generator) *Manager {
	return &Manager{generator: generator}
}

// approxTokens estimates token count by whitespace-delimited word count.
// There is no tokenizer library anywhere in the reference pack, so this
// is a deliberate approximation rather than an exact model-specific
// count.
func approxTokens(s string) int {
	return len(strings.Fields(s))
}

// Update walks messages newest-to-oldest, generating per-message
// summaries where needed, and returns the trimmed Context that fits
// within tokenLimit plus whether it differs from previous.
func (m *Manager) Update(ctx context.Context, previous domain.Context, messages []domain.Message) (domain.Context, bool, error) {
	// Ensure every message over the summary threshold carries a summary,
	// generating one if missing.
	for i := range messages {
		if approxTokens(messages[i].Content) > messageSummaryThreshold && messages[i].Summary == "" {
			summary, err := m.generator.Summarize(ctx, messages[i].Content)
			if err != nil {
				return domain.Context{}, false, err
			}
			messages[i].Summary = summary
		}
	}

	var windowMessages []domain.ContextMessage
	var windowSummaries []string
	total := 0

	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]

		text := msg.Content
		if approxTokens(msg.Content) > contextInclusionThreshold {
			text = msg.Summary
			windowSummaries = append([]string{msg.Summary}, windowSummaries...)
		}

		tokens := approxTokens(text)
		if total+tokens > tokenLimit {
			break
		}
		total += tokens

		windowMessages = append([]domain.ContextMessage{{ID: msg.ID, Content: text}}, windowMessages...)
	}

	// Trim the summaries list the same way, dropping the oldest first if
	// it alone would exceed the budget once messages are accounted for.
	windowSummaries = trimSummaries(windowSummaries, tokenLimit-total)

	next := domain.Context{Summaries: windowSummaries, Messages: windowMessages}
	changed := !reflect.DeepEqual(previous, next)

	return next, changed, nil
}

func trimSummaries(summaries []string, budget int) []string {
	total := 0
	start := 0
	for i := len(summaries) - 1; i >= 0; i-- {
		t := approxTokens(summaries[i])
		if total+t > budget {
			start = i + 1
			break
		}
		total += t
	}
	return summaries[start:]
}
