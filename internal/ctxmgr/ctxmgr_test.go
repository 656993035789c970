package ctxmgr

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

type fakeGenerator struct{}

func (fakeGenerator) HealthCheck(ctx context.Context) error { return nil }
func (fakeGenerator) OptimizeQuery(ctx context.Context, question string, history []domain.ContextMessage) ([]domain.OptimizedQuery, error) {
	return nil, nil
}
func (fakeGenerator) GenerateAnswer(ctx context.Context, question string, filtered []domain.FilteredParentChunk) (domain.TextWithCitations, error) {
	return domain.TextWithCitations{}, nil
}
func (fakeGenerator) Summarize(ctx context.Context, content string) (string, error) {
	return "summary of: " + content[:10], nil
}

func TestManager_Update_ShortMessagesKeptVerbatim(t *testing.T) {
	m := New(fakeGenerator{})

	messages := []domain.Message{
		{ID: "1", Role: domain.RoleUser, Content: "hello there"},
		{ID: "2", Role: domain.RoleAssistant, Content: "hi, how can I help"},
	}

	out, changed, err := m.Update(context.Background(), domain.Context{}, messages)
	require.NoError(t, err)
	require.True(t, changed)
	require.Len(t, out.Messages, 2)
	require.Equal(t, "hello there", out.Messages[0].Content)
}

func TestManager_Update_LongMessageUsesSummary(t *testing.T) {
	m := New(fakeGenerator{})

	longContent := strings.Repeat("word ", 500)
	messages := []domain.Message{
		{ID: "1", Role: domain.RoleUser, Content: longContent},
	}

	out, _, err := m.Update(context.Background(), domain.Context{}, messages)
	require.NoError(t, err)
	require.Len(t, out.Messages, 1)
	require.Contains(t, out.Messages[0].Content, "summary of:")
}

func TestManager_Update_NoChangeReportsFalse(t *testing.T) {
	m := New(fakeGenerator{})

	messages := []domain.Message{
		{ID: "1", Role: domain.RoleUser, Content: "hello"},
	}

	first, _, err := m.Update(context.Background(), domain.Context{}, messages)
	require.NoError(t, err)

	_, changed, err := m.Update(context.Background(), first, messages)
	require.NoError(t, err)
	require.False(t, changed)
}
