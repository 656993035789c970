package answer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

func TestFinalize_DedupsAndRenumbers(t *testing.T) {
	raw := domain.TextWithCitations{
		Text: "Fact one [CITATION: 2]. Fact two [CITATION: 1]. Fact one again [CITATION: 2].",
		Citations: []domain.Citation{
			{Number: 1, SourceID: "src-a", ChunkID: "chunk-a", Summary: "summary a"},
			{Number: 2, SourceID: "src-b", ChunkID: "chunk-b", Summary: "summary b"},
		},
	}

	out := Finalize(raw)

	require.Len(t, out.Citations, 2)
	require.Equal(t, 1, out.Citations[0].Number)
	require.Equal(t, "src-b", out.Citations[0].SourceID)
	require.Equal(t, 2, out.Citations[1].Number)
	require.Equal(t, "src-a", out.Citations[1].SourceID)

	require.Contains(t, out.Text, `data-source-id="src-b"`)
	require.Contains(t, out.Text, `>[1]</span>`)
	require.Contains(t, out.Text, `>[2]</span>`)
}

func TestFinalize_SameCitationDedupsToOneNumber(t *testing.T) {
	raw := domain.TextWithCitations{
		Text: "[CITATION: 1] and again [CITATION: 1]",
		Citations: []domain.Citation{
			{Number: 1, SourceID: "src-a", ChunkID: "chunk-a"},
		},
	}

	out := Finalize(raw)
	require.Len(t, out.Citations, 1)
	require.Equal(t, 1, out.Citations[0].Number)
}

func TestBuildPromptContext(t *testing.T) {
	chunks := []domain.FilteredParentChunk{
		{SourceID: "s1", ChunkID: "c1", Content: `has "quotes" and <tags>`},
	}
	out, err := BuildPromptContext(chunks)
	require.NoError(t, err)
	require.Contains(t, out, "<chunk>")
	require.Contains(t, out, "</chunk>")
	require.Contains(t, out, `\"quotes\"`)
}
