package chunker

import (
	"strings"
	"testing"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFlatChunks_SplitsProseAndKeepsTablesWhole(t *testing.T) {
	content := "Some intro text about whales and their migration patterns across the ocean.\n\n" +
		"| Species | Range |\n|---|---|\n| Blue | Global |\n\nMore prose after the table."

	flats := BuildFlatChunks(content, DefaultConfig())
	require.NotEmpty(t, flats)

	var sawTable bool
	for i, fc := range flats {
		assert.Equal(t, i, fc.ID, "flat chunk ids are sequential starting at 0")
		if fc.Type == domain.FlatChunkTable {
			sawTable = true
			assert.Contains(t, fc.Content, "| Blue | Global |")
		}
	}
	assert.True(t, sawTable, "expected a table flat chunk")
}

func TestWrap_WrapsEachFlatChunkWithItsID(t *testing.T) {
	flats := []domain.FlatChunk{
		{ID: 0, Type: domain.FlatChunkText, Content: "first"},
		{ID: 1, Type: domain.FlatChunkText, Content: "second"},
	}
	wrapped := Wrap(flats)

	assert.Contains(t, wrapped, "<<<0>>>first<<</0>>>")
	assert.Contains(t, wrapped, "<<<1>>>second<<</1>>>")
}

func TestBuildParentChunks_CleanContentHasNoMarkers(t *testing.T) {
	flats := []domain.FlatChunk{
		{ID: 0, Type: domain.FlatChunkText, Content: strings.Repeat("lorem ipsum dolor sit amet. ", 20)},
	}
	marked := Wrap(flats)

	parents := BuildParentChunks("source-1", marked, DefaultConfig())
	require.NotEmpty(t, parents)

	for _, p := range parents {
		assert.Equal(t, "source-1", p.SourceID)
		assert.NotContains(t, p.CleanContent, "<<<")
		assert.NotContains(t, p.CleanContent, ">>>")
		assert.NotEmpty(t, p.ChildrenIDs)
	}
}

func TestBuildChildChunks_ResolvesDedupedParentIDs(t *testing.T) {
	flats := []domain.FlatChunk{
		{ID: 0, Type: domain.FlatChunkText, Content: strings.Repeat("alpha beta gamma delta. ", 30)},
		{ID: 1, Type: domain.FlatChunkText, Content: strings.Repeat("epsilon zeta eta theta. ", 30)},
	}
	marked := Wrap(flats)
	cfg := DefaultConfig()

	parents := BuildParentChunks("source-1", marked, cfg)
	require.NotEmpty(t, parents)

	children := BuildChildChunks("source-1", marked, parents, cfg)
	require.NotEmpty(t, children)

	for _, c := range children {
		assert.Equal(t, "source-1", c.SourceID)
		assert.NotContains(t, c.Content, "<<<")
		if len(c.ParentIDs) > 1 {
			seen := make(map[string]bool)
			for _, pid := range c.ParentIDs {
				assert.False(t, seen[pid], "parent id %s should appear only once", pid)
				seen[pid] = true
			}
		}
	}
}

func TestBuildChildChunks_EveryChildHasAtLeastOneParent(t *testing.T) {
	flats := []domain.FlatChunk{
		{ID: 0, Type: domain.FlatChunkText, Content: "short content"},
	}
	marked := Wrap(flats)
	cfg := DefaultConfig()

	parents := BuildParentChunks("source-1", marked, cfg)
	children := BuildChildChunks("source-1", marked, parents, cfg)

	for _, c := range children {
		assert.NotEmpty(t, c.ParentIDs, "child %s should resolve to at least one parent", c.ID)
	}
}
