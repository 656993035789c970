package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ShortTextIsSingleChunk(t *testing.T) {
	s := New(DefaultConfig(100, 10))
	chunks := s.Split("a short paragraph")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short paragraph", chunks[0])
}

func TestSplit_ParagraphCascade(t *testing.T) {
	s := New(DefaultConfig(20, 0))
	text := "first paragraph here\n\nsecond paragraph here\n\nthird paragraph here"
	chunks := s.Split(text)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 20+len("\n\n"))
	}
	assert.Contains(t, strings.Join(chunks, ""), "first paragraph")
}

func TestSplit_KeepsMarkerTokensIntact(t *testing.T) {
	s := New(DefaultConfig(8, 0))
	text := "abc<<<1>>>def"
	chunks := s.Split(text)

	joined := strings.Join(chunks, "")
	assert.Contains(t, joined, "<<<1>>>")
}

func TestSplit_OverlapRepeatsTrailingRunes(t *testing.T) {
	cfg := Config{
		ChunkSize:     10,
		ChunkOverlap:  3,
		Separators:    []Separator{{Pattern: " "}},
		KeepSeparator: true,
	}
	s := New(cfg)
	chunks := s.Split("one two three four five six seven")
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prevTail := []rune(chunks[i-1])
		if len(prevTail) > 3 {
			prevTail = prevTail[len(prevTail)-3:]
		}
		assert.True(t, strings.HasPrefix(chunks[i], string(prevTail)) || len(prevTail) == 0,
			"chunk %d (%q) should start with overlap %q", i, chunks[i], string(prevTail))
	}
}

func TestSplit_AtomicFragmentLongerThanChunkSizeIsEmittedWhole(t *testing.T) {
	cfg := Config{
		ChunkSize:    5,
		ChunkOverlap: 0,
		Separators:   nil, // no separator cascade at all: text is atomic
	}
	s := New(cfg)
	chunks := s.Split("thisisonelongwordwithnospaces")
	require.Len(t, chunks, 1)
	assert.Equal(t, "thisisonelongwordwithnospaces", chunks[0])
}

func TestSplit_EmptyInputReturnsNoChunks(t *testing.T) {
	s := New(DefaultConfig(100, 10))
	chunks := s.Split("")
	assert.Empty(t, chunks)
}

func TestSplit_ImageTagRegexSeparator(t *testing.T) {
	cfg := Config{
		ChunkSize:     5,
		ChunkOverlap:  0,
		Separators:    []Separator{{Pattern: `<img[^>]*/>`, IsRegex: true}},
		KeepSeparator: true,
	}
	s := New(cfg)
	chunks := s.Split(`before<img src="x.png"/>after`)
	joined := strings.Join(chunks, "")
	assert.Contains(t, joined, `<img src="x.png"/>`)
}
