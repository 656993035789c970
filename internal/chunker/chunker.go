// Package chunker implements the ingestion pipeline's two-stage chunking
// (§4.3): flat ~300-char DB chunks wrapped in `<<<n>>>…<<</n>>>` markers,
// then parent chunks (~2000 chars) and child chunks (~500 chars) cut from
// the marker-wrapped text, with each child's ParentIDs resolved by which
// parent(s) its underlying flat-chunk markers fall inside.
package chunker

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/ragcore-labs/ragcore/internal/segmenter"
	"github.com/ragcore-labs/ragcore/internal/splitter"
)

// Config holds the four chunk-size/overlap pairs the pipeline uses.
type Config struct {
	FlatChunkSize   int
	ParentChunkSize int
	ParentOverlap   int
	ChildChunkSize  int
	ChildOverlap    int
}

// DefaultConfig matches spec.md §4.3's literal sizes.
func DefaultConfig() Config {
	return Config{
		FlatChunkSize:   300,
		ParentChunkSize: 2000,
		ParentOverlap:   200,
		ChildChunkSize:  500,
		ChildOverlap:    100,
	}
}

var (
	openMarker  = regexp.MustCompile(`<<<(\d+)>>>`)
	closeMarker = regexp.MustCompile(`<<</(\d+)>>>`)
)

// BuildFlatChunks segments content into prose/table spans (via the
// segmenter package) and splits each prose span with the recursive
// splitter at FlatChunkSize. Table spans are never split internally,
// since cutting a table mid-row destroys its structure.
func BuildFlatChunks(content string, cfg Config) []domain.FlatChunk {
	segs := segmenter.Segment(content)
	flatSplitter := splitter.New(splitter.Config{
		ChunkSize:     cfg.FlatChunkSize,
		Separators:    splitter.DefaultSeparators(),
		KeepSeparator: true,
	})

	var flats []domain.FlatChunk
	id := 0
	for _, seg := range segs {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		if seg.IsTable {
			flats = append(flats, domain.FlatChunk{ID: id, Type: domain.FlatChunkTable, Content: seg.Text})
			id++
			continue
		}
		for _, piece := range flatSplitter.Split(seg.Text) {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			flats = append(flats, domain.FlatChunk{ID: id, Type: domain.FlatChunkText, Content: piece})
			id++
		}
	}
	return flats
}

// Wrap renders flat chunks into a single marker-wrapped document, each
// chunk surrounded by `<<<n>>>…<<</n>>>` carrying its DB id.
func Wrap(flats []domain.FlatChunk) string {
	wrapped := make([]string, len(flats))
	for i, fc := range flats {
		wrapped[i] = fmt.Sprintf("<<<%d>>>%s<<</%d>>>", fc.ID, fc.Content, fc.ID)
	}
	return strings.Join(wrapped, "\n\n")
}

// BuildParentChunks splits marker-wrapped text into ~2000-char parent
// chunks, recording which flat-chunk marker ids each parent's Content
// contains.
func BuildParentChunks(sourceID, markedText string, cfg Config) []domain.ParentChunk {
	s := splitter.New(splitter.DefaultConfig(cfg.ParentChunkSize, cfg.ParentOverlap))
	pieces := s.Split(markedText)

	parents := make([]domain.ParentChunk, 0, len(pieces))
	for _, piece := range pieces {
		if strings.TrimSpace(stripMarkers(piece)) == "" {
			continue
		}
		parents = append(parents, domain.ParentChunk{
			ID:           domain.NewID(),
			SourceID:     sourceID,
			Content:      piece,
			CleanContent: stripMarkers(piece),
			ChildrenIDs:  flatIDsIn(piece),
		})
	}
	return parents
}

// BuildChildChunks splits the same marker-wrapped text into ~500-char
// document chunks and resolves each one's ParentIDs: the flattened,
// deduped, first-appearance-ordered set of every parent chunk whose
// ChildrenIDs set intersects the child's own flat-chunk ids (§9).
func BuildChildChunks(sourceID, markedText string, parents []domain.ParentChunk, cfg Config) []domain.DocumentChunk {
	flatToParents := make(map[int][]string)
	for _, p := range parents {
		for _, fid := range p.ChildrenIDs {
			flatToParents[fid] = append(flatToParents[fid], p.ID)
		}
	}

	s := splitter.New(splitter.DefaultConfig(cfg.ChildChunkSize, cfg.ChildOverlap))
	pieces := s.Split(markedText)

	children := make([]domain.DocumentChunk, 0, len(pieces))
	for _, piece := range pieces {
		clean := stripMarkers(piece)
		if strings.TrimSpace(clean) == "" {
			continue
		}
		children = append(children, domain.DocumentChunk{
			ID:        domain.NewID(),
			SourceID:  sourceID,
			Content:   clean,
			ParentIDs: resolveParentIDs(flatIDsIn(piece), flatToParents),
		})
	}
	return children
}

// resolveParentIDs flattens the parent-id lists of every flat id in
// flatIDs (in the order flatIDs appears) and dedups while preserving
// first-appearance order.
func resolveParentIDs(flatIDs []int, flatToParents map[int][]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, fid := range flatIDs {
		for _, pid := range flatToParents[fid] {
			if !seen[pid] {
				seen[pid] = true
				out = append(out, pid)
			}
		}
	}
	return out
}

// flatIDsIn returns the sorted, deduped set of flat-chunk ids referenced
// by opening markers in text.
func flatIDsIn(text string) []int {
	matches := openMarker.FindAllStringSubmatch(text, -1)
	seen := make(map[int]bool)
	var ids []int
	for _, m := range matches {
		var id int
		fmt.Sscanf(m[1], "%d", &id)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// stripMarkers removes every `<<<n>>>` and `<<</n>>>` marker from text,
// leaving the underlying content untouched.
func stripMarkers(text string) string {
	text = openMarker.ReplaceAllString(text, "")
	text = closeMarker.ReplaceAllString(text, "")
	return text
}
