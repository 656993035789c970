// Package answer builds the generator prompt context and finalizes its
// citation-grounded output (§4.10): deduping citations pointing at the
// same (sourceId, chunkId) pair, rewriting `[CITATION: n]` markers into
// the HTML span the frontend renders, and renumbering by first
// appearance in the final text.
package answer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

var citationMarker = regexp.MustCompile(`\[CITATION:\s*(\d+)\]`)

// promptChunk is the XML-tagged, JSON-escaped shape each filtered parent
// chunk takes in the generator prompt context.
type promptChunk struct {
	SourceID string `json:"sourceId"`
	ChunkID  string `json:"chunkId"`
	Content  string `json:"content"`
}

// BuildPromptContext renders chunks as a sequence of `<chunk>...</chunk>`
// blocks, each containing a JSON-escaped payload, so the generator can
// reference a chunk's sourceId/chunkId in its citations without the raw
// content's own punctuation breaking the surrounding XML.
func BuildPromptContext(chunks []domain.FilteredParentChunk) (string, error) {
	var out []byte
	for _, c := range chunks {
		payload, err := json.Marshal(promptChunk{SourceID: c.SourceID, ChunkID: c.ChunkID, Content: c.Content})
		if err != nil {
			return "", fmt.Errorf("marshal prompt chunk: %w", err)
		}
		out = append(out, []byte("<chunk>")...)
		out = append(out, payload...)
		out = append(out, []byte("</chunk>\n")...)
	}
	return string(out), nil
}

// Finalize dedups raw.Citations by (SourceID, ChunkID), rewrites every
// `[CITATION: n]` marker in raw.Text to the frontend's citation span, and
// renumbers citations by first appearance in the text (§9).
func Finalize(raw domain.TextWithCitations) domain.TextWithCitations {
	byNumber := make(map[int]domain.Citation, len(raw.Citations))
	for _, c := range raw.Citations {
		byNumber[c.Number] = c
	}

	type assigned struct {
		number  int
		summary string
	}
	dedup := make(map[string]assigned)
	var finalCitations []domain.Citation
	nextNumber := 1

	text := citationMarker.ReplaceAllStringFunc(raw.Text, func(match string) string {
		sub := citationMarker.FindStringSubmatch(match)
		origNumber, _ := strconv.Atoi(sub[1])

		cite, ok := byNumber[origNumber]
		if !ok {
			return match
		}

		key := cite.SourceID + "\x00" + cite.ChunkID
		a, seen := dedup[key]
		if !seen {
			a = assigned{number: nextNumber, summary: cite.Summary}
			dedup[key] = a
			finalCitations = append(finalCitations, domain.Citation{
				Number:   a.number,
				SourceID: cite.SourceID,
				ChunkID:  cite.ChunkID,
				Summary:  cite.Summary,
			})
			nextNumber++
		}

		return citationSpan(a.number, cite.SourceID, cite.ChunkID, a.summary)
	})

	return domain.TextWithCitations{Text: text, Citations: finalCitations}
}

func citationSpan(number int, sourceID, chunkID, summary string) string {
	return fmt.Sprintf(
		`<span data-citation="true" data-source-id="%s" data-chunk-id="%s" data-summary="%s">[%d]</span>`,
		htmlAttrEscape(sourceID), htmlAttrEscape(chunkID), htmlAttrEscape(summary), number,
	)
}

// htmlAttrEscape escapes the characters that would break out of a
// double-quoted HTML attribute.
func htmlAttrEscape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			out = append(out, []byte("&quot;")...)
		case '&':
			out = append(out, []byte("&amp;")...)
		case '<':
			out = append(out, []byte("&lt;")...)
		case '>':
			out = append(out, []byte("&gt;")...)
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
