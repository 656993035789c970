// Package splitter implements a recursive, separator-ordered text splitter
// matching the behavior of the ingestion pipeline's chunk_splitter: a
// cascade of separators, tried from coarsest to finest, each producing
// fragments that are recursively re-split if still too long.
package splitter

import (
	"regexp"
	"unicode/utf8"
)

// Separator is one entry in the ordered cascade. If IsRegex is set,
// Pattern is compiled and used to find split points; otherwise Pattern is
// matched literally.
type Separator struct {
	Pattern string
	IsRegex bool
}

// Config configures a Splitter.
type Config struct {
	// ChunkSize is the maximum length of an emitted chunk, in code points.
	ChunkSize int

	// ChunkOverlap is how many trailing code points of a chunk are
	// repeated at the start of the next one; fewer are repeated when the
	// full overlap would push the next chunk past ChunkSize.
	ChunkOverlap int

	// Separators is the ordered cascade to try, coarsest first.
	Separators []Separator

	// KeepSeparator, when true, leaves the separator text attached to the
	// chunk it was found in (rather than discarding it), so that
	// marker-bounded spans are never split inside a marker.
	KeepSeparator bool
}

// DefaultSeparators is the cascade used by the chunker (§4.1): paragraph
// break, line break, an inline image tag, then the marker-open/close
// tokens (kept so `<<<n>>>` is never split mid-tag), then space, then the
// empty separator (split anywhere, the last resort).
func DefaultSeparators() []Separator {
	return []Separator{
		{Pattern: "\n\n"},
		{Pattern: "\n"},
		{Pattern: `<img[^>]*/>`, IsRegex: true},
		{Pattern: "<<<"},
		{Pattern: ">>>"},
		{Pattern: " "},
		{Pattern: ""},
	}
}

// DefaultConfig returns a Splitter.Config for size/overlap with the
// standard separator cascade and keep_separator enabled.
func DefaultConfig(chunkSize, chunkOverlap int) Config {
	return Config{
		ChunkSize:     chunkSize,
		ChunkOverlap:  chunkOverlap,
		Separators:    DefaultSeparators(),
		KeepSeparator: true,
	}
}

// Splitter recursively splits text using the configured separator cascade.
type Splitter struct {
	cfg Config
}

// New creates a Splitter from cfg.
func New(cfg Config) *Splitter {
	return &Splitter{cfg: cfg}
}

// Split returns an ordered list of chunks, each at most ChunkSize code
// points except when a single atomic fragment (no further separator
// matches) already exceeds that size, in which case it is emitted as-is.
func (s *Splitter) Split(text string) []string {
	fragments := s.splitRecursive(text, s.cfg.Separators)
	return mergeWithOverlap(fragments, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
}

// splitRecursive applies the first separator in seps that actually
// appears in text, then recurses into any resulting fragment still longer
// than ChunkSize using the remaining separators. When seps is exhausted,
// the text is returned as a single atomic fragment.
func (s *Splitter) splitRecursive(text string, seps []Separator) []string {
	if runeLen(text) <= s.cfg.ChunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return []string{text}
	}

	sep := seps[0]
	parts := splitOnSeparator(text, sep, s.cfg.KeepSeparator)

	if len(parts) <= 1 {
		// Separator did not occur in text; try the next one.
		return s.splitRecursive(text, seps[1:])
	}

	var out []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if runeLen(part) > s.cfg.ChunkSize {
			out = append(out, s.splitRecursive(part, seps[1:])...)
		} else {
			out = append(out, part)
		}
	}
	return out
}

// splitOnSeparator splits text at every occurrence of sep. When
// keepSeparator is true, the separator text stays at the end of the
// fragment that precedes it; otherwise it is discarded.
func splitOnSeparator(text string, sep Separator, keepSeparator bool) []string {
	if sep.Pattern == "" {
		return splitEveryRune(text)
	}

	var locs [][]int
	if sep.IsRegex {
		re := regexp.MustCompile(sep.Pattern)
		locs = re.FindAllStringIndex(text, -1)
	} else {
		locs = literalIndexes(text, sep.Pattern)
	}

	if len(locs) == 0 {
		return []string{text}
	}

	var parts []string
	prev := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if keepSeparator {
			parts = append(parts, text[prev:end])
		} else {
			parts = append(parts, text[prev:start])
		}
		prev = end
	}
	if prev < len(text) {
		parts = append(parts, text[prev:])
	}
	return parts
}

func literalIndexes(text, sep string) [][]int {
	var locs [][]int
	start := 0
	for {
		idx := indexFrom(text, sep, start)
		if idx < 0 {
			break
		}
		locs = append(locs, []int{idx, idx + len(sep)})
		start = idx + len(sep)
	}
	return locs
}

func indexFrom(text, sep string, from int) int {
	if from > len(text) {
		return -1
	}
	rel := indexOf(text[from:], sep)
	if rel < 0 {
		return -1
	}
	return from + rel
}

// indexOf is a tiny indirection so the package has exactly one place that
// calls into strings.Index, kept local to avoid importing strings solely
// for this.
func indexOf(s, substr string) int {
	n := len(substr)
	if n == 0 {
		return 0
	}
	for i := 0; i+n <= len(s); i++ {
		if s[i:i+n] == substr {
			return i
		}
	}
	return -1
}

func splitEveryRune(text string) []string {
	runes := []rune(text)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// mergeWithOverlap packs atomic fragments into chunks of at most
// chunkSize code points, prefixing each chunk after the first with the
// last chunkOverlap code points of the previous chunk, shortened to as
// many of them as still fit within chunkSize.
func mergeWithOverlap(fragments []string, chunkSize, chunkOverlap int) []string {
	if len(fragments) == 0 {
		return nil
	}

	var chunks []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, string(current))
		}
	}

	for _, frag := range fragments {
		fragRunes := []rune(frag)

		if runeLen(frag) > chunkSize {
			// Atomic fragment exceeds chunk size on its own; emit
			// whatever has accumulated, then the fragment as-is.
			flush()
			chunks = append(chunks, frag)
			current = nil
			continue
		}

		if len(current)+len(fragRunes) <= chunkSize {
			current = append(current, fragRunes...)
			continue
		}

		flush()
		overlap := overlapTail(current, chunkOverlap)
		if excess := len(overlap) + len(fragRunes) - chunkSize; excess > 0 {
			overlap = overlap[excess:]
		}
		current = append(append([]rune{}, overlap...), fragRunes...)
	}
	flush()

	return chunks
}

func overlapTail(runes []rune, overlap int) []rune {
	if overlap <= 0 || len(runes) == 0 {
		return nil
	}
	if overlap >= len(runes) {
		return append([]rune{}, runes...)
	}
	return append([]rune{}, runes[len(runes)-overlap:]...)
}
