// Package segmenter locates GitHub-Flavored-Markdown table blocks inside a
// document so the chunker can route them to the table-aware flat-chunk
// path instead of the recursive text splitter. There is no CommonMark or
// GFM-table parsing library anywhere in the reference pack, so this scans
// lines directly against the table grammar: a header row, a delimiter row
// of dashes/colons/pipes, then zero or more body rows.
package segmenter

import (
	"regexp"
	"strings"
)

// Segment is a contiguous line range of text, tagged with whether it's a
// table block or plain prose.
type Segment struct {
	Text    string
	IsTable bool
}

var delimiterRowPattern = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?\s*$`)

// Segment splits text into an ordered list of prose and table segments.
// Table segments are [start,end) line ranges matching the GFM table
// grammar: a non-blank header line immediately followed by a delimiter
// line, extended forward while subsequent lines look like table rows.
func Segment(text string) []Segment {
	lines := strings.Split(text, "\n")
	var segs []Segment

	var prose []string
	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		joined := strings.Join(prose, "\n")
		if strings.TrimSpace(joined) != "" {
			segs = append(segs, Segment{Text: joined})
		}
		prose = nil
	}

	i := 0
	for i < len(lines) {
		if isTableHeader(lines, i) {
			start := i
			end := tableEnd(lines, i)
			flushProse()
			segs = append(segs, Segment{Text: strings.Join(lines[start:end], "\n"), IsTable: true})
			i = end
			continue
		}
		prose = append(prose, lines[i])
		i++
	}
	flushProse()

	return segs
}

// isTableHeader reports whether lines[i] is a header row followed by a
// valid delimiter row at lines[i+1].
func isTableHeader(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}
	header := lines[i]
	delim := lines[i+1]

	if strings.TrimSpace(header) == "" {
		return false
	}
	if !strings.Contains(header, "|") {
		return false
	}
	return delimiterRowPattern.MatchString(delim) && strings.Contains(delim, "-")
}

// tableEnd returns the exclusive end line index of the table starting at
// the header on line i: the header, the delimiter, and every subsequent
// row that still contains a pipe, stopping at the first blank or
// pipe-less line.
func tableEnd(lines []string, i int) int {
	end := i + 2 // header + delimiter
	for end < len(lines) {
		line := lines[end]
		if strings.TrimSpace(line) == "" || !strings.Contains(line, "|") {
			break
		}
		end++
	}
	return end
}
