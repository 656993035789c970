// Package pdfsplit implements the ingestion pipeline's PDF splitter
// (§4.4): a multi-page PDF is divided into balanced, page-range sub-PDFs
// so the extracting stage can fan out parsing across them.
package pdfsplit

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/ragcore-labs/ragcore/internal/core/ports/driven"
)

const (
	// DefaultMinPages is the smallest page group the splitter will ever
	// emit, even for a document whose page count would otherwise divide
	// into smaller groups across MaxParallel workers.
	DefaultMinPages = 25

	// DefaultMaxParallel bounds how many page-groups (and therefore how
	// many concurrent parser calls) a single source can fan out to.
	DefaultMaxParallel = 8
)

// Config tunes the group-size computation.
type Config struct {
	MinPages    int
	MaxParallel int
}

// DefaultConfig returns the spec-literal defaults (25 / 8).
func DefaultConfig() Config {
	return Config{MinPages: DefaultMinPages, MaxParallel: DefaultMaxParallel}
}

var _ driven.PDFSplitter = (*Splitter)(nil)

// Splitter adapts Split into the driven.PDFSplitter port the ingestion
// orchestrator depends on.
type Splitter struct {
	cfg Config
}

// NewSplitter returns a Splitter configured by cfg.
func NewSplitter(cfg Config) *Splitter {
	return &Splitter{cfg: cfg}
}

func (s *Splitter) Split(data []byte) ([][]byte, error) {
	return Split(data, s.cfg)
}

// Split divides a PDF's raw bytes into N/G page-range sub-PDFs, where
// `G = max(MinPages, ceil(N/MaxParallel))`. Each returned chunk is itself
// a complete PDF beginning with the `%PDF` magic bytes. A decode failure
// or a missing magic yields an empty, nil-error list, which the caller
// treats as a failed ingestion (§4.4).
func Split(data []byte, cfg Config) ([][]byte, error) {
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		return nil, nil
	}

	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil || pageCount <= 0 {
		return nil, nil
	}

	groupSize := cfg.MinPages
	if g := ceilDiv(pageCount, cfg.MaxParallel); g > groupSize {
		groupSize = g
	}

	var groups [][]byte
	for start := 1; start <= pageCount; start += groupSize {
		end := start + groupSize - 1
		if end > pageCount {
			end = pageCount
		}

		chunk, err := extractPageRange(data, start, end)
		if err != nil {
			return nil, fmt.Errorf("extract pages %d-%d: %w", start, end, err)
		}
		if len(chunk) < 4 || string(chunk[:4]) != "%PDF" {
			return nil, fmt.Errorf("extracted page range %d-%d is missing the PDF magic bytes", start, end)
		}
		groups = append(groups, chunk)
	}
	return groups, nil
}

// extractPageRange trims data down to the inclusive page range
// [start,end], returning the resulting single-range PDF as bytes.
func extractPageRange(data []byte, start, end int) ([]byte, error) {
	var out bytes.Buffer
	selection := []string{fmt.Sprintf("%d-%d", start, end)}
	if err := api.Trim(bytes.NewReader(data), &out, selection, nil); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
