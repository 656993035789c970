package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// DocumentChunkStore persists embedded document chunks and answers the
// two branches of hybrid retrieval (§4.6): vector kNN via pgvector's
// `<=>` cosine-distance operator, and keyword matching via Postgres
// regex (`~*`).
type DocumentChunkStore struct {
	db *DB
}

// NewDocumentChunkStore returns a DocumentChunkStore backed by db.
func NewDocumentChunkStore(db *DB) *DocumentChunkStore {
	return &DocumentChunkStore{db: db}
}

func (s *DocumentChunkStore) CreateBatch(ctx context.Context, chunks []domain.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO document_chunks (id, source_id, content, parent_ids, embedding)
			 VALUES ($1, $2, $3, $4, $5::vector)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, c := range chunks {
			if _, err := stmt.ExecContext(ctx, c.ID, c.SourceID, c.Content, pq.Array(c.ParentIDs), vectorLiteral(c.Embedding)); err != nil {
				return fmt.Errorf("insert document chunk %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

// VectorSearch returns up to limit document chunks for sources in
// notebookID, ordered by cosine distance to embedding (nearest first).
func (s *DocumentChunkStore) VectorSearch(ctx context.Context, notebookID string, embedding []float32, limit int) ([]domain.DocumentChunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT dc.id, dc.source_id, dc.content, dc.parent_ids
		 FROM document_chunks dc
		 JOIN sources s ON s.id = dc.source_id
		 WHERE s.notebook_id = $1
		 ORDER BY dc.embedding <=> $2::vector
		 LIMIT $3`,
		notebookID, vectorLiteral(embedding), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	return scanDocumentChunks(rows)
}

// KeywordSearch returns up to limit document chunks for sources in
// notebookID whose content matches any of the given keywords via
// case-insensitive regex.
func (s *DocumentChunkStore) KeywordSearch(ctx context.Context, notebookID string, keywords []string, limit int) ([]domain.DocumentChunk, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	pattern := strings.Join(escapeKeywords(keywords), "|")

	rows, err := s.db.QueryContext(ctx,
		`SELECT dc.id, dc.source_id, dc.content, dc.parent_ids
		 FROM document_chunks dc
		 JOIN sources s ON s.id = dc.source_id
		 WHERE s.notebook_id = $1 AND dc.content ~* $2
		 LIMIT $3`,
		notebookID, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	return scanDocumentChunks(rows)
}

func (s *DocumentChunkStore) DeleteBySource(ctx context.Context, sourceID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM document_chunks WHERE source_id = $1`, sourceID)
	if err != nil {
		return fmt.Errorf("delete document chunks: %w", err)
	}
	return nil
}

func scanDocumentChunks(rows *sql.Rows) ([]domain.DocumentChunk, error) {
	var chunks []domain.DocumentChunk
	for rows.Next() {
		var c domain.DocumentChunk
		var parentIDs pq.StringArray
		if err := rows.Scan(&c.ID, &c.SourceID, &c.Content, &parentIDs); err != nil {
			return nil, fmt.Errorf("scan document chunk: %w", err)
		}
		c.ParentIDs = parentIDs
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// vectorLiteral renders a float32 embedding as pgvector's textual literal
// ("[0.1,0.2,...]"), since lib/pq has no native vector encoder.
func vectorLiteral(embedding []float32) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// escapeKeywords quotes each keyword for safe inclusion in a POSIX
// regex alternation, escaping characters with special regex meaning.
func escapeKeywords(keywords []string) []string {
	escaped := make([]string, len(keywords))
	for i, k := range keywords {
		escaped[i] = regexpQuoteMeta(k)
	}
	return escaped
}

func regexpQuoteMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '+', '*', '?', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
