package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// ParentChunkStore persists parent chunks in Postgres.
type ParentChunkStore struct {
	db *DB
}

// NewParentChunkStore returns a ParentChunkStore backed by db.
func NewParentChunkStore(db *DB) *ParentChunkStore {
	return &ParentChunkStore{db: db}
}

func (s *ParentChunkStore) CreateBatch(ctx context.Context, chunks []domain.ParentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO parent_chunks (id, source_id, content, children_ids) VALUES ($1, $2, $3, $4)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, c := range chunks {
			if _, err := stmt.ExecContext(ctx, c.ID, c.SourceID, c.Content, pq.Array(c.ChildrenIDs)); err != nil {
				return fmt.Errorf("insert parent chunk %s: %w", c.ID, err)
			}
		}
		return nil
	})
}

func (s *ParentChunkStore) GetBatch(ctx context.Context, ids []string) ([]domain.ParentChunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_id, content, children_ids FROM parent_chunks WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("select parent chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.ParentChunk
	for rows.Next() {
		var c domain.ParentChunk
		var childrenIDs pq.Int64Array
		if err := rows.Scan(&c.ID, &c.SourceID, &c.Content, &childrenIDs); err != nil {
			return nil, fmt.Errorf("scan parent chunk: %w", err)
		}
		c.ChildrenIDs = make([]int, len(childrenIDs))
		for i, v := range childrenIDs {
			c.ChildrenIDs[i] = int(v)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *ParentChunkStore) DeleteBySource(ctx context.Context, sourceID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM parent_chunks WHERE source_id = $1`, sourceID)
	if err != nil {
		return fmt.Errorf("delete parent chunks: %w", err)
	}
	return nil
}
