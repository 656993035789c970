package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// SourceStore persists ingested sources in Postgres.
type SourceStore struct {
	db *DB
}

// NewSourceStore returns a SourceStore backed by db.
func NewSourceStore(db *DB) *SourceStore {
	return &SourceStore{db: db}
}

func (s *SourceStore) Create(ctx context.Context, source *domain.Source) error {
	contentJSON, err := json.Marshal(source.Content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sources (id, notebook_id, user_id, processing_status, content, image_paths, encryption_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		source.ID, source.NotebookID, source.UserID, source.ProcessingStatus,
		contentJSON, pq.Array(source.ImagePaths), source.EncryptionType,
	)
	if err != nil {
		return fmt.Errorf("insert source: %w", err)
	}
	return nil
}

func (s *SourceStore) Get(ctx context.Context, id string) (*domain.Source, error) {
	var src domain.Source
	var contentJSON []byte
	var imagePaths pq.StringArray

	err := s.db.QueryRowContext(ctx,
		`SELECT id, notebook_id, user_id, processing_status, content, image_paths, encryption_type
		 FROM sources WHERE id = $1`, id,
	).Scan(&src.ID, &src.NotebookID, &src.UserID, &src.ProcessingStatus, &contentJSON, &imagePaths, &src.EncryptionType)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select source: %w", err)
	}

	if err := json.Unmarshal(contentJSON, &src.Content); err != nil {
		return nil, fmt.Errorf("unmarshal content: %w", err)
	}
	src.ImagePaths = imagePaths

	return &src, nil
}

func (s *SourceStore) ListByNotebook(ctx context.Context, notebookID string) ([]domain.Source, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, notebook_id, user_id, processing_status, content, image_paths, encryption_type
		 FROM sources WHERE notebook_id = $1 ORDER BY created_at`, notebookID,
	)
	if err != nil {
		return nil, fmt.Errorf("select sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		var src domain.Source
		var contentJSON []byte
		var imagePaths pq.StringArray

		if err := rows.Scan(&src.ID, &src.NotebookID, &src.UserID, &src.ProcessingStatus, &contentJSON, &imagePaths, &src.EncryptionType); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		if err := json.Unmarshal(contentJSON, &src.Content); err != nil {
			return nil, fmt.Errorf("unmarshal content: %w", err)
		}
		src.ImagePaths = imagePaths
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (s *SourceStore) UpdateStatus(ctx context.Context, id string, status domain.IngestionStatus) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sources SET processing_status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update source status: %w", err)
	}
	return nil
}

func (s *SourceStore) UpdateContent(ctx context.Context, id string, content []domain.FlatChunk, imagePaths []string) error {
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE sources SET content = $2, image_paths = $3, updated_at = now() WHERE id = $1`,
		id, contentJSON, pq.Array(imagePaths),
	)
	if err != nil {
		return fmt.Errorf("update source content: %w", err)
	}
	return nil
}
