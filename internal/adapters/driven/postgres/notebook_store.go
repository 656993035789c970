package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// NotebookStore persists notebooks and their rolling context in Postgres.
type NotebookStore struct {
	db *DB
}

// NewNotebookStore returns a NotebookStore backed by db.
func NewNotebookStore(db *DB) *NotebookStore {
	return &NotebookStore{db: db}
}

func (s *NotebookStore) Create(ctx context.Context, notebook *domain.Notebook) error {
	contextJSON, err := json.Marshal(notebook.Context)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notebooks (id, context) VALUES ($1, $2)`,
		notebook.ID, contextJSON,
	)
	if err != nil {
		return fmt.Errorf("insert notebook: %w", err)
	}
	return nil
}

func (s *NotebookStore) Get(ctx context.Context, id string) (*domain.Notebook, error) {
	var contextJSON []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT context FROM notebooks WHERE id = $1`, id,
	).Scan(&contextJSON)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select notebook: %w", err)
	}

	var notebookContext domain.Context
	if err := json.Unmarshal(contextJSON, &notebookContext); err != nil {
		return nil, fmt.Errorf("unmarshal context: %w", err)
	}

	return &domain.Notebook{ID: id, Context: notebookContext}, nil
}

func (s *NotebookStore) UpdateContext(ctx context.Context, id string, notebookContext domain.Context) error {
	contextJSON, err := json.Marshal(notebookContext)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE notebooks SET context = $2, updated_at = now() WHERE id = $1`,
		id, contextJSON,
	)
	if err != nil {
		return fmt.Errorf("update notebook context: %w", err)
	}
	return nil
}
