package postgres

import (
	"context"
	"fmt"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
)

// MessageStore persists notebook chat history.
type MessageStore struct {
	db *DB
}

// NewMessageStore returns a MessageStore backed by db.
func NewMessageStore(db *DB) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Create(ctx context.Context, notebookID string, message *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, notebook_id, role, content, summary, failed)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		message.ID, notebookID, message.Role, message.Content, message.Summary, message.Failed,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *MessageStore) ListByNotebook(ctx context.Context, notebookID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, summary, failed FROM messages
		 WHERE notebook_id = $1 ORDER BY created_at`, notebookID,
	)
	if err != nil {
		return nil, fmt.Errorf("select messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.Summary, &m.Failed); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
