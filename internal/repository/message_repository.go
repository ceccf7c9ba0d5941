package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uniapply/uniapply-api/internal/models"
)

// MessageRepository manages the per-application conversation threads.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListByApplication returns a thread ordered oldest first.
func (r *MessageRepository) ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationMessage, error) {
	const query = `SELECT id, application_id, sender, message, created_at
        FROM application_messages WHERE application_id = $1 ORDER BY created_at ASC`
	var messages []models.ApplicationMessage
	if err := r.db.SelectContext(ctx, &messages, query, applicationID); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// Create inserts a message.
func (r *MessageRepository) Create(ctx context.Context, msg *models.ApplicationMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	const query = `INSERT INTO application_messages (id, application_id, sender, message, created_at)
        VALUES (:id, :application_id, :sender, :message, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}
