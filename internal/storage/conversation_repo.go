package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrConversationNotFound is returned when a conversation id is unknown.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationStore persists conversations.
type ConversationStore interface {
	Create(ctx context.Context, id string) (Conversation, error)
	Get(ctx context.Context, id string) (Conversation, error)
	Delete(ctx context.Context, id string) error
}

// ConversationRepo provides methods for conversation operations.
type ConversationRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db, now: time.Now}
}

// Create inserts a conversation with the given id.
func (r *ConversationRepo) Create(ctx context.Context, id string) (Conversation, error) {
	conv := Conversation{ID: id, CreatedAt: r.now().UTC()}
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO conversations (id, created_at) VALUES (?, ?)",
		conv.ID, conv.CreatedAt,
	); err != nil {
		return Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	return conv, nil
}

// Get returns the conversation with the given id.
func (r *ConversationRepo) Get(ctx context.Context, id string) (Conversation, error) {
	var conv Conversation
	err := r.db.QueryRowContext(ctx,
		"SELECT id, created_at FROM conversations WHERE id = ?",
		id,
	).Scan(&conv.ID, &conv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Conversation{}, ErrConversationNotFound
	}
	if err != nil {
		return Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

// Delete removes a conversation and, through the foreign key, its messages.
func (r *ConversationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM conversations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	if n == 0 {
		return ErrConversationNotFound
	}
	return nil
}
