package storage

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"
)

// MessageStore persists conversation messages.
type MessageStore interface {
	Append(ctx context.Context, conversationID, role, text string) (Message, error)
	List(ctx context.Context, conversationID string) ([]Message, error)
	Recent(ctx context.Context, conversationID string, limit int) ([]Message, error)
}

// MessageRepo provides methods for message operations.
type MessageRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db, now: time.Now}
}

// Append stores a message at the end of a conversation.
func (r *MessageRepo) Append(ctx context.Context, conversationID, role, text string) (Message, error) {
	msg := Message{
		ConversationID: conversationID,
		Role:           role,
		Text:           text,
		CreatedAt:      r.now().UTC(),
	}
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, role, text, created_at) VALUES (?, ?, ?, ?)",
		msg.ConversationID, msg.Role, msg.Text, msg.CreatedAt,
	)
	if err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}
	msg.ID, err = result.LastInsertId()
	if err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// List returns every message of a conversation in insertion order.
func (r *MessageRepo) List(ctx context.Context, conversationID string) ([]Message, error) {
	return r.query(ctx,
		"SELECT id, conversation_id, role, text, created_at FROM messages WHERE conversation_id = ? ORDER BY id",
		conversationID,
	)
}

// Recent returns the last limit messages of a conversation, oldest first.
func (r *MessageRepo) Recent(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	msgs, err := r.query(ctx,
		"SELECT id, conversation_id, role, text, created_at FROM messages WHERE conversation_id = ? ORDER BY id DESC LIMIT ?",
		conversationID, limit,
	)
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return msgs, nil
}

func (r *MessageRepo) query(ctx context.Context, query string, args ...any) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	return msgs, nil
}
