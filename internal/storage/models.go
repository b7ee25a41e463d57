package storage

import "time"

// Message roles stored in the messages table.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is one chat session with the portfolio assistant.
type Conversation struct {
	ID        string // UUID
	CreatedAt time.Time
}

// Message is one turn of a conversation.
type Message struct {
	ID             int64
	ConversationID string
	Role           string // RoleUser or RoleAssistant
	Text           string
	CreatedAt      time.Time
}
