package models

import "time"

// MessageRole tags who produced a message in the conversation log.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is one entry in the append-only conversation log. Assistant
// turns are stored raw, directive tags included, so the log doubles as an
// audit trail of what each turn changed.
type Message struct {
	ID        int64       `json:"id" db:"id"`
	OwnerID   int64       `json:"owner_id" db:"user_id"`
	Role      MessageRole `json:"role" db:"role"`
	Content   string      `json:"content" db:"content"`
	Timestamp time.Time   `json:"timestamp" db:"timestamp"`
}
