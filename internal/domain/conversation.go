package domain

import "time"

// Message roles within a conversation thread.
const (
	MessageRoleUser = "user"
	MessageRoleAI   = "ai"
)

// ConversationThread groups chat messages under a client-generated session id.
// Threads are linked to a customer when the visitor supplies a known email.
type ConversationThread struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	CustomerID   *string   `json:"customer_id,omitempty"`
	Email        string    `json:"email,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
	IsActive     bool      `json:"is_active"`
	Messages     []Message `json:"messages,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"-"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	UserIP    string    `json:"-"`
	UserAgent string    `json:"-"`
	CreatedAt time.Time `json:"timestamp"`
}
