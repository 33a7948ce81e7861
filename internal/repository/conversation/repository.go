package conversation

import (
	"context"

	"earthcare-backend/internal/domain"
)

type Repository interface {
	// GetOrCreateThread returns the thread bound to the session id, creating
	// it when absent.
	GetOrCreateThread(ctx context.Context, sessionID, email string) (*domain.ConversationThread, error)
	GetThreadBySession(ctx context.Context, sessionID string) (*domain.ConversationThread, error)
	LinkCustomer(ctx context.Context, threadID, customerID string) error
	AppendMessage(ctx context.Context, msg domain.Message) (*domain.Message, error)
	ListMessages(ctx context.Context, threadID string) ([]domain.Message, error)
}
