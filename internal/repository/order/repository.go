package order

import (
	"context"
	"time"

	"earthcare-backend/internal/domain"
)

type Repository interface {
	// Create persists the order and all of its items in one transaction.
	// Returns domain.ErrAlreadyExists when the order number collides.
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error)
	SetPaymentIntent(ctx context.Context, id, intentID string) error
	// MarkPaid transitions pending -> paid. A no-op (domain.ErrNotFound is not
	// returned; zero rows is reported via the bool) when the order is no
	// longer pending.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
	// MarkCancelled transitions pending -> cancelled and appends the failure
	// reason to the order notes.
	MarkCancelled(ctx context.Context, id, failureNote string) (bool, error)
}
