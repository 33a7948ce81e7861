package newsletter

import (
	"context"

	"earthcare-backend/internal/domain"
)

type Repository interface {
	// Subscribe inserts or reactivates a subscriber keyed by email. The
	// returned bool is true when a new row was created.
	Subscribe(ctx context.Context, email, firstName, source string) (*domain.Subscriber, bool, error)
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
}
