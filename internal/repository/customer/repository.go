package customer

import (
	"context"

	"earthcare-backend/internal/domain"
)

// UpsertInput carries checkout contact fields. Name and phone overwrite any
// existing values (last write wins).
type UpsertInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
}

type Repository interface {
	Upsert(ctx context.Context, in UpsertInput) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	MarkSubscribed(ctx context.Context, id string) error
	SetStripeCustomerID(ctx context.Context, id, stripeCustomerID string) error
}
