package customer

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"earthcare-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const customerColumns = `id::text, email, first_name, last_name, phone,
COALESCE(stripe_customer_id, ''), is_subscribed, subscription_discount::text, created_at, updated_at`

// Upsert inserts or updates a customer keyed by email in a single statement,
// avoiding the read-then-write race of a get-or-create pair.
func (r *postgresRepo) Upsert(ctx context.Context, in UpsertInput) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (email, first_name, last_name, phone)
VALUES (lower($1), $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    phone = EXCLUDED.phone,
    updated_at = now()
RETURNING ` + customerColumns
	c, err := r.scanCustomer(r.pool.QueryRow(ctx, q, in.Email, in.FirstName, in.LastName, in.Phone))
	if err != nil {
		r.logger.Printf("customer repo: upsert email=%s error=%v", in.Email, err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	q := `SELECT ` + customerColumns + `
FROM customers
WHERE email = lower($1)
LIMIT 1`
	c, err := r.scanCustomer(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("customer repo: get email=%s error=%v", email, err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) MarkSubscribed(ctx context.Context, id string) error {
	const q = `
UPDATE customers
SET is_subscribed = TRUE,
    updated_at = now()
WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		r.logger.Printf("customer repo: mark subscribed id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetStripeCustomerID(ctx context.Context, id, stripeCustomerID string) error {
	const q = `
UPDATE customers
SET stripe_customer_id = $2,
    updated_at = now()
WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, stripeCustomerID)
	if err != nil {
		r.logger.Printf("customer repo: set stripe id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	var discount string
	err := row.Scan(
		&c.ID,
		&c.Email,
		&c.FirstName,
		&c.LastName,
		&c.Phone,
		&c.StripeCustomerID,
		&c.IsSubscribed,
		&discount,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.SubscriptionDiscount, err = decimal.NewFromString(discount); err != nil {
		return nil, err
	}
	return &c, nil
}
