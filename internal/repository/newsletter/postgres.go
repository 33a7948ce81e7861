package newsletter

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"earthcare-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const subscriberColumns = `id::text, email, first_name, is_active, source, subscribed_at, unsubscribed_at`

func (r *postgresRepo) Subscribe(ctx context.Context, email, firstName, source string) (*domain.Subscriber, bool, error) {
	// xmax = 0 only holds for freshly inserted rows, which distinguishes a
	// new signup from a conflict update in a single round trip.
	const q = `
INSERT INTO newsletter_subscribers (email, first_name, source)
VALUES (lower($1), $2, $3)
ON CONFLICT (email) DO UPDATE SET
    is_active = TRUE,
    unsubscribed_at = NULL
RETURNING ` + subscriberColumns + `, (xmax = 0)`
	var s domain.Subscriber
	var created bool
	err := r.pool.QueryRow(ctx, q, strings.TrimSpace(email), firstName, source).Scan(
		&s.ID, &s.Email, &s.FirstName, &s.IsActive, &s.Source, &s.SubscribedAt, &s.UnsubscribedAt, &created,
	)
	if err != nil {
		r.logger.Printf("newsletter repo: subscribe email=%s error=%v", email, err)
		return nil, false, err
	}
	return &s, created, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	q := `SELECT ` + subscriberColumns + `
FROM newsletter_subscribers
WHERE email = lower($1)`
	var s domain.Subscriber
	err := r.pool.QueryRow(ctx, q, strings.TrimSpace(email)).Scan(
		&s.ID, &s.Email, &s.FirstName, &s.IsActive, &s.Source, &s.SubscribedAt, &s.UnsubscribedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresRepo) Unsubscribe(ctx context.Context, email string) error {
	const q = `
UPDATE newsletter_subscribers
SET is_active = FALSE,
    unsubscribed_at = now()
WHERE email = lower($1)`
	tag, err := r.pool.Exec(ctx, q, strings.TrimSpace(email))
	if err != nil {
		r.logger.Printf("newsletter repo: unsubscribe email=%s error=%v", email, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
