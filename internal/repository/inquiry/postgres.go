package inquiry

import (
	"context"
	"io"
	"log"

	"earthcare-backend/internal/domain"
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

func (r *postgresRepo) Create(ctx context.Context, in domain.WholesaleInquiry) (*domain.WholesaleInquiry, error) {
	const q = `
INSERT INTO wholesale_inquiries (
    business_name, contact_name, email, phone, business_type,
    location, website, estimated_monthly_volume, message
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id::text, status, created_at
`
	created := in
	err := r.pool.QueryRow(ctx, q,
		in.BusinessName,
		in.ContactName,
		in.Email,
		in.Phone,
		in.BusinessType,
		in.Location,
		in.Website,
		in.EstimatedMonthlyVolume,
		in.Message,
	).Scan(&created.ID, &created.Status, &created.CreatedAt)
	if err != nil {
		r.logger.Printf("inquiry repo: create business=%s error=%v", in.BusinessName, err)
		return nil, err
	}
	r.logger.Printf("inquiry repo: created id=%s business=%s", created.ID, created.BusinessName)
	return &created, nil
}
