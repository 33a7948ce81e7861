package product

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"earthcare-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
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

const productColumns = `id, name, tagline, description, price::text, unit, image, benefits,
COALESCE(stripe_product_id, ''), COALESCE(stripe_price_id, ''), is_active, stock_quantity, created_at, updated_at`

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE is_active = TRUE
ORDER BY name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + `
FROM products
WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	benefitsJSON, err := json.Marshal(product.Benefits)
	if err != nil {
		return nil, err
	}

	const q = `
INSERT INTO products (id, name, tagline, description, price, unit, image, benefits, is_active, stock_quantity)
VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    tagline = EXCLUDED.tagline,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    unit = EXCLUDED.unit,
    image = EXCLUDED.image,
    benefits = EXCLUDED.benefits,
    is_active = EXCLUDED.is_active,
    stock_quantity = EXCLUDED.stock_quantity,
    updated_at = now()
RETURNING ` + productColumns
	p, err := scanProduct(r.pool.QueryRow(ctx, q,
		product.ID,
		product.Name,
		product.Tagline,
		product.Description,
		product.Price.StringFixed(2),
		product.Unit,
		product.Image,
		benefitsJSON,
		product.IsActive,
		product.StockQuantity,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", product.ID, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s name=%s", p.ID, p.Name)
	return p, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var price string
	var benefitsJSON []byte
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Tagline,
		&p.Description,
		&price,
		&p.Unit,
		&p.Image,
		&benefitsJSON,
		&p.StripeProductID,
		&p.StripePriceID,
		&p.IsActive,
		&p.StockQuantity,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	if len(benefitsJSON) > 0 {
		if err := json.Unmarshal(benefitsJSON, &p.Benefits); err != nil {
			return nil, err
		}
	}
	return &p, nil
}
