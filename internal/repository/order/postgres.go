package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"earthcare-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const orderColumns = `id::text, customer_id::text, order_number, status,
subtotal::text, discount_amount::text, total_amount::text,
shipping_first_name, shipping_last_name, shipping_address_line1, shipping_address_line2,
shipping_city, shipping_state, shipping_zip_code, shipping_country,
stripe_payment_intent_id, payment_method, paid_at, notes, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (
    customer_id, order_number, status, subtotal, discount_amount, total_amount,
    shipping_first_name, shipping_last_name, shipping_address_line1, shipping_address_line2,
    shipping_city, shipping_state, shipping_zip_code, shipping_country, notes
) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id::text, created_at, updated_at
`
	created := *o
	err = tx.QueryRow(ctx, insertOrder,
		o.CustomerID,
		o.OrderNumber,
		o.Status,
		o.Subtotal.StringFixed(2),
		o.DiscountAmount.StringFixed(2),
		o.TotalAmount.StringFixed(2),
		o.ShippingFirstName,
		o.ShippingLastName,
		o.ShippingAddressLine1,
		o.ShippingAddressLine2,
		o.ShippingCity,
		o.ShippingState,
		o.ShippingZipCode,
		o.ShippingCountry,
		o.Notes,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert number=%s error=%v", o.OrderNumber, err)
		return nil, err
	}

	const insertItem = `
INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, total_price)
VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric)
RETURNING id::text
`
	created.Items = make([]domain.OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.OrderID = created.ID
		if err := tx.QueryRow(ctx, insertItem,
			created.ID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			item.TotalPrice.StringFixed(2),
		).Scan(&item.ID); err != nil {
			r.logger.Printf("order repo: insert item order=%s product=%v error=%v", created.ID, item.ProductID, err)
			return nil, err
		}
		created.Items[i] = item
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created number=%s items=%d total=%s", created.OrderNumber, len(created.Items), created.TotalAmount.StringFixed(2))
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + `
FROM orders
WHERE id = $1`
	return r.fetchOrder(ctx, q, id)
}

func (r *postgresRepo) GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + `
FROM orders
WHERE stripe_payment_intent_id = $1`
	return r.fetchOrder(ctx, q, intentID)
}

func (r *postgresRepo) SetPaymentIntent(ctx context.Context, id, intentID string) error {
	const q = `
UPDATE orders
SET stripe_payment_intent_id = $2,
    updated_at = now()
WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, intentID)
	if err != nil {
		r.logger.Printf("order repo: set intent id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	const q = `
UPDATE orders
SET status = 'paid',
    paid_at = $2,
    updated_at = now()
WHERE id = $1 AND status = 'pending'`
	tag, err := r.pool.Exec(ctx, q, id, paidAt)
	if err != nil {
		r.logger.Printf("order repo: mark paid id=%s error=%v", id, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepo) MarkCancelled(ctx context.Context, id, failureNote string) (bool, error) {
	const q = `
UPDATE orders
SET status = 'cancelled',
    notes = notes || $2,
    updated_at = now()
WHERE id = $1 AND status = 'pending'`
	tag, err := r.pool.Exec(ctx, q, id, failureNote)
	if err != nil {
		r.logger.Printf("order repo: mark cancelled id=%s error=%v", id, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepo) fetchOrder(ctx context.Context, query string, arg any) (*domain.Order, error) {
	var o domain.Order
	var subtotal, discount, total string
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&o.ID,
		&o.CustomerID,
		&o.OrderNumber,
		&o.Status,
		&subtotal,
		&discount,
		&total,
		&o.ShippingFirstName,
		&o.ShippingLastName,
		&o.ShippingAddressLine1,
		&o.ShippingAddressLine2,
		&o.ShippingCity,
		&o.ShippingState,
		&o.ShippingZipCode,
		&o.ShippingCountry,
		&o.StripePaymentIntentID,
		&o.PaymentMethod,
		&o.PaidAt,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, err
	}
	if o.DiscountAmount, err = decimal.NewFromString(discount); err != nil {
		return nil, err
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}

	const itemsQuery = `
SELECT id::text, order_id::text, product_id, product_name, quantity, unit_price::text, total_price::text
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, itemsQuery, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		var unitPrice, totalPrice string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &unitPrice, &totalPrice); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, err
		}
		if item.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}
