package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Read-only during checkout; prices are
// snapshotted onto order items at purchase time.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Tagline         string          `json:"tagline"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Unit            string          `json:"unit"`
	Image           string          `json:"image"`
	Benefits        []string        `json:"benefits"`
	StripeProductID string          `json:"-"`
	StripePriceID   string          `json:"-"`
	IsActive        bool            `json:"is_active"`
	StockQuantity   int             `json:"stock_quantity"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
