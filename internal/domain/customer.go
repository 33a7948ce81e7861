package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is keyed by email and upserted on every checkout; name and phone
// follow a last-write-wins policy.
type Customer struct {
	ID                   string          `json:"id"`
	Email                string          `json:"email"`
	FirstName            string          `json:"first_name"`
	LastName             string          `json:"last_name"`
	Phone                string          `json:"phone"`
	StripeCustomerID     string          `json:"-"`
	IsSubscribed         bool            `json:"is_subscribed"`
	SubscriptionDiscount decimal.Decimal `json:"subscription_discount"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
