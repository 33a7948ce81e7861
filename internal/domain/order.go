package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values. Checkout creates orders as pending; reconciliation
// moves them to paid or cancelled. Later-stage values exist for fulfilment
// flows outside this service.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusPaid       = "paid"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is created atomically with its items at checkout. Afterwards only
// status, paid_at and notes mutate.
type Order struct {
	ID                    string          `json:"id"`
	CustomerID            *string         `json:"customer_id,omitempty"`
	OrderNumber           string          `json:"order_number"`
	Status                string          `json:"status"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	ShippingFirstName     string          `json:"shipping_first_name"`
	ShippingLastName      string          `json:"shipping_last_name"`
	ShippingAddressLine1  string          `json:"shipping_address_line1"`
	ShippingAddressLine2  string          `json:"shipping_address_line2"`
	ShippingCity          string          `json:"shipping_city"`
	ShippingState         string          `json:"shipping_state"`
	ShippingZipCode       string          `json:"shipping_zip_code"`
	ShippingCountry       string          `json:"shipping_country"`
	StripePaymentIntentID *string         `json:"-"`
	PaymentMethod         string          `json:"payment_method"`
	PaidAt                *time.Time      `json:"paid_at,omitempty"`
	Notes                 string          `json:"notes"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Items                 []OrderItem     `json:"items,omitempty"`
}

// OrderItem snapshots the product name and unit price at checkout time so the
// line survives later product removal. total_price is always recomputed as
// unit_price * quantity.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   *string         `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// Settlement event kinds delivered by the payment provider.
const (
	SettlementSucceeded = "succeeded"
	SettlementFailed    = "failed"
)

// SettlementEvent is a verified asynchronous notification about a payment
// intent. Unrecognized provider event types never reach this form.
type SettlementEvent struct {
	Kind          string
	IntentID      string
	FailureReason string
}
