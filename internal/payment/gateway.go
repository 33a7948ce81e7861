package payment

import (
	"context"

	"earthcare-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Intent is a provider-issued payment handle. The client secret is handed to
// the browser to complete payment for the fixed amount.
type Intent struct {
	ID           string
	ClientSecret string
}

// Gateway is the boundary to the payment provider. Implementations must apply
// a bounded timeout to outbound calls and report provider failures as
// domain.ErrGatewayUnavailable.
type Gateway interface {
	// EnsureCustomer returns the provider-side customer id for the email,
	// creating one when absent.
	EnsureCustomer(ctx context.Context, email, name string) (string, error)
	// CreateIntent obtains a payment handle for the amount. providerCustomerID
	// may be empty. Metadata is passed through opaquely for correlation.
	CreateIntent(ctx context.Context, amount decimal.Decimal, providerCustomerID string, metadata map[string]string) (*Intent, error)
	// VerifyEvent authenticates a raw webhook payload against its signature
	// and decodes it. The bool is false for verified events of types this
	// service does not settle on; errors mean the payload must be rejected
	// with no side effects.
	VerifyEvent(payload []byte, signature string) (*domain.SettlementEvent, bool, error)
}
