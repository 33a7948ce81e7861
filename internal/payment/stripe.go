package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"earthcare-backend/internal/domain"
	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeGateway implements Gateway against the Stripe API. Credentials are
// injected here instead of set on the stripe package globals.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	timeout       time.Duration
	logger        *log.Logger
}

func NewStripeGateway(secretKey, webhookSecret string, logger *log.Logger) *StripeGateway {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		timeout:       10 * time.Second,
		logger:        logger,
	}
}

func (g *StripeGateway) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	listParams := &stripe.CustomerListParams{
		ListParams: stripe.ListParams{Context: ctx, Limit: stripe.Int64(1)},
		Email:      stripe.String(email),
	}
	it := g.api.Customers.List(listParams)
	for it.Next() {
		return it.Customer().ID, nil
	}
	if err := it.Err(); err != nil {
		g.logger.Printf("stripe: list customers email=%s error=%v", email, err)
		return "", fmt.Errorf("%w: list customers: %v", domain.ErrGatewayUnavailable, err)
	}

	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}
	if name = strings.TrimSpace(name); name != "" {
		params.Name = stripe.String(name)
	}
	cust, err := g.api.Customers.New(params)
	if err != nil {
		g.logger.Printf("stripe: create customer email=%s error=%v", email, err)
		return "", fmt.Errorf("%w: create customer: %v", domain.ErrGatewayUnavailable, err)
	}
	return cust.ID, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, amount decimal.Decimal, providerCustomerID string, metadata map[string]string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount.Mul(decimal.NewFromInt(100)).IntPart()),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if providerCustomerID != "" {
		params.Customer = stripe.String(providerCustomerID)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Printf("stripe: create intent amount=%s error=%v", amount.StringFixed(2), err)
		return nil, fmt.Errorf("%w: create payment intent: %v", domain.ErrGatewayUnavailable, err)
	}
	return &Intent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (g *StripeGateway) VerifyEvent(payload []byte, signature string) (*domain.SettlementEvent, bool, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
	default:
		g.logger.Printf("stripe: ignoring event type=%s id=%s", event.Type, event.ID)
		return nil, false, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, false, fmt.Errorf("malformed event payload: %w", err)
	}

	settlement := &domain.SettlementEvent{IntentID: intent.ID}
	if event.Type == stripe.EventTypePaymentIntentSucceeded {
		settlement.Kind = domain.SettlementSucceeded
	} else {
		settlement.Kind = domain.SettlementFailed
		settlement.FailureReason = "Unknown error"
		if intent.LastPaymentError != nil && intent.LastPaymentError.Msg != "" {
			settlement.FailureReason = intent.LastPaymentError.Msg
		}
	}
	return settlement, true, nil
}
