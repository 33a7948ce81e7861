package checkout

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"

	"earthcare-backend/internal/domain"
	"earthcare-backend/internal/payment"
	custrepo "earthcare-backend/internal/repository/customer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxOrderNumberAttempts bounds retries when a generated order number collides
// with an existing one. Collisions are vanishingly rare for 8 random hex
// characters, so exhausting the attempts is treated as a storage fault.
const maxOrderNumberAttempts = 5

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type customerRepo interface {
	Upsert(ctx context.Context, in custrepo.UpsertInput) (*domain.Customer, error)
	MarkSubscribed(ctx context.Context, id string) error
	SetStripeCustomerID(ctx context.Context, id, stripeCustomerID string) error
}

type orderRepo interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	SetPaymentIntent(ctx context.Context, id, intentID string) error
}

type newsletterRepo interface {
	Subscribe(ctx context.Context, email, firstName, source string) (*domain.Subscriber, bool, error)
}

// Service computes and persists orders from carts, then obtains a payment
// handle for the total.
type Service struct {
	products   productRepo
	customers  customerRepo
	orders     orderRepo
	newsletter newsletterRepo
	gateway    payment.Gateway
	logger     *log.Logger
}

func New(products productRepo, customers customerRepo, orders orderRepo, newsletter newsletterRepo, gateway payment.Gateway, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		products:   products,
		customers:  customers,
		orders:     orders,
		newsletter: newsletter,
		gateway:    gateway,
		logger:     logger,
	}
}

type CartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type Input struct {
	Email                string     `json:"email"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	Phone                string     `json:"phone"`
	CartItems            []CartItem `json:"cart_items"`
	ShippingAddressLine1 string     `json:"shipping_address_line1"`
	ShippingAddressLine2 string     `json:"shipping_address_line2"`
	ShippingCity         string     `json:"shipping_city"`
	ShippingState        string     `json:"shipping_state"`
	ShippingZipCode      string     `json:"shipping_zip_code"`
	ShippingCountry      string     `json:"shipping_country"`
	Notes                string     `json:"notes"`
	SubscribeNewsletter  bool       `json:"subscribe_newsletter"`
}

type Result struct {
	ClientSecret    string          `json:"client_secret"`
	OrderNumber     string          `json:"order_number"`
	OrderID         string          `json:"order_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DiscountApplied decimal.Decimal `json:"discount_applied"`
}

// Checkout validates the cart, computes totals with exact decimal arithmetic,
// persists the order atomically and asks the gateway for a payment handle.
// When the gateway fails the order remains committed in pending status and
// domain.ErrGatewayUnavailable is returned.
func (s *Service) Checkout(ctx context.Context, in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	// Resolve every cart line before any write so an unknown product id
	// aborts the whole operation.
	subtotal := decimal.Zero
	items := make([]domain.OrderItem, 0, len(in.CartItems))
	for _, line := range in.CartItems {
		product, err := s.products.GetByID(ctx, line.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.ProductNotFoundError{ProductID: line.ID}
			}
			return nil, err
		}
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		productID := product.ID
		items = append(items, domain.OrderItem{
			ProductID:   &productID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			TotalPrice:  lineTotal,
		})
	}

	customer, err := s.customers.Upsert(ctx, custrepo.UpsertInput{
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert customer: %w", err)
	}

	if in.SubscribeNewsletter {
		if _, _, err := s.newsletter.Subscribe(ctx, customer.Email, in.FirstName, "checkout"); err != nil {
			return nil, fmt.Errorf("subscribe newsletter: %w", err)
		}
		if !customer.IsSubscribed {
			if err := s.customers.MarkSubscribed(ctx, customer.ID); err != nil {
				return nil, fmt.Errorf("mark subscribed: %w", err)
			}
			customer.IsSubscribed = true
		}
	}

	discount := decimal.Zero
	if customer.IsSubscribed {
		discount = subtotal.Mul(customer.SubscriptionDiscount.Div(decimal.NewFromInt(100))).Round(2)
	}
	total := subtotal.Sub(discount)

	country := strings.TrimSpace(in.ShippingCountry)
	if country == "" {
		country = "USA"
	}

	order := &domain.Order{
		CustomerID:           &customer.ID,
		Status:               domain.OrderStatusPending,
		Subtotal:             subtotal,
		DiscountAmount:       discount,
		TotalAmount:          total,
		ShippingFirstName:    in.FirstName,
		ShippingLastName:     in.LastName,
		ShippingAddressLine1: in.ShippingAddressLine1,
		ShippingAddressLine2: in.ShippingAddressLine2,
		ShippingCity:         in.ShippingCity,
		ShippingState:        in.ShippingState,
		ShippingZipCode:      in.ShippingZipCode,
		ShippingCountry:      country,
		Notes:                in.Notes,
		Items:                items,
	}

	created, err := s.createWithFreshNumber(ctx, order)
	if err != nil {
		return nil, err
	}

	// Provider customer lookup is best effort: a missing reference only means
	// the intent is not tied to a stripe customer.
	stripeCustomerID, err := s.gateway.EnsureCustomer(ctx, customer.Email, strings.TrimSpace(in.FirstName+" "+in.LastName))
	if err != nil {
		s.logger.Printf("checkout: ensure gateway customer email=%s error=%v", customer.Email, err)
		stripeCustomerID = ""
	} else if stripeCustomerID != "" {
		if err := s.customers.SetStripeCustomerID(ctx, customer.ID, stripeCustomerID); err != nil {
			s.logger.Printf("checkout: store gateway customer id=%s error=%v", customer.ID, err)
		}
	}

	intent, err := s.gateway.CreateIntent(ctx, total, stripeCustomerID, map[string]string{
		"order_number":   created.OrderNumber,
		"order_id":       created.ID,
		"customer_email": customer.Email,
	})
	if err != nil {
		s.logger.Printf("checkout: create intent order=%s error=%v", created.OrderNumber, err)
		return nil, err
	}

	if err := s.orders.SetPaymentIntent(ctx, created.ID, intent.ID); err != nil {
		return nil, fmt.Errorf("store payment intent: %w", err)
	}

	s.logger.Printf("checkout: order=%s total=%s discount=%s intent=%s",
		created.OrderNumber, total.StringFixed(2), discount.StringFixed(2), intent.ID)

	return &Result{
		ClientSecret:    intent.ClientSecret,
		OrderNumber:     created.OrderNumber,
		OrderID:         created.ID,
		TotalAmount:     total,
		DiscountApplied: discount,
	}, nil
}

func (s *Service) createWithFreshNumber(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	var lastErr error
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		order.OrderNumber = generateOrderNumber()
		created, err := s.orders.Create(ctx, order)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("create order: %w", err)
		}
		s.logger.Printf("checkout: order number collision number=%s attempt=%d", order.OrderNumber, attempt+1)
		lastErr = err
	}
	return nil, fmt.Errorf("create order: exhausted order number attempts: %w", lastErr)
}

// generateOrderNumber returns "EC-" followed by 8 uppercase hex characters
// drawn from a random UUID.
func generateOrderNumber() string {
	u := uuid.New()
	return "EC-" + strings.ToUpper(hex.EncodeToString(u[:4]))
}

func validate(in Input) error {
	errs := domain.FieldErrors{}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs.Add("email", "This field is required.")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Enter a valid email address.")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		errs.Add("first_name", "This field is required.")
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs.Add("last_name", "This field is required.")
	}
	if len(in.CartItems) == 0 {
		errs.Add("cart_items", "Cart must contain at least one item.")
	}
	for i, item := range in.CartItems {
		if strings.TrimSpace(item.ID) == "" {
			errs.Add("cart_items", fmt.Sprintf("Item %d is missing a product id.", i))
		}
		if item.Quantity <= 0 {
			errs.Add("cart_items", fmt.Sprintf("Item %d must have a positive quantity.", i))
		}
	}
	required := map[string]string{
		"shipping_address_line1": in.ShippingAddressLine1,
		"shipping_city":          in.ShippingCity,
		"shipping_state":         in.ShippingState,
		"shipping_zip_code":      in.ShippingZipCode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs.Add(field, "This field is required.")
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
