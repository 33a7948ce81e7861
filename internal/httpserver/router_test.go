package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"earthcare-backend/internal/domain"
	chatsvc "earthcare-backend/internal/service/chat"
	checkoutsvc "earthcare-backend/internal/service/checkout"
	newslettersvc "earthcare-backend/internal/service/newsletter"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type stubCheckout struct {
	result *checkoutsvc.Result
	err    error
	gotIn  checkoutsvc.Input
}

func (s *stubCheckout) Checkout(_ context.Context, in checkoutsvc.Input) (*checkoutsvc.Result, error) {
	s.gotIn = in
	return s.result, s.err
}

type stubReconcile struct {
	gotEvent *domain.SettlementEvent
	err      error
}

func (s *stubReconcile) Apply(_ context.Context, ev domain.SettlementEvent) error {
	s.gotEvent = &ev
	return s.err
}

type stubVerifier struct {
	event      *domain.SettlementEvent
	recognized bool
	err        error
	gotSig     string
}

func (s *stubVerifier) VerifyEvent(_ []byte, signature string) (*domain.SettlementEvent, bool, error) {
	s.gotSig = signature
	return s.event, s.recognized, s.err
}

type stubNewsletter struct {
	sub      *domain.Subscriber
	created  bool
	err      error
	unsubErr error
}

func (s *stubNewsletter) Subscribe(_ context.Context, _ newslettersvc.SubscribeInput) (*domain.Subscriber, bool, error) {
	return s.sub, s.created, s.err
}

func (s *stubNewsletter) Unsubscribe(_ context.Context, _ string) error {
	return s.unsubErr
}

type stubChat struct {
	result *chatsvc.Result
	thread *domain.ConversationThread
	err    error
	gotIn  chatsvc.Input
}

func (s *stubChat) Chat(_ context.Context, in chatsvc.Input) (*chatsvc.Result, error) {
	s.gotIn = in
	return s.result, s.err
}

func (s *stubChat) History(_ context.Context, _ string) (*domain.ConversationThread, error) {
	return s.thread, s.err
}

type stubProducts struct {
	list []domain.Product
	one  *domain.Product
	err  error
}

func (s *stubProducts) ListActive(_ context.Context) ([]domain.Product, error) {
	return s.list, s.err
}

func (s *stubProducts) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	return s.one, s.err
}

type stubInquiries struct {
	created *domain.WholesaleInquiry
	err     error
}

func (s *stubInquiries) Create(_ context.Context, _ domain.WholesaleInquiry) (*domain.WholesaleInquiry, error) {
	return s.created, s.err
}

func newTestRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := log.New(io.Discard, "", 0)
	return buildRouter(logger, nil, deps, []string{"http://localhost:3000"})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestCheckoutHandler_Success(t *testing.T) {
	svc := &stubCheckout{result: &checkoutsvc.Result{
		ClientSecret:    "pi_1_secret",
		OrderNumber:     "EC-AB12CD34",
		OrderID:         "order-1",
		TotalAmount:     decimal.RequireFromString("21.60"),
		DiscountApplied: decimal.RequireFromString("2.40"),
	}}
	router := newTestRouter(Deps{CheckoutSvc: svc})

	payload := `{"email":"jo@example.com","first_name":"Jo","last_name":"Doe","cart_items":[{"id":"1","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["client_secret"] != "pi_1_secret" {
		t.Fatalf("expected client_secret in response, got %v", body)
	}
	if body["order_number"] != "EC-AB12CD34" {
		t.Fatalf("expected order number in response, got %v", body)
	}
	if svc.gotIn.Email != "jo@example.com" {
		t.Fatalf("expected input forwarded to service, got %+v", svc.gotIn)
	}
}

func TestCheckoutHandler_ValidationErrors(t *testing.T) {
	errs := domain.FieldErrors{}
	errs.Add("email", "This field is required.")
	errs.Add("cart_items", "Cart must contain at least one item.")
	router := newTestRouter(Deps{CheckoutSvc: &stubCheckout{err: errs}})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["email"]; !ok {
		t.Fatalf("expected field errors keyed by field name, got %v", body)
	}
}

func TestCheckoutHandler_ProductNotFound(t *testing.T) {
	router := newTestRouter(Deps{CheckoutSvc: &stubCheckout{
		err: &domain.ProductNotFoundError{ProductID: "99"},
	}})

	payload := `{"email":"jo@example.com","cart_items":[{"id":"99","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "99") {
		t.Fatalf("expected error naming the product id, got %v", body)
	}
}

func TestCheckoutHandler_GatewayUnavailable(t *testing.T) {
	router := newTestRouter(Deps{CheckoutSvc: &stubCheckout{err: domain.ErrGatewayUnavailable}})

	payload := `{"email":"jo@example.com","cart_items":[{"id":"1","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Failed to create payment intent" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	router := newTestRouter(Deps{
		Verifier:     &stubVerifier{err: domain.ErrInvalidSignature},
		ReconcileSvc: &stubReconcile{},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "bogus")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Invalid signature" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestWebhookHandler_AppliesSettlement(t *testing.T) {
	reconcile := &stubReconcile{}
	verifier := &stubVerifier{
		event:      &domain.SettlementEvent{Kind: domain.SettlementSucceeded, IntentID: "pi_1"},
		recognized: true,
	}
	router := newTestRouter(Deps{Verifier: verifier, ReconcileSvc: reconcile})

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if verifier.gotSig != "t=1,v1=sig" {
		t.Fatalf("expected signature header forwarded, got %q", verifier.gotSig)
	}
	if reconcile.gotEvent == nil || reconcile.gotEvent.IntentID != "pi_1" {
		t.Fatalf("expected settlement applied, got %+v", reconcile.gotEvent)
	}
}

func TestWebhookHandler_IgnoresUnrecognizedEvent(t *testing.T) {
	reconcile := &stubReconcile{}
	router := newTestRouter(Deps{
		Verifier:     &stubVerifier{recognized: false},
		ReconcileSvc: reconcile,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if reconcile.gotEvent != nil {
		t.Fatalf("expected no settlement applied for unrecognized event")
	}
}

func TestListProductsHandler_EmptyListIsJSONArray(t *testing.T) {
	router := newTestRouter(Deps{Products: &stubProducts{}})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestGetProductHandler_NotFound(t *testing.T) {
	router := newTestRouter(Deps{Products: &stubProducts{err: domain.ErrNotFound}})

	req := httptest.NewRequest(http.MethodGet, "/api/products/99", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestGetProductHandler_InactiveHidden(t *testing.T) {
	router := newTestRouter(Deps{Products: &stubProducts{
		one: &domain.Product{ID: "2", Name: "Retired", IsActive: false},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/products/2", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for inactive product, got %d", rec.Code)
	}
}

func TestStripeConfigHandler(t *testing.T) {
	router := newTestRouter(Deps{StripePublishableKey: "pk_test_123"})

	req := httptest.NewRequest(http.MethodGet, "/api/stripe/config", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["publishableKey"] != "pk_test_123" {
		t.Fatalf("unexpected config body: %v", body)
	}
}

func TestSubscribeHandler_NewSubscriber(t *testing.T) {
	router := newTestRouter(Deps{NewsletterSvc: &stubNewsletter{
		sub:     &domain.Subscriber{Email: "jo@example.com", IsActive: true},
		created: true,
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", strings.NewReader(`{"email":"jo@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["subscribed"] != true {
		t.Fatalf("expected subscribed flag, got %v", body)
	}
}

func TestSubscribeHandler_AlreadySubscribed(t *testing.T) {
	router := newTestRouter(Deps{NewsletterSvc: &stubNewsletter{
		sub:     &domain.Subscriber{Email: "jo@example.com", IsActive: true},
		created: false,
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", strings.NewReader(`{"email":"jo@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "You are already subscribed to our newsletter!" {
		t.Fatalf("unexpected message: %v", body)
	}
}

func TestUnsubscribeHandler_UnknownEmail(t *testing.T) {
	router := newTestRouter(Deps{NewsletterSvc: &stubNewsletter{unsubErr: domain.ErrNotFound}})

	req := httptest.NewRequest(http.MethodPost, "/api/newsletter/unsubscribe", strings.NewReader(`{"email":"ghost@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestChatHandler_ForwardsClientMetadata(t *testing.T) {
	svc := &stubChat{result: &chatsvc.Result{SessionID: "sess-1", Reply: "Hello from the soil!"}}
	router := newTestRouter(Deps{ChatSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"session_id":"sess-1","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	req.RemoteAddr = "203.0.113.9:1234"
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if svc.gotIn.UserAgent != "test-agent" {
		t.Fatalf("expected user agent forwarded, got %q", svc.gotIn.UserAgent)
	}
	if svc.gotIn.UserIP == "" {
		t.Fatalf("expected client ip forwarded")
	}
	body := decodeBody(t, rec)
	if body["reply"] != "Hello from the soil!" {
		t.Fatalf("unexpected reply body: %v", body)
	}
}

func TestConversationHandler_UnknownSession(t *testing.T) {
	router := newTestRouter(Deps{ChatSvc: &stubChat{err: domain.ErrNotFound}})

	req := httptest.NewRequest(http.MethodGet, "/api/conversation/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	messages, ok := body["messages"].([]any)
	if !ok || len(messages) != 0 {
		t.Fatalf("expected empty messages array, got %v", body)
	}
}

func TestInquiryHandler_MissingFields(t *testing.T) {
	router := newTestRouter(Deps{Inquiries: &stubInquiries{}})

	req := httptest.NewRequest(http.MethodPost, "/api/wholesale-inquiry", strings.NewReader(`{"email":"buyer@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	for _, field := range []string{"business_name", "contact_name", "message"} {
		if _, ok := body[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, body)
		}
	}
}

func TestInquiryHandler_Created(t *testing.T) {
	router := newTestRouter(Deps{Inquiries: &stubInquiries{
		created: &domain.WholesaleInquiry{ID: "inq-1", Status: domain.InquiryStatusNew},
	}})

	payload := `{"business_name":"Green Grocer","contact_name":"Sam","email":"sam@example.com","message":"Bulk yogurt?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/wholesale-inquiry", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["inquiry_id"] != "inq-1" {
		t.Fatalf("expected inquiry id in response, got %v", body)
	}
}

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(Deps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
