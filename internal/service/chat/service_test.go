package chat

import (
	"context"
	"errors"
	"testing"

	"earthcare-backend/internal/domain"
)

type stubThreads struct {
	thread    *domain.ConversationThread
	createErr error
	getErr    error
	linked    map[string]string
	appended  []domain.Message
	appendErr error
	messages  []domain.Message
	listErr   error
}

func (s *stubThreads) GetOrCreateThread(_ context.Context, _, _ string) (*domain.ConversationThread, error) {
	return s.thread, s.createErr
}

func (s *stubThreads) GetThreadBySession(_ context.Context, _ string) (*domain.ConversationThread, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.thread, nil
}

func (s *stubThreads) LinkCustomer(_ context.Context, threadID, customerID string) error {
	if s.linked == nil {
		s.linked = map[string]string{}
	}
	s.linked[threadID] = customerID
	return nil
}

func (s *stubThreads) AppendMessage(_ context.Context, msg domain.Message) (*domain.Message, error) {
	if s.appendErr != nil {
		return nil, s.appendErr
	}
	s.appended = append(s.appended, msg)
	return &msg, nil
}

func (s *stubThreads) ListMessages(_ context.Context, _ string) ([]domain.Message, error) {
	return s.messages, s.listErr
}

type stubCustomers struct {
	customer *domain.Customer
	err      error
}

func (s *stubCustomers) GetByEmail(_ context.Context, _ string) (*domain.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.customer, nil
}

type stubResponder struct {
	reply string
	err   error
	asked string
}

func (s *stubResponder) Reply(_ context.Context, message string) (string, error) {
	s.asked = message
	return s.reply, s.err
}

const testFallback = "The mycelium network is currently busy. Please try again later."

func testThread() *domain.ConversationThread {
	return &domain.ConversationThread{ID: "thr-1", SessionID: "sess-1", IsActive: true}
}

func TestChatStoresBothTurns(t *testing.T) {
	threads := &stubThreads{thread: testThread()}
	responder := &stubResponder{reply: "Try our kefir 🌱"}
	svc := New(threads, &stubCustomers{err: domain.ErrNotFound}, responder, testFallback, nil)

	res, err := svc.Chat(context.Background(), Input{SessionID: "sess-1", Message: "I feel foggy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reply != "Try our kefir 🌱" {
		t.Fatalf("unexpected reply %q", res.Reply)
	}
	if len(threads.appended) != 2 {
		t.Fatalf("expected user+ai messages, got %d", len(threads.appended))
	}
	if threads.appended[0].Role != domain.MessageRoleUser || threads.appended[1].Role != domain.MessageRoleAI {
		t.Fatalf("unexpected roles %s/%s", threads.appended[0].Role, threads.appended[1].Role)
	}
	if responder.asked != "I feel foggy" {
		t.Fatalf("responder got %q", responder.asked)
	}
}

func TestChatResponderFailureUsesFallback(t *testing.T) {
	threads := &stubThreads{thread: testThread()}
	responder := &stubResponder{err: errors.New("quota exceeded")}
	svc := New(threads, &stubCustomers{err: domain.ErrNotFound}, responder, testFallback, nil)

	res, err := svc.Chat(context.Background(), Input{SessionID: "sess-1", Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reply != testFallback {
		t.Fatalf("expected fallback reply, got %q", res.Reply)
	}
	// The fallback is still recorded as the AI turn.
	if threads.appended[1].Content != testFallback {
		t.Fatalf("expected fallback stored, got %q", threads.appended[1].Content)
	}
}

func TestChatNilResponderUsesFallback(t *testing.T) {
	threads := &stubThreads{thread: testThread()}
	svc := New(threads, &stubCustomers{err: domain.ErrNotFound}, nil, testFallback, nil)

	res, err := svc.Chat(context.Background(), Input{SessionID: "sess-1", Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Reply != testFallback {
		t.Fatalf("expected fallback reply, got %q", res.Reply)
	}
}

func TestChatLinksKnownCustomer(t *testing.T) {
	threads := &stubThreads{thread: testThread()}
	customers := &stubCustomers{customer: &domain.Customer{ID: "cust-9", Email: "jane@example.com"}}
	svc := New(threads, customers, &stubResponder{reply: "hello"}, testFallback, nil)

	_, err := svc.Chat(context.Background(), Input{SessionID: "sess-1", Message: "hi", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if threads.linked["thr-1"] != "cust-9" {
		t.Fatalf("expected thread linked to cust-9, got %v", threads.linked)
	}
}

func TestChatValidation(t *testing.T) {
	svc := New(&stubThreads{thread: testThread()}, &stubCustomers{}, nil, testFallback, nil)

	_, err := svc.Chat(context.Background(), Input{})
	var fieldErrs domain.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if len(fieldErrs["session_id"]) == 0 || len(fieldErrs["message"]) == 0 {
		t.Fatalf("expected session_id and message errors, got %v", fieldErrs)
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	svc := New(&stubThreads{getErr: domain.ErrNotFound}, &stubCustomers{}, nil, testFallback, nil)

	_, err := svc.History(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
