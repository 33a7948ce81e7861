package chat

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"earthcare-backend/internal/domain"
)

// Responder produces AI replies. The Gemini adapter implements it; tests use
// stubs.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

type conversationRepo interface {
	GetOrCreateThread(ctx context.Context, sessionID, email string) (*domain.ConversationThread, error)
	GetThreadBySession(ctx context.Context, sessionID string) (*domain.ConversationThread, error)
	LinkCustomer(ctx context.Context, threadID, customerID string) error
	AppendMessage(ctx context.Context, msg domain.Message) (*domain.Message, error)
	ListMessages(ctx context.Context, threadID string) ([]domain.Message, error)
}

type customerRepo interface {
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// Service stores chat turns and asks the responder for the AI half. A
// responder outage degrades to the fallback reply instead of failing the
// request; the user message is still recorded.
type Service struct {
	threads   conversationRepo
	customers customerRepo
	responder Responder
	fallback  string
	logger    *log.Logger
}

// New builds a chat service. responder may be nil when no API key is
// configured; every turn then gets the fallback reply. fallback is the reply
// used whenever the responder cannot produce one.
func New(threads conversationRepo, customers customerRepo, responder Responder, fallback string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		threads:   threads,
		customers: customers,
		responder: responder,
		fallback:  fallback,
		logger:    logger,
	}
}

type Input struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Email     string `json:"email"`
	UserIP    string `json:"-"`
	UserAgent string `json:"-"`
}

type Result struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Service) Chat(ctx context.Context, in Input) (*Result, error) {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(in.SessionID) == "" {
		errs.Add("session_id", "This field is required.")
	}
	if strings.TrimSpace(in.Message) == "" {
		errs.Add("message", "This field is required.")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	thread, err := s.threads.GetOrCreateThread(ctx, in.SessionID, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, err
	}

	if email := strings.TrimSpace(in.Email); email != "" && thread.CustomerID == nil {
		customer, err := s.customers.GetByEmail(ctx, email)
		switch {
		case err == nil:
			if err := s.threads.LinkCustomer(ctx, thread.ID, customer.ID); err != nil {
				s.logger.Printf("chat: link customer thread=%s error=%v", thread.ID, err)
			}
		case errors.Is(err, domain.ErrNotFound):
			// Guest chat; nothing to link.
		default:
			s.logger.Printf("chat: customer lookup email=%s error=%v", email, err)
		}
	}

	if _, err := s.threads.AppendMessage(ctx, domain.Message{
		ThreadID:  thread.ID,
		Role:      domain.MessageRoleUser,
		Content:   in.Message,
		UserIP:    in.UserIP,
		UserAgent: in.UserAgent,
	}); err != nil {
		return nil, err
	}

	reply := s.fallback
	if s.responder != nil {
		text, err := s.responder.Reply(ctx, in.Message)
		if err != nil {
			s.logger.Printf("chat: responder session=%s error=%v", in.SessionID, err)
		} else {
			reply = text
		}
	}

	if _, err := s.threads.AppendMessage(ctx, domain.Message{
		ThreadID: thread.ID,
		Role:     domain.MessageRoleAI,
		Content:  reply,
	}); err != nil {
		return nil, err
	}

	return &Result{SessionID: in.SessionID, Reply: reply}, nil
}

// History returns the thread with its messages, or domain.ErrNotFound for an
// unknown session.
func (s *Service) History(ctx context.Context, sessionID string) (*domain.ConversationThread, error) {
	thread, err := s.threads.GetThreadBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	messages, err := s.threads.ListMessages(ctx, thread.ID)
	if err != nil {
		return nil, err
	}
	thread.Messages = messages
	return thread, nil
}
