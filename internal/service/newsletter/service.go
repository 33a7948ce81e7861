package newsletter

import (
	"context"
	"errors"
	"io"
	"log"
	"net/mail"
	"strings"

	"earthcare-backend/internal/domain"
	sender "earthcare-backend/internal/mail"
)

type repository interface {
	Subscribe(ctx context.Context, email, firstName, source string) (*domain.Subscriber, bool, error)
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
}

// Service manages newsletter signups. Welcome-email delivery is best effort:
// a SendGrid outage never fails the subscription itself.
type Service struct {
	repo   repository
	mailer sender.Sender
	logger *log.Logger
}

func New(repo repository, mailer sender.Sender, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, mailer: mailer, logger: logger}
}

type SubscribeInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Source    string `json:"source"`
}

// Subscribe signs up or reactivates a subscriber. The bool reports whether a
// subscription was created or reactivated, as opposed to already active.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (*domain.Subscriber, bool, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		errs := domain.FieldErrors{}
		errs.Add("email", "This field is required.")
		return nil, false, errs
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs := domain.FieldErrors{}
		errs.Add("email", "Enter a valid email address.")
		return nil, false, errs
	}
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = "website"
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	if existing != nil && existing.IsActive {
		return existing, false, nil
	}

	sub, _, err := s.repo.Subscribe(ctx, email, in.FirstName, source)
	if err != nil {
		return nil, false, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, sub.Email, sub.FirstName); err != nil {
			s.logger.Printf("newsletter: welcome email to=%s error=%v", sub.Email, err)
		}
	}
	return sub, true, nil
}

func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		errs := domain.FieldErrors{}
		errs.Add("email", "This field is required.")
		return errs
	}
	return s.repo.Unsubscribe(ctx, email)
}
