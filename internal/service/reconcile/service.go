package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"earthcare-backend/internal/domain"
)

type orderRepo interface {
	GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id, failureNote string) (bool, error)
}

// Service applies verified settlement events to order status. Only pending
// orders transition; events for unknown intents or already-settled orders are
// logged and dropped, relying on the provider's own retry policy.
type Service struct {
	orders orderRepo
	logger *log.Logger
	now    func() time.Time
}

func New(orders orderRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, logger: logger, now: time.Now}
}

// Apply transitions the matching order for a settlement event. A nil return
// covers every outcome the caller should acknowledge to the provider,
// including "no matching order".
func (s *Service) Apply(ctx context.Context, ev domain.SettlementEvent) error {
	order, err := s.orders.GetByPaymentIntent(ctx, ev.IntentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("reconcile: no order for payment intent %s", ev.IntentID)
			return nil
		}
		return fmt.Errorf("lookup order for intent %s: %w", ev.IntentID, err)
	}

	switch ev.Kind {
	case domain.SettlementSucceeded:
		applied, err := s.orders.MarkPaid(ctx, order.ID, s.now().UTC())
		if err != nil {
			return fmt.Errorf("mark paid order %s: %w", order.ID, err)
		}
		if !applied {
			s.logger.Printf("reconcile: order %s already settled (status=%s), dropping succeeded event", order.OrderNumber, order.Status)
			return nil
		}
		s.logger.Printf("reconcile: order %s paid (intent=%s)", order.OrderNumber, ev.IntentID)
	case domain.SettlementFailed:
		note := fmt.Sprintf("\n\nPayment failed: %s", ev.FailureReason)
		applied, err := s.orders.MarkCancelled(ctx, order.ID, note)
		if err != nil {
			return fmt.Errorf("mark cancelled order %s: %w", order.ID, err)
		}
		if !applied {
			s.logger.Printf("reconcile: order %s already settled (status=%s), dropping failed event", order.OrderNumber, order.Status)
			return nil
		}
		s.logger.Printf("reconcile: order %s cancelled (intent=%s): %s", order.OrderNumber, ev.IntentID, ev.FailureReason)
	default:
		s.logger.Printf("reconcile: unknown settlement kind %q for intent %s", ev.Kind, ev.IntentID)
	}
	return nil
}
