package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bean4896/hessen-custom/internal/domain"
	"github.com/bean4896/hessen-custom/internal/payment"
	"github.com/bean4896/hessen-custom/internal/repository"
)

// ReconcileService matches payment-processor outcomes to order status. Both
// the synchronous confirmation call and the asynchronous webhook land here;
// whichever arrives first applies the transition, the other is a no-op.
type ReconcileService struct {
	repo      repository.OrderRepository
	processor payment.Processor
}

func NewReconcileService(repo repository.OrderRepository, processor payment.Processor) *ReconcileService {
	return &ReconcileService{
		repo:      repo,
		processor: processor,
	}
}

// ConfirmPayment is the synchronous path: re-check the intent with the
// processor, then overwrite the order's payment state.
func (s *ReconcileService) ConfirmPayment(ctx context.Context, orderID, intentID string) (*domain.Order, error) {
	intent, err := s.processor.RetrieveIntent(ctx, intentID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}

	if intent.Status != payment.IntentStatusSucceeded {
		return nil, fmt.Errorf("%w: intent %s is %s", ErrPaymentIncomplete, intentID, intent.Status)
	}

	if err := s.applyPaid(ctx, orderID, intentID); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, orderID)
}

// HandleEvent is the asynchronous path: the caller has already verified the
// notification's signature. Intents created before checkout carry no order id
// in their metadata, so events without one are resolved through the order's
// stored payment reference. Unknown references are logged and ignored, never
// fatal to the handler.
func (s *ReconcileService) HandleEvent(ctx context.Context, event payment.Event) error {
	orderID := event.OrderID()
	if orderID == "" {
		if event.IntentID == "" {
			log.Printf("payment event %s carries no order reference, ignoring", event.ID)
			return nil
		}
		order, err := s.repo.GetOrderByPaymentRef(ctx, event.IntentID)
		if errors.Is(err, repository.ErrOrderNotFound) {
			log.Printf("payment event %s references unknown intent %s, ignoring", event.ID, event.IntentID)
			return nil
		}
		if err != nil {
			return err
		}
		orderID = order.ID
	}

	switch event.Type {
	case payment.EventPaymentSucceeded:
		err := s.applyPaid(ctx, orderID, event.IntentID)
		if errors.Is(err, repository.ErrOrderNotFound) {
			log.Printf("payment event %s references unknown order %s, ignoring", event.ID, orderID)
			return nil
		}
		return err

	case payment.EventPaymentFailed:
		applied, err := s.repo.MarkPaymentFailed(ctx, orderID)
		if errors.Is(err, repository.ErrOrderNotFound) {
			log.Printf("payment event %s references unknown order %s, ignoring", event.ID, orderID)
			return nil
		}
		if err != nil {
			return err
		}
		if !applied {
			log.Printf("order %s payment already settled, failure event %s is a no-op", orderID, event.ID)
		}
		return nil

	default:
		log.Printf("unhandled payment event type %s", event.Type)
		return nil
	}
}

func (s *ReconcileService) applyPaid(ctx context.Context, orderID, paymentRef string) error {
	applied, err := s.repo.MarkOrderPaid(ctx, orderID, paymentRef, time.Now())
	if err != nil {
		return err
	}
	if !applied {
		// Duplicate or out-of-order notification confirming the same end
		// state; informational only.
		log.Printf("order %s already marked paid, duplicate confirmation for %s", orderID, paymentRef)
	}
	return nil
}
