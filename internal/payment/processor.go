package payment

import (
	"context"
	"errors"
)

var ErrIntentNotFound = errors.New("payment intent not found")

type IntentStatus string

const (
	IntentStatusRequiresPayment IntentStatus = "requires_payment"
	IntentStatusSucceeded       IntentStatus = "succeeded"
	IntentStatusFailed          IntentStatus = "failed"
)

// Intent is the client-usable payment handle returned by the processor.
// Amount is in cents to avoid floating point on the wire.
type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       IntentStatus      `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Processor is the payment gateway boundary. The real gateway lives outside
// this repo; RetrieveIntent doubles as the synchronous fallback confirmation
// path.
type Processor interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}

// Event notification types emitted by the processor.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Event is the parsed body of a processor webhook notification. OrderID
// travels in the intent metadata set at creation time.
type Event struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	IntentID string            `json:"intent_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (e Event) OrderID() string {
	return e.Metadata["order_id"]
}
