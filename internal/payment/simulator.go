package payment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// OutcomeSource decides how a simulated charge settles. Pluggable so tests
// can force a fixed outcome.
type OutcomeSource interface {
	Outcome() IntentStatus
}

type RandomOutcome struct{}

func (RandomOutcome) Outcome() IntentStatus {
	if rand.Intn(101) < 95 {
		return IntentStatusSucceeded
	}
	return IntentStatusFailed
}

// FixedOutcome always settles with the given status.
type FixedOutcome struct {
	Status IntentStatus
}

func (f FixedOutcome) Outcome() IntentStatus {
	return f.Status
}

// Simulator is an in-memory stand-in for the payment gateway. Intents start
// unsettled and settle on first retrieval using the outcome source.
type Simulator struct {
	mu      sync.Mutex
	intents map[string]*Intent
	source  OutcomeSource
}

func NewSimulator(source OutcomeSource) *Simulator {
	return &Simulator{
		intents: make(map[string]*Intent),
		source:  source,
	}
}

func (s *Simulator) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amount)
	}

	id := fmt.Sprintf("pi_%s", uuid.NewString())
	intent := &Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, uuid.NewString()),
		Amount:       amount,
		Currency:     currency,
		Status:       IntentStatusRequiresPayment,
		Metadata:     metadata,
	}

	s.mu.Lock()
	s.intents[id] = intent
	s.mu.Unlock()

	return intent, nil
}

func (s *Simulator) RetrieveIntent(_ context.Context, id string) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}

	if intent.Status == IntentStatusRequiresPayment {
		intent.Status = s.source.Outcome()
	}

	copied := *intent
	return &copied, nil
}
