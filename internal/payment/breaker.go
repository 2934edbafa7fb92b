package payment

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerProcessor wraps a Processor with a circuit breaker so a misbehaving
// gateway fails fast instead of holding requests open.
type BreakerProcessor struct {
	inner Processor
	cb    *gobreaker.CircuitBreaker[*Intent]
}

func NewBreakerProcessor(inner Processor) *BreakerProcessor {
	settings := gobreaker.Settings{
		Name:    "payment-processor",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &BreakerProcessor{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[*Intent](settings),
	}
}

func (b *BreakerProcessor) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	return b.cb.Execute(func() (*Intent, error) {
		return b.inner.CreateIntent(ctx, amount, currency, metadata)
	})
}

func (b *BreakerProcessor) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	return b.cb.Execute(func() (*Intent, error) {
		return b.inner.RetrieveIntent(ctx, id)
	})
}
