package repository

import (
	"context"
	"errors"

	"github.com/bean4896/hessen-custom/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartCorrupt marks a stored cart document that no longer decodes.
	// Callers fall back to an empty cart instead of failing the request.
	ErrCartCorrupt = errors.New("stored cart is corrupt")
)

// CartRepository defines the interface for durable cart storage, keyed by
// session id. Consumers define this interface, not the MongoDB
// implementation.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}
