package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bean4896/hessen-custom/internal/cache"
	"github.com/bean4896/hessen-custom/internal/catalog"
	"github.com/bean4896/hessen-custom/internal/domain"
	"github.com/bean4896/hessen-custom/internal/pricing"
	"github.com/bean4896/hessen-custom/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type CartService struct {
	repo    repository.CartRepository
	cache   cache.CartCache
	catalog *catalog.Catalog
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache, cat *catalog.Catalog) *CartService {
	return &CartService{
		repo:    repo,
		cache:   cache,
		catalog: cat,
	}
}

func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, sessionID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, err = s.loadCart(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		// Repopulate on a miss only, before returning: a hit must never
		// re-write an entry that a concurrent mutation has invalidated.
		if errSet := s.cache.Set(ctx, sessionID, cart); errSet != nil {
			log.Printf("cache set error: %v", errSet)
		}
		return cart, nil
	})

	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

func (s *CartService) loadCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, sessionID)
	if err == nil {
		return cart, nil
	}

	if errors.Is(err, repository.ErrCartNotFound) {
		return emptyCart(sessionID), nil
	}
	if errors.Is(err, repository.ErrCartCorrupt) {
		// Stored blob no longer decodes; a reload must not crash the cart.
		log.Printf("discarding corrupt cart for session %s: %v", sessionID, err)
		return emptyCart(sessionID), nil
	}
	return nil, err
}

// AddItem prices the configuration and merges it into the cart. A line item
// with the same product and configuration gets its quantity bumped instead of
// a second row.
func (s *CartService) AddItem(ctx context.Context, sessionID, productID string, cfg catalog.Configuration, quantity int) (*domain.Cart, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	item := domain.LineItem{
		ID:            uuid.NewString(),
		ProductID:     productID,
		Name:          cfg.Summary(),
		Configuration: cfg,
		Quantity:      quantity,
		UnitPrice:     pricing.Price(cfg, s.catalog),
		AddedAt:       time.Now(),
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].MergeKey() == item.MergeKey() {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	return s.persist(ctx, cart)
}

// UpdateQuantity sets a line item's quantity; zero or less removes the item.
// A missing item id is a no-op because the UI can race a remove against an
// update.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, itemID)
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			return s.persist(ctx, cart)
		}
	}
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i, item := range cart.Items {
		if item.ID == itemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return s.persist(ctx, cart)
		}
	}
	return cart, nil
}

// Clear empties the cart. Callers invoke it exactly once per successful order
// placement, after the order is persisted.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	err := s.repo.DeleteCart(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		log.Printf("repo delete cart error: %v", err)
		return err
	}

	s.invalidateCache(sessionID)
	return nil
}

func (s *CartService) persist(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	if err := s.repo.UpsertCart(ctx, cart); err != nil {
		log.Printf("repo upsert cart error: %v", err)
		return nil, err
	}
	s.invalidateCache(cart.SessionID)
	return cart, nil
}

func (s *CartService) invalidateCache(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, sessionID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func emptyCart(sessionID string) *domain.Cart {
	return &domain.Cart{
		SessionID: sessionID,
		Items:     nil,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
