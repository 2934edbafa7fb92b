package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bean4896/hessen-custom/internal/catalog"
	"github.com/bean4896/hessen-custom/internal/domain"
	"github.com/bean4896/hessen-custom/internal/pricing"
	"github.com/go-chi/chi/v5"
)

// CartService is the slice of the cart service the handlers consume.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID, productID string, cfg catalog.Configuration, quantity int) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type CartHandler struct {
	cart    CartService
	timeout time.Duration
}

func NewCartHandler(cart CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:    cart,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID     string                `json:"product_id"`
	Quantity      int                   `json:"quantity"`
	Configuration catalog.Configuration `json:"configuration"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// CartResponseDTO carries the cart plus its derived aggregates; totals come
// from the shared formula so this summary always matches checkout and order
// creation.
type CartResponseDTO struct {
	SessionID  string            `json:"session_id"`
	Items      []domain.LineItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
	Totals     pricing.Totals    `json:"totals"`
}

func toCartResponse(cart *domain.Cart) CartResponseDTO {
	items := cart.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartResponseDTO{
		SessionID:  cart.SessionID,
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.Subtotal(),
		Totals:     pricing.ComputeTotals(cart.Subtotal()),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.cart.GetCart(ctx, getSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "quantity must be between 1 and 99")
		return
	}

	cart, err := h.cart.AddItem(ctx, getSessionID(r.Context()), req.ProductID, req.Configuration, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCartResponse(cart))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "quantity must not exceed 99")
		return
	}

	cart, err := h.cart.UpdateQuantity(ctx, getSessionID(r.Context()), itemID, req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	itemID := chi.URLParam(r, "item_id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	cart, err := h.cart.RemoveItem(ctx, getSessionID(r.Context()), itemID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if err := h.cart.Clear(ctx, sessionID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCartResponse(&domain.Cart{SessionID: sessionID}))
}
