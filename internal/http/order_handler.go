package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/bean4896/hessen-custom/internal/domain"
	"github.com/bean4896/hessen-custom/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	GetOrderByPaymentRef(ctx context.Context, ref string) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
}

type OrderHandler struct {
	orders  OrderService
	cart    CartService
	timeout time.Duration
}

func NewOrderHandler(orders OrderService, cart CartService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		cart:    cart,
		timeout: timeout,
	}
}

type CreateOrderRequestDTO struct {
	Shipping        service.ShippingInfo `json:"shipping_info"`
	IsGuest         bool                 `json:"is_guest"`
	PaymentIntentID string               `json:"payment_intent_id,omitempty"`
}

// CreateOrder materializes the session cart into a persisted order. The cart
// is cleared only after the order is in; a failed attempt keeps the cart
// intact.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sessionID := getSessionID(r.Context())
	cart, err := h.cart.GetCart(ctx, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result, err := h.orders.CreateOrder(ctx, service.CreateOrderRequest{
		Items:      cart.Items,
		Shipping:   req.Shipping,
		IsGuest:    req.IsGuest,
		UserID:     getUserID(r.Context()),
		PaymentRef: req.PaymentIntentID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.cart.Clear(ctx, sessionID); err != nil {
		// Order exists; a lingering cart is an annoyance, not a failure.
		log.Printf("failed to clear cart %s after order %s: %v", sessionID, result.Order.ID, err)
	}

	respondJSON(w, http.StatusCreated, result)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orders.GetOrder(ctx, chi.URLParam(r, "order_id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if order.UserID != userID {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GetOrderByPaymentRef backs the order-success page: the client only holds
// the payment reference at that point, no session.
func (h *OrderHandler) GetOrderByPaymentRef(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.GetOrderByPaymentRef(ctx, chi.URLParam(r, "payment_ref"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserID(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orders.ListOrders(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}
