package http

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/bean4896/hessen-custom/internal/domain"
	"github.com/bean4896/hessen-custom/internal/payment"
	"github.com/bean4896/hessen-custom/internal/pricing"
)

const maxWebhookBody = 1 << 20 // 1MB

// SignatureHeader carries the processor's webhook signature.
const SignatureHeader = "X-Payment-Signature"

type ReconcileService interface {
	ConfirmPayment(ctx context.Context, orderID, intentID string) (*domain.Order, error)
	HandleEvent(ctx context.Context, event payment.Event) error
}

type PaymentHandler struct {
	processor     payment.Processor
	reconcile     ReconcileService
	cart          CartService
	webhookSecret string
	timeout       time.Duration
}

func NewPaymentHandler(processor payment.Processor, reconcile ReconcileService, cart CartService, webhookSecret string, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		processor:     processor,
		reconcile:     reconcile,
		cart:          cart,
		webhookSecret: webhookSecret,
		timeout:       timeout,
	}
}

type CreateIntentResponseDTO struct {
	PaymentIntentID string         `json:"payment_intent_id"`
	ClientSecret    string         `json:"client_secret"`
	Totals          pricing.Totals `json:"totals"`
	Currency        string         `json:"currency"`
}

// CreateIntentFromCart prices the session cart through the shared formula
// and opens a payment intent for the grand total.
func (h *PaymentHandler) CreateIntentFromCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	cart, err := h.cart.GetCart(ctx, sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(cart.Items) == 0 {
		respondError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	totals := pricing.ComputeTotals(cart.Subtotal())
	amountCents := int64(math.Round(totals.Total * 100))

	intent, err := h.processor.CreateIntent(ctx, amountCents, pricing.Currency, map[string]string{
		"session_id": sessionID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CreateIntentResponseDTO{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Totals:          totals,
		Currency:        pricing.Currency,
	})
}

type ConfirmPaymentRequestDTO struct {
	OrderID         string `json:"order_id"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// ConfirmPayment is the synchronous confirmation path right after the client
// finishes paying.
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ConfirmPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OrderID == "" || req.PaymentIntentID == "" {
		respondError(w, http.StatusBadRequest, "order_id and payment_intent_id are required")
		return
	}

	order, err := h.reconcile.ConfirmPayment(ctx, req.OrderID, req.PaymentIntentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Webhook receives asynchronous processor notifications. The body is only
// trusted after its signature verifies.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	sig := r.Header.Get(SignatureHeader)
	if err := payment.VerifySignature(body, sig, h.webhookSecret, payment.DefaultTolerance); err != nil {
		log.Printf("webhook signature verification failed: %v", err)
		respondError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	var event payment.Event
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	if err := h.reconcile.HandleEvent(ctx, event); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
