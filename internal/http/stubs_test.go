package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bean4896/hessen-custom/internal/catalog"
	"github.com/bean4896/hessen-custom/internal/domain"
	"github.com/bean4896/hessen-custom/internal/payment"
	"github.com/bean4896/hessen-custom/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

// stubCartService satisfies CartService with canned responses.
type stubCartService struct {
	cart       *domain.Cart
	err        error
	clearErr   error
	clearCalls int

	addedProductID string
	addedQuantity  int
}

func (s *stubCartService) GetCart(context.Context, string) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) AddItem(_ context.Context, _, productID string, _ catalog.Configuration, quantity int) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.addedProductID = productID
	s.addedQuantity = quantity
	return s.cart, nil
}

func (s *stubCartService) UpdateQuantity(context.Context, string, string, int) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) RemoveItem(context.Context, string, string) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) Clear(context.Context, string) error {
	s.clearCalls++
	return s.clearErr
}

type stubOrderService struct {
	result  *service.CreateOrderResult
	order   *domain.Order
	orders  []*domain.Order
	err     error
	lastReq service.CreateOrderRequest
}

func (s *stubOrderService) CreateOrder(_ context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubOrderService) GetOrder(context.Context, string) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrderService) GetOrderByPaymentRef(context.Context, string) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubOrderService) ListOrders(context.Context, string) ([]*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orders, nil
}

type stubReconcileService struct {
	order     *domain.Order
	err       error
	lastEvent payment.Event
	handled   int
}

func (s *stubReconcileService) ConfirmPayment(context.Context, string, string) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func (s *stubReconcileService) HandleEvent(_ context.Context, event payment.Event) error {
	s.handled++
	s.lastEvent = event
	return s.err
}

func cartFixture(sessionID string) *domain.Cart {
	return &domain.Cart{
		ID:        "cart-1",
		SessionID: sessionID,
		Items: []domain.LineItem{
			{ID: "item-1", ProductID: "bedframe", Quantity: 2, UnitPrice: 1548},
		},
	}
}

// newRequest builds a request that already went through the session and auth
// middleware.
func newRequest(t *testing.T, method, target string, body any, sessionID, userID string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	r := httptest.NewRequest(method, target, reader)

	ctx := r.Context()
	if sessionID != "" {
		ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	}
	if userID != "" {
		ctx = context.WithValue(ctx, userIDKey, userID)
	}
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeEnvelope unmarshals the response envelope, decoding Data into out
// when out is non-nil.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, out any) Envelope {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return Envelope{Success: env.Success, Error: env.Error}
}
