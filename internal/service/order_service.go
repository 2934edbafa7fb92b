package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/bean4896/hessen-custom/internal/domain"
	"github.com/bean4896/hessen-custom/internal/pricing"
	"github.com/bean4896/hessen-custom/internal/repository"
	"github.com/google/uuid"
)

type ShippingInfo struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

func (s ShippingInfo) validate() error {
	missing := []string{}
	for field, value := range map[string]string{
		"first_name":  s.FirstName,
		"last_name":   s.LastName,
		"email":       s.Email,
		"address":     s.Address,
		"city":        s.City,
		"postal_code": s.PostalCode,
		"country":     s.Country,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

type CreateOrderRequest struct {
	Items      []domain.LineItem
	Shipping   ShippingInfo
	IsGuest    bool
	UserID     string // authenticated session user; empty for guests
	PaymentRef string // set when the payment intent already exists
}

// ItemFailure reports one order item row that could not be written.
type ItemFailure struct {
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
}

// CreateOrderResult is the explicit batch outcome of materialization: the
// order header is authoritative, and any item rows that failed are surfaced
// to the caller instead of being hidden in a log line.
type CreateOrderResult struct {
	Order       *domain.Order `json:"order"`
	FailedItems []ItemFailure `json:"failed_items,omitempty"`
}

type OrderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// CreateOrder converts a cart snapshot plus shipping info into a persisted
// order. Totals are computed once through the shared formula and frozen;
// later catalog changes never alter them.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := req.Shipping.validate(); err != nil {
		return nil, err
	}

	userID := req.UserID
	if req.IsGuest {
		name := strings.TrimSpace(req.Shipping.FirstName + " " + req.Shipping.LastName)
		id, err := s.repo.UpsertUserByEmail(ctx, name, req.Shipping.Email, req.Shipping.Phone)
		if err != nil {
			return nil, fmt.Errorf("resolve guest user: %w", err)
		}
		userID = id
	} else if userID == "" {
		return nil, ErrUnauthorized
	}

	address := &domain.Address{
		UserID:     userID,
		Type:       "shipping",
		FirstName:  req.Shipping.FirstName,
		LastName:   req.Shipping.LastName,
		Email:      req.Shipping.Email,
		Phone:      req.Shipping.Phone,
		Line1:      req.Shipping.Address,
		Line2:      req.Shipping.AddressLine2,
		City:       req.Shipping.City,
		PostalCode: req.Shipping.PostalCode,
		Country:    req.Shipping.Country,
	}
	if err := s.repo.CreateAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("persist address: %w", err)
	}

	subtotal := 0.0
	for _, item := range req.Items {
		subtotal += item.LineTotal()
	}
	totals := pricing.ComputeTotals(subtotal)

	status := domain.OrderStatusPending
	if req.PaymentRef != "" {
		status = domain.OrderStatusConfirmed
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     NewOrderNumber(),
		UserID:          userID,
		ShippingAddress: address,
		BillingAddress:  address,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		Currency:        pricing.Currency,
		Status:          status,
		PaymentStatus:   domain.PaymentStatusPending,
		PaymentRef:      req.PaymentRef,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	result := &CreateOrderResult{Order: order}
	for _, line := range req.Items {
		cfgJSON, err := json.Marshal(line.Configuration)
		if err != nil {
			cfgJSON = nil
		}
		item := domain.OrderItem{
			ID:            uuid.NewString(),
			OrderID:       order.ID,
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			Price:         line.UnitPrice,
			Total:         line.LineTotal(),
			Configuration: string(cfgJSON),
		}
		if err := s.repo.CreateOrderItem(ctx, &item); err != nil {
			// The order header stays authoritative; keep writing the rest and
			// report the gap to the caller.
			log.Printf("order %s: failed to create item for product %s: %v", order.ID, line.ProductID, err)
			result.FailedItems = append(result.FailedItems, ItemFailure{
				ProductID: line.ProductID,
				Reason:    err.Error(),
			})
			continue
		}
		order.Items = append(order.Items, item)
	}

	return result, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *OrderService) GetOrderByPaymentRef(ctx context.Context, ref string) (*domain.Order, error) {
	return s.repo.GetOrderByPaymentRef(ctx, ref)
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListOrdersByUserID(ctx, userID)
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber builds a human-readable, creation-time-sortable order
// number: HES-<millis>-<4 random chars>.
func NewOrderNumber() string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("HES-%d-%s", time.Now().UnixMilli(), suffix)
}
