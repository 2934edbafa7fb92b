package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bean4896/hessen-custom/internal/cache"
	"github.com/bean4896/hessen-custom/internal/domain"
	"github.com/bean4896/hessen-custom/internal/repository"
)

type mockCartRepository struct {
	m      sync.RWMutex
	cart   *domain.Cart
	getErr error
	err    error
}

func (m *mockCartRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockCartRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = c
	return nil
}

func (m *mockCartRepository) DeleteCart(_ context.Context, _ string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.cart == nil {
		return repository.ErrCartNotFound
	}
	m.cart = nil
	return nil
}

type mockCartCache struct {
	m        sync.RWMutex
	cart     *domain.Cart
	err      error
	setCalls int
}

func (m *mockCartCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCartCache) Set(_ context.Context, _ string, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.setCalls++
	m.cart = c
	return nil
}

func (m *mockCartCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return nil
}

// mockOrderRepository keeps everything in memory and counts the calls the
// idempotency tests care about.
type mockOrderRepository struct {
	m sync.Mutex

	usersByEmail map[string]*domain.User
	addresses    []*domain.Address
	orders       map[string]*domain.Order
	items        []*domain.OrderItem
	outbox       []*repository.OutboxEvent
	processed    []int

	upsertCalls    int
	paidCalls      int
	appliedCount   int
	itemErrFor     map[string]error // productID -> error
	createOrderErr error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		usersByEmail: make(map[string]*domain.User),
		orders:       make(map[string]*domain.Order),
		itemErrFor:   make(map[string]error),
	}
}

func (m *mockOrderRepository) UpsertUserByEmail(_ context.Context, name, email, phone string) (string, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.upsertCalls++
	if u, ok := m.usersByEmail[email]; ok {
		u.Name = name
		u.Phone = phone
		return u.ID, nil
	}
	u := &domain.User{
		ID:    fmt.Sprintf("user-%d", len(m.usersByEmail)+1),
		Name:  name,
		Email: email,
		Phone: phone,
		Role:  "customer",
	}
	m.usersByEmail[email] = u
	return u.ID, nil
}

func (m *mockOrderRepository) CreateAddress(_ context.Context, addr *domain.Address) error {
	m.m.Lock()
	defer m.m.Unlock()
	if addr.ID == "" {
		addr.ID = fmt.Sprintf("addr-%d", len(m.addresses)+1)
	}
	m.addresses = append(m.addresses, addr)
	return nil
}

func (m *mockOrderRepository) CreateOrder(_ context.Context, order *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.createOrderErr != nil {
		return m.createOrderErr
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepository) CreateOrderItem(_ context.Context, item *domain.OrderItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if err, ok := m.itemErrFor[item.ProductID]; ok {
		return err
	}
	m.items = append(m.items, item)
	return nil
}

func (m *mockOrderRepository) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) GetOrderByPaymentRef(_ context.Context, ref string) (*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	for _, order := range m.orders {
		if order.PaymentRef == ref {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepository) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	m.m.Lock()
	defer m.m.Unlock()
	var out []*domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) MarkOrderPaid(_ context.Context, orderID, paymentRef string, paidAt time.Time) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.paidCalls++
	order, ok := m.orders[orderID]
	if !ok {
		return false, repository.ErrOrderNotFound
	}
	if order.PaymentStatus == domain.PaymentStatusCompleted {
		return false, nil
	}
	order.Status = domain.OrderStatusConfirmed
	order.PaymentStatus = domain.PaymentStatusCompleted
	order.PaymentRef = paymentRef
	order.PaidAt = &paidAt
	m.appliedCount++
	m.outbox = append(m.outbox, &repository.OutboxEvent{
		ID:          len(m.outbox) + 1,
		AggregateID: orderID,
		EventType:   "order.paid",
		Payload:     []byte(fmt.Sprintf(`{"order_id":%q}`, orderID)),
	})
	return true, nil
}

func (m *mockOrderRepository) MarkPaymentFailed(_ context.Context, orderID string) (bool, error) {
	m.m.Lock()
	defer m.m.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return false, repository.ErrOrderNotFound
	}
	if order.PaymentStatus != domain.PaymentStatusPending {
		return false, nil
	}
	order.PaymentStatus = domain.PaymentStatusFailed
	return true, nil
}

func (m *mockOrderRepository) GetUnprocessedEvents(_ context.Context, limit int) ([]*repository.OutboxEvent, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if len(m.outbox) > limit {
		return m.outbox[:limit], nil
	}
	return m.outbox, nil
}

func (m *mockOrderRepository) MarkEventAsProcessed(_ context.Context, id int) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.processed = append(m.processed, id)
	return nil
}

func (m *mockOrderRepository) RunMigrations(*repository.Credentials) error { return nil }

func (m *mockOrderRepository) Close() error { return nil }
