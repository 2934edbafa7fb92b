package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bean4896/hessen-custom/internal/domain"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OutboxEvent is a pending downstream notification written in the same
// transaction as the state change it describes.
type OutboxEvent struct {
	ID          int
	AggregateID string
	EventType   string
	Payload     []byte
}

type OrderRepository interface {
	// UpsertUserByEmail creates or refreshes a user record keyed by email and
	// returns its id. Repeated guest checkouts with the same email reuse the
	// same record.
	UpsertUserByEmail(ctx context.Context, name, email, phone string) (string, error)
	CreateAddress(ctx context.Context, addr *domain.Address) error
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateOrderItem(ctx context.Context, item *domain.OrderItem) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	GetOrderByPaymentRef(ctx context.Context, ref string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error)
	// MarkOrderPaid overwrites the order's payment state to its terminal
	// success value and queues the order.paid outbox event, all in one
	// transaction. Returns false when the order had already settled, so
	// duplicate notifications apply nothing twice.
	MarkOrderPaid(ctx context.Context, orderID, paymentRef string, paidAt time.Time) (bool, error)
	// MarkPaymentFailed records a failed payment attempt; the order stays
	// pending and open for retry.
	MarkPaymentFailed(ctx context.Context, orderID string) (bool, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int) error
	RunMigrations(*Credentials) error
	Close() error
}
