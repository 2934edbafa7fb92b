package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bean4896/hessen-custom/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "github.com/lib/pq"
)

type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(cred *Credentials) (*PostgresOrderRepository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &PostgresOrderRepository{db: db}, nil
}

func (r *PostgresOrderRepository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "storefront_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *PostgresOrderRepository) UpsertUserByEmail(ctx context.Context, name, email, phone string) (string, error) {
	query := `INSERT INTO users (id, name, email, phone, password, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, '', 'customer', NOW(), NOW())
	          ON CONFLICT (email) DO UPDATE SET name = $2, phone = $4, updated_at = NOW()
	          RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), name, email, phone).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert user by email: %w", err)
	}
	return id, nil
}

func (r *PostgresOrderRepository) CreateAddress(ctx context.Context, addr *domain.Address) error {
	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}
	query := `INSERT INTO addresses (id, user_id, type, first_name, last_name, email, phone, line1, line2, city, postal_code, country, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())`

	_, err := r.db.ExecContext(ctx, query,
		addr.ID,
		addr.UserID,
		addr.Type,
		addr.FirstName,
		addr.LastName,
		addr.Email,
		addr.Phone,
		addr.Line1,
		nullable(addr.Line2),
		addr.City,
		addr.PostalCode,
		addr.Country)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO orders (id, order_number, user_id, shipping_address_id, billing_address_id,
	                              subtotal, tax, shipping, total, currency, status, payment_status,
	                              payment_ref, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())`

	var shippingID, billingID interface{}
	if order.ShippingAddress != nil {
		shippingID = order.ShippingAddress.ID
	}
	if order.BillingAddress != nil {
		billingID = order.BillingAddress.ID
	}

	_, insertErr := r.db.ExecContext(ctx, query,
		order.ID,
		order.OrderNumber,
		order.UserID,
		shippingID,
		billingID,
		order.Subtotal,
		order.Tax,
		order.Shipping,
		order.Total,
		order.Currency,
		order.Status,
		order.PaymentStatus,
		nullable(order.PaymentRef))

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrderNumber
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

func (r *PostgresOrderRepository) CreateOrderItem(ctx context.Context, item *domain.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	query := `INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, price, total, configuration, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.OrderID,
		item.ProductID,
		nullable(item.VariantID),
		item.Quantity,
		item.Price,
		item.Total,
		nullable(item.Configuration))
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

const orderColumns = `id, order_number, user_id, subtotal, tax, shipping, total, currency,
	status, payment_status, COALESCE(payment_ref, ''), paid_at, created_at, updated_at`

func (r *PostgresOrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.queryOrder(ctx, query, id)
}

func (r *PostgresOrderRepository) GetOrderByPaymentRef(ctx context.Context, ref string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE payment_ref = $1`
	return r.queryOrder(ctx, query, ref)
}

func (r *PostgresOrderRepository) queryOrder(ctx context.Context, query string, arg interface{}) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.UserID,
		&order.Subtotal,
		&order.Tax,
		&order.Shipping,
		&order.Total,
		&order.Currency,
		&order.Status,
		&order.PaymentStatus,
		&order.PaymentRef,
		&order.PaidAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	items, err := r.listOrderItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *PostgresOrderRepository) listOrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, product_id, COALESCE(variant_id, ''), quantity, price, total, COALESCE(configuration::text, '')
	          FROM order_items WHERE order_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.VariantID,
			&item.Quantity,
			&item.Price,
			&item.Total,
			&item.Configuration,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (r *PostgresOrderRepository) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.OrderNumber,
			&order.UserID,
			&order.Subtotal,
			&order.Tax,
			&order.Shipping,
			&order.Total,
			&order.Currency,
			&order.Status,
			&order.PaymentStatus,
			&order.PaymentRef,
			&order.PaidAt,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return orders, nil
}

func (r *PostgresOrderRepository) MarkOrderPaid(ctx context.Context, orderID, paymentRef string, paidAt time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin mark-paid tx: %w", err)
	}
	defer tx.Rollback()

	var orderNumber string
	var paymentStatus domain.PaymentStatus
	row := tx.QueryRowContext(ctx,
		`SELECT order_number, payment_status FROM orders WHERE id = $1 FOR UPDATE`, orderID)
	if err := row.Scan(&orderNumber, &paymentStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrOrderNotFound
		}
		return false, fmt.Errorf("lock order for payment: %w", err)
	}

	if paymentStatus == domain.PaymentStatusCompleted {
		// Already settled; the duplicate notification is a no-op.
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET status = $2, payment_status = $3, payment_ref = $4, paid_at = $5, updated_at = NOW()
		 WHERE id = $1`,
		orderID, domain.OrderStatusConfirmed, domain.PaymentStatusCompleted, paymentRef, paidAt)
	if err != nil {
		return false, fmt.Errorf("mark order paid: %w", err)
	}

	payload, err := json.Marshal(map[string]interface{}{
		"order_id":     orderID,
		"order_number": orderNumber,
		"payment_ref":  paymentRef,
		"paid_at":      paidAt,
	})
	if err != nil {
		return false, fmt.Errorf("marshal outbox payload: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox_events (aggregate_id, event_type, payload, created_at)
		 VALUES ($1, 'order.paid', $2, NOW())`,
		orderID, payload)
	if err != nil {
		return false, fmt.Errorf("insert outbox event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit mark-paid tx: %w", err)
	}
	return true, nil
}

func (r *PostgresOrderRepository) MarkPaymentFailed(ctx context.Context, orderID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = NOW()
		 WHERE id = $1 AND payment_status = $3`,
		orderID, domain.PaymentStatusFailed, domain.PaymentStatusPending)
	if err != nil {
		return false, fmt.Errorf("mark payment failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark payment failed rows: %w", err)
	}
	if affected > 0 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}
	if !exists {
		return false, ErrOrderNotFound
	}
	return false, nil
}

func (r *PostgresOrderRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, aggregate_id, event_type, payload FROM outbox_events
	          WHERE processed = FALSE ORDER BY id LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.AggregateID, &ev.EventType, &ev.Payload); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *PostgresOrderRepository) MarkEventAsProcessed(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE outbox_events SET processed = TRUE, processed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark event processed: %w", err)
	}
	return nil
}

func (r *PostgresOrderRepository) Close() error {
	return r.db.Close()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
