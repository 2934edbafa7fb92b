package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is tracked independently of fulfillment because payment
// confirmation can race order creation.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// Address is a shipping/contact snapshot owned by a single order. Addresses
// are copied per order, never shared, so later profile edits leave historical
// orders untouched.
type Address struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Type       string `json:"type"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderItem is a frozen copy of a cart line item at order-creation time. The
// serialized configuration stays whatever was true at purchase time even if
// the catalog later changes.
type OrderItem struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"order_id"`
	ProductID     string  `json:"product_id"`
	VariantID     string  `json:"variant_id,omitempty"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
	Total         float64 `json:"total"`
	Configuration string  `json:"configuration,omitempty"`
}

type Order struct {
	ID              string        `json:"id"`
	OrderNumber     string        `json:"order_number"`
	UserID          string        `json:"user_id"`
	Items           []OrderItem   `json:"items,omitempty"`
	ShippingAddress *Address      `json:"shipping_address,omitempty"`
	BillingAddress  *Address      `json:"billing_address,omitempty"`
	Subtotal        float64       `json:"subtotal"`
	Tax             float64       `json:"tax"`
	Shipping        float64       `json:"shipping"`
	Total           float64       `json:"total"`
	Currency        string        `json:"currency"`
	Status          OrderStatus   `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentRef      string        `json:"payment_ref,omitempty"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// SettledPayment reports whether the payment reached a terminal success
// state; further notifications for the order are no-ops.
func (o *Order) SettledPayment() bool {
	return o.PaymentStatus == PaymentStatusCompleted
}
