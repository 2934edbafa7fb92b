package domain

import (
	"time"

	"github.com/bean4896/hessen-custom/internal/catalog"
)

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	SessionID string     `bson:"session_id" json:"session_id"`
	Items     []LineItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// LineItem is one configured product in a cart. The configuration and unit
// price are frozen at add time; only the quantity changes afterward.
type LineItem struct {
	ID            string                `bson:"id" json:"id"`
	ProductID     string                `bson:"product_id" json:"product_id"`
	Name          string                `bson:"name" json:"name"`
	Configuration catalog.Configuration `bson:"configuration" json:"configuration"`
	Quantity      int                   `bson:"quantity" json:"quantity"`
	UnitPrice     float64               `bson:"unit_price" json:"unit_price"`
	AddedAt       time.Time             `bson:"added_at" json:"added_at"`
}

func (i LineItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// MergeKey identifies "the same product configured the same way". Adding a
// matching configuration again bumps the quantity instead of creating a
// second row.
func (i LineItem) MergeKey() string {
	return i.ProductID + "#" + i.Configuration.Key()
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}
