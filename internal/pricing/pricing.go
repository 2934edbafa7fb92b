package pricing

import (
	"math"

	"github.com/bean4896/hessen-custom/internal/catalog"
)

const (
	// BasePrice is the starting price of the bedframe before options.
	BasePrice = 1299.0

	Currency = "SGD"

	// TaxRate is the GST rate applied to the cart subtotal. The storefront
	// once showed 7% in a label while computing with 9%; 9% is correct.
	TaxRate = 0.09

	FreeShippingThreshold = 500.0
	FlatShippingFee       = 50.0
)

// Price computes the unit price of a configuration against the catalog,
// starting from the base price. Unknown or stale option ids contribute
// nothing; an empty configuration prices at the base alone. Pure function:
// the same inputs always produce the same price.
func Price(cfg catalog.Configuration, cat *catalog.Catalog) float64 {
	total := BasePrice
	for _, category := range catalog.Categories {
		if category == catalog.CategoryOptional {
			for _, id := range cfg.Optional {
				if o, ok := cat.Lookup(category, id); ok {
					total += o.PriceDelta
				}
			}
			continue
		}
		if id := cfg.Selected(category); id != "" {
			if o, ok := cat.Lookup(category, id); ok {
				total += o.PriceDelta
			}
		}
	}
	return total
}

// Line is one row of a price breakdown.
type Line struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Breakdown lists the base price followed by every matched option that
// carries a non-zero delta, in catalog display order.
func Breakdown(cfg catalog.Configuration, cat *catalog.Catalog) []Line {
	lines := []Line{{Label: "Base Price", Price: BasePrice}}
	for _, category := range catalog.Categories {
		if category == catalog.CategoryOptional {
			for _, id := range cfg.Optional {
				if o, ok := cat.Lookup(category, id); ok && o.PriceDelta > 0 {
					lines = append(lines, Line{Label: o.Title, Price: o.PriceDelta})
				}
			}
			continue
		}
		if id := cfg.Selected(category); id != "" {
			if o, ok := cat.Lookup(category, id); ok && o.PriceDelta > 0 {
				lines = append(lines, Line{Label: o.Title, Price: o.PriceDelta})
			}
		}
	}
	return lines
}

// Totals carries every derived amount for a cart subtotal. Orders persist
// these values frozen at creation time.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeTotals is the single shared tax/shipping formula. Every place a
// total is shown or persisted (cart summary, payment intent, order creation,
// webhook path) must go through here.
func ComputeTotals(subtotal float64) Totals {
	tax := round(subtotal * TaxRate)
	shipping := FlatShippingFee
	if subtotal >= FreeShippingThreshold {
		shipping = 0
	}
	return Totals{
		Subtotal: round(subtotal),
		Tax:      tax,
		Shipping: shipping,
		Total:    round(subtotal + tax + shipping),
	}
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
