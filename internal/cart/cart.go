package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/asifmahmud/banglahat-backend/pkg/flexible"
)

// Line is one entry in a session cart. Un-customized lines for the same
// product merge into a single line; customized lines always stand alone.
type Line struct {
	LineID        string                  `json:"lineId"`
	ProductID     string                  `json:"productId"`
	Name          string                  `json:"name"`
	Price         decimal.Decimal         `json:"price"`
	Quantity      int                     `json:"quantity"`
	ImageURL      string                  `json:"imageUrl,omitempty"`
	Customization *flexible.Customization `json:"customization,omitempty"`
}

// Cart is the session cart persisted in Redis under the visitor's cart token.
type Cart struct {
	Token     string    `json:"token"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Subtotal sums price times quantity across all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ItemCount sums quantities across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Items converts the cart lines into order line items.
func (c *Cart) Items() []flexible.LineItem {
	items := make([]flexible.LineItem, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, flexible.LineItem{
			ID:            line.ProductID,
			Name:          line.Name,
			Price:         line.Price,
			Quantity:      line.Quantity,
			ImageURL:      line.ImageURL,
			Customization: line.Customization,
		})
	}
	return items
}

// HasCustomization reports whether any line carries a customization payload.
func (c *Cart) HasCustomization() bool {
	for _, line := range c.Lines {
		if line.Customization != nil {
			return true
		}
	}
	return false
}
