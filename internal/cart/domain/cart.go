package domain

import (
	"github.com/shopspring/decimal"
)

// Line is one intended purchase. UnitPrice is the price snapshot captured
// when the line was added; the ticket reflects the price the shopper saw,
// not the price at checkout time.
type Line struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	SKU       string          `json:"sku"`
}

// Cart holds the session's lines in insertion order.
type Cart struct {
	Lines []Line `json:"lines"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Find returns a pointer into Lines for the given product, or nil.
func (c *Cart) Find(productID string) *Line {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

// Remove drops the product's line if present; removing an absent product
// is a no-op.
func (c *Cart) Remove(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy so session-store callers never share slices.
func (c *Cart) Clone() Cart {
	clone := Cart{Lines: make([]Line, len(c.Lines))}
	copy(clone.Lines, c.Lines)
	return clone
}

// ViewLine is a cart line joined against the live product at read time.
type ViewLine struct {
	Line
	Subtotal     decimal.Decimal `json:"subtotal"`
	LiveQuantity int             `json:"live_quantity"`
	LivePrice    decimal.Decimal `json:"live_price"`
}

type CartView struct {
	Lines []ViewLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}
