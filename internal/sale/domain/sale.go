package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one completed checkout. Append-only: never updated or deleted
// after the creating transaction commits.
type Sale struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	TicketNumber string          `json:"ticket_number"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
	Items        []SaleItem      `json:"items,omitempty"`
}

// ItemsCount returns the total units sold across all items.
func (s *Sale) ItemsCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// SaleItem snapshots the product at sale time; the denormalized fields
// survive later product edits and deletion.
type SaleItem struct {
	ID           string          `json:"id"`
	SaleID       string          `json:"sale_id"`
	ProductName  string          `json:"product_name"`
	ProductBrand string          `json:"product_brand"`
	ProductSKU   string          `json:"product_sku"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// CheckoutLine is one cart line handed to the checkout transaction.
// UnitPrice is the cart's captured price snapshot, not the live price.
type CheckoutLine struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}
