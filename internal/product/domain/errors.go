package domain

import (
	"errors"
	"fmt"
)

// ErrOutOfStock signals a product whose live stock is zero.
var ErrOutOfStock = errors.New("product is out of stock")

// InsufficientStockError reports a demand that exceeds live stock. It is
// an expected, user-facing outcome of cart and checkout operations.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d", e.ProductID, e.Available, e.Requested)
}
