package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/session"
	productDomain "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/domain"
	productRepo "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/repository"
)

var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

type CartService interface {
	AddItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sessionID, productID string) *domain.Cart
	Clear(ctx context.Context, sessionID string)
	View(ctx context.Context, sessionID string) (*domain.CartView, error)
}

type cartService struct {
	store    session.Store
	products productRepo.ProductRepository
}

func NewCartService(store session.Store, products productRepo.ProductRepository) CartService {
	return &cartService{store: store, products: products}
}

// AddItem puts one unit of the product in the session's cart, always
// validating against live stock rather than the cart's snapshot.
func (s *cartService) AddItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Quantity <= 0 {
		return nil, productDomain.ErrOutOfStock
	}

	cart := s.store.Get(sessionID)
	if line := cart.Find(productID); line != nil {
		if line.Quantity+1 > product.Quantity {
			return nil, &productDomain.InsufficientStockError{
				ProductID: productID,
				Available: product.Quantity,
				Requested: line.Quantity + 1,
			}
		}
		line.Quantity++
	} else {
		cart.Lines = append(cart.Lines, domain.Line{
			ProductID: product.ID,
			Quantity:  1,
			UnitPrice: product.Price,
			Name:      product.Name,
			Brand:     product.Brand,
			SKU:       product.SKU,
		})
	}

	s.store.Save(sessionID, cart)
	return &cart, nil
}

// UpdateQuantity overwrites the line's quantity after checking live
// stock. Updating a product that is not in the cart is a no-op.
func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart := s.store.Get(sessionID)
	line := cart.Find(productID)
	if line == nil {
		return &cart, nil
	}

	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Quantity {
		return nil, &productDomain.InsufficientStockError{
			ProductID: productID,
			Available: product.Quantity,
			Requested: quantity,
		}
	}

	line.Quantity = quantity
	s.store.Save(sessionID, cart)
	return &cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, productID string) *domain.Cart {
	cart := s.store.Get(sessionID)
	cart.Remove(productID)
	s.store.Save(sessionID, cart)
	return &cart
}

func (s *cartService) Clear(ctx context.Context, sessionID string) {
	s.store.Delete(sessionID)
}

// View joins each line against the live product. Lines whose product no
// longer exists are skipped, tolerating stale carts after a deletion.
func (s *cartService) View(ctx context.Context, sessionID string) (*domain.CartView, error) {
	cart := s.store.Get(sessionID)

	view := &domain.CartView{Lines: []domain.ViewLine{}, Total: decimal.Zero}
	for _, line := range cart.Lines {
		product, err := s.products.GetProductByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, productRepo.ErrProductNotFound) {
				continue
			}
			return nil, err
		}

		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Lines = append(view.Lines, domain.ViewLine{
			Line:         line,
			Subtotal:     subtotal,
			LiveQuantity: product.Quantity,
			LivePrice:    product.Price,
		})
		view.Total = view.Total.Add(subtotal)
	}
	return view, nil
}
