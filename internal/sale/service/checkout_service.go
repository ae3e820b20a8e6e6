package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/session"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/repository"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrSaleForbidden = errors.New("not allowed to view this sale")
)

// ticketMaxAttempts bounds how many ticket numbers are tried before the
// checkout surfaces the uniqueness conflict to the caller.
const ticketMaxAttempts = 3

// Viewer identifies who is reading the sale ledger.
type Viewer struct {
	UserID  string
	IsAdmin bool
}

type CheckoutService interface {
	// Checkout converts the session's cart into a Sale, decrementing
	// stock atomically. The cart is cleared only after the transaction
	// commits; on any failure it is left untouched.
	Checkout(ctx context.Context, sessionID, userID string) (*domain.Sale, error)
	ListSales(ctx context.Context, viewer Viewer) ([]domain.Sale, error)
	GetSale(ctx context.Context, viewer Viewer, saleID string) (*domain.Sale, error)
}

type checkoutService struct {
	repo  repository.SaleRepository
	carts session.Store
	now   func() time.Time
}

func NewCheckoutService(repo repository.SaleRepository, carts session.Store) CheckoutService {
	return &checkoutService{repo: repo, carts: carts, now: time.Now}
}

// generateTicketNumber encodes the current time at second granularity.
// The bare format can collide when two sales commit within the same
// second, so retries append a disambiguating suffix; the unique
// constraint on sales.ticket_number is the actual guarantee.
func (s *checkoutService) generateTicketNumber(attempt int) string {
	base := "TICKET-" + s.now().Format("20060102150405")
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt+1)
}

func (s *checkoutService) Checkout(ctx context.Context, sessionID, userID string) (*domain.Sale, error) {
	cart := s.carts.Get(sessionID)
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	lines := make([]domain.CheckoutLine, len(cart.Lines))
	for i, line := range cart.Lines {
		lines[i] = domain.CheckoutLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	var sale *domain.Sale
	var err error
	for attempt := 0; attempt < ticketMaxAttempts; attempt++ {
		sale, err = s.repo.CreateSale(ctx, userID, s.generateTicketNumber(attempt), lines)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrTicketConflict) {
			return nil, err
		}
		logger.Warn("Checkout: ticket number collision, retrying (attempt %d)", attempt+1)
	}
	if err != nil {
		return nil, err
	}

	s.carts.Delete(sessionID)
	logger.Info("Checkout: sale %s completed for user %s, ticket %s", sale.ID, userID, sale.TicketNumber)
	return sale, nil
}

func (s *checkoutService) ListSales(ctx context.Context, viewer Viewer) ([]domain.Sale, error) {
	if viewer.IsAdmin {
		return s.repo.ListSales(ctx, "")
	}
	return s.repo.ListSales(ctx, viewer.UserID)
}

func (s *checkoutService) GetSale(ctx context.Context, viewer Viewer, saleID string) (*domain.Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin && sale.UserID != viewer.UserID {
		return nil, ErrSaleForbidden
	}
	return sale, nil
}
