package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cartDomain "github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/session"
	productDomain "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/repository"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/repository/mocks"
)

func newTestCheckoutService(repo repository.SaleRepository, carts session.Store) *checkoutService {
	svc := NewCheckoutService(repo, carts).(*checkoutService)
	svc.now = func() time.Time {
		return time.Date(2024, 6, 15, 13, 45, 30, 0, time.UTC)
	}
	return svc
}

func seedCart(store session.Store, sessionID string) cartDomain.Cart {
	cart := cartDomain.Cart{Lines: []cartDomain.Line{
		{ProductID: "prod1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00"), Name: "A", Brand: "B1", SKU: "SKU-1"},
		{ProductID: "prod2", Quantity: 1, UnitPrice: decimal.RequireFromString("25.00"), Name: "B", Brand: "B2", SKU: "SKU-2"},
	}}
	store.Save(sessionID, cart)
	return cart
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctx := context.TODO()
	const sid = "user-1"

	t.Run("Empty cart never reaches the repository", func(t *testing.T) {
		mockRepo := new(mocks.MockSaleRepository)
		svc := newTestCheckoutService(mockRepo, session.NewMemoryStore())

		sale, err := svc.Checkout(ctx, sid, "user-1")
		assert.Nil(t, sale)
		assert.ErrorIs(t, err, ErrEmptyCart)
		mockRepo.AssertNotCalled(t, "CreateSale")
	})

	t.Run("Successful checkout preserves line order and clears the cart", func(t *testing.T) {
		mockRepo := new(mocks.MockSaleRepository)
		store := session.NewMemoryStore()
		seedCart(store, sid)
		svc := newTestCheckoutService(mockRepo, store)

		expectedLines := []domain.CheckoutLine{
			{ProductID: "prod1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: "prod2", Quantity: 1, UnitPrice: decimal.RequireFromString("25.00")},
		}
		createdSale := &domain.Sale{
			ID:           "sale-1",
			UserID:       "user-1",
			TicketNumber: "TICKET-20240615134530",
			Total:        decimal.RequireFromString("45.00"),
		}
		mockRepo.On("CreateSale", ctx, "user-1", "TICKET-20240615134530", expectedLines).Return(createdSale, nil).Once()

		sale, err := svc.Checkout(ctx, sid, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, "TICKET-20240615134530", sale.TicketNumber)
		assert.True(t, store.Get(sid).IsEmpty())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Insufficient stock aborts and leaves the cart untouched", func(t *testing.T) {
		mockRepo := new(mocks.MockSaleRepository)
		store := session.NewMemoryStore()
		seedCart(store, sid)
		svc := newTestCheckoutService(mockRepo, store)

		stockErr := &productDomain.InsufficientStockError{ProductID: "prod1", Available: 1, Requested: 2}
		mockRepo.On("CreateSale", ctx, "user-1", mock.Anything, mock.Anything).Return(nil, stockErr).Once()

		sale, err := svc.Checkout(ctx, sid, "user-1")
		assert.Nil(t, sale)

		var got *productDomain.InsufficientStockError
		assert.ErrorAs(t, err, &got)
		assert.Equal(t, 1, got.Available)
		assert.Equal(t, 2, got.Requested)
		assert.Len(t, store.Get(sid).Lines, 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Ticket collision retries with a disambiguating suffix", func(t *testing.T) {
		mockRepo := new(mocks.MockSaleRepository)
		store := session.NewMemoryStore()
		seedCart(store, sid)
		svc := newTestCheckoutService(mockRepo, store)

		createdSale := &domain.Sale{ID: "sale-2", UserID: "user-1", TicketNumber: "TICKET-20240615134530-2"}
		mockRepo.On("CreateSale", ctx, "user-1", "TICKET-20240615134530", mock.Anything).
			Return(nil, repository.ErrTicketConflict).Once()
		mockRepo.On("CreateSale", ctx, "user-1", "TICKET-20240615134530-2", mock.Anything).
			Return(createdSale, nil).Once()

		sale, err := svc.Checkout(ctx, sid, "user-1")
		assert.NoError(t, err)
		assert.Equal(t, "TICKET-20240615134530-2", sale.TicketNumber)
		assert.True(t, store.Get(sid).IsEmpty())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Ticket collisions are bounded before surfacing the conflict", func(t *testing.T) {
		mockRepo := new(mocks.MockSaleRepository)
		store := session.NewMemoryStore()
		seedCart(store, sid)
		svc := newTestCheckoutService(mockRepo, store)

		mockRepo.On("CreateSale", ctx, "user-1", mock.Anything, mock.Anything).
			Return(nil, repository.ErrTicketConflict).Times(ticketMaxAttempts)

		sale, err := svc.Checkout(ctx, sid, "user-1")
		assert.Nil(t, sale)
		assert.ErrorIs(t, err, repository.ErrTicketConflict)
		assert.Len(t, store.Get(sid).Lines, 2)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Repository failures do not clear the cart", func(t *testing.T) {
		mockRepo := new(mocks.MockSaleRepository)
		store := session.NewMemoryStore()
		seedCart(store, sid)
		svc := newTestCheckoutService(mockRepo, store)

		mockRepo.On("CreateSale", ctx, "user-1", mock.Anything, mock.Anything).
			Return(nil, errors.New("db down")).Once()

		sale, err := svc.Checkout(ctx, sid, "user-1")
		assert.Nil(t, sale)
		assert.Error(t, err)
		assert.Len(t, store.Get(sid).Lines, 2)
		mockRepo.AssertExpectations(t)
	})
}

func TestCheckoutService_SaleReads(t *testing.T) {
	ctx := context.TODO()

	t.Run("Admins list every sale, others only their own", func(t *testing.T) {
		mockRepo := new(mocks.MockSaleRepository)
		svc := newTestCheckoutService(mockRepo, session.NewMemoryStore())

		mockRepo.On("ListSales", ctx, "").Return([]domain.Sale{{ID: "s1"}, {ID: "s2"}}, nil).Once()
		sales, err := svc.ListSales(ctx, Viewer{UserID: "admin", IsAdmin: true})
		assert.NoError(t, err)
		assert.Len(t, sales, 2)

		mockRepo.On("ListSales", ctx, "user-1").Return([]domain.Sale{{ID: "s1"}}, nil).Once()
		sales, err = svc.ListSales(ctx, Viewer{UserID: "user-1"})
		assert.NoError(t, err)
		assert.Len(t, sales, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Non-owners cannot read another user's sale", func(t *testing.T) {
		mockRepo := new(mocks.MockSaleRepository)
		svc := newTestCheckoutService(mockRepo, session.NewMemoryStore())

		sale := &domain.Sale{ID: "s1", UserID: "user-1"}
		mockRepo.On("GetSaleByID", ctx, "s1").Return(sale, nil).Twice()

		got, err := svc.GetSale(ctx, Viewer{UserID: "user-2"}, "s1")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrSaleForbidden)

		got, err = svc.GetSale(ctx, Viewer{UserID: "user-2", IsAdmin: true}, "s1")
		assert.NoError(t, err)
		assert.Equal(t, "s1", got.ID)
		mockRepo.AssertExpectations(t)
	})
}

func TestSale_ItemsCount(t *testing.T) {
	sale := domain.Sale{Items: []domain.SaleItem{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, 5, sale.ItemsCount())
}
