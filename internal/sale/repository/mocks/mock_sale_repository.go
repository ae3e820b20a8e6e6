package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/domain"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) CreateSale(ctx context.Context, userID, ticketNumber string, lines []domain.CheckoutLine) (*domain.Sale, error) {
	args := m.Called(ctx, userID, ticketNumber, lines)
	if s := args.Get(0); s != nil {
		return s.(*domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSaleRepository) ListSales(ctx context.Context, userID string) ([]domain.Sale, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.([]domain.Sale), args.Error(1)
	}
	return nil, args.Error(1)
}
