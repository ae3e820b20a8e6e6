package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/domain"
)

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) CreateHistory(ctx context.Context, history *domain.History) error {
	args := m.Called(ctx, history)
	if history != nil && args.Error(0) == nil && history.ID == "" {
		history.ID = "mock-history-id"
	}
	return args.Error(0)
}

func (m *MockHistoryRepository) GetHistoryByID(ctx context.Context, id string) (*domain.History, error) {
	args := m.Called(ctx, id)
	if h := args.Get(0); h != nil {
		return h.(*domain.History), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockHistoryRepository) ListHistories(ctx context.Context, filter domain.ListFilter) ([]domain.History, error) {
	args := m.Called(ctx, filter)
	if h := args.Get(0); h != nil {
		return h.([]domain.History), args.Error(1)
	}
	return nil, args.Error(1)
}
