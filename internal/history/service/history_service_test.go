package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/repository"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/repository/mocks"
)

var testActor = Actor{UserID: "user-1", Username: "cashier", IsAdmin: false}

func decodeChanges(t *testing.T, entry *domain.History) domain.Diff {
	t.Helper()
	diff := domain.Diff{}
	assert.NoError(t, json.Unmarshal([]byte(entry.Changes), &diff))
	return diff
}

func TestHistoryService_Record(t *testing.T) {
	ctx := context.TODO()

	t.Run("CREATE includes every field with no old value", func(t *testing.T) {
		mockRepo := new(mocks.MockHistoryRepository)
		svc := NewHistoryService(mockRepo)

		var captured *domain.History
		mockRepo.On("CreateHistory", ctx, mock.AnythingOfType("*domain.History")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*domain.History) }).
			Return(nil).Once()

		newSnap := map[string]string{"name": "X", "price": "10.00"}
		err := svc.Record(ctx, testActor, "prod1", "X", domain.ActionCreate, nil, newSnap)
		assert.NoError(t, err)

		assert.Equal(t, domain.ActionCreate, captured.Action)
		assert.Equal(t, "user-1", captured.UserID)
		assert.Equal(t, "cashier", captured.Username)

		diff := decodeChanges(t, captured)
		assert.Len(t, diff, 2)
		assert.Nil(t, diff["name"].Old)
		assert.Equal(t, "X", *diff["name"].New)
		assert.Nil(t, diff["price"].Old)
		assert.Equal(t, "10.00", *diff["price"].New)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UPDATE keeps only the fields that changed", func(t *testing.T) {
		mockRepo := new(mocks.MockHistoryRepository)
		svc := NewHistoryService(mockRepo)

		var captured *domain.History
		mockRepo.On("CreateHistory", ctx, mock.AnythingOfType("*domain.History")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*domain.History) }).
			Return(nil).Once()

		oldSnap := map[string]string{"name": "X", "price": "10.00"}
		newSnap := map[string]string{"name": "X", "price": "12.00"}
		err := svc.Record(ctx, testActor, "prod1", "X", domain.ActionUpdate, oldSnap, newSnap)
		assert.NoError(t, err)

		diff := decodeChanges(t, captured)
		assert.Len(t, diff, 1)
		assert.Equal(t, "10.00", *diff["price"].Old)
		assert.Equal(t, "12.00", *diff["price"].New)
		mockRepo.AssertExpectations(t)
	})

	t.Run("DELETE includes every field with no new value", func(t *testing.T) {
		mockRepo := new(mocks.MockHistoryRepository)
		svc := NewHistoryService(mockRepo)

		var captured *domain.History
		mockRepo.On("CreateHistory", ctx, mock.AnythingOfType("*domain.History")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*domain.History) }).
			Return(nil).Once()

		oldSnap := map[string]string{"name": "X", "sku": "S-1"}
		err := svc.Record(ctx, testActor, "prod1", "X", domain.ActionDelete, oldSnap, nil)
		assert.NoError(t, err)

		diff := decodeChanges(t, captured)
		assert.Len(t, diff, 2)
		assert.Equal(t, "X", *diff["name"].Old)
		assert.Nil(t, diff["name"].New)
		mockRepo.AssertExpectations(t)
	})
}

func TestHistoryService_Listing(t *testing.T) {
	ctx := context.TODO()

	t.Run("Non-admin listing is always scoped to the viewer", func(t *testing.T) {
		mockRepo := new(mocks.MockHistoryRepository)
		svc := NewHistoryService(mockRepo)

		// Even a filter asking for someone else's entries is overridden.
		expected := domain.ListFilter{UserID: "user-1", Action: domain.ActionUpdate}
		mockRepo.On("ListHistories", ctx, expected).Return([]domain.History{}, nil).Once()

		_, err := svc.ListHistories(ctx, testActor, domain.ListFilter{UserID: "user-99", Action: domain.ActionUpdate})
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Admin listing passes the filter through", func(t *testing.T) {
		mockRepo := new(mocks.MockHistoryRepository)
		svc := NewHistoryService(mockRepo)

		admin := Actor{UserID: "admin-1", IsAdmin: true}
		filter := domain.ListFilter{UserID: "user-2", ProductName: "perfume"}
		mockRepo.On("ListHistories", ctx, filter).Return([]domain.History{}, nil).Once()

		_, err := svc.ListHistories(ctx, admin, filter)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Non-owners cannot read another user's entry", func(t *testing.T) {
		mockRepo := new(mocks.MockHistoryRepository)
		svc := NewHistoryService(mockRepo)

		entry := &domain.History{ID: "h1", UserID: "user-2"}
		mockRepo.On("GetHistoryByID", ctx, "h1").Return(entry, nil).Once()

		got, err := svc.GetHistory(ctx, testActor, "h1")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrHistoryForbidden)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Missing entry propagates not found", func(t *testing.T) {
		mockRepo := new(mocks.MockHistoryRepository)
		svc := NewHistoryService(mockRepo)

		mockRepo.On("GetHistoryByID", ctx, "h404").Return(nil, repository.ErrHistoryNotFound).Once()

		_, err := svc.GetHistory(ctx, testActor, "h404")
		assert.ErrorIs(t, err, repository.ErrHistoryNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestHistory_ChangesDiff(t *testing.T) {
	t.Run("Invalid stored payload degrades to an empty diff", func(t *testing.T) {
		entry := domain.History{Changes: "not-json"}
		assert.Empty(t, entry.ChangesDiff())
	})

	t.Run("Round-trips a serialized diff", func(t *testing.T) {
		oldValue, newValue := "10.00", "12.00"
		diff := domain.Diff{"price": {Old: &oldValue, New: &newValue}}
		encoded, err := json.Marshal(diff)
		assert.NoError(t, err)

		entry := domain.History{Changes: string(encoded)}
		decoded := entry.ChangesDiff()
		assert.Equal(t, "10.00", *decoded["price"].Old)
		assert.Equal(t, "12.00", *decoded["price"].New)
	})
}
