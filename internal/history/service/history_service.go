package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/repository"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
)

var ErrHistoryForbidden = errors.New("not allowed to view this history entry")

// Actor identifies who performed or is viewing an audited action.
type Actor struct {
	UserID   string
	Username string
	IsAdmin  bool
}

type HistoryService interface {
	// Record appends an audit entry with a before/after diff of the two
	// snapshots. It never fails on diff serialization problems.
	Record(ctx context.Context, actor Actor, productID, productName, action string, oldSnap, newSnap map[string]string) error
	ListHistories(ctx context.Context, viewer Actor, filter domain.ListFilter) ([]domain.History, error)
	GetHistory(ctx context.Context, viewer Actor, id string) (*domain.History, error)
}

type historyService struct {
	repo repository.HistoryRepository
}

func NewHistoryService(repo repository.HistoryRepository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) Record(ctx context.Context, actor Actor, productID, productName, action string, oldSnap, newSnap map[string]string) error {
	diff := domain.ComputeDiff(oldSnap, newSnap)

	changes := "{}"
	if encoded, err := json.Marshal(diff); err == nil {
		changes = string(encoded)
	} else {
		// Diff fidelity is best-effort: record the entry with an empty
		// diff rather than aborting the product mutation.
		logger.Warn("Record: failed to serialize diff for product %s, storing empty diff: %v", productID, err)
	}

	entry := &domain.History{
		UserID:      actor.UserID,
		Username:    actor.Username,
		ProductID:   productID,
		ProductName: productName,
		Action:      action,
		Changes:     changes,
	}
	return s.repo.CreateHistory(ctx, entry)
}

func (s *historyService) ListHistories(ctx context.Context, viewer Actor, filter domain.ListFilter) ([]domain.History, error) {
	if !viewer.IsAdmin {
		// Non-admins only ever see their own entries.
		filter.UserID = viewer.UserID
	}
	return s.repo.ListHistories(ctx, filter)
}

func (s *historyService) GetHistory(ctx context.Context, viewer Actor, id string) (*domain.History, error) {
	entry, err := s.repo.GetHistoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.IsAdmin && entry.UserID != viewer.UserID {
		return nil, ErrHistoryForbidden
	}
	return entry, nil
}
