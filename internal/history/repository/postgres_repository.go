package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
)

var ErrHistoryNotFound = errors.New("history entry not found")

type HistoryRepository interface {
	CreateHistory(ctx context.Context, history *domain.History) error
	GetHistoryByID(ctx context.Context, id string) (*domain.History, error)
	ListHistories(ctx context.Context, filter domain.ListFilter) ([]domain.History, error)
}

type postgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryRepository(db *sql.DB) HistoryRepository {
	return &postgresHistoryRepository{db: db}
}

func (r *postgresHistoryRepository) CreateHistory(ctx context.Context, history *domain.History) error {
	query := `INSERT INTO histories (user_id, username, product_id, product_name, action, changes, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`

	history.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		history.UserID, history.Username, history.ProductID, history.ProductName,
		history.Action, history.Changes, history.CreatedAt,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		logger.Error("CreateHistory: failed to insert history", err)
		return err
	}
	return nil
}

func (r *postgresHistoryRepository) GetHistoryByID(ctx context.Context, id string) (*domain.History, error) {
	query := `SELECT id, user_id, username, product_id, product_name, action, changes, created_at
              FROM histories WHERE id = $1`
	var h domain.History
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&h.ID, &h.UserID, &h.Username, &h.ProductID, &h.ProductName, &h.Action, &h.Changes, &h.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHistoryNotFound
		}
		logger.Error("GetHistoryByID: query failed", err)
		return nil, err
	}
	return &h, nil
}

func (r *postgresHistoryRepository) ListHistories(ctx context.Context, filter domain.ListFilter) ([]domain.History, error) {
	var conditions []string
	var args []interface{}

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.ProductName != "" {
		args = append(args, "%"+filter.ProductName+"%")
		conditions = append(conditions, fmt.Sprintf("product_name ILIKE $%d", len(args)))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}

	query := `SELECT id, user_id, username, product_id, product_name, action, changes, created_at FROM histories`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListHistories: query failed", err)
		return nil, err
	}
	defer rows.Close()

	histories := []domain.History{}
	for rows.Next() {
		var h domain.History
		if err := rows.Scan(&h.ID, &h.UserID, &h.Username, &h.ProductID, &h.ProductName, &h.Action, &h.Changes, &h.CreatedAt); err != nil {
			logger.Error("ListHistories: scan failed", err)
			return nil, err
		}
		histories = append(histories, h)
	}
	return histories, rows.Err()
}
