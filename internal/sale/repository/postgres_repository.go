package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/database"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	productDomain "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/domain"
)

var (
	ErrSaleNotFound   = errors.New("sale not found")
	ErrTicketConflict = errors.New("ticket number already exists")
)

// ProductNotFoundError identifies which cart line referenced a product
// that no longer exists at commit time.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

type SaleRepository interface {
	// CreateSale runs the whole checkout commit as one transaction:
	// lock products, validate stock, insert sale + items, decrement
	// quantities, fix up the total. Any failure rolls everything back.
	CreateSale(ctx context.Context, userID, ticketNumber string, lines []domain.CheckoutLine) (*domain.Sale, error)
	GetSaleByID(ctx context.Context, id string) (*domain.Sale, error)
	ListSales(ctx context.Context, userID string) ([]domain.Sale, error)
}

type postgresSaleRepository struct {
	db *sql.DB
}

func NewPostgresSaleRepository(db *sql.DB) SaleRepository {
	return &postgresSaleRepository{db: db}
}

// lockedProduct is the snapshot taken under FOR UPDATE.
type lockedProduct struct {
	Name     string
	Brand    string
	SKU      string
	Quantity int
}

func (r *postgresSaleRepository) CreateSale(ctx context.Context, userID, ticketNumber string, lines []domain.CheckoutLine) (*domain.Sale, error) {
	var sale *domain.Sale

	err := database.WithRetry(ctx, r.db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		// Lock involved rows in sorted id order so two concurrent
		// checkouts over the same products cannot deadlock.
		lockOrder := make([]string, 0, len(lines))
		for _, line := range lines {
			lockOrder = append(lockOrder, line.ProductID)
		}
		sort.Strings(lockOrder)

		locked := make(map[string]lockedProduct, len(lines))
		for _, productID := range lockOrder {
			if _, ok := locked[productID]; ok {
				continue
			}
			var lp lockedProduct
			err := tx.QueryRowContext(ctx,
				`SELECT name, brand, sku, quantity FROM products WHERE id = $1 FOR UPDATE`,
				productID).Scan(&lp.Name, &lp.Brand, &lp.SKU, &lp.Quantity)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return &ProductNotFoundError{ProductID: productID}
				}
				return fmt.Errorf("lock product %s: %w", productID, err)
			}
			locked[productID] = lp
		}

		for _, line := range lines {
			if lp := locked[line.ProductID]; lp.Quantity < line.Quantity {
				return &productDomain.InsufficientStockError{
					ProductID: line.ProductID,
					Available: lp.Quantity,
					Requested: line.Quantity,
				}
			}
		}

		var saleID string
		var createdAt sql.NullTime
		err := tx.QueryRowContext(ctx,
			`INSERT INTO sales (user_id, ticket_number, total)
			 VALUES ($1, $2, 0) RETURNING id, created_at`,
			userID, ticketNumber).Scan(&saleID, &createdAt)
		if err != nil {
			if database.IsUniqueViolation(err, "sales_ticket_number_key") {
				return ErrTicketConflict
			}
			return fmt.Errorf("create sale: %w", err)
		}

		// Items keep the cart's insertion order; position makes the
		// order stable on read-back.
		items := make([]domain.SaleItem, 0, len(lines))
		total := decimal.Zero
		for position, line := range lines {
			lp := locked[line.ProductID]
			subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

			item := domain.SaleItem{
				SaleID:       saleID,
				ProductName:  lp.Name,
				ProductBrand: lp.Brand,
				ProductSKU:   lp.SKU,
				Quantity:     line.Quantity,
				UnitPrice:    line.UnitPrice,
				Subtotal:     subtotal,
			}
			err := tx.QueryRowContext(ctx,
				`INSERT INTO sale_items (sale_id, position, product_name, product_brand, product_sku, quantity, unit_price, subtotal)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
				saleID, position, item.ProductName, item.ProductBrand, item.ProductSKU,
				item.Quantity, item.UnitPrice, item.Subtotal).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("create sale item: %w", err)
			}
			items = append(items, item)
			total = total.Add(subtotal)

			// The quantity guard in the predicate is what actually
			// prevents negative stock; the earlier read only produces
			// the user-facing availability numbers.
			res, err := tx.ExecContext(ctx,
				`UPDATE products SET quantity = quantity - $1, updated_at = NOW()
				 WHERE id = $2 AND quantity >= $1`,
				line.Quantity, line.ProductID)
			if err != nil {
				return fmt.Errorf("decrement stock for product %s: %w", line.ProductID, err)
			}
			rowsAffected, _ := res.RowsAffected()
			if rowsAffected == 0 {
				return &productDomain.InsufficientStockError{
					ProductID: line.ProductID,
					Available: lp.Quantity,
					Requested: line.Quantity,
				}
			}
		}

		sale = &domain.Sale{
			ID:           saleID,
			UserID:       userID,
			TicketNumber: ticketNumber,
			Total:        total,
			CreatedAt:    createdAt.Time,
			Items:        items,
		}
		_, err = tx.ExecContext(ctx, `UPDATE sales SET total = $1 WHERE id = $2`, total, saleID)
		if err != nil {
			return fmt.Errorf("set sale total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// GetSaleByID reads the sale row and its items inside one read-only
// transaction so the ticket view never mixes two snapshots.
func (r *postgresSaleRepository) GetSaleByID(ctx context.Context, id string) (*domain.Sale, error) {
	var s domain.Sale

	opts := database.DefaultTxOptions()
	opts.ReadOnly = true

	err := database.WithTransaction(ctx, r.db, opts, func(tx *sql.Tx) error {
		query := `SELECT id, user_id, ticket_number, total, created_at FROM sales WHERE id = $1`
		err := tx.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.TicketNumber, &s.Total, &s.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSaleNotFound
			}
			logger.Error("GetSaleByID: query failed", err)
			return err
		}

		itemsQuery := `SELECT id, sale_id, product_name, product_brand, product_sku, quantity, unit_price, subtotal
                       FROM sale_items WHERE sale_id = $1 ORDER BY position ASC`
		rows, err := tx.QueryContext(ctx, itemsQuery, id)
		if err != nil {
			logger.Error("GetSaleByID: items query failed", err)
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var item domain.SaleItem
			if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductName, &item.ProductBrand, &item.ProductSKU,
				&item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
				logger.Error("GetSaleByID: items scan failed", err)
				return err
			}
			s.Items = append(s.Items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSales returns sales newest first; an empty userID returns all.
func (r *postgresSaleRepository) ListSales(ctx context.Context, userID string) ([]domain.Sale, error) {
	query := `SELECT id, user_id, ticket_number, total, created_at FROM sales`
	var args []interface{}
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListSales: query failed", err)
		return nil, err
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.UserID, &s.TicketNumber, &s.Total, &s.CreatedAt); err != nil {
			logger.Error("ListSales: scan failed", err)
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
