package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/database"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/product/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSKUConflict     = errors.New("product with this SKU already exists")
)

// orderByColumns whitelists sortable columns; request values outside this
// map fall back to newest-first.
var orderByColumns = map[string]string{
	"name":        "name ASC",
	"-name":       "name DESC",
	"price":       "price ASC",
	"-price":      "price DESC",
	"quantity":    "quantity ASC",
	"-quantity":   "quantity DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
}

const productColumns = `id, sku, name, brand, description, category, gender, fragrance_type, volume_ml,
              price, cost, quantity, min_stock, barcode, supplier, image_url, expiration_date, created_at, updated_at`

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
	ListLowStockProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func scanProduct(row interface{ Scan(...interface{}) error }, p *domain.Product) error {
	var imageURL sql.NullString
	var expirationDate sql.NullTime
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Brand, &p.Description, &p.Category, &p.Gender, &p.FragranceType, &p.VolumeML,
		&p.Price, &p.Cost, &p.Quantity, &p.MinStock, &p.Barcode, &p.Supplier, &imageURL, &expirationDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	if expirationDate.Valid {
		p.ExpirationDate = &expirationDate.Time
	}
	return nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	query := `INSERT INTO products (sku, name, brand, description, category, gender, fragrance_type, volume_ml,
                  price, cost, quantity, min_stock, barcode, supplier, image_url, expiration_date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
              RETURNING id, created_at, updated_at`

	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	var imageURL sql.NullString
	if product.ImageURL != nil {
		imageURL = sql.NullString{String: *product.ImageURL, Valid: true}
	}
	var expirationDate sql.NullTime
	if product.ExpirationDate != nil {
		expirationDate = sql.NullTime{Time: *product.ExpirationDate, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		product.SKU, product.Name, product.Brand, product.Description, product.Category, product.Gender,
		product.FragranceType, product.VolumeML, product.Price, product.Cost, product.Quantity, product.MinStock,
		product.Barcode, product.Supplier, imageURL, expirationDate, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return ErrSKUConflict
		}
		logger.Error("CreateProduct: failed to insert product", err)
		return err
	}
	return nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p domain.Product
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		logger.Error("GetProductByID: query failed", err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := fmt.Sprintf("$%d", len(args))
		conditions = append(conditions, "(name ILIKE "+n+" OR sku ILIKE "+n+" OR description ILIKE "+n+")")
	}
	if filter.PriceMin != nil {
		args = append(args, *filter.PriceMin)
		conditions = append(conditions, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.PriceMax != nil {
		args = append(args, *filter.PriceMax)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}
	if filter.QuantityMin != nil {
		args = append(args, *filter.QuantityMin)
		conditions = append(conditions, fmt.Sprintf("quantity >= $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, ok := orderByColumns[filter.OrderBy]
	if !ok {
		orderBy = "created_at DESC"
	}
	query += " ORDER BY " + orderBy

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("ListProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			logger.Error("ListProducts: scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresProductRepository) ListLowStockProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE quantity <= min_stock ORDER BY quantity ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("ListLowStockProducts: query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			logger.Error("ListLowStockProducts: scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	query := `UPDATE products SET sku = $1, name = $2, brand = $3, description = $4, category = $5, gender = $6,
                  fragrance_type = $7, volume_ml = $8, price = $9, cost = $10, quantity = $11, min_stock = $12,
                  barcode = $13, supplier = $14, image_url = $15, expiration_date = $16, updated_at = $17
              WHERE id = $18`

	product.UpdatedAt = time.Now()

	var imageURL sql.NullString
	if product.ImageURL != nil {
		imageURL = sql.NullString{String: *product.ImageURL, Valid: true}
	}
	var expirationDate sql.NullTime
	if product.ExpirationDate != nil {
		expirationDate = sql.NullTime{Time: *product.ExpirationDate, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query,
		product.SKU, product.Name, product.Brand, product.Description, product.Category, product.Gender,
		product.FragranceType, product.VolumeML, product.Price, product.Cost, product.Quantity, product.MinStock,
		product.Barcode, product.Supplier, imageURL, expirationDate, product.UpdatedAt, product.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return ErrSKUConflict
		}
		logger.Error("UpdateProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		logger.Error("DeleteProduct: exec failed", err)
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
