package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Category values.
const (
	CategoryPerfume   = "PERFUME"
	CategoryEDT       = "EDT"
	CategoryEDC       = "EDC"
	CategoryEDP       = "EDP"
	CategoryBodySpray = "BODY_SPRAY"
	CategoryLotion    = "LOTION"
	CategoryCream     = "CREAM"
	CategoryGel       = "GEL"
	CategoryDeodorant = "DEODORANT"
	CategoryOther     = "OTHER"
)

// Gender values.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderUnisex = "U"
)

type Product struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Gender         string          `json:"gender"`
	FragranceType  string          `json:"fragrance_type"`
	VolumeML       int             `json:"volume_ml"`
	Price          decimal.Decimal `json:"price"`
	Cost           decimal.Decimal `json:"cost"`
	Quantity       int             `json:"quantity"`
	MinStock       int             `json:"min_stock"`
	Barcode        string          `json:"barcode"`
	Supplier       string          `json:"supplier"`
	ImageURL       *string         `json:"image_url,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsLowStock reports whether stock is at or below the alert threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// ProfitMargin returns (price - cost) / cost * 100, or zero when the
// product has no recorded cost.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.Cost.IsPositive() {
		return p.Price.Sub(p.Cost).Div(p.Cost).Mul(decimal.NewFromInt(100))
	}
	return decimal.Zero
}

// Snapshot returns every persisted field as a string map, used for audit
// before/after diffs.
func (p *Product) Snapshot() map[string]string {
	snap := map[string]string{
		"sku":            p.SKU,
		"name":           p.Name,
		"brand":          p.Brand,
		"description":    p.Description,
		"category":       p.Category,
		"gender":         p.Gender,
		"fragrance_type": p.FragranceType,
		"volume_ml":      strconv.Itoa(p.VolumeML),
		"price":          p.Price.StringFixed(2),
		"cost":           p.Cost.StringFixed(2),
		"quantity":       strconv.Itoa(p.Quantity),
		"min_stock":      strconv.Itoa(p.MinStock),
		"barcode":        p.Barcode,
		"supplier":       p.Supplier,
	}
	if p.ImageURL != nil {
		snap["image_url"] = *p.ImageURL
	}
	if p.ExpirationDate != nil {
		snap["expiration_date"] = p.ExpirationDate.Format("2006-01-02")
	}
	return snap
}

type CreateProductRequest struct {
	SKU            string          `json:"sku" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Brand          string          `json:"brand"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Gender         string          `json:"gender"`
	FragranceType  string          `json:"fragrance_type"`
	VolumeML       int             `json:"volume_ml"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	Cost           decimal.Decimal `json:"cost"`
	Quantity       int             `json:"quantity" binding:"gte=0"`
	MinStock       int             `json:"min_stock" binding:"gte=0"`
	Barcode        string          `json:"barcode"`
	Supplier       string          `json:"supplier"`
	ImageURL       *string         `json:"image_url"`
	ExpirationDate *time.Time      `json:"expiration_date"`
}

type UpdateProductRequest = CreateProductRequest

// ListFilter mirrors the product list view filters: free-text search over
// name/sku/description, price and quantity bounds, and sort column.
type ListFilter struct {
	Search      string
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	QuantityMin *int
	OrderBy     string
}

type ProductView struct {
	Product
	IsLowStock   bool            `json:"is_low_stock"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

func NewProductView(p Product) ProductView {
	return ProductView{
		Product:      p,
		IsLowStock:   p.IsLowStock(),
		ProfitMargin: p.ProfitMargin(),
	}
}
