package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	historyDomain "github.com/cr1st1anhernandez/pos-inventory-go/internal/history/domain"
	historyService "github.com/cr1st1anhernandez/pos-inventory-go/internal/history/service"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/product/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/product/repository"
)

type ProductService interface {
	CreateProduct(ctx context.Context, actor historyService.Actor, req domain.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, actor historyService.Actor, productID string, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor historyService.Actor, productID string) error

	ReportLowStock(ctx context.Context)
	StopScheduler()
}

type productServiceImpl struct {
	repo      repository.ProductRepository
	history   historyService.HistoryService
	scheduler *cron.Cron
}

// NewProductService wires the product CRUD operations with audit logging
// and starts the periodic low-stock report when spec is non-empty.
func NewProductService(repo repository.ProductRepository, hs historyService.HistoryService, lowStockSpec string) ProductService {
	s := &productServiceImpl{
		repo:    repo,
		history: hs,
	}
	if lowStockSpec != "" {
		s.initScheduler(lowStockSpec)
	}
	return s
}

func (s *productServiceImpl) initScheduler(spec string) {
	s.scheduler = cron.New(cron.WithSeconds())
	if _, err := s.scheduler.AddFunc(spec, func() {
		s.ReportLowStock(context.Background())
	}); err != nil {
		logger.Error("initScheduler: invalid low-stock cron spec '"+spec+"'", err)
		s.scheduler = nil
		return
	}
	s.scheduler.Start()
	logger.Info("Low-stock report scheduler initialized with spec '%s'", spec)
}

func (s *productServiceImpl) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// ReportLowStock logs every product at or below its min-stock threshold.
func (s *productServiceImpl) ReportLowStock(ctx context.Context) {
	products, err := s.repo.ListLowStockProducts(ctx)
	if err != nil {
		logger.Error("ReportLowStock: failed to list low stock products", err)
		return
	}
	if len(products) == 0 {
		return
	}
	for _, p := range products {
		logger.Warn("Low stock: %s (%s) quantity=%d min_stock=%d", p.Name, p.SKU, p.Quantity, p.MinStock)
	}
}

func applyRequest(p *domain.Product, req domain.CreateProductRequest) {
	p.SKU = req.SKU
	p.Name = req.Name
	p.Brand = req.Brand
	p.Description = req.Description
	p.Category = req.Category
	p.Gender = req.Gender
	p.FragranceType = req.FragranceType
	p.VolumeML = req.VolumeML
	p.Price = req.Price
	p.Cost = req.Cost
	p.Quantity = req.Quantity
	p.MinStock = req.MinStock
	p.Barcode = req.Barcode
	p.Supplier = req.Supplier
	p.ImageURL = req.ImageURL
	p.ExpirationDate = req.ExpirationDate
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, actor historyService.Actor, req domain.CreateProductRequest) (*domain.Product, error) {
	product := &domain.Product{}
	applyRequest(product, req)
	if product.Brand == "" {
		product.Brand = "Sin Marca"
	}
	if product.Category == "" {
		product.Category = domain.CategoryOther
	}
	if product.Gender == "" {
		product.Gender = domain.GenderUnisex
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.record(ctx, actor, product.ID, product.Name, historyDomain.ActionCreate, nil, product.Snapshot())
	return product, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.GetProductByID(ctx, productID)
}

func (s *productServiceImpl) ListProducts(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, actor historyService.Actor, productID string, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	oldSnap := product.Snapshot()
	applyRequest(product, req)

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	s.record(ctx, actor, product.ID, product.Name, historyDomain.ActionUpdate, oldSnap, product.Snapshot())
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, actor historyService.Actor, productID string) error {
	product, err := s.repo.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return err
	}

	s.record(ctx, actor, product.ID, product.Name, historyDomain.ActionDelete, product.Snapshot(), nil)
	return nil
}

// record appends the audit entry. A failed append is logged but never
// fails the product mutation that already committed.
func (s *productServiceImpl) record(ctx context.Context, actor historyService.Actor, productID, productName, action string, oldSnap, newSnap map[string]string) {
	if err := s.history.Record(ctx, actor, productID, productName, action, oldSnap, newSnap); err != nil {
		logger.Error(fmt.Sprintf("record: failed to write %s history for product %s", action, productID), err)
	}
}
