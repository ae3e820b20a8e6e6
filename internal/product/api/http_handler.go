package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	historyService "github.com/cr1st1anhernandez/pos-inventory-go/internal/history/service"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/product/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/product/repository"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/product/service"
	userAPI "github.com/cr1st1anhernandez/pos-inventory-go/internal/user/api"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(ps service.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/:id", h.GetProduct)
		productRoutes.POST("", h.CreateProduct)
		productRoutes.PUT("/:id", h.UpdateProduct)
		productRoutes.DELETE("/:id", h.DeleteProduct)
	}
}

func actorFromContext(c *gin.Context) historyService.Actor {
	return historyService.Actor{
		UserID:   c.GetString(userAPI.ContextUserID),
		Username: c.GetString(userAPI.ContextUsername),
		IsAdmin:  c.GetBool(userAPI.ContextIsAdmin),
	}
}

func parseListFilter(c *gin.Context) domain.ListFilter {
	filter := domain.ListFilter{
		Search:  c.Query("search"),
		OrderBy: c.DefaultQuery("order_by", "-created_at"),
	}
	if v := c.Query("price_min"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filter.PriceMin = &d
		}
	}
	if v := c.Query("price_max"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filter.PriceMax = &d
		}
	}
	if v := c.Query("quantity_min"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.QuantityMin = &n
		}
	}
	return filter
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context(), parseListFilter(c))
	if err != nil {
		logger.Error("ListProducts: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}

	views := make([]domain.ProductView, len(products))
	for i, p := range products {
		views[i] = domain.NewProductView(p)
	}
	c.JSON(http.StatusOK, views)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}
	c.JSON(http.StatusOK, domain.NewProductView(*product))
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		if errors.Is(err, repository.ErrSKUConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("CreateProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, domain.NewProductView(*product))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req domain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrSKUConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("UpdateProduct: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}
	c.JSON(http.StatusOK, domain.NewProductView(*product))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	err := h.productService.DeleteProduct(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("DeleteProduct: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
