package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	productDomain "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/repository"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/service"
	userAPI "github.com/cr1st1anhernandez/pos-inventory-go/internal/user/api"
)

type SaleHandler struct {
	checkoutService service.CheckoutService
}

func NewSaleHandler(cs service.CheckoutService) *SaleHandler {
	return &SaleHandler{checkoutService: cs}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/checkout", h.Checkout)

	saleRoutes := router.Group("/sales")
	{
		saleRoutes.GET("", h.ListSales)
		saleRoutes.GET("/:id", h.GetSale)
		saleRoutes.GET("/:id/ticket", h.GetTicket)
	}
}

func viewerFromContext(c *gin.Context) service.Viewer {
	return service.Viewer{
		UserID:  c.GetString(userAPI.ContextUserID),
		IsAdmin: c.GetBool(userAPI.ContextIsAdmin),
	}
}

func (h *SaleHandler) Checkout(c *gin.Context) {
	userID := c.GetString(userAPI.ContextUserID)
	sale, err := h.checkoutService.Checkout(c.Request.Context(), userID, userID)
	if err != nil {
		var notFoundErr *repository.ProductNotFoundError
		var stockErr *productDomain.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &notFoundErr):
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error(), "product_id": notFoundErr.ProductID})
		case errors.As(err, &stockErr):
			// The cart is left intact so the caller can adjust and retry.
			c.JSON(http.StatusConflict, gin.H{
				"error":      stockErr.Error(),
				"product_id": stockErr.ProductID,
				"available":  stockErr.Available,
				"requested":  stockErr.Requested,
			})
		case errors.Is(err, repository.ErrTicketConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Could not allocate a unique ticket number, try again"})
		default:
			logger.Error("Checkout: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *SaleHandler) ListSales(c *gin.Context) {
	sales, err := h.checkoutService.ListSales(c.Request.Context(), viewerFromContext(c))
	if err != nil {
		logger.Error("ListSales: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.checkoutService.GetSale(c.Request.Context(), viewerFromContext(c), c.Param("id"))
	if err != nil {
		h.respondSaleError(c, "GetSale", err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// GetTicket renders the printable ticket payload for a completed sale.
func (h *SaleHandler) GetTicket(c *gin.Context) {
	sale, err := h.checkoutService.GetSale(c.Request.Context(), viewerFromContext(c), c.Param("id"))
	if err != nil {
		h.respondSaleError(c, "GetTicket", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ticket_number": sale.TicketNumber,
		"created_at":    sale.CreatedAt,
		"items":         sale.Items,
		"items_count":   sale.ItemsCount(),
		"total":         sale.Total,
	})
}

func (h *SaleHandler) respondSaleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrSaleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSaleForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.Error(op+": service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sale"})
	}
}
