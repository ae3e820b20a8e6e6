package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/service"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	productDomain "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/domain"
	productRepo "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/repository"
	userAPI "github.com/cr1st1anhernandez/pos-inventory-go/internal/user/api"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cs service.CartService) *CartHandler {
	return &CartHandler{cartService: cs}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	cartRoutes := router.Group("/cart")
	{
		cartRoutes.GET("", h.ViewCart)
		cartRoutes.DELETE("", h.ClearCart)
		cartRoutes.POST("/items/:productId", h.AddItem)
		cartRoutes.PATCH("/items/:productId", h.UpdateQuantity)
		cartRoutes.DELETE("/items/:productId", h.RemoveItem)
	}
}

// sessionID keys the cart; one cart per authenticated session.
func sessionID(c *gin.Context) string {
	return c.GetString(userAPI.ContextUserID)
}

func respondCartError(c *gin.Context, op string, err error) {
	var stockErr *productDomain.InsufficientStockError
	switch {
	case errors.Is(err, productRepo.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, productDomain.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":      stockErr.Error(),
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(op+": service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart operation failed"})
	}
}

func (h *CartHandler) ViewCart(c *gin.Context) {
	view, err := h.cartService.View(c.Request.Context(), sessionID(c))
	if err != nil {
		respondCartError(c, "ViewCart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	cart, err := h.cartService.AddItem(c.Request.Context(), sessionID(c), c.Param("productId"))
	if err != nil {
		respondCartError(c, "AddItem", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req domain.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		respondCartError(c, "UpdateQuantity", err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart := h.cartService.RemoveItem(c.Request.Context(), sessionID(c), c.Param("productId"))
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	h.cartService.Clear(c.Request.Context(), sessionID(c))
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
