package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/repository"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/history/service"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	userAPI "github.com/cr1st1anhernandez/pos-inventory-go/internal/user/api"
)

type HistoryHandler struct {
	historyService service.HistoryService
}

func NewHistoryHandler(hs service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: hs}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	historyRoutes := router.Group("/history")
	{
		historyRoutes.GET("", h.ListHistories)
		historyRoutes.GET("/:id", h.GetHistory)
	}
}

func viewerFromContext(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:   c.GetString(userAPI.ContextUserID),
		Username: c.GetString(userAPI.ContextUsername),
		IsAdmin:  c.GetBool(userAPI.ContextIsAdmin),
	}
}

func (h *HistoryHandler) ListHistories(c *gin.Context) {
	filter := domain.ListFilter{
		UserID:      c.Query("user"),
		ProductName: c.Query("product"),
		Action:      c.Query("action"),
	}

	histories, err := h.historyService.ListHistories(c.Request.Context(), viewerFromContext(c), filter)
	if err != nil {
		logger.Error("ListHistories: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}
	c.JSON(http.StatusOK, histories)
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	entry, err := h.historyService.GetHistory(c.Request.Context(), viewerFromContext(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrHistoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrHistoryForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("GetHistory: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history entry"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": entry,
		"changes": entry.ChangesDiff(),
	})
}
