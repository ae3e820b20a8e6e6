package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/user/domain"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/user/repository"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/user/service"
)

type UserHandler struct {
	userService service.UserService
	jwtSecret   string
}

func NewUserHandler(us service.UserService, jwtSecret string) *UserHandler {
	return &UserHandler{userService: us, jwtSecret: jwtSecret}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	userRoutes := router.Group("/users")
	{
		userRoutes.POST("/login", h.Login)

		protected := userRoutes.Group("", AuthMiddleware(h.jwtSecret), RequireAdmin())
		{
			protected.POST("", h.Register)
			protected.GET("", h.ListUsers)
			protected.DELETE("/:id", h.DeleteUser)
		}
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Register: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	response, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Login: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		logger.Error("ListUsers: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	requesterID := c.GetString(ContextUserID)
	err := h.userService.DeleteUser(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDelete):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("DeleteUser: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
