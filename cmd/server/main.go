package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartAPI "github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/api"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/session"
	cartService "github.com/cr1st1anhernandez/pos-inventory-go/internal/cart/service"
	historyAPI "github.com/cr1st1anhernandez/pos-inventory-go/internal/history/api"
	historyRepo "github.com/cr1st1anhernandez/pos-inventory-go/internal/history/repository"
	historyService "github.com/cr1st1anhernandez/pos-inventory-go/internal/history/service"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/config"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/database"
	"github.com/cr1st1anhernandez/pos-inventory-go/internal/platform/logger"
	productAPI "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/api"
	productRepo "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/repository"
	productService "github.com/cr1st1anhernandez/pos-inventory-go/internal/product/service"
	saleAPI "github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/api"
	saleRepo "github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/repository"
	saleService "github.com/cr1st1anhernandez/pos-inventory-go/internal/sale/service"
	userAPI "github.com/cr1st1anhernandez/pos-inventory-go/internal/user/api"
	userRepo "github.com/cr1st1anhernandez/pos-inventory-go/internal/user/repository"
	userService "github.com/cr1st1anhernandez/pos-inventory-go/internal/user/service"
)

func main() {
	cfg := config.Load()

	logger.Info("Starting POS Inventory Service...")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", err)
		return
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.Migrate(db, cfg.Database.MigrationsDir); err != nil {
			logger.Error("Failed to run migrations", err)
			return
		}
	}

	// Repositories
	users := userRepo.NewPostgresUserRepository(db)
	products := productRepo.NewPostgresProductRepository(db)
	histories := historyRepo.NewPostgresHistoryRepository(db)
	sales := saleRepo.NewPostgresSaleRepository(db)
	carts := session.NewMemoryStore()

	// Services
	usrService := userService.NewUserService(users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	histService := historyService.NewHistoryService(histories)
	prodService := productService.NewProductService(products, histService, cfg.Jobs.LowStockSpec)
	defer prodService.StopScheduler()
	crtService := cartService.NewCartService(carts, products)
	chkService := saleService.NewCheckoutService(sales, carts)

	// Handlers
	userHandler := userAPI.NewUserHandler(usrService, cfg.Auth.JWTSecret)
	productHandler := productAPI.NewProductHandler(prodService)
	historyHandler := historyAPI.NewHistoryHandler(histService)
	cartHandler := cartAPI.NewCartHandler(crtService)
	saleHandler := saleAPI.NewSaleHandler(chkService)

	router := gin.Default()
	router.RedirectTrailingSlash = false

	apiV1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(apiV1)

	authenticated := apiV1.Group("", userAPI.AuthMiddleware(cfg.Auth.JWTSecret))
	productHandler.RegisterRoutes(authenticated)
	historyHandler.RegisterRoutes(authenticated)
	cartHandler.RegisterRoutes(authenticated)
	saleHandler.RegisterRoutes(authenticated)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("POS Inventory Service running on port " + cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Failed to run server", err)
	}
}
