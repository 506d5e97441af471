package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marumbi/kahawa-api/internal/application/service"
	"github.com/marumbi/kahawa-api/internal/config"
	"github.com/marumbi/kahawa-api/internal/infrastructure/database"
	"github.com/marumbi/kahawa-api/internal/infrastructure/repository"
	"github.com/marumbi/kahawa-api/internal/presentation/http/handler"
	"github.com/marumbi/kahawa-api/internal/presentation/http/routes"
	"github.com/marumbi/kahawa-api/pkg/events"
	"github.com/marumbi/kahawa-api/pkg/utils"
)

func main() {
	cfg := config.Load()

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	if err := database.SeedDefaultData(db); err != nil {
		log.Fatalf("failed to seed default data: %v", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)
	bus := events.NewBus()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	creditTxRepo := repository.NewCreditTransactionRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	purchaseItemRepo := repository.NewPurchaseItemRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Expired idempotency keys are dead weight; sweep them hourly.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			purged, err := idempotencyRepo.PurgeExpired(context.Background())
			if err != nil {
				log.Printf("idempotency sweep failed: %v", err)
			} else if purged > 0 {
				log.Printf("idempotency sweep removed %d expired keys", purged)
			}
		}
	}()

	// Services
	ledgerService := service.NewLedgerService(ledgerRepo, productRepo)
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo, ledgerRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	customerService := service.NewCustomerService(customerRepo, creditTxRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, productRepo, customerRepo, creditTxRepo, ledgerService, bus)
	purchaseService := service.NewPurchaseService(purchaseRepo, purchaseItemRepo, productRepo, supplierRepo, ledgerRepo, ledgerService)
	dashboardService := service.NewDashboardService(analyticsRepo, bus, cfg.POS.TopProducts)

	// Handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(userService),
		Product:   handler.NewProductHandler(productService),
		Category:  handler.NewCategoryHandler(categoryService),
		Order:     handler.NewOrderHandler(orderService),
		Purchase:  handler.NewPurchaseHandler(purchaseService),
		Customer:  handler.NewCustomerHandler(customerService),
		Supplier:  handler.NewSupplierHandler(supplierService),
		Stock:     handler.NewStockHandler(ledgerService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	router := gin.New()
	router.Use(gin.Recovery())

	routes.Setup(router, handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	addr := ":" + cfg.App.Port
	log.Printf("%s listening on %s", cfg.App.Name, addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
