package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/marumbi/kahawa-api/internal/config"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
	"github.com/marumbi/kahawa-api/internal/domain/repository"
	"github.com/marumbi/kahawa-api/internal/presentation/http/handler"
	"github.com/marumbi/kahawa-api/internal/presentation/http/middleware"
	"github.com/marumbi/kahawa-api/pkg/utils"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Order     *handler.OrderHandler
	Purchase  *handler.PurchaseHandler
	Customer  *handler.CustomerHandler
	Supplier  *handler.SupplierHandler
	Stock     *handler.StockHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds cross-cutting dependencies for route setup
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo repository.IdempotencyRepository
}

// Setup registers all API routes
func Setup(router *gin.Engine, h *Handlers, deps *Deps) {
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	api := router.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWTManager))

	rateLimiter := middleware.NewUserRateLimiter(rateLimiterConfig(deps.Cfg))
	protected.Use(rateLimiter.Middleware())

	idempotency := middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
		TTL:  deps.Cfg.POS.IdempotencyTTL,
	}

	registerAuthRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerProductRoutes(protected, h)
	registerOrderRoutes(protected, h, idempotency)
	registerPurchaseRoutes(protected, h, idempotency)
	registerCustomerRoutes(protected, h)
	registerSupplierRoutes(protected, h)
	registerStockRoutes(protected, h)
	registerDashboardRoutes(protected, h)
}

func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	rlCfg := middleware.DefaultRateLimiterConfig()
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Duration > 0 {
		rlCfg.RequestsPerSecond = float64(cfg.RateLimit.Requests) / float64(cfg.RateLimit.Duration)
		rlCfg.BurstSize = cfg.RateLimit.Requests
	}
	return rlCfg
}

func registerAuthRoutes(rg *gin.RouterGroup, h *Handlers) {
	auth := rg.Group("/auth")
	{
		auth.GET("/me", h.Auth.Me)
		auth.POST("/change-password", h.Auth.ChangePassword)
	}
}

func registerUserRoutes(rg *gin.RouterGroup, h *Handlers) {
	users := rg.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		users.POST("", h.User.Create)
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	categories := rg.Group("/categories")
	{
		categories.POST("", h.Category.Create)
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerOrderRoutes(rg *gin.RouterGroup, h *Handlers, idempotency middleware.IdempotencyConfig) {
	orders := rg.Group("/orders")
	{
		orders.POST("", middleware.Idempotency(idempotency), h.Order.Create)
		orders.GET("", h.Order.List)
		orders.GET("/credit", h.Order.CreditOrders)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/items", h.Order.AddItem)
		orders.DELETE("/:id/items/:itemId", h.Order.RemoveItem)
		orders.PUT("/:id/discount", h.Order.UpdateDiscount)

		// Settlement endpoints replay on duplicate keys so a double submit
		// from the till cannot charge or credit twice.
		orders.POST("/:id/payment", middleware.IdempotencyRequired(idempotency), h.Order.CompletePayment)
		orders.POST("/:id/pay-credit", middleware.IdempotencyRequired(idempotency), h.Order.PayCredit)

		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.GET("/:id/reconcile", h.Order.ReconcileTotals)
		orders.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Order.Delete)
	}
}

func registerPurchaseRoutes(rg *gin.RouterGroup, h *Handlers, idempotency middleware.IdempotencyConfig) {
	purchases := rg.Group("/purchases")
	purchases.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
	{
		purchases.POST("", middleware.Idempotency(idempotency), h.Purchase.Create)
		purchases.GET("", h.Purchase.List)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.POST("/:id/correct", h.Purchase.Correct)
	}
}

func registerCustomerRoutes(rg *gin.RouterGroup, h *Handlers) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Customer.Delete)
		customers.POST("/:id/credit", h.Customer.GrantCredit)
		customers.POST("/:id/payments", h.Customer.RecordPayment)
		customers.GET("/:id/transactions", h.Customer.Transactions)
		customers.POST("/:id/reconcile", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Customer.ReconcileBalance)
	}
}

func registerSupplierRoutes(rg *gin.RouterGroup, h *Handlers) {
	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("", h.Supplier.List)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Supplier.Delete)
	}
}

func registerStockRoutes(rg *gin.RouterGroup, h *Handlers) {
	stock := rg.Group("/stock")
	{
		stock.GET("/:productId", h.Stock.CurrentStock)
		stock.GET("/:productId/history", h.Stock.History)
		stock.POST("/adjustments", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Stock.Adjust)
		stock.POST("/entries/:id/reverse", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Stock.Reverse)
	}
}

func registerDashboardRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/dashboard", h.Dashboard.Stats)
}
