package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-pos/internal/config"
	domainRepo "github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/internal/presentation/http/handler"
	"github.com/sangkips/dairy-pos/internal/presentation/http/middleware"
	"github.com/sangkips/dairy-pos/pkg/metrics"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Customer  *handler.CustomerHandler
	Delivery  *handler.DeliveryHandler
	Bill      *handler.BillHandler
	Report    *handler.ReportHandler
	Dashboard *handler.DashboardHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
	// RateLimiter is optional; Setup builds one from Cfg.RateLimit when nil
	RateLimiter *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewClientRateLimiter(middleware.RateLimiterConfigFrom(deps.Cfg.RateLimit))
		deps.RateLimiter = rateLimiter
	}

	v1 := router.Group("/api/v1")
	v1.Use(rateLimiter.Middleware())
	{
		v1.GET("/dashboard", h.Dashboard.GetStats)

		registerCategoryRoutes(v1, h)
		registerProductRoutes(v1, h)
		registerCustomerRoutes(v1, h)
		registerDeliveryRoutes(v1, h)
		registerBillRoutes(v1, h, deps)
		registerReportRoutes(v1, h)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func registerCategoryRoutes(v1 *gin.RouterGroup, h *Handlers) {
	categories := v1.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.POST("/import", h.Product.Import)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:slug", h.Product.Get)
		products.PUT("/:slug", h.Product.Update)
		products.DELETE("/:slug", h.Product.Delete)
		products.GET("/:slug/quote", h.Product.Quote)
		products.POST("/:slug/recompute", h.Product.Recompute)
		products.PUT("/:slug/variants/:label", h.Product.SetVariantPrice)
	}
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/statement", h.Customer.Statement)
		customers.GET("/:id/statement/export", h.Customer.ExportStatement)
		customers.GET("/:id/summary", h.Customer.Summary)
		customers.POST("/:id/invoice-month", h.Customer.InvoiceMonth)
		customers.POST("/:id/payments", h.Customer.RecordPayment)
		customers.GET("/:id/entries", h.Customer.Entries)
	}
	v1.DELETE("/ledger-entries/:id", h.Customer.DeleteEntry)
}

func registerDeliveryRoutes(v1 *gin.RouterGroup, h *Handlers) {
	deliveries := v1.Group("/deliveries")
	{
		deliveries.GET("", h.Delivery.List)
		deliveries.POST("", h.Delivery.Create)
		deliveries.POST("/defaults", h.Delivery.LogDefaults)
		deliveries.PUT("/:id", h.Delivery.Update)
		deliveries.DELETE("/:id", h.Delivery.Delete)
	}
}

func registerBillRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := v1.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		// a retried checkout with the same Idempotency-Key replays the first bill
		bills.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			Logger: deps.Logger,
		}), h.Bill.Create)
		bills.GET("/:id", h.Bill.Get)
		bills.DELETE("/:id", h.Bill.Delete)
	}
}

func registerReportRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reports := v1.Group("/reports")
	{
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/sales/export", h.Report.ExportSales)
		reports.GET("/today", h.Report.Today)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printerGroup := v1.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/print", h.Printer.PrintReceipt)
	}
}
