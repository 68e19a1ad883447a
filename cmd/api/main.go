package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-pos/internal/app"
	"github.com/sangkips/dairy-pos/internal/config"
	"github.com/sangkips/dairy-pos/internal/infrastructure/scheduler"
	"github.com/sangkips/dairy-pos/internal/presentation/http/handler"
	"github.com/sangkips/dairy-pos/internal/presentation/http/middleware"
	"github.com/sangkips/dairy-pos/internal/presentation/http/routes"
	"github.com/sangkips/dairy-pos/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	// Amounts go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.Open(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			baseLogger.Error("failed to close database", zap.Error(err))
		}
	}()

	if err := a.Migrate(); err != nil {
		baseLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	svc := a.Services
	handlers := &routes.Handlers{
		Product:   handler.NewProductHandler(svc.Products),
		Category:  handler.NewCategoryHandler(svc.Categories),
		Customer:  handler.NewCustomerHandler(svc.Customers, svc.Deliveries, svc.Payments, svc.Reports),
		Delivery:  handler.NewDeliveryHandler(svc.Deliveries),
		Bill:      handler.NewBillHandler(svc.Bills),
		Report:    handler.NewReportHandler(svc.Reports),
		Dashboard: handler.NewDashboardHandler(svc.Dashboard),
		Printer:   handler.NewPrinterHandler(svc.Printer),
	}

	rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit))
	defer rateLimiter.Close()

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: a.Repos.Idempotency,
		Metrics:         a.Metrics,
		Logger:          logger.Named(baseLogger, "http"),
		RateLimiter:     rateLimiter,
	})

	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(cfg.Scheduler, svc.Reports, svc.Deliveries, a.Repos.Idempotency, logger.Named(baseLogger, "scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
