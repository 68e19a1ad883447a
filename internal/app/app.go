// Package app wires repositories and services for the API server and dairyctl.
package app

import (
	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/config"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/internal/infrastructure/database"
	"github.com/sangkips/dairy-pos/internal/infrastructure/repository"
	"github.com/sangkips/dairy-pos/pkg/logger"
	"github.com/sangkips/dairy-pos/pkg/metrics"
	"github.com/sangkips/dairy-pos/pkg/printer"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories groups the gorm-backed stores
type Repositories struct {
	Products    domainRepo.ProductRepository
	Categories  domainRepo.CategoryRepository
	Customers   domainRepo.CustomerRepository
	Deliveries  domainRepo.DeliveryRepository
	Ledger      domainRepo.LedgerRepository
	Bills       domainRepo.BillRepository
	Analytics   domainRepo.AnalyticsRepository
	Idempotency domainRepo.IdempotencyRepository
}

// Services groups the application services
type Services struct {
	Products   *service.ProductService
	Categories *service.CategoryService
	Customers  *service.CustomerService
	Deliveries *service.DeliveryService
	Payments   *service.PaymentService
	Bills      *service.BillService
	Reports    *service.ReportService
	Dashboard  *service.DashboardService
	Printer    *service.PrinterService
}

// App is everything a process needs after start-up
type App struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Repos    *Repositories
	Services *Services
}

// Open connects to the database and builds the service graph.
// Migrations are left to the caller.
func Open(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, logger.Named(log, "database"))
	if err != nil {
		return nil, err
	}
	return New(cfg, db, log), nil
}

// New builds the service graph on an open connection
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	m := metrics.New("dairy_pos")

	repos := &Repositories{
		Products:    repository.NewProductRepository(db),
		Categories:  repository.NewCategoryRepository(db),
		Customers:   repository.NewCustomerRepository(db),
		Deliveries:  repository.NewDeliveryRepository(db),
		Ledger:      repository.NewLedgerRepository(db),
		Bills:       repository.NewBillRepository(db),
		Analytics:   repository.NewAnalyticsRepository(db),
		Idempotency: repository.NewIdempotencyRepository(db),
	}

	products := service.NewProductService(repos.Products, repos.Categories, cfg.Sales.LowStockThreshold)
	customers := service.NewCustomerService(repos.Customers, repos.Products, repos.Ledger, repos.Deliveries, repos.Analytics)

	thermal, err := printer.New(printer.Options{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn("printer unavailable, receipts will not be printed", zap.Error(err))
		thermal = printer.NewNullPrinter()
	}
	header := entity.ReceiptHeader{
		StoreName: cfg.Shop.Name,
		Address:   cfg.Shop.Address,
		Phone:     cfg.Shop.Phone,
	}

	svcs := &Services{
		Products:   products,
		Categories: service.NewCategoryService(repos.Categories, repos.Products),
		Customers:  customers,
		Deliveries: service.NewDeliveryService(repos.Deliveries, repos.Customers, repos.Products, repos.Ledger, repos.Analytics),
		Payments:   service.NewPaymentService(repos.Ledger, repos.Customers, logger.Named(log, "payments")),
		Bills:      service.NewBillService(repos.Bills, repos.Products, repos.Customers, m, logger.Named(log, "bills")),
		Reports:    service.NewReportService(repos.Bills, repos.Analytics, customers, logger.Named(log, "reports")),
		Dashboard:  service.NewDashboardService(repos.Bills, repos.Customers, repos.Analytics, products, customers),
		Printer:    service.NewPrinterService(thermal, repos.Bills, customers, header, cfg.Printer.Width, logger.Named(log, "printer")),
	}

	return &App{
		Cfg:      cfg,
		DB:       db,
		Logger:   log,
		Metrics:  m,
		Repos:    repos,
		Services: svcs,
	}
}

// Migrate creates the schema and the default categories
func (a *App) Migrate() error {
	if err := database.AutoMigrate(a.DB, a.Logger); err != nil {
		return err
	}
	if err := database.SeedDefaultData(a.DB, a.Logger); err != nil {
		a.Logger.Warn("failed to seed default data", zap.Error(err))
	}
	return nil
}

// Close releases the database pool
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
