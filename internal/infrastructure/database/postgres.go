package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/dairy-pos/internal/config"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultCategories are created on first start so the POS screen has tabs
var DefaultCategories = []string{"Milk", "Dairy"}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// A single shop terminal, so the pool stays small
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("connected to postgres", zap.String("host", cfg.Host), zap.String("database", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// Catalogue
		&entity.Category{},
		&entity.Product{},
		&entity.ProductVariant{},

		// Accounts
		&entity.Customer{},
		&entity.Delivery{},
		&entity.LedgerEntry{},

		// Sales
		&entity.Bill{},
		&entity.BillItem{},

		// System
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the default categories when they are missing
func SeedDefaultData(db *gorm.DB, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	for _, name := range DefaultCategories {
		slug := utils.Slugify(name)
		var existing entity.Category
		err := db.Where("slug = ?", slug).Limit(1).Find(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to look up category %s: %w", name, err)
		}
		if existing.Name != "" {
			continue
		}
		if err := db.Create(&entity.Category{Name: name, Slug: slug}).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key") {
				continue
			}
			return fmt.Errorf("failed to create category %s: %w", name, err)
		}
		log.Info("seeded category", zap.String("name", name))
	}
	return nil
}
