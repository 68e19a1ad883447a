package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Bills   int64           `json:"bills"`
}

// CustomerSalesResult is one customer's POS activity in a window
type CustomerSalesResult struct {
	Total decimal.Decimal `json:"total"`
	Bills int64           `json:"bills"`
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetTopProducts returns top selling products by revenue between from and to inclusive
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProductResult, error)

	// GetDailySales returns per-day bill totals between from and to inclusive
	GetDailySales(ctx context.Context, from, to time.Time) ([]DailySalesResult, error)

	// GetCustomerSales sums a customer's bills; nil bounds are open
	GetCustomerSales(ctx context.Context, customerID uuid.UUID, from, to *time.Time) (*CustomerSalesResult, error)
}
