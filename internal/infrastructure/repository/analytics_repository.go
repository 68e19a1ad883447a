package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	domainRepo "github.com/sangkips/dairy-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			bi.product_id as product_id,
			MAX(bi.name) as product_name,
			COALESCE(SUM(bi.quantity), 0) as quantity_sold,
			COALESCE(SUM(bi.line_total), 0) as revenue
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		WHERE b.deleted_at IS NULL AND b.date >= ? AND b.date <= ?
		GROUP BY bi.product_id
		ORDER BY revenue DESC
		LIMIT ?
	`, from, to, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, from, to time.Time) ([]domainRepo.DailySalesResult, error) {
	var rows []domainRepo.DailySalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			date,
			COALESCE(SUM(total), 0) as revenue,
			COUNT(*) as bills
		FROM bills
		WHERE deleted_at IS NULL AND date >= ? AND date <= ?
		GROUP BY date
		ORDER BY date ASC
	`, from, to).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Fill days without bills so charts get a continuous series
	byDay := make(map[string]domainRepo.DailySalesResult, len(rows))
	for _, row := range rows {
		byDay[row.Date.Format("2006-01-02")] = row
	}

	results := make([]domainRepo.DailySalesResult, 0, len(rows))
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if row, ok := byDay[day.Format("2006-01-02")]; ok {
			row.Date = day
			results = append(results, row)
			continue
		}
		results = append(results, domainRepo.DailySalesResult{Date: day})
	}

	return results, nil
}

func (r *analyticsRepository) GetCustomerSales(ctx context.Context, customerID uuid.UUID, from, to *time.Time) (*domainRepo.CustomerSalesResult, error) {
	var result domainRepo.CustomerSalesResult

	query := r.db.WithContext(ctx).Table("bills").
		Select("COALESCE(SUM(total), 0) as total, COUNT(*) as bills").
		Where("deleted_at IS NULL AND customer_id = ?", customerID).
		Scopes(DateBetween("date", from, to))

	if err := query.Scan(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
