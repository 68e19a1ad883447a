package service

import (
	"context"

	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

const (
	activeCustomerDays = 30
	recentBillLimit    = 10
	topProductLimit    = 5
	salesTrendDays     = 7
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	billRepo      repository.BillRepository
	customerRepo  repository.CustomerRepository
	analyticsRepo repository.AnalyticsRepository
	products      *ProductService
	customers     *CustomerService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	billRepo repository.BillRepository,
	customerRepo repository.CustomerRepository,
	analyticsRepo repository.AnalyticsRepository,
	products *ProductService,
	customers *CustomerService,
) *DashboardService {
	return &DashboardService{
		billRepo:      billRepo,
		customerRepo:  customerRepo,
		analyticsRepo: analyticsRepo,
		products:      products,
		customers:     customers,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TodaySales       decimal.Decimal               `json:"today_sales"`
	TodayBills       int64                         `json:"today_bills"`
	TodayCash        decimal.Decimal               `json:"today_cash"`
	TodayOnline      decimal.Decimal               `json:"today_online"`
	ActiveCustomers  int64                         `json:"active_customers"`
	TotalCustomers   int64                         `json:"total_customers"`
	TotalOutstanding decimal.Decimal               `json:"total_outstanding"`
	LowStockCount    int                           `json:"low_stock_count"`
	LowStock         []entity.Product              `json:"low_stock"`
	RecentBills      []entity.Bill                 `json:"recent_bills"`
	TopProducts      []repository.TopProductResult `json:"top_products"`
	DailySales       []repository.DailySalesResult `json:"daily_sales"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	today := utils.Today()
	stats := &DashboardStats{}

	totals, err := s.billRepo.Summarize(ctx, &repository.BillFilterParams{From: &today, To: &today})
	if err != nil {
		return nil, err
	}
	stats.TodaySales = totals.Total
	stats.TodayBills = totals.Count
	stats.TodayCash = totals.Cash
	stats.TodayOnline = totals.Online

	if stats.TotalCustomers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, err
	}
	since := today.AddDate(0, 0, -activeCustomerDays)
	if stats.ActiveCustomers, err = s.customerRepo.CountActiveSince(ctx, since); err != nil {
		return nil, err
	}

	if stats.TotalOutstanding, err = s.customers.TotalOutstanding(ctx); err != nil {
		return nil, err
	}

	if stats.LowStock, err = s.products.GetLowStockProducts(ctx); err != nil {
		return nil, err
	}
	stats.LowStockCount = len(stats.LowStock)

	if stats.RecentBills, err = s.billRepo.Recent(ctx, recentBillLimit); err != nil {
		return nil, err
	}

	trendStart := today.AddDate(0, 0, -(salesTrendDays - 1))
	if stats.TopProducts, err = s.analyticsRepo.GetTopProducts(ctx, trendStart, today, topProductLimit); err != nil {
		return nil, err
	}
	if stats.DailySales, err = s.analyticsRepo.GetDailySales(ctx, trendStart, today); err != nil {
		return nil, err
	}

	return stats, nil
}
