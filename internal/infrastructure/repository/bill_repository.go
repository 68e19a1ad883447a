package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// CreateWithLedger writes bill, items, ledger entries and stock movements atomically.
// If any product has insufficient stock, the entire transaction is rolled back.
func (r *billRepository) CreateWithLedger(ctx context.Context, bill *entity.Bill, entries []entity.LedgerEntry, decrements map[uuid.UUID]decimal.Decimal) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		failedIDs, err = decrementStock(tx, decrements)
		if err != nil {
			return err
		}
		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}

		if err := tx.Omit("Customer").Create(bill).Error; err != nil {
			return err
		}

		for i := range entries {
			entries[i].BillID = &bill.ID
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})

	// If we rolled back due to insufficient stock, return the failed IDs without the transaction error
	if errors.Is(err, gorm.ErrInvalidTransaction) && len(failedIDs) > 0 {
		return failedIDs, nil
	}

	return nil, err
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Customer").Preload("Items").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&bill, "invoice_no = ?", invoiceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) DeleteWithLedger(ctx context.Context, bill *entity.Bill, increments map[uuid.UUID]decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&entity.LedgerEntry{}).Error; err != nil {
			return err
		}
		if err := incrementStock(tx, increments); err != nil {
			return err
		}
		return tx.Delete(&entity.Bill{}, "id = ?", bill.ID).Error
	})
}

func (r *billRepository) filtered(ctx context.Context, params *domainRepo.BillFilterParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Scopes(Search(params.Search, "customer_name", "invoice_no"), DateBetween("date", params.From, params.To))

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.PaymentMode != nil {
		query = query.Where("payment_mode = ?", *params.PaymentMode)
	}
	return query
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.filtered(ctx, params)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Items").
		Order("date DESC, created_at DESC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) Summarize(ctx context.Context, params *domainRepo.BillFilterParams) (*domainRepo.SalesTotals, error) {
	var totals domainRepo.SalesTotals
	err := r.filtered(ctx, params).Select(`
		COALESCE(SUM(total), 0) as total,
		COALESCE(SUM(CASE WHEN payment_mode = 'Cash' THEN total ELSE 0 END), 0) as cash,
		COALESCE(SUM(CASE WHEN payment_mode = 'Online' THEN total ELSE 0 END), 0) as online,
		COALESCE(SUM(CASE WHEN payment_mode = 'Credit' THEN total ELSE 0 END), 0) as credit,
		COUNT(*) as count
	`).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *billRepository) Recent(ctx context.Context, limit int) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&bills).Error
	return bills, err
}
