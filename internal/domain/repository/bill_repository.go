package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// BillRepository defines the interface for POS bill operations
type BillRepository interface {
	// CreateWithLedger writes the bill, its items and ledger entries and
	// decrements stock for tracked products, all in one transaction.
	// If any product has insufficient stock nothing is written and the
	// failing product IDs are returned with a nil error.
	CreateWithLedger(ctx context.Context, bill *entity.Bill, entries []entity.LedgerEntry, decrements map[uuid.UUID]decimal.Decimal) (failedIDs []uuid.UUID, err error)
	// GetByID loads the bill with items and customer
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Bill, error)
	// DeleteWithLedger removes the bill and its ledger entries and restores stock
	DeleteWithLedger(ctx context.Context, bill *entity.Bill, increments map[uuid.UUID]decimal.Decimal) error
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	// Summarize aggregates every bill matching params, ignoring pagination
	Summarize(ctx context.Context, params *BillFilterParams) (*SalesTotals, error)
	Recent(ctx context.Context, limit int) ([]entity.Bill, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination  *pagination.PaginationParams
	Search      string // customer name
	CustomerID  *uuid.UUID
	PaymentMode *enum.PaymentMode
	From        *time.Time
	To          *time.Time
}

// SalesTotals aggregates bill totals by payment mode
type SalesTotals struct {
	Total  decimal.Decimal `json:"total"`
	Cash   decimal.Decimal `json:"cash"`
	Online decimal.Decimal `json:"online"`
	Credit decimal.Decimal `json:"credit"`
	Count  int64           `json:"count"`
}
