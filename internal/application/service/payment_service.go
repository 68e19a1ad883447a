package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/ledger"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/apperror"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService records payments and manual charges on customer accounts
type PaymentService struct {
	ledgerRepo   repository.LedgerRepository
	customerRepo repository.CustomerRepository
	logger       *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(ledgerRepo repository.LedgerRepository, customerRepo repository.CustomerRepository, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{ledgerRepo: ledgerRepo, customerRepo: customerRepo, logger: logger}
}

// EntryInput is a payment received or a manual charge
type EntryInput struct {
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	Date        *time.Time
	PaymentMode enum.PaymentMode
	Notes       *string
}

func (s *PaymentService) post(ctx context.Context, input *EntryInput, kind enum.EntryKind) (*entity.LedgerEntry, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if !input.Amount.IsPositive() {
		return nil, apperror.NewBadRequestError("Amount must be greater than zero")
	}

	date := utils.Today()
	if input.Date != nil {
		date = utils.DateOnly(*input.Date)
	}

	entry := &entity.LedgerEntry{
		CustomerID: customer.ID,
		Date:       date,
		Kind:       kind,
		Amount:     input.Amount.Round(2),
		Notes:      input.Notes,
	}
	if kind == enum.EntryKindPayment {
		mode := input.PaymentMode
		if mode == "" {
			mode = enum.PaymentModeCash
		}
		if mode == enum.PaymentModeCredit || !mode.IsValid() {
			return nil, apperror.NewBadRequestError("Payments must be Cash or Online")
		}
		entry.PaymentMode = &mode
	}

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("ledger entry posted",
		zap.String("customer_id", customer.ID.String()),
		zap.String("kind", kind.String()),
		zap.String("amount", entry.Amount.StringFixed(2)),
	)
	return entry, nil
}

// RecordPayment credits a customer's account
func (s *PaymentService) RecordPayment(ctx context.Context, input *EntryInput) (*entity.LedgerEntry, error) {
	return s.post(ctx, input, enum.EntryKindPayment)
}

// RecordAdjustment debits a customer's account with a manual charge
func (s *PaymentService) RecordAdjustment(ctx context.Context, input *EntryInput) (*entity.LedgerEntry, error) {
	return s.post(ctx, input, enum.EntryKindInvoice)
}

// DeleteEntry removes a ledger entry. Entries written by a bill go when the bill is deleted.
func (s *PaymentService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return apperror.NewNotFoundError("Ledger entry")
	}
	if entry.BillID != nil {
		return apperror.NewConflictError("Entry belongs to a bill; delete the bill instead")
	}
	return s.ledgerRepo.Delete(ctx, id)
}

// ListEntries returns a customer's entries in statement order, oldest first
func (s *PaymentService) ListEntries(ctx context.Context, customerID uuid.UUID) ([]entity.LedgerEntry, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	rows, err := s.ledgerRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]entity.LedgerEntry, len(rows))
	for _, r := range rows {
		byID[r.ID.String()] = r
	}
	entries := entity.ToLedgerEntries(rows)
	ledger.SortEntries(entries)

	sorted := make([]entity.LedgerEntry, len(entries))
	for i, e := range entries {
		sorted[i] = byID[e.ID]
	}
	return sorted, nil
}
