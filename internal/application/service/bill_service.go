package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/pricing"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/apperror"
	"github.com/sangkips/dairy-pos/pkg/metrics"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BillService handles POS checkout and bill history
type BillService struct {
	billRepo     repository.BillRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo repository.BillRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillService{
		billRepo:     billRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		metrics:      m,
		logger:       logger,
	}
}

// CheckoutItemInput is one cart line. VariantLabel selects a package size;
// Price without a label is a custom amount.
type CheckoutItemInput struct {
	ProductID    uuid.UUID
	VariantLabel string
	Price        *decimal.Decimal
	Quantity     int
}

// CheckoutInput represents a POS checkout. A nil CustomerID is a walk-in sale.
type CheckoutInput struct {
	CustomerID  *uuid.UUID
	PaymentMode enum.PaymentMode
	Pay         *decimal.Decimal
	Date        *time.Time
	Items       []CheckoutItemInput
}

// resolveLine prices one cart line against the product's catalog entry
func resolveLine(p *entity.Product, item CheckoutItemInput) (string, decimal.Decimal, error) {
	label := strings.TrimSpace(item.VariantLabel)
	custom := label == "" || strings.EqualFold(label, pricing.CustomAmount)

	switch {
	case !custom:
		if v := p.FindVariant(label); v != nil {
			return v.Label, v.Price, nil
		}
		if size, ok := pricing.ParseLabel(label); ok && size.Unit.CompatibleWith(p.UnitKind) {
			return size.String(), pricing.PriceForPackage(p.BasePrice, p.UnitKind, size), nil
		}
		return "", decimal.Zero, apperror.NewBadRequestError(fmt.Sprintf("Unknown package size '%s' for %s", label, p.Name))

	case item.Price != nil:
		if len(p.Variants) > 0 && !p.CustomAmountAllowed {
			return "", decimal.Zero, apperror.NewBadRequestError(fmt.Sprintf("Custom amounts are not allowed for %s", p.Name))
		}
		if !item.Price.IsPositive() {
			return "", decimal.Zero, apperror.NewBadRequestError(fmt.Sprintf("Custom amount for %s must be greater than zero", p.Name))
		}
		if !p.UnitKind.IsProportional() {
			return pricing.CustomAmount, item.Price.Round(2), nil
		}
		return pricing.InferLabelForPrice(p.BasePrice, p.UnitKind, *item.Price), item.Price.Round(2), nil

	case len(p.Variants) == 0:
		if p.UnitKind.IsProportional() {
			return "1 " + p.UnitKind.CanonicalUnit(), p.BasePrice, nil
		}
		price := p.SalePrice
		if price.IsZero() {
			price = p.BasePrice
		}
		return p.UnitLabel, price, nil

	default:
		return "", decimal.Zero, apperror.NewBadRequestError(fmt.Sprintf("Select a package size for %s", p.Name))
	}
}

// Checkout creates a bill, moves stock and posts the customer's ledger entries
func (s *BillService) Checkout(ctx context.Context, input *CheckoutInput) (*entity.Bill, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}

	mode := input.PaymentMode
	if mode == "" {
		mode = enum.PaymentModeCash
	}
	if !mode.IsValid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown payment mode '%s'", mode))
	}

	var customer *entity.Customer
	if input.CustomerID != nil {
		c, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		customer = c
	} else if mode == enum.PaymentModeCredit {
		return nil, apperror.NewBadRequestError("Walk-in bills must be paid in full; credit needs a customer")
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	items := make([]entity.BillItem, 0, len(input.Items))
	lineIndex := make(map[string]int, len(input.Items))
	stockDecrements := make(map[uuid.UUID]decimal.Decimal)
	total := decimal.Zero

	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Quantity for %s must be at least 1", product.Name))
		}

		label, price, err := resolveLine(product, item)
		if err != nil {
			return nil, err
		}

		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		total = total.Add(lineTotal)

		if product.TrackStock {
			stockDecrements[product.ID] = stockDecrements[product.ID].Add(decimal.NewFromInt(int64(item.Quantity)))
		}

		key := product.ID.String() + "|" + strings.ToLower(label) + "|" + price.String()
		if i, ok := lineIndex[key]; ok {
			items[i].Quantity += item.Quantity
			items[i].LineTotal = items[i].LineTotal.Add(lineTotal)
			continue
		}
		lineIndex[key] = len(items)
		items = append(items, entity.BillItem{
			ProductID:    product.ID,
			Name:         product.Name,
			VariantLabel: label,
			Price:        price,
			Quantity:     item.Quantity,
			LineTotal:    lineTotal,
		})
	}
	total = total.Round(2)

	pay, err := settle(mode, total, input.Pay, customer == nil)
	if err != nil {
		return nil, err
	}

	date := utils.Today()
	if input.Date != nil {
		date = utils.DateOnly(*input.Date)
	}

	bill := &entity.Bill{
		InvoiceNo:    utils.GenerateInvoiceNo(date),
		CustomerName: entity.WalkInCustomerName,
		Date:         date,
		PaymentMode:  mode,
		ItemsCount:   len(items),
		Total:        total,
		Pay:          pay,
		Due:          total.Sub(pay),
		Items:        items,
	}

	var entries []entity.LedgerEntry
	if customer != nil {
		bill.CustomerID = &customer.ID
		bill.CustomerName = customer.Name
		entries = ledgerEntriesForBill(customer.ID, date, mode, total, pay)
	}

	failedIDs, err := s.billRepo.CreateWithLedger(ctx, bill, entries, stockDecrements)
	if err != nil {
		return nil, err
	}

	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				failedNames = append(failedNames, product.Name)
			}
		}
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Insufficient stock for: %s", strings.Join(failedNames, ", ")))
	}

	s.metrics.ObserveBill(mode.String(), total)
	s.logger.Info("bill created",
		zap.String("invoice_no", bill.InvoiceNo),
		zap.String("customer", bill.CustomerName),
		zap.String("payment_mode", mode.String()),
		zap.String("total", total.StringFixed(2)),
		zap.Int("lines", len(items)),
	)

	return s.billRepo.GetByID(ctx, bill.ID)
}

// settle decides the amount paid at the counter. Cash and online default to
// the full total and credit to nothing; any overpayment is change and is not recorded.
func settle(mode enum.PaymentMode, total decimal.Decimal, requested *decimal.Decimal, walkIn bool) (decimal.Decimal, error) {
	pay := total
	if mode == enum.PaymentModeCredit {
		pay = decimal.Zero
	}
	if requested != nil {
		pay = requested.Round(2)
	}
	if pay.IsNegative() {
		return decimal.Zero, apperror.NewBadRequestError("Paid amount cannot be negative")
	}
	if pay.GreaterThan(total) {
		pay = total
	}
	if walkIn && pay.LessThan(total) {
		return decimal.Zero, apperror.NewBadRequestError("Walk-in bills must be paid in full")
	}
	return pay, nil
}

// ledgerEntriesForBill posts the bill total as an invoice and anything paid as a payment
func ledgerEntriesForBill(customerID uuid.UUID, date time.Time, mode enum.PaymentMode, total, pay decimal.Decimal) []entity.LedgerEntry {
	entries := []entity.LedgerEntry{{
		CustomerID: customerID,
		Date:       date,
		Kind:       enum.EntryKindInvoice,
		Amount:     total,
	}}
	if pay.IsPositive() {
		m := mode
		entries = append(entries, entity.LedgerEntry{
			CustomerID:  customerID,
			Date:        date,
			Kind:        enum.EntryKindPayment,
			Amount:      pay,
			PaymentMode: &m,
		})
	}
	return entries
}

// GetBill retrieves a bill by ID
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// BillList is a page of bills with totals over the whole filtered set
type BillList struct {
	*pagination.PaginatedResult[entity.Bill]
	Totals *repository.SalesTotals `json:"totals"`
}

// ListBills lists bills with filtering, most recent first
func (s *BillService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*BillList, error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	totals, err := s.billRepo.Summarize(ctx, params)
	if err != nil {
		return nil, err
	}

	return &BillList{
		PaginatedResult: pagination.Paginate(bills, params.Pagination, total),
		Totals:          totals,
	}, nil
}

// DeleteBill voids a bill: its ledger entries are removed and stock is restored
func (s *BillService) DeleteBill(ctx context.Context, id uuid.UUID) error {
	bill, err := s.GetBill(ctx, id)
	if err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(bill.Items))
	for _, it := range bill.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	tracked := make(map[uuid.UUID]bool, len(products))
	for _, p := range products {
		tracked[p.ID] = p.TrackStock
	}

	increments := make(map[uuid.UUID]decimal.Decimal)
	for _, it := range bill.Items {
		if tracked[it.ProductID] {
			increments[it.ProductID] = increments[it.ProductID].Add(decimal.NewFromInt(int64(it.Quantity)))
		}
	}

	if err := s.billRepo.DeleteWithLedger(ctx, bill, increments); err != nil {
		return err
	}

	s.logger.Info("bill deleted", zap.String("invoice_no", bill.InvoiceNo))
	return nil
}
