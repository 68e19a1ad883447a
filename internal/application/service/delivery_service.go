package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/apperror"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// DeliveryService records daily milk deliveries and invoices them monthly
type DeliveryService struct {
	deliveryRepo  repository.DeliveryRepository
	customerRepo  repository.CustomerRepository
	productRepo   repository.ProductRepository
	ledgerRepo    repository.LedgerRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	analyticsRepo repository.AnalyticsRepository,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo:  deliveryRepo,
		customerRepo:  customerRepo,
		productRepo:   productRepo,
		ledgerRepo:    ledgerRepo,
		analyticsRepo: analyticsRepo,
	}
}

// LogDeliveryInput represents a delivery log request. Omitted product
// defaults to the customer's first linked milk; omitted quantities default
// to the customer's daily quantity.
type LogDeliveryInput struct {
	CustomerID uuid.UUID
	ProductID  *uuid.UUID
	Date       *time.Time
	Liters     *decimal.Decimal
	Grams      *decimal.Decimal
	Notes      *string
}

// LogDelivery records or overwrites the delivery for a customer, product and date
func (s *DeliveryService) LogDelivery(ctx context.Context, input *LogDeliveryInput) (*entity.Delivery, error) {
	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	var product *entity.Product
	if input.ProductID != nil {
		product, err = s.productRepo.GetByID(ctx, *input.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, apperror.NewNotFoundError("Product")
		}
	} else {
		product = customer.PrimaryMilk()
		if product == nil {
			return nil, apperror.NewBadRequestError("Customer has no linked milk product")
		}
	}
	if !product.UnitKind.IsProportional() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("%s is not sold by volume or weight", product.Name))
	}

	date := utils.Today()
	if input.Date != nil {
		date = utils.DateOnly(*input.Date)
	}

	liters, grams := decimal.Zero, decimal.Zero
	switch {
	case input.Liters == nil && input.Grams == nil:
		liters = customer.DefaultQty
	default:
		if input.Liters != nil {
			liters = *input.Liters
		}
		if input.Grams != nil {
			grams = *input.Grams
		}
	}

	delivery := &entity.Delivery{
		CustomerID: customer.ID,
		ProductID:  product.ID,
		Date:       date,
		Liters:     liters,
		Grams:      grams,
		UnitPrice:  product.BasePrice,
		Notes:      input.Notes,
	}
	delivery.Recalculate()
	if !delivery.TotalQty.IsPositive() {
		return nil, apperror.NewBadRequestError("Delivered quantity must be greater than zero")
	}

	if err := s.deliveryRepo.Upsert(ctx, delivery); err != nil {
		return nil, err
	}

	// the upsert may have kept an existing row's id
	return s.deliveryRepo.Find(ctx, customer.ID, product.ID, date)
}

// UpdateDeliveryInput represents a correction to a logged delivery
type UpdateDeliveryInput struct {
	ID     uuid.UUID
	Liters *decimal.Decimal
	Grams  *decimal.Decimal
	Notes  *string
}

// UpdateDelivery corrects quantities; the unit price recorded at logging time is kept
func (s *DeliveryService) UpdateDelivery(ctx context.Context, input *UpdateDeliveryInput) (*entity.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, apperror.NewNotFoundError("Delivery")
	}

	if input.Liters != nil {
		delivery.Liters = *input.Liters
	}
	if input.Grams != nil {
		delivery.Grams = *input.Grams
	}
	if input.Notes != nil {
		delivery.Notes = input.Notes
	}
	delivery.Recalculate()
	if !delivery.TotalQty.IsPositive() {
		return nil, apperror.NewBadRequestError("Delivered quantity must be greater than zero")
	}

	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

// DeleteDelivery removes a logged delivery
func (s *DeliveryService) DeleteDelivery(ctx context.Context, id uuid.UUID) error {
	delivery, err := s.deliveryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if delivery == nil {
		return apperror.NewNotFoundError("Delivery")
	}
	return s.deliveryRepo.Delete(ctx, id)
}

// ListDeliveries lists delivery logs matching params
func (s *DeliveryService) ListDeliveries(ctx context.Context, params *repository.DeliveryFilterParams) ([]entity.Delivery, error) {
	return s.deliveryRepo.List(ctx, params)
}

// DefaultDeliveryResult reports a bulk default logging run
type DefaultDeliveryResult struct {
	Date    time.Time `json:"date"`
	Logged  int       `json:"logged"`
	Skipped int       `json:"skipped"`
}

// LogDefaultDeliveries logs each customer's default quantity of their
// first linked milk on date, leaving existing logs untouched
func (s *DeliveryService) LogDefaultDeliveries(ctx context.Context, date time.Time) (*DefaultDeliveryResult, error) {
	date = utils.DateOnly(date)
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &DefaultDeliveryResult{Date: date}
	for i := range customers {
		c := &customers[i]
		milk := c.PrimaryMilk()
		if milk == nil || !c.DefaultQty.IsPositive() {
			result.Skipped++
			continue
		}

		existing, err := s.deliveryRepo.Find(ctx, c.ID, milk.ID, date)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.Skipped++
			continue
		}

		delivery := &entity.Delivery{
			CustomerID: c.ID,
			ProductID:  milk.ID,
			Date:       date,
			Liters:     c.DefaultQty,
			Grams:      decimal.Zero,
			UnitPrice:  milk.BasePrice,
		}
		delivery.Recalculate()
		if err := s.deliveryRepo.Upsert(ctx, delivery); err != nil {
			return nil, fmt.Errorf("log default delivery for %s: %w", c.Name, err)
		}
		result.Logged++
	}
	return result, nil
}

// MonthlySummary is a customer's deliveries and POS purchases for one month
type MonthlySummary struct {
	CustomerID uuid.UUID         `json:"customer_id"`
	Month      string            `json:"month"`
	Deliveries []entity.Delivery `json:"deliveries"`
	TotalQty   decimal.Decimal   `json:"total_qty"`
	MilkValue  decimal.Decimal   `json:"milk_value"`
	POSValue   decimal.Decimal   `json:"pos_value"`
	GrandTotal decimal.Decimal   `json:"grand_total"`
	Invoiced   bool              `json:"invoiced"`
}

// MonthlySummary totals a customer's deliveries and bills for the month
func (s *DeliveryService) MonthlySummary(ctx context.Context, customerID uuid.UUID, year int, month time.Month) (*MonthlySummary, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	first, last := utils.MonthRange(year, month)
	deliveries, err := s.deliveryRepo.List(ctx, &repository.DeliveryFilterParams{
		CustomerID: &customerID,
		From:       &first,
		To:         &last,
	})
	if err != nil {
		return nil, err
	}

	sales, err := s.analyticsRepo.GetCustomerSales(ctx, customerID, &first, &last)
	if err != nil {
		return nil, err
	}

	invoice, err := s.ledgerRepo.GetByReference(ctx, utils.MilkInvoiceReference(customerID, year, month))
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		CustomerID: customerID,
		Month:      first.Format(utils.MonthLayout),
		Deliveries: deliveries,
		TotalQty:   decimal.Zero,
		MilkValue:  decimal.Zero,
		POSValue:   sales.Total,
		Invoiced:   invoice != nil,
	}
	for i := range deliveries {
		summary.TotalQty = summary.TotalQty.Add(deliveries[i].TotalQty)
		summary.MilkValue = summary.MilkValue.Add(deliveries[i].Amount)
	}
	summary.GrandTotal = summary.MilkValue.Add(summary.POSValue)

	return summary, nil
}

var errNothingDelivered = apperror.NewBadRequestError("No deliveries to invoice for this month")

// InvoiceMonth posts one invoice entry for the month's deliveries, dated the
// last day of the month. A second call for the same month returns the
// existing entry with created false.
func (s *DeliveryService) InvoiceMonth(ctx context.Context, customerID uuid.UUID, year int, month time.Month) (*entity.LedgerEntry, bool, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, false, err
	}
	if customer == nil {
		return nil, false, apperror.NewNotFoundError("Customer")
	}

	reference := utils.MilkInvoiceReference(customerID, year, month)
	existing, err := s.ledgerRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	first, last := utils.MonthRange(year, month)
	deliveries, err := s.deliveryRepo.List(ctx, &repository.DeliveryFilterParams{
		CustomerID: &customerID,
		From:       &first,
		To:         &last,
	})
	if err != nil {
		return nil, false, err
	}

	amount := decimal.Zero
	for i := range deliveries {
		amount = amount.Add(deliveries[i].Amount)
	}
	if !amount.IsPositive() {
		return nil, false, errNothingDelivered
	}

	notes := "Milk deliveries " + first.Format("Jan 2006")
	entry := &entity.LedgerEntry{
		CustomerID: customerID,
		Date:       last,
		Kind:       enum.EntryKindInvoice,
		Amount:     amount.Round(2),
		Reference:  &reference,
		Notes:      &notes,
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, false, err
	}
	return entry, true, nil
}

// InvoiceRunResult reports a month-end invoicing run over all customers
type InvoiceRunResult struct {
	Month           string          `json:"month"`
	Invoiced        int             `json:"invoiced"`
	AlreadyInvoiced int             `json:"already_invoiced"`
	Skipped         int             `json:"skipped"`
	Total           decimal.Decimal `json:"total"`
}

// InvoiceAllForMonth invoices the month for every customer with deliveries
func (s *DeliveryService) InvoiceAllForMonth(ctx context.Context, year int, month time.Month) (*InvoiceRunResult, error) {
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	first, _ := utils.MonthRange(year, month)
	result := &InvoiceRunResult{Month: first.Format(utils.MonthLayout), Total: decimal.Zero}
	for i := range customers {
		entry, created, err := s.InvoiceMonth(ctx, customers[i].ID, year, month)
		switch {
		case errors.Is(err, errNothingDelivered):
			result.Skipped++
		case err != nil:
			return result, fmt.Errorf("invoice %s: %w", customers[i].Name, err)
		case created:
			result.Invoiced++
			result.Total = result.Total.Add(entry.Amount)
		default:
			result.AlreadyInvoiced++
		}
	}
	return result, nil
}
