package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/ledger"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/apperror"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// CustomerService handles customer accounts and their ledgers
type CustomerService struct {
	customerRepo  repository.CustomerRepository
	productRepo   repository.ProductRepository
	ledgerRepo    repository.LedgerRepository
	deliveryRepo  repository.DeliveryRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	deliveryRepo repository.DeliveryRepository,
	analyticsRepo repository.AnalyticsRepository,
) *CustomerService {
	return &CustomerService{
		customerRepo:  customerRepo,
		productRepo:   productRepo,
		ledgerRepo:    ledgerRepo,
		deliveryRepo:  deliveryRepo,
		analyticsRepo: analyticsRepo,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	Name             string
	Mobile           *string
	Address          *string
	DefaultQty       decimal.Decimal
	OpeningBalance   decimal.Decimal
	Notes            *string
	LinkedProductIDs []uuid.UUID
}

func (s *CustomerService) ensureMobileFree(ctx context.Context, mobile *string, self uuid.UUID) error {
	if mobile == nil || *mobile == "" {
		return nil
	}
	existing, err := s.customerRepo.GetByMobile(ctx, *mobile)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("A customer with this mobile number already exists")
	}
	return nil
}

func (s *CustomerService) loadProducts(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(uniqueIDs(ids)) {
		return nil, apperror.NewNotFoundError("Linked product")
	}
	return products, nil
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if err := s.ensureMobileFree(ctx, input.Mobile, uuid.Nil); err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		Name:           input.Name,
		Mobile:         input.Mobile,
		Address:        input.Address,
		DefaultQty:     input.DefaultQty,
		OpeningBalance: input.OpeningBalance.Round(2),
		Notes:          input.Notes,
	}

	if len(input.LinkedProductIDs) > 0 {
		products, err := s.loadProducts(ctx, input.LinkedProductIDs)
		if err != nil {
			return nil, err
		}
		customer.LinkedProducts = products
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	return s.customerRepo.GetByID(ctx, customer.ID)
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists customers matching search on name or mobile
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	params.Validate()
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	return pagination.Paginate(customers, params, total), nil
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID               uuid.UUID
	Name             *string
	Mobile           *string
	Address          *string
	DefaultQty       *decimal.Decimal
	OpeningBalance   *decimal.Decimal
	Notes            *string
	LinkedProductIDs *[]uuid.UUID // nil keeps the current links
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Mobile != nil {
		if err := s.ensureMobileFree(ctx, input.Mobile, customer.ID); err != nil {
			return nil, err
		}
		customer.Mobile = input.Mobile
	}
	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.DefaultQty != nil {
		customer.DefaultQty = *input.DefaultQty
	}
	if input.OpeningBalance != nil {
		customer.OpeningBalance = input.OpeningBalance.Round(2)
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	if input.LinkedProductIDs != nil {
		products := []entity.Product{}
		if len(*input.LinkedProductIDs) > 0 {
			products, err = s.loadProducts(ctx, *input.LinkedProductIDs)
			if err != nil {
				return nil, err
			}
		}
		if err := s.customerRepo.ReplaceLinkedProducts(ctx, customer, products); err != nil {
			return nil, fmt.Errorf("link products: %w", err)
		}
	}

	return s.customerRepo.GetByID(ctx, customer.ID)
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

// CustomerStatement is a ledger statement for a customer over an optional window
type CustomerStatement struct {
	Customer *entity.Customer `json:"customer"`
	From     *time.Time       `json:"from,omitempty"`
	To       *time.Time       `json:"to,omitempty"`
	ledger.Statement
}

// GetStatement builds the customer's statement. Entries before from are
// carried into the opening balance; entries after to are left out.
func (s *CustomerService) GetStatement(ctx context.Context, customerID uuid.UUID, from, to *time.Time) (*CustomerStatement, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	rows, err := s.ledgerRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	entries := entity.ToLedgerEntries(rows)

	if to != nil {
		end := utils.DateOnly(*to)
		kept := entries[:0]
		for _, e := range entries {
			if !utils.DateOnly(e.Date).After(end) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	opening := customer.OpeningBalance
	if from != nil {
		var before []ledger.Entry
		before, entries = ledger.SplitAt(entries, *from)
		opening = ledger.Balance(opening, before)
	}

	return &CustomerStatement{
		Customer:  customer,
		From:      from,
		To:        to,
		Statement: ledger.BuildStatement(opening, entries),
	}, nil
}

// GetBalance returns the customer's current balance (positive means the customer owes)
func (s *CustomerService) GetBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	rows, err := s.ledgerRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.Balance(customer.OpeningBalance, entity.ToLedgerEntries(rows)), nil
}

// TotalOutstanding sums every customer's balance
func (s *CustomerService) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	customers, err := s.customerRepo.ListAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	rows, err := s.ledgerRepo.ListAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	byCustomer := make(map[uuid.UUID][]entity.LedgerEntry, len(customers))
	for _, r := range rows {
		byCustomer[r.CustomerID] = append(byCustomer[r.CustomerID], r)
	}

	total := decimal.Zero
	for _, c := range customers {
		total = total.Add(ledger.Balance(c.OpeningBalance, entity.ToLedgerEntries(byCustomer[c.ID])))
	}
	return total, nil
}

// CustomerSummary is a customer's lifetime activity
type CustomerSummary struct {
	CustomerID     uuid.UUID       `json:"customer_id"`
	Balance        decimal.Decimal `json:"balance"`
	POSTotal       decimal.Decimal `json:"pos_total"`
	BillCount      int64           `json:"bill_count"`
	DeliveredQty   decimal.Decimal `json:"delivered_qty"`
	DeliveredValue decimal.Decimal `json:"delivered_value"`
	DeliveryCount  int             `json:"delivery_count"`
	LastDelivery   *time.Time      `json:"last_delivery,omitempty"`
}

// GetLifetimeSummary totals a customer's bills and deliveries
func (s *CustomerService) GetLifetimeSummary(ctx context.Context, customerID uuid.UUID) (*CustomerSummary, error) {
	balance, err := s.GetBalance(ctx, customerID)
	if err != nil {
		return nil, err
	}

	sales, err := s.analyticsRepo.GetCustomerSales(ctx, customerID, nil, nil)
	if err != nil {
		return nil, err
	}

	deliveries, err := s.deliveryRepo.List(ctx, &repository.DeliveryFilterParams{CustomerID: &customerID})
	if err != nil {
		return nil, err
	}

	summary := &CustomerSummary{
		CustomerID:     customerID,
		Balance:        balance,
		POSTotal:       sales.Total,
		BillCount:      sales.Bills,
		DeliveredQty:   decimal.Zero,
		DeliveredValue: decimal.Zero,
		DeliveryCount:  len(deliveries),
	}
	for i := range deliveries {
		summary.DeliveredQty = summary.DeliveredQty.Add(deliveries[i].TotalQty)
		summary.DeliveredValue = summary.DeliveredValue.Add(deliveries[i].Amount)
		if summary.LastDelivery == nil || deliveries[i].Date.After(*summary.LastDelivery) {
			d := deliveries[i].Date
			summary.LastDelivery = &d
		}
	}

	return summary, nil
}
