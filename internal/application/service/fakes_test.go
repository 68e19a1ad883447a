package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func day(s string) time.Time {
	t, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func page[T any](items []T, p *pagination.PaginationParams) []T {
	if p == nil {
		return items
	}
	p.Validate()
	start := p.Offset()
	if start > len(items) {
		return nil
	}
	end := start + p.PerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func inWindow(d time.Time, from, to *time.Time) bool {
	d = utils.DateOnly(d)
	if from != nil && d.Before(utils.DateOnly(*from)) {
		return false
	}
	if to != nil && d.After(utils.DateOnly(*to)) {
		return false
	}
	return true
}

// products

type memProducts struct {
	rows map[uuid.UUID]entity.Product
	// variantWriteErr fails UpdateWithVariants before anything is stored
	variantWriteErr error
}

func newMemProducts() *memProducts {
	return &memProducts{rows: map[uuid.UUID]entity.Product{}}
}

func cloneProduct(p entity.Product) entity.Product {
	p.Variants = append([]entity.ProductVariant(nil), p.Variants...)
	return p
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Variants {
		if p.Variants[i].ID == uuid.Nil {
			p.Variants[i].ID = uuid.New()
		}
		p.Variants[i].ProductID = p.ID
	}
	m.rows[p.ID] = cloneProduct(*p)
	return nil
}

func (m *memProducts) CreateBatch(ctx context.Context, ps []entity.Product) error {
	for i := range ps {
		if err := m.Create(ctx, &ps[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	c := cloneProduct(p)
	return &c, nil
}

func (m *memProducts) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	seen := map[uuid.UUID]bool{}
	var out []entity.Product
	for _, id := range ids {
		if p, ok := m.rows[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (m *memProducts) find(match func(entity.Product) bool) *entity.Product {
	for _, p := range m.rows {
		if match(p) {
			c := cloneProduct(p)
			return &c
		}
	}
	return nil
}

func (m *memProducts) GetBySlug(_ context.Context, slug string) (*entity.Product, error) {
	return m.find(func(p entity.Product) bool { return p.Slug == slug }), nil
}

func (m *memProducts) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	return m.find(func(p entity.Product) bool { return p.Code == code }), nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	stored := m.rows[p.ID]
	c := cloneProduct(*p)
	c.Variants = stored.Variants
	m.rows[p.ID] = c
	return nil
}

func (m *memProducts) UpdateWithVariants(ctx context.Context, p *entity.Product, variants []entity.ProductVariant) error {
	if m.variantWriteErr != nil {
		return m.variantWriteErr
	}
	if err := m.Update(ctx, p); err != nil {
		return err
	}
	return m.ReplaceVariants(ctx, p.ID, variants)
}

func (m *memProducts) ReplaceVariants(_ context.Context, productID uuid.UUID, variants []entity.ProductVariant) error {
	p := m.rows[productID]
	p.Variants = nil
	for i, v := range variants {
		v.ID = uuid.New()
		v.ProductID = productID
		v.Position = i
		p.Variants = append(p.Variants, v)
	}
	m.rows[productID] = p
	return nil
}

func (m *memProducts) UpdateVariantPrice(_ context.Context, variantID uuid.UUID, price decimal.Decimal) error {
	for id, p := range m.rows {
		for i := range p.Variants {
			if p.Variants[i].ID == variantID {
				p.Variants[i].Price = price
				m.rows[id] = p
				return nil
			}
		}
	}
	return nil
}

func (m *memProducts) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

func (m *memProducts) sorted() []entity.Product {
	out := make([]entity.Product, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memProducts) List(_ context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range m.sorted() {
		if params.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *params.CategoryID) {
			continue
		}
		if params.UnitKind != nil && p.UnitKind != *params.UnitKind {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(params.Search)) {
			continue
		}
		out = append(out, p)
	}
	return page(out, params.Pagination), int64(len(out)), nil
}

func (m *memProducts) ListAll(context.Context) ([]entity.Product, error) {
	return m.sorted(), nil
}

func (m *memProducts) GetLowStock(_ context.Context, defaultAlert decimal.Decimal) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range m.sorted() {
		if p.IsLowStock(defaultAlert) {
			out = append(out, p)
		}
	}
	return out, nil
}

// categories

type memCategories struct {
	rows map[uuid.UUID]entity.Category
}

func newMemCategories() *memCategories {
	return &memCategories{rows: map[uuid.UUID]entity.Category{}}
}

func (m *memCategories) Create(_ context.Context, c *entity.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memCategories) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	for _, c := range m.rows {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memCategories) Update(_ context.Context, c *entity.Category) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memCategories) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

func (m *memCategories) List(_ context.Context, params *pagination.PaginationParams, _ string) ([]entity.Category, int64, error) {
	out := make([]entity.Category, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, params), int64(len(out)), nil
}

// customers

type memCustomers struct {
	rows     map[uuid.UUID]entity.Customer
	products *memProducts
	active   int64
}

func newMemCustomers(products *memProducts) *memCustomers {
	return &memCustomers{rows: map[uuid.UUID]entity.Customer{}, products: products}
}

func (m *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memCustomers) load(c entity.Customer) *entity.Customer {
	linked := make([]entity.Product, 0, len(c.LinkedProducts))
	for _, lp := range c.LinkedProducts {
		if p, ok := m.products.rows[lp.ID]; ok {
			linked = append(linked, cloneProduct(p))
		}
	}
	c.LinkedProducts = linked
	return &c
}

func (m *memCustomers) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return m.load(c), nil
}

func (m *memCustomers) GetByMobile(_ context.Context, mobile string) (*entity.Customer, error) {
	for _, c := range m.rows {
		if c.Mobile != nil && *c.Mobile == mobile {
			return m.load(c), nil
		}
	}
	return nil, nil
}

func (m *memCustomers) Update(_ context.Context, c *entity.Customer) error {
	m.rows[c.ID] = *c
	return nil
}

func (m *memCustomers) ReplaceLinkedProducts(_ context.Context, c *entity.Customer, products []entity.Product) error {
	stored := m.rows[c.ID]
	stored.LinkedProducts = products
	m.rows[c.ID] = stored
	return nil
}

func (m *memCustomers) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

func (m *memCustomers) ListAll(context.Context) ([]entity.Customer, error) {
	out := make([]entity.Customer, 0, len(m.rows))
	for _, c := range m.rows {
		out = append(out, *m.load(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCustomers) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	all, _ := m.ListAll(ctx)
	var out []entity.Customer
	for _, c := range all {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, c)
		}
	}
	return page(out, params), int64(len(out)), nil
}

func (m *memCustomers) Count(context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

func (m *memCustomers) CountActiveSince(context.Context, time.Time) (int64, error) {
	return m.active, nil
}

// ledger

type memLedger struct {
	rows map[uuid.UUID]entity.LedgerEntry
	seq  int
}

func newMemLedger() *memLedger {
	return &memLedger{rows: map[uuid.UUID]entity.LedgerEntry{}}
}

func (m *memLedger) Create(_ context.Context, e *entity.LedgerEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	m.seq++
	e.CreatedAt = time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	m.rows[e.ID] = *e
	return nil
}

func (m *memLedger) GetByID(_ context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	e, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memLedger) GetByReference(_ context.Context, ref string) (*entity.LedgerEntry, error) {
	for _, e := range m.rows {
		if e.Reference != nil && *e.Reference == ref {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memLedger) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

func (m *memLedger) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for _, e := range m.rows {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLedger) ListAll(context.Context) ([]entity.LedgerEntry, error) {
	out := make([]entity.LedgerEntry, 0, len(m.rows))
	for _, e := range m.rows {
		out = append(out, e)
	}
	return out, nil
}

// deliveries

type memDeliveries struct {
	rows map[uuid.UUID]entity.Delivery
}

func newMemDeliveries() *memDeliveries {
	return &memDeliveries{rows: map[uuid.UUID]entity.Delivery{}}
}

func (m *memDeliveries) Upsert(ctx context.Context, d *entity.Delivery) error {
	if existing, _ := m.Find(ctx, d.CustomerID, d.ProductID, d.Date); existing != nil {
		d.ID = existing.ID
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.rows[d.ID] = *d
	return nil
}

func (m *memDeliveries) GetByID(_ context.Context, id uuid.UUID) (*entity.Delivery, error) {
	d, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memDeliveries) Find(_ context.Context, customerID, productID uuid.UUID, date time.Time) (*entity.Delivery, error) {
	for _, d := range m.rows {
		if d.CustomerID == customerID && d.ProductID == productID && d.Date.Equal(utils.DateOnly(date)) {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

func (m *memDeliveries) Update(_ context.Context, d *entity.Delivery) error {
	m.rows[d.ID] = *d
	return nil
}

func (m *memDeliveries) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

func (m *memDeliveries) List(_ context.Context, params *repository.DeliveryFilterParams) ([]entity.Delivery, error) {
	var out []entity.Delivery
	for _, d := range m.rows {
		if params.CustomerID != nil && d.CustomerID != *params.CustomerID {
			continue
		}
		if params.ProductID != nil && d.ProductID != *params.ProductID {
			continue
		}
		if !inWindow(d.Date, params.From, params.To) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// bills

type memBills struct {
	rows     map[uuid.UUID]entity.Bill
	products *memProducts
	ledger   *memLedger
}

func newMemBills(products *memProducts, ledger *memLedger) *memBills {
	return &memBills{rows: map[uuid.UUID]entity.Bill{}, products: products, ledger: ledger}
}

func (m *memBills) CreateWithLedger(ctx context.Context, b *entity.Bill, entries []entity.LedgerEntry, decrements map[uuid.UUID]decimal.Decimal) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for id, qty := range decrements {
		p, ok := m.products.rows[id]
		if !ok || !p.TrackStock || p.Stock.LessThan(qty) {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range decrements {
		p := m.products.rows[id]
		p.Stock = p.Stock.Sub(qty)
		m.products.rows[id] = p
	}

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	m.rows[b.ID] = *b
	for i := range entries {
		entries[i].BillID = &b.ID
		if err := m.ledger.Create(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (m *memBills) GetByID(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memBills) GetByInvoiceNo(_ context.Context, no string) (*entity.Bill, error) {
	for _, b := range m.rows {
		if b.InvoiceNo == no {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (m *memBills) DeleteWithLedger(_ context.Context, b *entity.Bill, increments map[uuid.UUID]decimal.Decimal) error {
	for id, e := range m.ledger.rows {
		if e.BillID != nil && *e.BillID == b.ID {
			delete(m.ledger.rows, id)
		}
	}
	for id, qty := range increments {
		p := m.products.rows[id]
		p.Stock = p.Stock.Add(qty)
		m.products.rows[id] = p
	}
	delete(m.rows, b.ID)
	return nil
}

func (m *memBills) filtered(params *repository.BillFilterParams) []entity.Bill {
	var out []entity.Bill
	for _, b := range m.rows {
		if params.CustomerID != nil && (b.CustomerID == nil || *b.CustomerID != *params.CustomerID) {
			continue
		}
		if params.PaymentMode != nil && b.PaymentMode != *params.PaymentMode {
			continue
		}
		if params.Search != "" && !strings.Contains(strings.ToLower(b.CustomerName), strings.ToLower(params.Search)) {
			continue
		}
		if !inWindow(b.Date, params.From, params.To) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].InvoiceNo > out[j].InvoiceNo
	})
	return out
}

func (m *memBills) List(_ context.Context, params *repository.BillFilterParams) ([]entity.Bill, int64, error) {
	out := m.filtered(params)
	return page(out, params.Pagination), int64(len(out)), nil
}

func (m *memBills) Summarize(_ context.Context, params *repository.BillFilterParams) (*repository.SalesTotals, error) {
	t := &repository.SalesTotals{Total: decimal.Zero, Cash: decimal.Zero, Online: decimal.Zero, Credit: decimal.Zero}
	for _, b := range m.filtered(params) {
		t.Total = t.Total.Add(b.Total)
		t.Count++
		switch b.PaymentMode {
		case enum.PaymentModeCash:
			t.Cash = t.Cash.Add(b.Total)
		case enum.PaymentModeOnline:
			t.Online = t.Online.Add(b.Total)
		case enum.PaymentModeCredit:
			t.Credit = t.Credit.Add(b.Total)
		}
	}
	return t, nil
}

func (m *memBills) Recent(_ context.Context, limit int) ([]entity.Bill, error) {
	out := m.filtered(&repository.BillFilterParams{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// analytics over memBills

type memAnalytics struct {
	bills *memBills
}

func (m *memAnalytics) GetTopProducts(_ context.Context, from, to time.Time, limit int) ([]repository.TopProductResult, error) {
	byID := map[uuid.UUID]*repository.TopProductResult{}
	for _, b := range m.bills.filtered(&repository.BillFilterParams{From: &from, To: &to}) {
		for _, it := range b.Items {
			r, ok := byID[it.ProductID]
			if !ok {
				r = &repository.TopProductResult{ProductID: it.ProductID, ProductName: it.Name, Revenue: decimal.Zero}
				byID[it.ProductID] = r
			}
			r.QuantitySold += int64(it.Quantity)
			r.Revenue = r.Revenue.Add(it.LineTotal)
		}
	}
	out := make([]repository.TopProductResult, 0, len(byID))
	for _, r := range byID {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAnalytics) GetDailySales(_ context.Context, from, to time.Time) ([]repository.DailySalesResult, error) {
	var out []repository.DailySalesResult
	bills := m.bills.filtered(&repository.BillFilterParams{From: &from, To: &to})
	for d := utils.DateOnly(from); !d.After(utils.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		r := repository.DailySalesResult{Date: d, Revenue: decimal.Zero}
		for _, b := range bills {
			if b.Date.Equal(d) {
				r.Revenue = r.Revenue.Add(b.Total)
				r.Bills++
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memAnalytics) GetCustomerSales(_ context.Context, customerID uuid.UUID, from, to *time.Time) (*repository.CustomerSalesResult, error) {
	r := &repository.CustomerSalesResult{Total: decimal.Zero}
	for _, b := range m.bills.filtered(&repository.BillFilterParams{CustomerID: &customerID, From: from, To: to}) {
		r.Total = r.Total.Add(b.Total)
		r.Bills++
	}
	return r, nil
}

// store wires every fake together
type store struct {
	products   *memProducts
	categories *memCategories
	customers  *memCustomers
	ledger     *memLedger
	deliveries *memDeliveries
	bills      *memBills
	analytics  *memAnalytics
}

func newStore() *store {
	products := newMemProducts()
	ledger := newMemLedger()
	bills := newMemBills(products, ledger)
	return &store{
		products:   products,
		categories: newMemCategories(),
		customers:  newMemCustomers(products),
		ledger:     ledger,
		deliveries: newMemDeliveries(),
		bills:      bills,
		analytics:  &memAnalytics{bills: bills},
	}
}

func (s *store) productService() *ProductService {
	return NewProductService(s.products, s.categories, dec("5"))
}

func (s *store) customerService() *CustomerService {
	return NewCustomerService(s.customers, s.products, s.ledger, s.deliveries, s.analytics)
}

func (s *store) deliveryService() *DeliveryService {
	return NewDeliveryService(s.deliveries, s.customers, s.products, s.ledger, s.analytics)
}

func (s *store) billService() *BillService {
	return NewBillService(s.bills, s.products, s.customers, nil, nil)
}

func (s *store) paymentService() *PaymentService {
	return NewPaymentService(s.ledger, s.customers, nil)
}

func (s *store) reportService() *ReportService {
	return NewReportService(s.bills, s.analytics, s.customerService(), nil)
}

// seed helpers

func (s *store) addProduct(p entity.Product) entity.Product {
	if p.Slug == "" {
		p.Slug = utils.Slugify(p.Name)
	}
	if p.Code == "" {
		p.Code = utils.GenerateProductCode()
	}
	_ = s.products.Create(context.Background(), &p)
	return p
}

func (s *store) cowMilk() entity.Product {
	return s.addProduct(entity.Product{
		Name:      "Cow Milk",
		UnitKind:  enum.UnitKindVolume,
		BasePrice: dec("60"),
		Variants: []entity.ProductVariant{
			{Label: "500 mL", Price: dec("30"), Position: 0},
			{Label: "1 L", Price: dec("60"), Position: 1},
		},
	})
}

func (s *store) addCustomer(name string, opening string, linked ...entity.Product) entity.Customer {
	c := entity.Customer{Name: name, OpeningBalance: dec(opening), DefaultQty: dec("1.5"), LinkedProducts: linked}
	_ = s.customers.Create(context.Background(), &c)
	return c
}
