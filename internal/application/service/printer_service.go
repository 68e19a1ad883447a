package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/apperror"
	"github.com/sangkips/dairy-pos/pkg/printer"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const receiptDate = "02-01-2006 15:04"

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer   printer.Printer
	billRepo  repository.BillRepository
	customers *CustomerService
	header    entity.ReceiptHeader
	width     int
	logger    *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	billRepo repository.BillRepository,
	customers *CustomerService,
	header entity.ReceiptHeader,
	width int,
	logger *zap.Logger,
) *PrinterService {
	if p == nil {
		p = printer.NewNullPrinter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrinterService{
		printer:   p,
		billRepo:  billRepo,
		customers: customers,
		header:    header,
		width:     width,
		logger:    logger,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	t := s.printer.Type()
	return &PrinterStatus{
		Configured: t != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       t,
		Width:      printer.NewDocument(s.width).Width(),
	}
}

// TestPrint sends a test page to the printer.
// The receipt is returned either way so callers can show it when no printer is attached.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:      s.header,
		InvoiceNo:   "TEST-001",
		Date:        time.Now().Format(receiptDate),
		PaymentMode: enum.PaymentModeCash.String(),
		Items: []entity.ReceiptItem{
			{Name: "Cow Milk", VariantLabel: "500 mL", Quantity: 2, UnitPrice: decimal.NewFromInt(30), Total: decimal.NewFromInt(60)},
			{Name: "Paneer", VariantLabel: "200 g", Quantity: 1, UnitPrice: decimal.NewFromInt(80), Total: decimal.NewFromInt(80)},
		},
		Total: decimal.NewFromInt(140),
		Paid:  decimal.NewFromInt(140),
		Due:   decimal.Zero,
	}

	if err := s.printer.Print(ctx, s.FormatReceipt(receipt)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// BuildReceipt composes the printable form of a bill.
func (s *PrinterService) BuildReceipt(ctx context.Context, billID uuid.UUID) (*entity.Receipt, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	receipt := &entity.Receipt{
		Header:      s.header,
		InvoiceNo:   bill.InvoiceNo,
		Date:        bill.CreatedAt.Format(receiptDate),
		Customer:    bill.CustomerName,
		PaymentMode: bill.PaymentMode.String(),
		Total:       bill.Total,
		Paid:        bill.Pay,
		Due:         bill.Due,
	}
	if bill.CreatedAt.IsZero() {
		receipt.Date = bill.Date.Format(utils.DateLayout)
	}

	for _, it := range bill.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:         it.Name,
			VariantLabel: it.VariantLabel,
			Quantity:     it.Quantity,
			UnitPrice:    it.Price,
			Total:        it.LineTotal,
		})
	}

	if bill.CustomerID != nil && s.customers != nil {
		balance, err := s.customers.GetBalance(ctx, *bill.CustomerID)
		if err != nil {
			s.logger.Warn("receipt balance unavailable", zap.String("bill_id", billID.String()), zap.Error(err))
		} else {
			b := utils.FormatMoney(balance)
			receipt.Balance = &b
		}
	}

	return receipt, nil
}

// PrintBill prints a bill receipt.
func (s *PrinterService) PrintBill(ctx context.Context, billID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, s.FormatReceipt(receipt)); err != nil {
		s.logger.Error("printer error", zap.String("invoice_no", receipt.InvoiceNo), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// BuildStatement composes a printable statement for a customer.
func (s *PrinterService) BuildStatement(ctx context.Context, customerID uuid.UUID, from, to *time.Time) (*entity.StatementPrintout, error) {
	st, err := s.customers.GetStatement(ctx, customerID, from, to)
	if err != nil {
		return nil, err
	}

	period := "All activity"
	switch {
	case from != nil && to != nil:
		period = from.Format(exportDate) + " to " + to.Format(exportDate)
	case from != nil:
		period = "From " + from.Format(exportDate)
	case to != nil:
		period = "Up to " + to.Format(exportDate)
	}

	out := &entity.StatementPrintout{
		Header:         s.header,
		Customer:       st.Customer.Name,
		Period:         period,
		OpeningBalance: st.Totals.OpeningBalance,
		TotalInvoiced:  st.Totals.TotalInvoiced,
		TotalPaid:      st.Totals.TotalPaid,
		ClosingBalance: st.Totals.ClosingBalance,
	}
	for _, l := range st.Chronological() {
		line := entity.StatementPrintLine{
			Date:        l.Date.Format("02-01"),
			Description: l.Description,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Balance:     l.RunningBalance,
		}
		if l.Kind == enum.EntryKindPayment {
			line.Credit = l.Amount
		} else {
			line.Debit = l.Amount
		}
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

// PrintStatement prints a customer's statement.
func (s *PrinterService) PrintStatement(ctx context.Context, customerID uuid.UUID, from, to *time.Time) (*entity.StatementPrintout, error) {
	st, err := s.BuildStatement(ctx, customerID, from, to)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, s.FormatStatement(st)); err != nil {
		s.logger.Error("printer error", zap.String("customer_id", customerID.String()), zap.Error(err))
		return st, fmt.Errorf("failed to print statement: %w", err)
	}
	return st, nil
}

func writeHeader(doc *printer.Document, h entity.ReceiptHeader) {
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(h.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if h.Address != "" {
		doc.Text(h.Address)
	}
	if h.Phone != "" {
		doc.Text(h.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')
}

func footer(doc *printer.Document) {
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func (s *PrinterService) FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.width)
	writeHeader(doc, r.Header)

	doc.KeyValue("Bill:", r.InvoiceNo).
		KeyValue("Date:", r.Date)
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.PaymentMode != "" {
		doc.KeyValue("Payment:", r.PaymentMode)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		name := item.Name
		if item.VariantLabel != "" {
			name += " " + item.VariantLabel
		}
		doc.ItemLine(item.Quantity, name, utils.FormatMoney(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", utils.FormatMoney(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.SetBold(true).
		KeyValue("TOTAL:", utils.FormatMoney(r.Total)).
		SetBold(false)

	if r.Paid.IsPositive() {
		doc.KeyValue("Paid:", utils.FormatMoney(r.Paid))
	}
	if r.Due.IsPositive() {
		doc.KeyValue("Due:", utils.FormatMoney(r.Due))
	}
	if r.Balance != nil {
		doc.KeyValue("Account balance:", *r.Balance)
	}

	doc.Separator('-')
	footer(doc)
	return doc.Bytes()
}

// FormatStatement converts a statement into ESC/POS bytes.
func (s *PrinterService) FormatStatement(st *entity.StatementPrintout) []byte {
	doc := printer.NewDocument(s.width)
	writeHeader(doc, st.Header)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("STATEMENT").
		SetBold(false).
		SetAlign(printer.AlignLeft)
	doc.KeyValue("Customer:", st.Customer).
		KeyValue("Period:", st.Period).
		Separator('-')

	// detail | amount | balance
	cols := []int{0, 10, 10}
	if doc.Width() >= printer.Width80mm {
		cols = []int{0, 13, 13}
	}
	doc.Columns(cols, "Date  Detail", "Amount", "Balance")
	doc.Columns(cols, "      Opening", "", utils.FormatMoney(st.OpeningBalance))

	for _, l := range st.Lines {
		amount := utils.FormatMoney(l.Debit)
		if l.Credit.IsPositive() {
			amount = "-" + utils.FormatMoney(l.Credit)
		}
		doc.Columns(cols, l.Date+" "+l.Description, amount, utils.FormatMoney(l.Balance))
	}

	doc.Separator('-').
		KeyValue("Invoiced:", utils.FormatMoney(st.TotalInvoiced)).
		KeyValue("Paid:", utils.FormatMoney(st.TotalPaid)).
		SetBold(true).
		KeyValue("Balance due:", utils.FormatMoney(st.ClosingBalance)).
		SetBold(false)

	footer(doc)
	return doc.Bytes()
}
