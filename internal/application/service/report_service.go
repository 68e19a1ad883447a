package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/apperror"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	salesSheet     = "Sales Report"
	statementSheet = "Statement"
	exportDate     = "02-01-2006"
)

// ReportService builds sales summaries and spreadsheet exports
type ReportService struct {
	billRepo      repository.BillRepository
	analyticsRepo repository.AnalyticsRepository
	customers     *CustomerService
	logger        *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	billRepo repository.BillRepository,
	analyticsRepo repository.AnalyticsRepository,
	customers *CustomerService,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		billRepo:      billRepo,
		analyticsRepo: analyticsRepo,
		customers:     customers,
		logger:        logger,
	}
}

// SalesSummary totals bills in a window, split by payment mode and by day
type SalesSummary struct {
	From  time.Time                     `json:"from"`
	To    time.Time                     `json:"to"`
	Daily []repository.DailySalesResult `json:"daily"`
	repository.SalesTotals
}

// window defaults to today and rejects from > to
func window(from, to *time.Time) (time.Time, time.Time, error) {
	start, end := utils.Today(), utils.Today()
	if from != nil {
		start = utils.DateOnly(*from)
	}
	switch {
	case to != nil:
		end = utils.DateOnly(*to)
		if from == nil {
			start = end
		}
	case from != nil:
		end = start
	}
	if start.After(end) {
		return start, end, apperror.NewBadRequestError("'from' must not be after 'to'")
	}
	return start, end, nil
}

// SalesSummary returns totals for bills between from and to, matching search on customer name
func (s *ReportService) SalesSummary(ctx context.Context, from, to *time.Time, search string) (*SalesSummary, error) {
	start, end, err := window(from, to)
	if err != nil {
		return nil, err
	}

	totals, err := s.billRepo.Summarize(ctx, &repository.BillFilterParams{Search: search, From: &start, To: &end})
	if err != nil {
		return nil, err
	}

	daily, err := s.analyticsRepo.GetDailySales(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &SalesSummary{From: start, To: end, Daily: daily, SalesTotals: *totals}, nil
}

// TodayStats returns today's takings
func (s *ReportService) TodayStats(ctx context.Context) (*repository.SalesTotals, error) {
	today := utils.Today()
	return s.billRepo.Summarize(ctx, &repository.BillFilterParams{From: &today, To: &today})
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ExportSalesXLSX returns the filtered bills as a workbook and its download name
func (s *ReportService) ExportSalesXLSX(ctx context.Context, from, to *time.Time, search string) ([]byte, string, error) {
	start, end, err := window(from, to)
	if err != nil {
		return nil, "", err
	}

	bills, _, err := s.billRepo.List(ctx, &repository.BillFilterParams{Search: search, From: &start, To: &end})
	if err != nil {
		return nil, "", fmt.Errorf("query bills: %w", err)
	}

	f, err := newWorkbook(salesSheet)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	writeRow(f, salesSheet, 1, "Date", "Customer Name", "Items Count", "Payment Mode", "Amount (₹)")

	row := 2
	total := decimal.Zero
	for _, b := range bills {
		mode := b.PaymentMode.String()
		if mode == "" {
			mode = "N/A"
		}
		writeRow(f, salesSheet, row, b.Date.Format(exportDate), b.CustomerName, b.ItemsCount, mode, money(b.Total))
		total = total.Add(b.Total)
		row++
	}
	writeRow(f, salesSheet, row, "TOTAL", "", "", "", money(total))

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(salesSheet, 1, 1, bold)
		_ = f.SetRowStyle(salesSheet, row, row, bold)
	}
	_ = f.SetColWidth(salesSheet, "A", "A", 14)
	_ = f.SetColWidth(salesSheet, "B", "B", 28)
	_ = f.SetColWidth(salesSheet, "C", "D", 14)
	_ = f.SetColWidth(salesSheet, "E", "E", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("xlsx write: %w", err)
	}

	name := fmt.Sprintf("Sales_Report_%s_to_%s.xlsx", start.Format(utils.DateLayout), end.Format(utils.DateLayout))
	s.logger.Info("sales export written", zap.String("file", name), zap.Int("rows", len(bills)))
	return buf.Bytes(), name, nil
}

// ExportStatementXLSX writes a customer statement oldest line first
func (s *ReportService) ExportStatementXLSX(ctx context.Context, customerID uuid.UUID, from, to *time.Time) ([]byte, string, error) {
	st, err := s.customers.GetStatement(ctx, customerID, from, to)
	if err != nil {
		return nil, "", err
	}

	f, err := newWorkbook(statementSheet)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	writeRow(f, statementSheet, 1, "Date", "Description", "Debit", "Credit", "Balance")
	writeRow(f, statementSheet, 2, "", "Opening balance", "", "", money(st.Totals.OpeningBalance))

	row := 3
	for _, l := range st.Chronological() {
		var debit, credit any = "", ""
		if l.Kind == enum.EntryKindPayment {
			credit = money(l.Amount)
		} else {
			debit = money(l.Amount)
		}
		writeRow(f, statementSheet, row, l.Date.Format(exportDate), l.Description, debit, credit, money(l.RunningBalance))
		row++
	}
	writeRow(f, statementSheet, row, "", "Closing balance",
		money(st.Totals.TotalInvoiced), money(st.Totals.TotalPaid), money(st.Totals.ClosingBalance))

	_ = f.SetColWidth(statementSheet, "A", "A", 14)
	_ = f.SetColWidth(statementSheet, "B", "B", 34)
	_ = f.SetColWidth(statementSheet, "C", "E", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("xlsx write: %w", err)
	}

	name := fmt.Sprintf("Statement_%s_%s.xlsx", utils.Slugify(st.Customer.Name), utils.Today().Format(utils.DateLayout))
	return buf.Bytes(), name, nil
}

// product sheet columns, matched case-insensitively on the header row
var importColumns = []string{"name", "code", "category", "unit_kind", "base_price", "sale_price", "unit_label", "variants", "stock", "track_stock", "notes"}

// ParseProductSheet reads the first sheet of an import workbook. Variants
// are a comma separated list of labels ("500 mL, 1 L").
func ParseProductSheet(r io.Reader) ([]ImportProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("File is not a valid xlsx workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewBadRequestError("Workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, apperror.NewBadRequestError("Workbook has no product rows")
	}

	index := make(map[string]int, len(importColumns))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.ReplaceAll(strings.TrimSpace(h), " ", "_"))] = i
	}
	if _, ok := index["name"]; !ok {
		return nil, apperror.NewBadRequestError("Header row must contain a 'name' column")
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	number := func(s string) decimal.Decimal {
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
		if err != nil {
			return decimal.Zero
		}
		return d
	}

	out := make([]ImportProductRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		var variants []string
		for _, v := range strings.Split(cell(row, "variants"), ",") {
			if v = strings.TrimSpace(v); v != "" {
				variants = append(variants, v)
			}
		}
		track, _ := strconv.ParseBool(cell(row, "track_stock"))
		out = append(out, ImportProductRow{
			Name:         cell(row, "name"),
			Code:         cell(row, "code"),
			CategoryName: cell(row, "category"),
			UnitKind:     cell(row, "unit_kind"),
			BasePrice:    number(cell(row, "base_price")),
			SalePrice:    number(cell(row, "sale_price")),
			UnitLabel:    cell(row, "unit_label"),
			Variants:     variants,
			Stock:        number(cell(row, "stock")),
			TrackStock:   track,
			Notes:        cell(row, "notes"),
		})
	}
	return out, nil
}
