package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the shop header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name         string          `json:"name"`
	VariantLabel string          `json:"variant_label,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Total        decimal.Decimal `json:"total"`
}

// Receipt is a value object representing a printable bill.
// It is NOT a database entity; it is composed from a bill at print time.
type Receipt struct {
	Header      ReceiptHeader   `json:"header"`
	InvoiceNo   string          `json:"invoice_no"`
	Date        string          `json:"date"`
	Customer    string          `json:"customer,omitempty"`
	PaymentMode string          `json:"payment_mode,omitempty"`
	Items       []ReceiptItem   `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Due         decimal.Decimal `json:"due"`
	Balance     *string         `json:"balance,omitempty"` // customer balance after this bill, formatted
}

// StatementPrintLine is one row of a printed customer statement.
type StatementPrintLine struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// StatementPrintout is a printable customer statement, oldest line first.
type StatementPrintout struct {
	Header         ReceiptHeader        `json:"header"`
	Customer       string               `json:"customer"`
	Period         string               `json:"period"`
	OpeningBalance decimal.Decimal      `json:"opening_balance"`
	Lines          []StatementPrintLine `json:"lines"`
	TotalInvoiced  decimal.Decimal      `json:"total_invoiced"`
	TotalPaid      decimal.Decimal      `json:"total_paid"`
	ClosingBalance decimal.Decimal      `json:"closing_balance"`
}
