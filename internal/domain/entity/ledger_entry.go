package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerEntry is an invoice or payment on a customer account.
// Entries are immutable once written; they are only ever deleted.
type LedgerEntry struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	Date        time.Time         `gorm:"type:date;not null;index" json:"date"`
	Kind        enum.EntryKind    `gorm:"not null;default:0" json:"kind"`
	Amount      decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"amount"`
	BillID      *uuid.UUID        `gorm:"type:uuid;index" json:"bill_id,omitempty"`
	Reference   *string           `gorm:"size:100;uniqueIndex" json:"reference,omitempty"`
	PaymentMode *enum.PaymentMode `gorm:"size:20" json:"payment_mode,omitempty"`
	Notes       *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Bill     *Bill     `gorm:"foreignKey:BillID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new entry
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// Describe returns the text shown on statements
func (e *LedgerEntry) Describe() string {
	if e.Notes != nil && *e.Notes != "" {
		return *e.Notes
	}
	if e.Kind == enum.EntryKindPayment {
		if e.PaymentMode != nil {
			return "Payment (" + e.PaymentMode.String() + ")"
		}
		return "Payment"
	}
	if e.BillID != nil {
		return "POS bill"
	}
	return "Invoice"
}

// ToLedger converts the row into the reducer's input
func (e *LedgerEntry) ToLedger() ledger.Entry {
	return ledger.Entry{
		ID:          e.ID.String(),
		Date:        e.Date,
		Kind:        e.Kind,
		Amount:      e.Amount,
		CreatedAt:   e.CreatedAt,
		Description: e.Describe(),
	}
}

// ToLedgerEntries converts a slice of rows
func ToLedgerEntries(rows []LedgerEntry) []ledger.Entry {
	entries := make([]ledger.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToLedger()
	}
	return entries
}
