package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalkInCustomerName is recorded on bills without a customer account
const WalkInCustomerName = "Walk-in Customer"

// Bill is a POS transaction
type Bill struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo    string           `gorm:"size:100;unique;not null" json:"invoice_no"`
	CustomerID   *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName string           `gorm:"size:255;not null" json:"customer_name"`
	Date         time.Time        `gorm:"type:date;not null;index" json:"date"`
	PaymentMode  enum.PaymentMode `gorm:"size:20;not null;default:'Cash';index" json:"payment_mode"`
	ItemsCount   int              `gorm:"default:0" json:"items_count"`
	Total        decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Pay          decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"pay"`
	Due          decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"due"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []BillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// IsWalkIn reports whether the bill has no customer account
func (b *Bill) IsWalkIn() bool {
	return b.CustomerID == nil
}

// BillItem is a cart line; name, label and price are copied at checkout
type BillItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BillID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"bill_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	VariantLabel string          `gorm:"size:50" json:"variant_label"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
	CreatedAt    time.Time       `json:"created_at"`

	// Relationships
	Bill    Bill     `gorm:"foreignKey:BillID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
