package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Delivery is one day's milk drop for a customer
type Delivery struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_delivery_customer_product_date" json:"customer_id"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_delivery_customer_product_date" json:"product_id"`
	Date       time.Time       `gorm:"type:date;not null;uniqueIndex:idx_delivery_customer_product_date;index" json:"date"`
	Liters     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"liters"`
	Grams      decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"grams"` // millilitres for volume products
	TotalQty   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"total_qty"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Notes      *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new delivery
func (d *Delivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Delivery model
func (Delivery) TableName() string {
	return "deliveries"
}

// Recalculate derives TotalQty and Amount from the logged quantity and unit price
func (d *Delivery) Recalculate() {
	d.TotalQty = d.Liters.Add(d.Grams.Shift(-3))
	d.Amount = d.TotalQty.Mul(d.UnitPrice).Round(2)
}
