package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is a delivery or counter customer carrying a ledger account
type Customer struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Mobile         *string         `gorm:"size:20;index" json:"mobile,omitempty"`
	Address        *string         `gorm:"type:text" json:"address,omitempty"`
	DefaultQty     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"default_qty"`      // litres per day
	OpeningBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"opening_balance"` // positive = customer owes
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	LinkedProducts []Product     `gorm:"many2many:customer_products;" json:"linked_products,omitempty"`
	Bills          []Bill        `gorm:"foreignKey:CustomerID" json:"-"`
	Deliveries     []Delivery    `gorm:"foreignKey:CustomerID" json:"-"`
	Entries        []LedgerEntry `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// PrimaryMilk returns the first linked product sold by volume, if any
func (c *Customer) PrimaryMilk() *Product {
	for i := range c.LinkedProducts {
		if c.LinkedProducts[i].UnitKind.IsProportional() {
			return &c.LinkedProducts[i]
		}
	}
	return nil
}
