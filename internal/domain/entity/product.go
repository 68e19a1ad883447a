package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a milk type or packaged dairy good sold at the counter
type Product struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID          *uuid.UUID       `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name                string           `gorm:"size:255;not null" json:"name"`
	Slug                string           `gorm:"size:255;unique;not null" json:"slug"`
	Code                string           `gorm:"size:100;unique;not null" json:"code"`
	UnitKind            enum.UnitKind    `gorm:"default:0" json:"unit_kind"`
	BasePrice           decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"base_price"` // per litre / kilogram
	SalePrice           decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"sale_price"` // per item, products without variants
	UnitLabel           string           `gorm:"size:50" json:"unit_label,omitempty"`
	Fat                 *decimal.Decimal `gorm:"type:decimal(5,2)" json:"fat,omitempty"`
	Stock               decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0" json:"stock"`
	TrackStock          bool             `gorm:"default:false" json:"track_stock"`
	LowStockAlert       decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0" json:"low_stock_alert"`
	CustomAmountAllowed bool             `gorm:"default:false" json:"custom_amount_allowed"`
	Notes               *string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	DeletedAt           gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// VariantLabels returns the package labels in display order
func (p *Product) VariantLabels() []string {
	labels := make([]string, len(p.Variants))
	for i, v := range p.Variants {
		labels[i] = v.Label
	}
	return labels
}

// FindVariant looks a variant up by label, ignoring spacing and case
// ("500ml" finds "500 mL")
func (p *Product) FindVariant(label string) *ProductVariant {
	want := strings.ToLower(pricing.Canonicalize(label))
	for i := range p.Variants {
		if strings.ToLower(p.Variants[i].Label) == want {
			return &p.Variants[i]
		}
	}
	return nil
}

// IsLowStock reports whether a tracked product is below its alert level
func (p *Product) IsLowStock(defaultAlert decimal.Decimal) bool {
	if !p.TrackStock {
		return false
	}
	alert := p.LowStockAlert
	if alert.IsZero() {
		alert = defaultAlert
	}
	return p.Stock.LessThan(alert)
}

// ProductVariant is a package size of a product with its (possibly overridden) price
type ProductVariant struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_variant_label" json:"product_id"`
	Label     string          `gorm:"size:50;not null;uniqueIndex:idx_product_variant_label" json:"label"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Position  int             `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new variant
func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductVariant model
func (ProductVariant) TableName() string {
	return "product_variants"
}

// Category groups products on the POS screen
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
