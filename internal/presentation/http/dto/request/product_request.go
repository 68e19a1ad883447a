package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// VariantRequest is one package size; a nil price derives it from the base price
type VariantRequest struct {
	Label string           `json:"label" binding:"required,max=50"`
	Price *decimal.Decimal `json:"price"`
}

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID          *uuid.UUID       `json:"category_id"`
	Name                string           `json:"name" binding:"required,min=2,max=255"`
	Code                string           `json:"code" binding:"omitempty,max=100"`
	UnitKind            enum.UnitKind    `json:"unit_kind"`
	BasePrice           decimal.Decimal  `json:"base_price"`
	SalePrice           decimal.Decimal  `json:"sale_price"`
	UnitLabel           string           `json:"unit_label" binding:"omitempty,max=50"`
	Fat                 *decimal.Decimal `json:"fat"`
	Stock               decimal.Decimal  `json:"stock"`
	TrackStock          bool             `json:"track_stock"`
	LowStockAlert       decimal.Decimal  `json:"low_stock_alert"`
	CustomAmountAllowed bool             `json:"custom_amount_allowed"`
	Notes               *string          `json:"notes"`
	Variants            []VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID          *uuid.UUID        `json:"category_id"`
	Name                *string           `json:"name" binding:"omitempty,min=2,max=255"`
	Code                *string           `json:"code" binding:"omitempty,min=1,max=100"`
	UnitKind            *enum.UnitKind    `json:"unit_kind"`
	BasePrice           *decimal.Decimal  `json:"base_price"`
	SalePrice           *decimal.Decimal  `json:"sale_price"`
	UnitLabel           *string           `json:"unit_label" binding:"omitempty,max=50"`
	Fat                 *decimal.Decimal  `json:"fat"`
	Stock               *decimal.Decimal  `json:"stock"`
	TrackStock          *bool             `json:"track_stock"`
	LowStockAlert       *decimal.Decimal  `json:"low_stock_alert"`
	CustomAmountAllowed *bool             `json:"custom_amount_allowed"`
	Notes               *string           `json:"notes"`
	Variants            *[]VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	UnitKind   string `form:"unit_kind"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// VariantPriceRequest overrides one variant's price
type VariantPriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// QuoteRequest asks for the price of a label or the label for a price
type QuoteRequest struct {
	Label string `form:"label" binding:"omitempty,max=50"`
	Price string `form:"price" binding:"omitempty,numeric"`
}

// CategoryRequest creates or renames a category
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}
