package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillItemRequest is one cart line
type BillItemRequest struct {
	ProductID    uuid.UUID        `json:"product_id" binding:"required"`
	VariantLabel string           `json:"variant_label" binding:"omitempty,max=50"`
	Price        *decimal.Decimal `json:"price"` // custom amount
	Quantity     int              `json:"quantity" binding:"required,min=1"`
}

// CreateBillRequest represents a POS checkout
type CreateBillRequest struct {
	CustomerID  *uuid.UUID        `json:"customer_id"`
	PaymentMode string            `json:"payment_mode"`
	Pay         *decimal.Decimal  `json:"pay"`
	Date        *string           `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Items       []BillItemRequest `json:"items" binding:"required,min=1,dive"`
}

// BillFilterRequest represents transaction list filters
type BillFilterRequest struct {
	Search      string `form:"search"`
	CustomerID  string `form:"customer_id" binding:"omitempty,uuid"`
	PaymentMode string `form:"payment_mode"`
	From        string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page"`
	PerPage     int    `form:"per_page"`
}
