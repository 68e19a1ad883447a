package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name             string          `json:"name" binding:"required,min=2,max=255"`
	Mobile           *string         `json:"mobile" binding:"omitempty,min=6,max=20"`
	Address          *string         `json:"address"`
	DefaultQty       decimal.Decimal `json:"default_qty"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	Notes            *string         `json:"notes"`
	LinkedProductIDs []uuid.UUID     `json:"linked_product_ids"`
}

// UpdateCustomerRequest represents a customer update request
type UpdateCustomerRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Mobile           *string          `json:"mobile" binding:"omitempty,min=6,max=20"`
	Address          *string          `json:"address"`
	DefaultQty       *decimal.Decimal `json:"default_qty"`
	OpeningBalance   *decimal.Decimal `json:"opening_balance"`
	Notes            *string          `json:"notes"`
	LinkedProductIDs *[]uuid.UUID     `json:"linked_product_ids"`
}

// DateRangeRequest is the optional from/to window used by statements and reports
type DateRangeRequest struct {
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Search string `form:"search"`
}

// MonthRequest names a calendar month
type MonthRequest struct {
	Month string `json:"month" form:"month" binding:"required,datetime=2006-01"`
}

// PaymentRequest records a payment or a manual charge against a customer
type PaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        *string         `json:"date" binding:"omitempty,datetime=2006-01-02"`
	PaymentMode string          `json:"payment_mode" binding:"omitempty,oneof=Cash Online cash online"`
	Notes       *string         `json:"notes" binding:"omitempty,max=500"`
	Adjustment  bool            `json:"adjustment"` // post as a charge instead of a payment
}
