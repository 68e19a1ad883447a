package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LogDeliveryRequest records a day's milk for a customer
type LogDeliveryRequest struct {
	CustomerID uuid.UUID        `json:"customer_id" binding:"required"`
	ProductID  *uuid.UUID       `json:"product_id"`
	Date       *string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Liters     *decimal.Decimal `json:"liters"`
	Grams      *decimal.Decimal `json:"grams"` // millilitres or grams on top of the whole units
	Notes      *string          `json:"notes" binding:"omitempty,max=500"`
}

// UpdateDeliveryRequest changes the quantity of a logged delivery
type UpdateDeliveryRequest struct {
	Liters *decimal.Decimal `json:"liters"`
	Grams  *decimal.Decimal `json:"grams"`
	Notes  *string          `json:"notes" binding:"omitempty,max=500"`
}

// DeliveryFilterRequest filters the delivery log; month wins over date
type DeliveryFilterRequest struct {
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Date       string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	Month      string `form:"month" binding:"omitempty,datetime=2006-01"`
}

// DefaultDeliveriesRequest logs every customer's default quantity for a day
type DefaultDeliveriesRequest struct {
	Date *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}
