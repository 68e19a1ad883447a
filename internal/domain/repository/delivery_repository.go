package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
)

// DeliveryRepository defines the interface for delivery log operations
type DeliveryRepository interface {
	// Upsert inserts the delivery or overwrites the one logged for the same
	// customer, product and date
	Upsert(ctx context.Context, delivery *entity.Delivery) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Delivery, error)
	Find(ctx context.Context, customerID, productID uuid.UUID, date time.Time) (*entity.Delivery, error)
	Update(ctx context.Context, delivery *entity.Delivery) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *DeliveryFilterParams) ([]entity.Delivery, error)
}

// DeliveryFilterParams filters delivery logs; zero values are ignored
type DeliveryFilterParams struct {
	CustomerID *uuid.UUID
	ProductID  *uuid.UUID
	From       *time.Time
	To         *time.Time
}
