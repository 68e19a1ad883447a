package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/dairy-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *gorm.DB) domainRepo.DeliveryRepository {
	return &deliveryRepository{db: db}
}

// Upsert uses: INSERT ... ON CONFLICT (customer_id, product_id, date) DO UPDATE
func (r *deliveryRepository) Upsert(ctx context.Context, delivery *entity.Delivery) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"liters", "grams", "total_qty", "unit_price", "amount", "notes", "updated_at",
		}),
	}).Create(delivery).Error
}

func (r *deliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Delivery, error) {
	var delivery entity.Delivery
	err := r.db.WithContext(ctx).
		Preload("Product").
		First(&delivery, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &delivery, err
}

func (r *deliveryRepository) Find(ctx context.Context, customerID, productID uuid.UUID, date time.Time) (*entity.Delivery, error) {
	var delivery entity.Delivery
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ? AND date = ?", customerID, productID, date).
		First(&delivery).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &delivery, err
}

func (r *deliveryRepository) Update(ctx context.Context, delivery *entity.Delivery) error {
	return r.db.WithContext(ctx).Omit("Customer", "Product").Save(delivery).Error
}

func (r *deliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Delivery{}, "id = ?", id).Error
}

func (r *deliveryRepository) List(ctx context.Context, params *domainRepo.DeliveryFilterParams) ([]entity.Delivery, error) {
	var deliveries []entity.Delivery

	query := r.db.WithContext(ctx).Model(&entity.Delivery{}).
		Scopes(DateBetween("date", params.From, params.To))

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.ProductID != nil {
		query = query.Where("product_id = ?", *params.ProductID)
	}

	err := query.Preload("Product").Preload("Customer").
		Order("date ASC, created_at ASC").
		Find(&deliveries).Error
	return deliveries, err
}
