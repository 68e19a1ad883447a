package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/dairy-pos/internal/domain/repository"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *ledgerRepository) GetByReference(ctx context.Context, reference string) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := r.db.WithContext(ctx).First(&entry, "reference = ?", reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *ledgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.LedgerEntry{}, "id = ?", id).Error
}

func (r *ledgerRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) ListAll(ctx context.Context) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := r.db.WithContext(ctx).Find(&entries).Error
	return entries, err
}
