package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
)

// LedgerRepository defines the interface for customer ledger entries
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error)
	GetByReference(ctx context.Context, reference string) (*entity.LedgerEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByCustomer returns all entries for a customer in no particular order
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.LedgerEntry, error)
	// ListAll returns every entry, for shop-wide balance figures
	ListAll(ctx context.Context) ([]entity.LedgerEntry, error)
}
