package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	// GetByID loads the customer with linked products
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByMobile(ctx context.Context, mobile string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// ReplaceLinkedProducts sets the customer's linked products to exactly products
	ReplaceLinkedProducts(ctx context.Context, customer *entity.Customer, products []entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns customers matching search on name or mobile
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// ListAll returns every customer with linked products, ordered by name
	ListAll(ctx context.Context) ([]entity.Customer, error)
	Count(ctx context.Context) (int64, error)
	// CountActiveSince counts customers with a delivery or bill on or after since
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)
}
