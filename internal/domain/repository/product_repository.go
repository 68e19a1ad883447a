package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	// Create inserts the product together with its variants
	Create(ctx context.Context, product *entity.Product) error
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// Update saves product columns only; variants are written with ReplaceVariants
	Update(ctx context.Context, product *entity.Product) error
	// UpdateWithVariants saves product columns and swaps its variant set in
	// one transaction
	UpdateWithVariants(ctx context.Context, product *entity.Product, variants []entity.ProductVariant) error
	// ReplaceVariants swaps the product's variant set in one transaction
	ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []entity.ProductVariant) error
	UpdateVariantPrice(ctx context.Context, variantID uuid.UUID, price decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListAll(ctx context.Context) ([]entity.Product, error)
	// GetLowStock returns tracked products below their alert level,
	// using defaultAlert where a product has none set
	GetLowStock(ctx context.Context, defaultAlert decimal.Decimal) ([]entity.Product, error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	UnitKind   *enum.UnitKind
	SortBy     string
	SortOrder  string
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error)
}
