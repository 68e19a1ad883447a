package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	domainRepo "github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func preloadVariants(db *gorm.DB) *gorm.DB {
	return db.Order("product_variants.position ASC")
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Variants", preloadVariants).
		First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Variants", preloadVariants).
		First(&product, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", preloadVariants).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Omit("Variants", "Category").Save(product).Error
}

func (r *productRepository) UpdateWithVariants(ctx context.Context, product *entity.Product, variants []entity.ProductVariant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variants", "Category").Save(product).Error; err != nil {
			return err
		}
		return replaceVariants(tx, product.ID, variants)
	})
}

func (r *productRepository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []entity.ProductVariant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceVariants(tx, productID, variants)
	})
}

func replaceVariants(tx *gorm.DB, productID uuid.UUID, variants []entity.ProductVariant) error {
	if err := tx.Where("product_id = ?", productID).Delete(&entity.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		variants[i].ProductID = productID
		variants[i].Position = i
	}
	return tx.Create(&variants).Error
}

func (r *productRepository) UpdateVariantPrice(ctx context.Context, variantID uuid.UUID, price decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&entity.ProductVariant{}).
		Where("id = ?", variantID).
		Update("price", price).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Scopes(Search(params.Search, "name", "code"))

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.UnitKind != nil {
		query = query.Where("unit_kind = ?", *params.UnitKind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params.Pagination)).
		Preload("Category").Preload("Variants", preloadVariants).
		Order(orderBy(params.SortBy, params.SortOrder, "created_at", "name", "base_price", "stock", "created_at")).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListAll(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Variants", preloadVariants).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetLowStock(ctx context.Context, defaultAlert decimal.Decimal) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("track_stock = ?", true).
		Where("stock < CASE WHEN low_stock_alert > 0 THEN low_stock_alert ELSE ? END", defaultAlert).
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

// decrementStock atomically decrements stock for multiple products inside tx.
// Products short of stock are returned; the caller decides whether to roll back.
// Uses: UPDATE products SET stock = stock - amount WHERE id = ? AND stock >= amount
func decrementStock(tx *gorm.DB, decrements map[uuid.UUID]decimal.Decimal) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID
	for id, amount := range decrements {
		result := tx.Model(&entity.Product{}).
			Where("id = ? AND track_stock = ? AND stock >= ?", id, true, amount).
			Update("stock", gorm.Expr("stock - ?", amount))

		if result.Error != nil {
			return nil, result.Error
		}

		if result.RowsAffected == 0 {
			failedIDs = append(failedIDs, id)
		}
	}
	return failedIDs, nil
}

// incrementStock restores stock for multiple products inside tx (for bill deletion)
func incrementStock(tx *gorm.DB, increments map[uuid.UUID]decimal.Decimal) error {
	for id, amount := range increments {
		if err := tx.Model(&entity.Product{}).
			Where("id = ? AND track_stock = ?", id, true).
			Update("stock", gorm.Expr("stock + ?", amount)).Error; err != nil {
			return err
		}
	}
	return nil
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) domainRepo.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	var category entity.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Category, int64, error) {
	var categories []entity.Category
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Category{}).Scopes(Search(search, "name"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).Order("name ASC").Find(&categories).Error

	return categories, total, err
}
