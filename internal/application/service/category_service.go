package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/apperror"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/sangkips/dairy-pos/pkg/utils"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, productRepo: productRepo}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	slug := utils.Slugify(name)

	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category with this name already exists")
	}

	category := &entity.Category{
		Name: name,
		Slug: slug,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategories lists categories
func (s *CategoryService) ListCategories(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Category], error) {
	params.Validate()
	categories, total, err := s.categoryRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	return pagination.Paginate(categories, params, total), nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}

	newSlug := utils.Slugify(name)
	if newSlug != category.Slug {
		existing, err := s.categoryRepo.GetBySlug(ctx, newSlug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != category.ID {
			return nil, apperror.NewConflictError("Category with this name already exists")
		}
		category.Slug = newSlug
	}

	category.Name = name

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory deletes a category that has no products
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}

	_, inUse, err := s.productRepo.List(ctx, &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1},
		CategoryID: &id,
	})
	if err != nil {
		return err
	}
	if inUse > 0 {
		return apperror.NewConflictError("Category still has products")
	}

	return s.categoryRepo.Delete(ctx, id)
}
