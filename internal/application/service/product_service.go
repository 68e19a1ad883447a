package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/pricing"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/apperror"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog operations and variant pricing
type ProductService struct {
	productRepo       repository.ProductRepository
	categoryRepo      repository.CategoryRepository
	lowStockThreshold decimal.Decimal
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	lowStockThreshold decimal.Decimal,
) *ProductService {
	return &ProductService{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		lowStockThreshold: lowStockThreshold,
	}
}

// VariantInput is a package label with an optional manual price
type VariantInput struct {
	Label string
	Price *decimal.Decimal
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	CategoryID          *uuid.UUID
	Name                string
	Code                string
	UnitKind            enum.UnitKind
	BasePrice           decimal.Decimal
	SalePrice           decimal.Decimal
	UnitLabel           string
	Fat                 *decimal.Decimal
	Stock               decimal.Decimal
	TrackStock          bool
	LowStockAlert       decimal.Decimal
	CustomAmountAllowed bool
	Notes               *string
	Variants            []VariantInput
}

// buildVariants canonicalises labels and prices them from base, honouring overrides
func buildVariants(base decimal.Decimal, kind enum.UnitKind, inputs []VariantInput) ([]entity.ProductVariant, error) {
	variants := make([]entity.ProductVariant, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		label := pricing.Canonicalize(in.Label)
		if label == "" {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Variant %d has an empty label", i+1))
		}
		key := strings.ToLower(label)
		if seen[key] {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Duplicate variant label '%s'", label))
		}
		seen[key] = true

		price := pricing.PriceForLabel(base, kind, label)
		if in.Price != nil {
			price = in.Price.Round(2)
		}
		variants = append(variants, entity.ProductVariant{Label: label, Price: price, Position: i})
	}
	return variants, nil
}

// recomputedVariants reprices the product's existing labels from its current base price
func recomputedVariants(p *entity.Product) []entity.ProductVariant {
	priced := pricing.RecomputeAll(p.BasePrice, p.UnitKind, p.VariantLabels())
	variants := make([]entity.ProductVariant, len(priced))
	for i, v := range priced {
		variants[i] = entity.ProductVariant{Label: v.Label, Price: v.Price, Position: i}
	}
	return variants
}

// CreateProduct creates a new product with its package variants
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	// Auto-generate code if not provided
	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existingProduct, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	slug := utils.Slugify(input.Name)
	existingProduct, err = s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existingProduct != nil {
		return nil, apperror.NewConflictError("Product with this name already exists")
	}

	variants, err := buildVariants(input.BasePrice, input.UnitKind, input.Variants)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		CategoryID:          input.CategoryID,
		Name:                input.Name,
		Slug:                slug,
		Code:                code,
		UnitKind:            input.UnitKind,
		BasePrice:           input.BasePrice,
		SalePrice:           input.SalePrice,
		UnitLabel:           input.UnitLabel,
		Fat:                 input.Fat,
		Stock:               input.Stock,
		TrackStock:          input.TrackStock,
		LowStockAlert:       input.LowStockAlert,
		CustomAmountAllowed: input.CustomAmountAllowed,
		Notes:               input.Notes,
		Variants:            variants,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by slug
func (s *ProductService) GetProduct(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	return pagination.Paginate(products, params.Pagination, total), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ProductSlug         string
	CategoryID          *uuid.UUID
	Name                *string
	Code                *string
	UnitKind            *enum.UnitKind
	BasePrice           *decimal.Decimal
	SalePrice           *decimal.Decimal
	UnitLabel           *string
	Fat                 *decimal.Decimal
	Stock               *decimal.Decimal
	TrackStock          *bool
	LowStockAlert       *decimal.Decimal
	CustomAmountAllowed *bool
	Notes               *string
	Variants            *[]VariantInput // nil keeps the current set
}

// UpdateProduct patches a product. A change of base price or unit kind
// reprices every variant from the new base, discarding manual overrides;
// overrides sent in the same request are applied on top.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, input.ProductSlug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	// Check if new code is unique
	if input.Code != nil && *input.Code != product.Code {
		existingProduct, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existingProduct != nil && existingProduct.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = *input.Code
	}

	if input.Name != nil && *input.Name != product.Name {
		slug := utils.Slugify(*input.Name)
		existingProduct, err := s.productRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existingProduct != nil && existingProduct.ID != product.ID {
			return nil, apperror.NewConflictError("Product with this name already exists")
		}
		product.Name = *input.Name
		product.Slug = slug
	}

	repriced := false
	if input.BasePrice != nil && !input.BasePrice.Equal(product.BasePrice) {
		product.BasePrice = *input.BasePrice
		repriced = true
	}
	if input.UnitKind != nil && *input.UnitKind != product.UnitKind {
		product.UnitKind = *input.UnitKind
		repriced = true
	}

	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.SalePrice != nil {
		product.SalePrice = *input.SalePrice
	}
	if input.UnitLabel != nil {
		product.UnitLabel = *input.UnitLabel
	}
	if input.Fat != nil {
		product.Fat = input.Fat
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.TrackStock != nil {
		product.TrackStock = *input.TrackStock
	}
	if input.LowStockAlert != nil {
		product.LowStockAlert = *input.LowStockAlert
	}
	if input.CustomAmountAllowed != nil {
		product.CustomAmountAllowed = *input.CustomAmountAllowed
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	var variants []entity.ProductVariant
	replaceVariants := false
	switch {
	case input.Variants != nil:
		variants, err = buildVariants(product.BasePrice, product.UnitKind, *input.Variants)
		if err != nil {
			return nil, err
		}
		replaceVariants = true
	case repriced:
		variants = recomputedVariants(product)
		replaceVariants = true
	}

	if replaceVariants {
		// a new base price and the prices derived from it land together
		if err := s.productRepo.UpdateWithVariants(ctx, product, variants); err != nil {
			return nil, fmt.Errorf("update product with variants: %w", err)
		}
	} else if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(ctx, product.ID)
}

// RecomputePrices resets every variant of the product to its derived price
func (s *ProductService) RecomputePrices(ctx context.Context, slug string) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.ReplaceVariants(ctx, product.ID, recomputedVariants(product)); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// RecomputeAllPrices reprices every product's variants and returns how many products were touched
func (s *ProductService) RecomputeAllPrices(ctx context.Context) (int, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range products {
		if len(products[i].Variants) == 0 {
			continue
		}
		if err := s.productRepo.ReplaceVariants(ctx, products[i].ID, recomputedVariants(&products[i])); err != nil {
			return n, fmt.Errorf("recompute %s: %w", products[i].Slug, err)
		}
		n++
	}
	return n, nil
}

// SetVariantPrice overrides the price of one package variant
func (s *ProductService) SetVariantPrice(ctx context.Context, slug, label string, price decimal.Decimal) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	variant := product.FindVariant(label)
	if variant == nil {
		return nil, apperror.NewNotFoundError("Variant")
	}
	if err := s.productRepo.UpdateVariantPrice(ctx, variant.ID, price.Round(2)); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

// Quote is the POS preview of a package label or a custom amount
type Quote struct {
	Label   string          `json:"label"`
	Price   decimal.Decimal `json:"price"`
	Variant bool            `json:"variant"` // a stored variant matched the label
}

// QuoteVariant prices a label, or infers the label a custom price buys
func (s *ProductService) QuoteVariant(ctx context.Context, slug string, label *string, price *decimal.Decimal) (*Quote, error) {
	product, err := s.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}

	switch {
	case label != nil && *label != "":
		if v := product.FindVariant(*label); v != nil {
			return &Quote{Label: v.Label, Price: v.Price, Variant: true}, nil
		}
		return &Quote{
			Label: pricing.Canonicalize(*label),
			Price: pricing.PriceForLabel(product.BasePrice, product.UnitKind, *label),
		}, nil
	case price != nil:
		return &Quote{
			Label: pricing.InferLabelForPrice(product.BasePrice, product.UnitKind, *price),
			Price: price.Round(2),
		}, nil
	default:
		return nil, apperror.NewBadRequestError("Either label or price is required")
	}
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, slug string) error {
	product, err := s.GetProduct(ctx, slug)
	if err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, product.ID)
}

// GetLowStockProducts returns tracked products below their alert level
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx, s.lowStockThreshold)
}

// ImportProductRow represents a single row from the import sheet
type ImportProductRow struct {
	Name         string
	Code         string
	CategoryName string
	UnitKind     string
	BasePrice    decimal.Decimal
	SalePrice    decimal.Decimal
	UnitLabel    string
	Variants     []string
	Stock        decimal.Decimal
	TrackStock   bool
	Notes        string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates and bulk-creates products from parsed import rows
func (s *ProductService) ImportProducts(ctx context.Context, rows []ImportProductRow) (*ImportResult, error) {
	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError

	categoryMap := make(map[string]*uuid.UUID)
	categories, _, err := s.categoryRepo.List(ctx, &pagination.PaginationParams{Page: 1, PerPage: 100}, "")
	if err != nil {
		return nil, err
	}
	for i := range categories {
		categoryMap[strings.ToLower(categories[i].Name)] = &categories[i].ID
	}

	seenCodes := make(map[string]int)
	seenSlugs := make(map[string]int)

	var validProducts []entity.Product

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header

		name := strings.TrimSpace(row.Name)
		if name == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}

		kind := enum.UnitKindVolume
		if row.UnitKind != "" {
			k, ok := enum.ParseUnitKind(row.UnitKind)
			if !ok {
				rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "unit_kind", Message: fmt.Sprintf("Unknown unit kind '%s'", row.UnitKind)})
				continue
			}
			kind = k
		}

		code := strings.TrimSpace(row.Code)
		if code == "" {
			code = utils.GenerateProductCode()
		}
		if prevRow, exists := seenCodes[code]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Duplicate code '%s' (same as row %d)", code, prevRow),
			})
			continue
		}

		existingProduct, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "code", Message: "Error checking code: " + err.Error()})
			continue
		}
		if existingProduct != nil {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Product code '%s' already exists", code),
			})
			continue
		}

		slug := utils.Slugify(name)
		if prevRow, exists := seenSlugs[slug]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "name",
				Message: fmt.Sprintf("Duplicate name '%s' (same as row %d)", name, prevRow),
			})
			continue
		}
		existingProduct, err = s.productRepo.GetBySlug(ctx, slug)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Error checking name: " + err.Error()})
			continue
		}
		if existingProduct != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: fmt.Sprintf("Product '%s' already exists", name)})
			continue
		}

		inputs := make([]VariantInput, len(row.Variants))
		for j, l := range row.Variants {
			inputs[j] = VariantInput{Label: l}
		}
		variants, err := buildVariants(row.BasePrice, kind, inputs)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "variants", Message: err.Error()})
			continue
		}

		seenCodes[code] = rowNum
		seenSlugs[slug] = rowNum

		var categoryID *uuid.UUID
		if row.CategoryName != "" {
			if id, ok := categoryMap[strings.ToLower(strings.TrimSpace(row.CategoryName))]; ok {
				categoryID = id
			}
		}

		product := entity.Product{
			CategoryID: categoryID,
			Name:       name,
			Slug:       slug,
			Code:       code,
			UnitKind:   kind,
			BasePrice:  row.BasePrice,
			SalePrice:  row.SalePrice,
			UnitLabel:  row.UnitLabel,
			Stock:      row.Stock,
			TrackStock: row.TrackStock,
			Variants:   variants,
		}
		if row.Notes != "" {
			notes := row.Notes
			product.Notes = &notes
		}

		validProducts = append(validProducts, product)
	}

	if len(validProducts) > 0 {
		if err := s.productRepo.CreateBatch(ctx, validProducts); err != nil {
			return nil, apperror.NewInternalError("Failed to import products", err)
		}
	}

	result.Successful = len(validProducts)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors

	return result, nil
}
