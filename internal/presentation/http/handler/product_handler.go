package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/dairy-pos/pkg/pagination"
)

// maxImportSize caps uploaded product sheets
const maxImportSize = 5 << 20

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func variantInputs(in []request.VariantRequest) []service.VariantInput {
	out := make([]service.VariantInput, len(in))
	for i, v := range in {
		out[i] = service.VariantInput{Label: v.Label, Price: v.Price}
	}
	return out
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.CategoryID != "" {
		catID, err := uuid.Parse(filter.CategoryID)
		if err == nil {
			params.CategoryID = &catID
		}
	}

	if filter.UnitKind != "" {
		kind, ok := enum.ParseUnitKind(filter.UnitKind)
		if !ok {
			response.BadRequest(c, "Invalid unit kind")
			return
		}
		params.UnitKind = &kind
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		CategoryID:          req.CategoryID,
		Name:                req.Name,
		Code:                req.Code,
		UnitKind:            req.UnitKind,
		BasePrice:           req.BasePrice,
		SalePrice:           req.SalePrice,
		UnitLabel:           req.UnitLabel,
		Fat:                 req.Fat,
		Stock:               req.Stock,
		TrackStock:          req.TrackStock,
		LowStockAlert:       req.LowStockAlert,
		CustomAmountAllowed: req.CustomAmountAllowed,
		Notes:               req.Notes,
		Variants:            variantInputs(req.Variants),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateProductInput{
		ProductSlug:         c.Param("slug"),
		CategoryID:          req.CategoryID,
		Name:                req.Name,
		Code:                req.Code,
		UnitKind:            req.UnitKind,
		BasePrice:           req.BasePrice,
		SalePrice:           req.SalePrice,
		UnitLabel:           req.UnitLabel,
		Fat:                 req.Fat,
		Stock:               req.Stock,
		TrackStock:          req.TrackStock,
		LowStockAlert:       req.LowStockAlert,
		CustomAmountAllowed: req.CustomAmountAllowed,
		Notes:               req.Notes,
	}
	if req.Variants != nil {
		variants := variantInputs(*req.Variants)
		input.Variants = &variants
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product by slug
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SetVariantPrice overrides the price of one package size
func (h *ProductHandler) SetVariantPrice(c *gin.Context) {
	var req request.VariantPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.SetVariantPrice(c.Request.Context(), c.Param("slug"), c.Param("label"), req.Price)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Variant price updated successfully", product)
}

// Recompute reprices every variant from the base price
func (h *ProductHandler) Recompute(c *gin.Context) {
	product, err := h.productService.RecomputePrices(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Variant prices recomputed", product)
}

// Quote prices a package label, or finds the label for a custom amount
func (h *ProductHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	price, err := optionalDecimal(req.Price)
	if err != nil {
		response.BadRequest(c, "Invalid price")
		return
	}
	var label *string
	if req.Label != "" {
		label = &req.Label
	}

	quote, err := h.productService.QuoteVariant(c.Request.Context(), c.Param("slug"), label, price)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quote calculated", quote)
}

// GetLowStock handles getting low stock products
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// Import creates products from an uploaded xlsx sheet
func (h *ProductHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "An xlsx file is required in the 'file' field")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer f.Close()

	rows, err := service.ParseProductSheet(f)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.productService.ImportProducts(c.Request.Context(), rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Imported "+strconv.Itoa(result.Successful)+" of "+strconv.Itoa(result.TotalRows)+" products", result)
}

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List handles listing categories
func (h *CategoryHandler) List(c *gin.Context) {
	params := pagination.FromQuery(c.Query("page"), c.Query("per_page"), 50)

	result, err := h.categoryService.ListCategories(c.Request.Context(), params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Categories retrieved successfully", result)
}

// Create handles creating a category
func (h *CategoryHandler) Create(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

// Update handles renaming a category
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id", "category")
	if !ok {
		return
	}

	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

// Delete handles deleting a category
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "category")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
