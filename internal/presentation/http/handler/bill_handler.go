package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/dairy-pos/pkg/pagination"
)

// BillHandler handles POS checkout and transaction history
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Create handles a checkout
func (h *BillHandler) Create(c *gin.Context) {
	var req request.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date, err := optionalDatePtr(req.Date)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input := &service.CheckoutInput{
		CustomerID: req.CustomerID,
		Pay:        req.Pay,
		Date:       date,
		Items:      make([]service.CheckoutItemInput, len(req.Items)),
	}
	if req.PaymentMode != "" {
		mode, ok := enum.ParsePaymentMode(req.PaymentMode)
		if !ok {
			response.BadRequest(c, "Invalid payment mode. Use Cash, Online or Credit")
			return
		}
		input.PaymentMode = mode
	}
	for i, item := range req.Items {
		input.Items[i] = service.CheckoutItemInput{
			ProductID:    item.ProductID,
			VariantLabel: item.VariantLabel,
			Price:        item.Price,
			Quantity:     item.Quantity,
		}
	}

	bill, err := h.billService.Checkout(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// List handles the transaction history
func (h *BillHandler) List(c *gin.Context) {
	var filter request.BillFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search: filter.Search,
	}
	if filter.CustomerID != "" {
		if id, err := uuid.Parse(filter.CustomerID); err == nil {
			params.CustomerID = &id
		}
	}
	if filter.PaymentMode != "" {
		mode, ok := enum.ParsePaymentMode(filter.PaymentMode)
		if !ok {
			response.BadRequest(c, "Invalid payment mode")
			return
		}
		params.PaymentMode = &mode
	}

	var err error
	if params.From, err = optionalDate(filter.From); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if params.To, err = optionalDate(filter.To); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.billService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Bills retrieved successfully", result)
}

// Get handles getting a single bill
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "bill")
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// Delete voids a bill
func (h *BillHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "bill")
	if !ok {
		return
	}

	if err := h.billService.DeleteBill(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
