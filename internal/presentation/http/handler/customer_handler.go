package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/dairy-pos/pkg/pagination"
	"github.com/sangkips/dairy-pos/pkg/utils"
)

// CustomerHandler handles customer accounts and their ledger
type CustomerHandler struct {
	customerService *service.CustomerService
	deliveryService *service.DeliveryService
	paymentService  *service.PaymentService
	reportService   *service.ReportService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(
	customerService *service.CustomerService,
	deliveryService *service.DeliveryService,
	paymentService *service.PaymentService,
	reportService *service.ReportService,
) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		deliveryService: deliveryService,
		paymentService:  paymentService,
		reportService:   reportService,
	}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	params := pagination.FromQuery(c.Query("page"), c.Query("per_page"), pagination.DefaultPerPage)

	result, err := h.customerService.ListCustomers(c.Request.Context(), params, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Customers retrieved successfully", result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:             req.Name,
		Mobile:           req.Mobile,
		Address:          req.Address,
		DefaultQty:       req.DefaultQty,
		OpeningBalance:   req.OpeningBalance,
		Notes:            req.Notes,
		LinkedProductIDs: req.LinkedProductIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	var req request.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		ID:               id,
		Name:             req.Name,
		Mobile:           req.Mobile,
		Address:          req.Address,
		DefaultQty:       req.DefaultQty,
		OpeningBalance:   req.OpeningBalance,
		Notes:            req.Notes,
		LinkedProductIDs: req.LinkedProductIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Statement returns the customer's ledger with running balances
func (h *CustomerHandler) Statement(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	statement, err := h.customerService.GetStatement(c.Request.Context(), id, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Statement retrieved successfully", statement)
}

// ExportStatement downloads the statement as xlsx
func (h *CustomerHandler) ExportStatement(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	data, filename, err := h.reportService.ExportStatementXLSX(c.Request.Context(), id, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.XLSX(c, filename, data)
}

// Summary returns a month's deliveries and totals when ?month= is given,
// otherwise the customer's lifetime figures
func (h *CustomerHandler) Summary(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	month := c.Query("month")
	if month == "" {
		summary, err := h.customerService.GetLifetimeSummary(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Customer summary retrieved successfully", summary)
		return
	}

	year, m, err := utils.ParseMonth(month)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	summary, err := h.deliveryService.MonthlySummary(c.Request.Context(), id, year, m)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Monthly summary retrieved successfully", summary)
}

// InvoiceMonth posts the month's milk invoice to the customer's ledger
func (h *CustomerHandler) InvoiceMonth(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	var req request.MonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	year, month, err := utils.ParseMonth(req.Month)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, created, err := h.deliveryService.InvoiceMonth(c.Request.Context(), id, year, month)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !created {
		response.OK(c, "Month already invoiced", entry)
		return
	}
	response.Created(c, "Monthly invoice posted", entry)
}

// RecordPayment posts a payment, or a manual charge when adjustment is set
func (h *CustomerHandler) RecordPayment(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	date, err := optionalDatePtr(req.Date)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input := &service.EntryInput{
		CustomerID: id,
		Amount:     req.Amount,
		Date:       date,
		Notes:      req.Notes,
	}
	if req.PaymentMode != "" {
		mode, ok := enum.ParsePaymentMode(req.PaymentMode)
		if !ok {
			response.BadRequest(c, "Invalid payment mode")
			return
		}
		input.PaymentMode = mode
	}

	ctx := c.Request.Context()
	if req.Adjustment {
		entry, err := h.paymentService.RecordAdjustment(ctx, input)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, "Charge recorded successfully", entry)
		return
	}

	entry, err := h.paymentService.RecordPayment(ctx, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment recorded successfully", entry)
}

// Entries lists the customer's ledger entries
func (h *CustomerHandler) Entries(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	entries, err := h.paymentService.ListEntries(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger entries retrieved successfully", entries)
}

// DeleteEntry removes a payment or manual charge
func (h *CustomerHandler) DeleteEntry(c *gin.Context) {
	id, ok := uuidParam(c, "id", "ledger entry")
	if !ok {
		return
	}

	if err := h.paymentService.DeleteEntry(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
