package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/dairy-pos/pkg/utils"
)

// DeliveryHandler handles the daily milk delivery log
type DeliveryHandler struct {
	deliveryService *service.DeliveryService
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// List returns deliveries for a day or month, optionally for one customer.
// With no filter it lists today's deliveries.
func (h *DeliveryHandler) List(c *gin.Context) {
	var filter request.DeliveryFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.DeliveryFilterParams{}
	if filter.CustomerID != "" {
		if id, err := uuid.Parse(filter.CustomerID); err == nil {
			params.CustomerID = &id
		}
	}

	switch {
	case filter.Month != "":
		year, month, err := utils.ParseMonth(filter.Month)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		first, last := utils.MonthRange(year, month)
		params.From, params.To = &first, &last
	case filter.Date != "":
		day, err := utils.ParseDate(filter.Date)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.From, params.To = &day, &day
	case params.CustomerID == nil:
		today := utils.Today()
		params.From, params.To = &today, &today
	}

	deliveries, err := h.deliveryService.ListDeliveries(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Deliveries retrieved successfully", deliveries)
}

// Create logs, or overwrites, a customer's delivery for a day
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req request.LogDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	date, err := optionalDatePtr(req.Date)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	delivery, err := h.deliveryService.LogDelivery(c.Request.Context(), &service.LogDeliveryInput{
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Date:       date,
		Liters:     req.Liters,
		Grams:      req.Grams,
		Notes:      req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Delivery logged successfully", delivery)
}

// Update changes a logged quantity
func (h *DeliveryHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id", "delivery")
	if !ok {
		return
	}

	var req request.UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	delivery, err := h.deliveryService.UpdateDelivery(c.Request.Context(), &service.UpdateDeliveryInput{
		ID:     id,
		Liters: req.Liters,
		Grams:  req.Grams,
		Notes:  req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Delivery updated successfully", delivery)
}

// Delete removes a delivery log
func (h *DeliveryHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "delivery")
	if !ok {
		return
	}

	if err := h.deliveryService.DeleteDelivery(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// LogDefaults logs every customer's default quantity for a day
func (h *DeliveryHandler) LogDefaults(c *gin.Context) {
	var req request.DefaultDeliveriesRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	date := utils.Today()
	if d, err := optionalDatePtr(req.Date); err != nil {
		response.BadRequest(c, err.Error())
		return
	} else if d != nil {
		date = *d
	}

	result, err := h.deliveryService.LogDefaultDeliveries(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Default deliveries logged", result)
}
