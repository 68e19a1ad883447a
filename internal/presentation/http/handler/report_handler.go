package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/response"
)

// ReportHandler serves sales reports and exports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Sales returns totals and per-day figures for a window
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	summary, err := h.reportService.SalesSummary(c.Request.Context(), from, to, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report retrieved successfully", summary)
}

// ExportSales downloads the sales report as xlsx
func (h *ReportHandler) ExportSales(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	data, filename, err := h.reportService.ExportSalesXLSX(c.Request.Context(), from, to, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.XLSX(c, filename, data)
}

// Today returns today's takings by payment mode
func (h *ReportHandler) Today(c *gin.Context) {
	totals, err := h.reportService.TodayStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Today's sales retrieved successfully", totals)
}
