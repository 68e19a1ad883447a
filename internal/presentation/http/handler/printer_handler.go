package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test page to the printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	receipt, err := h.printerService.TestPrint(c.Request.Context())
	if err != nil {
		// the receipt is still useful as a preview when no printer is attached
		response.OK(c, "Test print completed (printer may be disabled)", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Test page sent to printer", gin.H{
		"receipt": receipt,
	})
}

// PrintReceipt prints a bill receipt or a customer statement.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		response.BadRequest(c, "Invalid ID format")
		return
	}

	ctx := c.Request.Context()

	var (
		doc any
		msg string
	)
	switch req.Type {
	case "bill":
		receipt, perr := h.printerService.PrintBill(ctx, id)
		if receipt != nil {
			doc = receipt
		}
		err, msg = perr, "Bill receipt printed successfully"

	case "statement":
		from, ferr := optionalDatePtr(req.From)
		to, terr := optionalDatePtr(req.To)
		if ferr != nil || terr != nil {
			response.BadRequest(c, "Invalid statement dates, use YYYY-MM-DD")
			return
		}
		statement, perr := h.printerService.PrintStatement(ctx, id, from, to)
		if statement != nil {
			doc = statement
		}
		err, msg = perr, "Statement printed successfully"
	}

	if err != nil {
		// built but not printed: hand the document back with a warning
		if doc != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": doc,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, msg, gin.H{
		"receipt": doc,
	})
}
