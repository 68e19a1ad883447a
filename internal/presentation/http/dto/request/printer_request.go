package request

// PrintReceiptRequest is the request body for printing a bill or a statement.
type PrintReceiptRequest struct {
	Type string  `json:"type" binding:"required,oneof=bill statement"`
	ID   string  `json:"id" binding:"required,uuid"`
	From *string `json:"from" binding:"omitempty,datetime=2006-01-02"` // statement window
	To   *string `json:"to" binding:"omitempty,datetime=2006-01-02"`
}
