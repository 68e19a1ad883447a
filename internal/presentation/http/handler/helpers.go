package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/dairy-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// uuidParam parses a path parameter, answering 400 when it is malformed
func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// optionalDate parses a YYYY-MM-DD value; an empty string is no date
func optionalDate(s string) (*time.Time, error) {
	return utils.ParseOptionalDate(s)
}

// optionalDatePtr is optionalDate for JSON fields
func optionalDatePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	return utils.ParseOptionalDate(*s)
}

// dateRange reads the from/to query window
func dateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	var err error
	if from, err = optionalDate(c.Query("from")); err != nil {
		response.BadRequest(c, "Invalid from date, use YYYY-MM-DD")
		return nil, nil, false
	}
	if to, err = optionalDate(c.Query("to")); err != nil {
		response.BadRequest(c, "Invalid to date, use YYYY-MM-DD")
		return nil, nil, false
	}
	return from, to, true
}

// optionalDecimal parses a query value; an empty string is no value
func optionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
