package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]")
	hyphenRuns   = regexp.MustCompile("-+")
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// ShortID returns the upper-cased first 8 hex digits of id
func ShortID(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateInvoiceNo returns e.g. INV-20260314-1A2B3C4D
func GenerateInvoiceNo(date time.Time) string {
	return "INV-" + date.Format("20060102") + "-" + ShortID(uuid.New())
}

// GenerateProductCode generates a unique product code
func GenerateProductCode() string {
	return "PROD-" + ShortID(uuid.New())
}

// MilkInvoiceReference is the ledger reference for a customer's monthly
// delivery invoice; one per customer and month.
func MilkInvoiceReference(customerID uuid.UUID, year int, month time.Month) string {
	return "MILK-" + time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01") + "-" + ShortID(customerID)
}
