package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// PaymentMode represents how a bill or payment was settled
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "Cash"
	PaymentModeOnline PaymentMode = "Online"
	// PaymentModeCredit leaves the bill amount on the customer's ledger
	PaymentModeCredit PaymentMode = "Credit"
)

func (m PaymentMode) String() string {
	return string(m)
}

// IsValid reports whether m is one of the known modes
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeOnline, PaymentModeCredit:
		return true
	}
	return false
}

// ParsePaymentMode normalises case ("cash" -> Cash)
func ParsePaymentMode(s string) (PaymentMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return PaymentModeCash, true
	case "online", "upi", "card":
		return PaymentModeOnline, true
	case "credit":
		return PaymentModeCredit, true
	}
	return "", false
}

func (m PaymentMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if parsed, ok := ParsePaymentMode(str); ok {
		*m = parsed
		return nil
	}
	*m = PaymentMode(str)
	return nil
}

func (m PaymentMode) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMode) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentModeCash
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentMode(v)
	case []byte:
		*m = PaymentMode(string(v))
	}
	return nil
}
