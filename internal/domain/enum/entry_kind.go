package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// EntryKind represents the direction of a ledger entry
type EntryKind int

const (
	// EntryKindInvoice increases what the customer owes (debit)
	EntryKindInvoice EntryKind = 0
	// EntryKindPayment decreases what the customer owes (credit)
	EntryKindPayment EntryKind = 1
)

func (k EntryKind) String() string {
	names := [...]string{"Invoice", "Payment"}
	if int(k) < 0 || int(k) >= len(names) {
		return "Invoice"
	}
	return names[k]
}

func (k EntryKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *EntryKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = EntryKind(i)
		return nil
	}
	switch str {
	case "Invoice", "invoice":
		*k = EntryKindInvoice
	case "Payment", "payment":
		*k = EntryKindPayment
	}
	return nil
}

func (k EntryKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *EntryKind) Scan(value interface{}) error {
	if value == nil {
		*k = EntryKindInvoice
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = EntryKind(v)
	case int:
		*k = EntryKind(v)
	}
	return nil
}
