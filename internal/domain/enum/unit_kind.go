package enum

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// UnitKind represents how a product is measured and priced
type UnitKind int

const (
	// UnitKindVolume is priced per litre, packaged in mL or L
	UnitKindVolume UnitKind = 0
	// UnitKindWeight is priced per kilogram, packaged in g or Kg
	UnitKindWeight UnitKind = 1
	// UnitKindCount is priced per item with no proportional scaling
	UnitKindCount UnitKind = 2
)

func (k UnitKind) String() string {
	names := [...]string{"Volume", "Weight", "Count"}
	if int(k) < 0 || int(k) >= len(names) {
		return "Count"
	}
	return names[k]
}

// CanonicalUnit returns the unit the base price is quoted in
func (k UnitKind) CanonicalUnit() string {
	switch k {
	case UnitKindVolume:
		return "L"
	case UnitKindWeight:
		return "Kg"
	default:
		return ""
	}
}

// Subunit returns the smaller package unit, 1000 per canonical unit
func (k UnitKind) Subunit() string {
	switch k {
	case UnitKindVolume:
		return "mL"
	case UnitKindWeight:
		return "g"
	default:
		return ""
	}
}

// IsProportional reports whether package prices scale with magnitude
func (k UnitKind) IsProportional() bool {
	return k == UnitKindVolume || k == UnitKindWeight
}

// ParseUnitKind accepts the kind name or a common unit word ("litre", "kg")
func ParseUnitKind(s string) (UnitKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "volume", "l", "liter", "litre", "ltr", "ml":
		return UnitKindVolume, true
	case "weight", "kg", "kilogram", "g", "gram":
		return UnitKindWeight, true
	case "count", "unit", "piece", "pcs", "pack":
		return UnitKindCount, true
	}
	return UnitKindCount, false
}

func (k UnitKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *UnitKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = UnitKind(i)
		return nil
	}
	if parsed, ok := ParseUnitKind(str); ok {
		*k = parsed
	}
	return nil
}

func (k UnitKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *UnitKind) Scan(value interface{}) error {
	if value == nil {
		*k = UnitKindVolume
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = UnitKind(v)
	case int:
		*k = UnitKind(v)
	}
	return nil
}
