package pricing

import (
	"regexp"
	"strings"

	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Unit is the unit token of a package-size label
type Unit int

const (
	UnitUnknown Unit = iota
	Millilitre
	Litre
	Gram
	Kilogram
)

// Symbol returns the display token used in labels ("mL", "Kg")
func (u Unit) Symbol() string {
	switch u {
	case Millilitre:
		return "mL"
	case Litre:
		return "L"
	case Gram:
		return "g"
	case Kilogram:
		return "Kg"
	}
	return ""
}

// IsSubunit reports whether 1000 of u make one canonical unit
func (u Unit) IsSubunit() bool {
	return u == Millilitre || u == Gram
}

// Kind returns the unit kind u measures
func (u Unit) Kind() enum.UnitKind {
	switch u {
	case Millilitre, Litre:
		return enum.UnitKindVolume
	case Gram, Kilogram:
		return enum.UnitKindWeight
	}
	return enum.UnitKindCount
}

// CompatibleWith reports whether a label in u may be used on a product of kind k.
// Volume products accept mL/L, weight products accept g/Kg.
func (u Unit) CompatibleWith(k enum.UnitKind) bool {
	return u != UnitUnknown && k.IsProportional() && u.Kind() == k
}

// PackageSize is a parsed label such as "250 mL"
type PackageSize struct {
	Magnitude decimal.Decimal
	Unit      Unit
}

// NewPackageSize builds a PackageSize from a float magnitude
func NewPackageSize(magnitude float64, unit Unit) PackageSize {
	return PackageSize{Magnitude: decimal.NewFromFloat(magnitude), Unit: unit}
}

// Fraction returns the size expressed in canonical units (500 mL -> 0.5)
func (p PackageSize) Fraction() decimal.Decimal {
	if p.Unit.IsSubunit() {
		return p.Magnitude.Shift(-3)
	}
	return p.Magnitude
}

// String renders the canonical label, e.g. "250 mL" or "1.5 L"
func (p PackageSize) String() string {
	return p.Magnitude.String() + " " + p.Unit.Symbol()
}

var labelPattern = regexp.MustCompile(`^\s*([+-]?(?:\d+(?:\.\d*)?|\.\d+))\s*([A-Za-z]+)\.?\s*$`)

var unitTokens = map[string]Unit{
	"ml":          Millilitre,
	"mls":         Millilitre,
	"millilitre":  Millilitre,
	"millilitres": Millilitre,
	"milliliter":  Millilitre,
	"milliliters": Millilitre,
	"l":           Litre,
	"ltr":         Litre,
	"ltrs":        Litre,
	"lt":          Litre,
	"litre":       Litre,
	"litres":      Litre,
	"liter":       Litre,
	"liters":      Litre,
	"g":           Gram,
	"gm":          Gram,
	"gms":         Gram,
	"gr":          Gram,
	"gram":        Gram,
	"grams":       Gram,
	"kg":          Kilogram,
	"kgs":         Kilogram,
	"kilo":        Kilogram,
	"kilos":       Kilogram,
	"kilogram":    Kilogram,
	"kilograms":   Kilogram,
}

// ParseLabel decomposes a free-text label ("250 mL", "1kg", "0.5 Ltr").
// The second result is false when the label has no recognisable magnitude
// and unit; callers fall back to the base price in that case.
func ParseLabel(label string) (PackageSize, bool) {
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return PackageSize{}, false
	}
	unit, ok := unitTokens[strings.ToLower(m[2])]
	if !ok {
		return PackageSize{}, false
	}
	magnitude, err := decimal.NewFromString(m[1])
	if err != nil {
		return PackageSize{}, false
	}
	return PackageSize{Magnitude: magnitude, Unit: unit}, true
}

// Canonicalize rewrites a parsable label in display form ("500ml" -> "500 mL").
// Unparsable labels are returned trimmed but otherwise untouched.
func Canonicalize(label string) string {
	if size, ok := ParseLabel(label); ok {
		return size.String()
	}
	return strings.TrimSpace(label)
}
