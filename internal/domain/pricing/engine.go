// Package pricing derives package-size prices from a product's base price
// per canonical unit, and infers a display label for an arbitrary price.
//
// Every function here is total: degenerate input (zero base price,
// unparsable or incompatible label) yields a documented fallback value,
// never an error.
package pricing

import (
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CustomAmount labels a cart line whose price has no proportional package size
const CustomAmount = "Custom Amount"

var one = decimal.NewFromInt(1)

// Variant is a package-size label with its price
type Variant struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

// PriceForPackage scales basePrice to the given package size, rounded to 2dp.
// Count products and sizes in a unit incompatible with kind return basePrice unchanged.
func PriceForPackage(basePrice decimal.Decimal, kind enum.UnitKind, size PackageSize) decimal.Decimal {
	if !kind.IsProportional() || !size.Unit.CompatibleWith(kind) {
		return basePrice
	}
	return basePrice.Mul(size.Fraction()).Round(2)
}

// PriceForLabel parses label and prices it; an unparsable label returns basePrice.
func PriceForLabel(basePrice decimal.Decimal, kind enum.UnitKind, label string) decimal.Decimal {
	if !kind.IsProportional() {
		return basePrice
	}
	size, ok := ParseLabel(label)
	if !ok {
		return basePrice
	}
	return PriceForPackage(basePrice, kind, size)
}

// RecomputeAll prices every label from basePrice in order.
// Any previously overridden price is discarded.
func RecomputeAll(basePrice decimal.Decimal, kind enum.UnitKind, labels []string) []Variant {
	variants := make([]Variant, len(labels))
	for i, label := range labels {
		variants[i] = Variant{
			Label: label,
			Price: PriceForLabel(basePrice, kind, label),
		}
	}
	return variants
}

// InferLabelForPrice returns the package size that price buys at basePrice,
// e.g. 15 at 60/L is "250 mL" and 90 at 60/L is "1.5 L". The result is
// display only. Count products and non-positive prices give CustomAmount.
func InferLabelForPrice(basePrice decimal.Decimal, kind enum.UnitKind, price decimal.Decimal) string {
	if !kind.IsProportional() || !basePrice.IsPositive() || !price.IsPositive() {
		return CustomAmount
	}
	ratio := price.Div(basePrice)
	if ratio.GreaterThanOrEqual(one) {
		return ratio.Round(3).String() + " " + kind.CanonicalUnit()
	}
	return ratio.Shift(3).Round(0).String() + " " + kind.Subunit()
}
