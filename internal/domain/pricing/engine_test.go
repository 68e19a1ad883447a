package pricing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPriceForLabel(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		kind  enum.UnitKind
		label string
		want  string
	}{
		{"half litre", "60", enum.UnitKindVolume, "500 mL", "30.00"},
		{"one litre", "60", enum.UnitKindVolume, "1 L", "60.00"},
		{"quarter litre", "60", enum.UnitKindVolume, "250 mL", "15.00"},
		{"litre and a half", "60", enum.UnitKindVolume, "1.5 L", "90.00"},
		{"rounds to paise", "55", enum.UnitKindVolume, "333 mL", "18.32"},
		{"grams", "480", enum.UnitKindWeight, "250 g", "120.00"},
		{"kilograms lowercase", "480", enum.UnitKindWeight, "2kg", "960.00"},
		{"count ignores label", "25", enum.UnitKindCount, "500 mL", "25"},
		{"malformed label", "60", enum.UnitKindVolume, "half a jug", "60"},
		{"empty label", "60", enum.UnitKindVolume, "", "60"},
		{"incompatible unit", "60", enum.UnitKindVolume, "500 g", "60"},
		{"zero magnitude", "60", enum.UnitKindVolume, "0 mL", "0"},
		{"negative magnitude", "60", enum.UnitKindVolume, "-500 mL", "-30"},
		{"zero base", "0", enum.UnitKindVolume, "500 mL", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceForLabel(dec(tt.base), tt.kind, tt.label)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("PriceForLabel(%s, %s, %q) = %s, want %s", tt.base, tt.kind, tt.label, got, tt.want)
			}
		})
	}
}

func TestPriceForPackageProportional(t *testing.T) {
	bases := []string{"60", "47.5", "123.45", "0"}
	magnitudes := []int64{100, 250, 330, 500, 750, 1000, 2000}

	for _, b := range bases {
		base := dec(b)
		perSubunit := base.Shift(-3)
		for _, m := range magnitudes {
			mag := decimal.NewFromInt(m)
			price := PriceForPackage(base, enum.UnitKindVolume, PackageSize{Magnitude: mag, Unit: Millilitre})
			// rounding to 2dp allows at most half a paisa of drift per package
			drift := price.Sub(perSubunit.Mul(mag)).Abs()
			if drift.GreaterThan(dec("0.005")) {
				t.Errorf("base %s, %d mL: price %s drifts %s from proportional", b, m, price, drift)
			}
		}
	}
}

func TestPriceForPackageSubunitMatchesCanonical(t *testing.T) {
	base := dec("64")
	sub := PriceForPackage(base, enum.UnitKindWeight, NewPackageSize(1500, Gram))
	canon := PriceForPackage(base, enum.UnitKindWeight, NewPackageSize(1.5, Kilogram))
	if !sub.Equal(canon) {
		t.Errorf("1500 g = %s, 1.5 Kg = %s", sub, canon)
	}
}

func TestRecomputeAll(t *testing.T) {
	labels := []string{"1 L", "500 mL", "Jug", "250 mL"}
	got := RecomputeAll(dec("62"), enum.UnitKindVolume, labels)
	want := []Variant{
		{Label: "1 L", Price: dec("62")},
		{Label: "500 mL", Price: dec("31")},
		{Label: "Jug", Price: dec("62")},
		{Label: "250 mL", Price: dec("15.5")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RecomputeAll mismatch (-want +got):\n%s", diff)
	}

	if got := RecomputeAll(dec("62"), enum.UnitKindVolume, nil); len(got) != 0 {
		t.Errorf("RecomputeAll(nil) = %v, want empty", got)
	}
}

func TestInferLabelForPrice(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		kind  enum.UnitKind
		price string
		want  string
	}{
		{"quarter litre", "60", enum.UnitKindVolume, "15", "250 mL"},
		{"exact litre", "60", enum.UnitKindVolume, "60", "1 L"},
		{"litre and a half", "60", enum.UnitKindVolume, "90", "1.5 L"},
		{"three decimals trimmed", "60", enum.UnitKindVolume, "100", "1.667 L"},
		{"rounded subunit", "60", enum.UnitKindVolume, "20", "333 mL"},
		{"grams", "400", enum.UnitKindWeight, "50", "125 g"},
		{"kilograms", "400", enum.UnitKindWeight, "1000", "2.5 Kg"},
		{"zero base", "0", enum.UnitKindVolume, "15", CustomAmount},
		{"negative base", "-60", enum.UnitKindVolume, "15", CustomAmount},
		{"zero price", "60", enum.UnitKindVolume, "0", CustomAmount},
		{"count product", "60", enum.UnitKindCount, "15", CustomAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferLabelForPrice(dec(tt.base), tt.kind, dec(tt.price))
			if got != tt.want {
				t.Errorf("InferLabelForPrice(%s, %s, %s) = %q, want %q", tt.base, tt.kind, tt.price, got, tt.want)
			}
		})
	}
}

func TestInferLabelRoundTrip(t *testing.T) {
	bases := []string{"60", "45.5", "480"}
	ratios := []string{"0.001", "0.1", "0.25", "0.333", "0.5", "0.999", "1", "1.25", "2.3456", "7", "10"}
	tolerance := dec("0.0005")

	for _, kind := range []enum.UnitKind{enum.UnitKindVolume, enum.UnitKindWeight} {
		for _, b := range bases {
			for _, r := range ratios {
				base, ratio := dec(b), dec(r)
				label := InferLabelForPrice(base, kind, base.Mul(ratio))

				size, ok := ParseLabel(label)
				if !ok {
					t.Fatalf("%s base %s ratio %s: label %q does not parse", kind, b, r, label)
				}
				if size.Unit.Kind() != kind {
					t.Errorf("label %q has kind %s, want %s", label, size.Unit.Kind(), kind)
				}
				if diff := size.Fraction().Sub(ratio).Abs(); diff.GreaterThan(tolerance) {
					t.Errorf("%s base %s ratio %s: label %q is %s canonical units", kind, b, r, label, size.Fraction())
				}
			}
		}
	}
}
