package enum

import (
	"encoding/json"
	"testing"
)

func TestUnitKindJSON(t *testing.T) {
	b, err := json.Marshal(UnitKindWeight)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"Weight"` {
		t.Errorf("Marshal = %s, want \"Weight\"", b)
	}

	for in, want := range map[string]UnitKind{
		`"Volume"`: UnitKindVolume,
		`"litre"`:  UnitKindVolume,
		`"kg"`:     UnitKindWeight,
		`"Count"`:  UnitKindCount,
		`2`:        UnitKindCount,
	} {
		var k UnitKind
		if err := json.Unmarshal([]byte(in), &k); err != nil {
			t.Fatalf("Unmarshal(%s): %v", in, err)
		}
		if k != want {
			t.Errorf("Unmarshal(%s) = %s, want %s", in, k, want)
		}
	}
}

func TestUnitKindUnits(t *testing.T) {
	if UnitKindVolume.CanonicalUnit() != "L" || UnitKindVolume.Subunit() != "mL" {
		t.Errorf("volume units = %s/%s", UnitKindVolume.CanonicalUnit(), UnitKindVolume.Subunit())
	}
	if UnitKindWeight.CanonicalUnit() != "Kg" || UnitKindWeight.Subunit() != "g" {
		t.Errorf("weight units = %s/%s", UnitKindWeight.CanonicalUnit(), UnitKindWeight.Subunit())
	}
	if UnitKindCount.IsProportional() {
		t.Error("count must not be proportional")
	}
}

func TestEntryKindScan(t *testing.T) {
	var k EntryKind
	if err := k.Scan(int64(1)); err != nil {
		t.Fatal(err)
	}
	if k != EntryKindPayment {
		t.Errorf("Scan(1) = %s", k)
	}
	if err := k.Scan(nil); err != nil || k != EntryKindInvoice {
		t.Errorf("Scan(nil) = %s, %v", k, err)
	}
}

func TestParsePaymentMode(t *testing.T) {
	for in, want := range map[string]PaymentMode{
		"cash":   PaymentModeCash,
		"Online": PaymentModeOnline,
		" UPI ":  PaymentModeOnline,
		"credit": PaymentModeCredit,
	} {
		got, ok := ParsePaymentMode(in)
		if !ok || got != want {
			t.Errorf("ParsePaymentMode(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParsePaymentMode("cheque"); ok {
		t.Error("cheque should not parse")
	}
}
