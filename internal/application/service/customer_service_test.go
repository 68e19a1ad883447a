package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
)

func post(t *testing.T, s *store, c entity.Customer, kind enum.EntryKind, date, amount string) {
	t.Helper()
	d := day(date)
	in := &EntryInput{CustomerID: c.ID, Amount: dec(amount), Date: &d}
	var err error
	if kind == enum.EntryKindPayment {
		_, err = s.paymentService().RecordPayment(context.Background(), in)
	} else {
		_, err = s.paymentService().RecordAdjustment(context.Background(), in)
	}
	if err != nil {
		t.Fatal(err)
	}
}

func TestCreateCustomerMobileUnique(t *testing.T) {
	s := newStore()
	milk := s.cowMilk()
	customers := s.customerService()
	ctx := context.Background()

	mobile := "9800000001"
	c, err := customers.CreateCustomer(ctx, &CreateCustomerInput{
		Name: "Asha", Mobile: &mobile, DefaultQty: dec("1"), LinkedProductIDs: []uuid.UUID{milk.ID},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.LinkedProducts) != 1 || c.PrimaryMilk() == nil {
		t.Errorf("linked products = %+v", c.LinkedProducts)
	}

	_, err = customers.CreateCustomer(ctx, &CreateCustomerInput{Name: "Ravi", Mobile: &mobile})
	wantStatus(t, err, http.StatusConflict)
}

func TestStatementWindow(t *testing.T) {
	s := newStore()
	asha := s.addCustomer("Asha", "100")
	post(t, s, asha, enum.EntryKindInvoice, "2024-01-10", "300")
	post(t, s, asha, enum.EntryKindPayment, "2024-01-20", "200")
	post(t, s, asha, enum.EntryKindInvoice, "2024-02-05", "150")
	post(t, s, asha, enum.EntryKindPayment, "2024-03-01", "50")

	customers := s.customerService()
	from, to := day("2024-02-01"), day("2024-02-29")
	st, err := customers.GetStatement(context.Background(), asha.ID, &from, &to)
	if err != nil {
		t.Fatal(err)
	}

	if got := st.Totals.OpeningBalance.StringFixed(2); got != "200.00" {
		t.Errorf("opening = %s, want 200.00 (100 + 300 - 200)", got)
	}
	if got := st.Totals.ClosingBalance.StringFixed(2); got != "350.00" {
		t.Errorf("closing = %s, want 350.00", got)
	}
	if len(st.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(st.Lines))
	}

	full, err := customers.GetStatement(context.Background(), asha.ID, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	var balances []string
	for _, l := range full.Chronological() {
		balances = append(balances, l.RunningBalance.StringFixed(2))
	}
	if diff := cmp.Diff([]string{"400.00", "200.00", "350.00", "300.00"}, balances); diff != "" {
		t.Errorf("running balances mismatch (-want +got):\n%s", diff)
	}
}

func TestTotalOutstanding(t *testing.T) {
	s := newStore()
	asha := s.addCustomer("Asha", "100")
	ravi := s.addCustomer("Ravi", "-20")
	post(t, s, asha, enum.EntryKindInvoice, "2024-01-10", "50")
	post(t, s, ravi, enum.EntryKindPayment, "2024-01-11", "30")

	total, err := s.customerService().TotalOutstanding(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := total.StringFixed(2); got != "100.00" {
		t.Errorf("outstanding = %s, want 100.00", got)
	}
}

func TestUpdateCustomerRelinksProducts(t *testing.T) {
	s := newStore()
	milk := s.cowMilk()
	asha := s.addCustomer("Asha", "0", milk)
	customers := s.customerService()

	none := []uuid.UUID{}
	c, err := customers.UpdateCustomer(context.Background(), &UpdateCustomerInput{ID: asha.ID, LinkedProductIDs: &none})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.LinkedProducts) != 0 {
		t.Errorf("linked products = %d, want 0", len(c.LinkedProducts))
	}
}
