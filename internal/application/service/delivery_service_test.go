package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/dairy-pos/internal/domain/entity"
	"github.com/sangkips/dairy-pos/internal/domain/enum"
)

func TestLogDeliveryDefaultsAndUpsert(t *testing.T) {
	s := newStore()
	milk := s.cowMilk()
	asha := s.addCustomer("Asha", "0", milk)
	deliveries := s.deliveryService()
	ctx := context.Background()

	date := day("2024-03-04")
	d, err := deliveries.LogDelivery(ctx, &LogDeliveryInput{CustomerID: asha.ID, Date: &date})
	if err != nil {
		t.Fatal(err)
	}
	if d.ProductID != milk.ID || d.TotalQty.String() != "1.5" || d.Amount.StringFixed(2) != "90.00" {
		t.Errorf("default delivery = product %s qty %s amount %s", d.ProductID, d.TotalQty, d.Amount)
	}

	liters, ml := dec("1"), dec("250")
	again, err := deliveries.LogDelivery(ctx, &LogDeliveryInput{CustomerID: asha.ID, Date: &date, Liters: &liters, Grams: &ml})
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != d.ID {
		t.Errorf("second log for the same day created a new row")
	}
	if again.TotalQty.String() != "1.25" || again.Amount.StringFixed(2) != "75.00" {
		t.Errorf("overwritten delivery = qty %s amount %s", again.TotalQty, again.Amount)
	}
	if len(s.deliveries.rows) != 1 {
		t.Errorf("deliveries = %d, want 1", len(s.deliveries.rows))
	}
}

func TestLogDeliveryRejectsCountProduct(t *testing.T) {
	s := newStore()
	paneer := s.addProduct(entity.Product{Name: "Paneer", UnitKind: enum.UnitKindCount, SalePrice: dec("80")})
	asha := s.addCustomer("Asha", "0")

	_, err := s.deliveryService().LogDelivery(context.Background(), &LogDeliveryInput{CustomerID: asha.ID, ProductID: &paneer.ID})
	wantStatus(t, err, http.StatusBadRequest)

	_, err = s.deliveryService().LogDelivery(context.Background(), &LogDeliveryInput{CustomerID: asha.ID})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestUpdateDeliveryKeepsUnitPrice(t *testing.T) {
	s := newStore()
	milk := s.cowMilk()
	asha := s.addCustomer("Asha", "0", milk)
	deliveries := s.deliveryService()
	products := s.productService()
	ctx := context.Background()

	date := day("2024-03-04")
	d, err := deliveries.LogDelivery(ctx, &LogDeliveryInput{CustomerID: asha.ID, Date: &date})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := products.UpdateProduct(ctx, &UpdateProductInput{ProductSlug: "cow-milk", BasePrice: decPtr("70")}); err != nil {
		t.Fatal(err)
	}

	two := dec("2")
	updated, err := deliveries.UpdateDelivery(ctx, &UpdateDeliveryInput{ID: d.ID, Liters: &two})
	if err != nil {
		t.Fatal(err)
	}
	if updated.UnitPrice.StringFixed(2) != "60.00" || updated.Amount.StringFixed(2) != "120.00" {
		t.Errorf("updated = price %s amount %s", updated.UnitPrice, updated.Amount)
	}
}

func TestInvoiceMonthIsIdempotent(t *testing.T) {
	s := newStore()
	milk := s.cowMilk()
	asha := s.addCustomer("Asha", "0", milk)
	deliveries := s.deliveryService()
	ctx := context.Background()

	for _, d := range []string{"2024-02-01", "2024-02-02", "2024-02-29", "2024-03-01"} {
		date := day(d)
		if _, err := deliveries.LogDelivery(ctx, &LogDeliveryInput{CustomerID: asha.ID, Date: &date}); err != nil {
			t.Fatal(err)
		}
	}

	entry, created, err := deliveries.InvoiceMonth(ctx, asha.ID, 2024, time.February)
	if err != nil {
		t.Fatal(err)
	}
	if !created || entry.Amount.StringFixed(2) != "270.00" {
		t.Errorf("invoice = %s created %v, want 270.00", entry.Amount, created)
	}
	if !entry.Date.Equal(day("2024-02-29")) {
		t.Errorf("invoice dated %s, want the last day of the month", entry.Date)
	}

	second, created, err := deliveries.InvoiceMonth(ctx, asha.ID, 2024, time.February)
	if err != nil {
		t.Fatal(err)
	}
	if created || second.ID != entry.ID {
		t.Errorf("second run created a new invoice")
	}

	summary, err := deliveries.MonthlySummary(ctx, asha.ID, 2024, time.February)
	if err != nil {
		t.Fatal(err)
	}
	if !summary.Invoiced || len(summary.Deliveries) != 3 {
		t.Errorf("summary = invoiced %v deliveries %d", summary.Invoiced, len(summary.Deliveries))
	}
}

func TestInvoiceAllForMonthSkipsIdleCustomers(t *testing.T) {
	s := newStore()
	milk := s.cowMilk()
	asha := s.addCustomer("Asha", "0", milk)
	s.addCustomer("Ravi", "0", milk)
	deliveries := s.deliveryService()
	ctx := context.Background()

	date := day("2024-02-10")
	if _, err := deliveries.LogDelivery(ctx, &LogDeliveryInput{CustomerID: asha.ID, Date: &date}); err != nil {
		t.Fatal(err)
	}

	result, err := deliveries.InvoiceAllForMonth(ctx, 2024, time.February)
	if err != nil {
		t.Fatal(err)
	}
	if result.Invoiced != 1 || result.Skipped != 1 || result.Total.StringFixed(2) != "90.00" {
		t.Errorf("run = %+v", result)
	}

	again, err := deliveries.InvoiceAllForMonth(ctx, 2024, time.February)
	if err != nil {
		t.Fatal(err)
	}
	if again.Invoiced != 0 || again.AlreadyInvoiced != 1 {
		t.Errorf("rerun = %+v", again)
	}
}

func TestPaymentEntries(t *testing.T) {
	s := newStore()
	asha := s.addCustomer("Asha", "0")
	payments := s.paymentService()
	ctx := context.Background()

	_, err := payments.RecordPayment(ctx, &EntryInput{CustomerID: asha.ID, Amount: dec("0")})
	wantStatus(t, err, http.StatusBadRequest)
	_, err = payments.RecordPayment(ctx, &EntryInput{CustomerID: asha.ID, Amount: dec("10"), PaymentMode: enum.PaymentModeCredit})
	wantStatus(t, err, http.StatusBadRequest)

	post(t, s, asha, enum.EntryKindPayment, "2024-01-05", "40")
	post(t, s, asha, enum.EntryKindInvoice, "2024-01-05", "100")

	entries, err := payments.ListEntries(ctx, asha.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Kind != enum.EntryKindInvoice {
		t.Fatalf("entries should list the invoice first on a shared date: %+v", entries)
	}
	if entries[1].PaymentMode == nil || *entries[1].PaymentMode != enum.PaymentModeCash {
		t.Errorf("payment mode = %v, want Cash", entries[1].PaymentMode)
	}

	if err := payments.DeleteEntry(ctx, entries[1].ID); err != nil {
		t.Fatal(err)
	}
	balance, _ := s.customerService().GetBalance(ctx, asha.ID)
	if balance.StringFixed(2) != "100.00" {
		t.Errorf("balance = %s, want 100.00", balance)
	}
}

func TestDeleteBillEntryRefused(t *testing.T) {
	s := newStore()
	milk := s.cowMilk()
	asha := s.addCustomer("Asha", "0")
	ctx := context.Background()

	if _, err := s.billService().Checkout(ctx, &CheckoutInput{
		CustomerID: &asha.ID,
		Items:      []CheckoutItemInput{{ProductID: milk.ID, VariantLabel: "1 L", Quantity: 1}},
	}); err != nil {
		t.Fatal(err)
	}
	entries, _ := s.ledger.ListByCustomer(ctx, asha.ID)
	if len(entries) == 0 {
		t.Fatal("checkout wrote no ledger entries")
	}
	wantStatus(t, s.paymentService().DeleteEntry(ctx, entries[0].ID), http.StatusConflict)
}
