package invoicepdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/styloxstar/prosite-backend/internal/model"
)

func testInvoice(currency model.Currency) model.Invoice {
	return model.Invoice{
		ID:             1,
		Number:         "INV-001",
		UserID:         1,
		OrderID:        "ORD-1-abc",
		PlanID:         model.PlanPro,
		PlanName:       "Professional",
		Amount:         1499,
		Currency:       currency,
		PaymentMethod:  "upi",
		TransactionRef: "TXN123",
		Status:         model.InvoiceStatusPaid,
		UserEmail:      "alice@example.com",
		UserName:       "Alice",
		CreatedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	r := NewRenderer()

	data, err := r.Render(testInvoice(model.CurrencyINR))
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with PDF header")
	}
	if len(data) < 1000 {
		t.Fatalf("suspiciously small document: %d bytes", len(data))
	}
}

func TestRender_AllCurrencies(t *testing.T) {
	r := NewRenderer()

	for _, c := range []model.Currency{
		model.CurrencyINR, model.CurrencyUSD, model.CurrencyEUR, model.CurrencyGBP,
	} {
		if _, err := r.Render(testInvoice(c)); err != nil {
			t.Fatalf("Render(%s) error: %v", c, err)
		}
	}
}

func TestRender_MissingOptionalFields(t *testing.T) {
	r := NewRenderer()

	inv := testInvoice(model.CurrencyINR)
	inv.UserName = ""
	inv.UserEmail = ""
	inv.TransactionRef = ""

	if _, err := r.Render(inv); err != nil {
		t.Fatalf("Render error: %v", err)
	}
}
