package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/styloxstar/prosite-backend/internal/model"
)

func testInvoice() model.Invoice {
	return model.Invoice{
		Number:         "INV-001",
		OrderID:        "ORD-1-abc",
		PlanName:       "Professional",
		Amount:         1499,
		Currency:       model.CurrencyINR,
		TransactionRef: "TXN123",
		UserName:       "Alice",
		CreatedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildPaymentEmailHTML(t *testing.T) {
	html := buildPaymentEmailHTML(testInvoice())

	for _, want := range []string{
		"INV-001",
		"ORD-1-abc",
		"Professional",
		"₹" + "1499",
		"TXN123",
		"Hi <strong>Alice</strong>",
		"1 August 2026",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("email body does not contain %q", want)
		}
	}
}

func TestBuildPaymentEmailHTML_EmptyTransactionRef(t *testing.T) {
	inv := testInvoice()
	inv.TransactionRef = ""

	html := buildPaymentEmailHTML(inv)
	if !strings.Contains(html, "Transaction ID: N/A") {
		t.Fatalf("expected N/A placeholder for missing transaction id")
	}
}

func TestBuildPaymentEmailHTML_EscapesUserName(t *testing.T) {
	inv := testInvoice()
	inv.UserName = "<script>alert(1)</script>"

	html := buildPaymentEmailHTML(inv)
	if strings.Contains(html, "<script>") {
		t.Fatalf("user name must be escaped")
	}
}

func TestBuildPaymentEmailHTML_UnknownCurrencyFallsBack(t *testing.T) {
	inv := testInvoice()
	inv.Currency = "JPY"

	html := buildPaymentEmailHTML(inv)
	if !strings.Contains(html, "₹"+"1499") {
		t.Fatalf("expected rupee symbol fallback for unknown currency")
	}
}

func TestNotifyPaymentConfirmed_NonBlocking(t *testing.T) {
	n, err := NewEmailNotifier(Config{}, nil)
	if err != nil {
		t.Fatalf("NewEmailNotifier error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize*2; i++ {
			n.NotifyPaymentConfirmed(testInvoice(), "alice@example.com")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("NotifyPaymentConfirmed blocked on full queue")
	}
}

func TestRun_SkipsWithoutSMTPConfig(t *testing.T) {
	n, err := NewEmailNotifier(Config{}, nil)
	if err != nil {
		t.Fatalf("NewEmailNotifier error: %v", err)
	}

	n.NotifyPaymentConfirmed(testInvoice(), "alice@example.com")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- n.Run(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after context cancellation")
	}
}
