package upi

import (
	"net/url"
	"strings"
	"testing"

	"github.com/styloxstar/prosite-backend/internal/model"
)

func TestPaymentLink(t *testing.T) {
	link := PaymentLink(Params{
		PayeeVPA:  "prosite@upi",
		PayeeName: "ProSite",
		Amount:    1499,
		Currency:  model.CurrencyINR,
		OrderID:   "ORD-123-abc",
		Note:      "ProSite Professional plan (pro)",
	})

	if !strings.HasPrefix(link, "upi://pay?") {
		t.Fatalf("unexpected link prefix: %q", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}

	q := u.Query()
	if q.Get("pa") != "prosite@upi" {
		t.Fatalf("pa = %q", q.Get("pa"))
	}
	if q.Get("pn") != "ProSite" {
		t.Fatalf("pn = %q", q.Get("pn"))
	}
	if q.Get("am") != "1499" {
		t.Fatalf("am = %q", q.Get("am"))
	}
	if q.Get("cu") != "INR" {
		t.Fatalf("cu = %q", q.Get("cu"))
	}
	if q.Get("tr") != "ORD-123-abc" {
		t.Fatalf("tr = %q", q.Get("tr"))
	}
	if q.Get("tn") != "ProSite Professional plan (pro)" {
		t.Fatalf("tn = %q", q.Get("tn"))
	}
}

func TestPaymentLink_NoNote(t *testing.T) {
	link := PaymentLink(Params{
		PayeeVPA:  "prosite@upi",
		PayeeName: "ProSite",
		Amount:    499,
		Currency:  model.CurrencyINR,
		OrderID:   "ORD-1",
	})

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if u.Query().Has("tn") {
		t.Fatalf("tn must be omitted when note is empty: %q", link)
	}
}
