package models

import (
	"testing"
)

func TestInvoiceStatusValid(t *testing.T) {
	for _, s := range []InvoiceStatus{InvoicePending, InvoicePaid, InvoiceCancelled, InvoiceOverdue} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	for _, s := range []InvoiceStatus{"", "refunded", "PAID", "Pending "} {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to InvoiceStatus
		ok       bool
	}{
		{InvoicePending, InvoicePaid, true},
		{InvoicePending, InvoiceCancelled, true},
		{InvoicePending, InvoiceOverdue, true},
		{InvoiceOverdue, InvoicePaid, true},
		{InvoiceOverdue, InvoiceCancelled, true},
		{InvoiceOverdue, InvoicePending, false},
		{InvoicePaid, InvoicePending, false},
		{InvoicePaid, InvoiceCancelled, false},
		{InvoiceCancelled, InvoicePaid, false},
		// same-state updates are always a no-op success
		{InvoicePaid, InvoicePaid, true},
		{InvoiceCancelled, InvoiceCancelled, true},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.ok {
			t.Errorf("%s -> %s: expected %v got %v", c.from, c.to, c.ok, got)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Tax review", Quantity: 2, Rate: 50, Amount: 9999},
		{Description: "Filing", Quantity: 1, Rate: 30},
	}
	total := ComputeTotals(items)
	if total != 130 {
		t.Fatalf("total: expected 130 got %v", total)
	}
	if items[0].Amount != 100 || items[1].Amount != 30 {
		t.Fatalf("amounts: expected 100/30 got %v/%v", items[0].Amount, items[1].Amount)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	if total := ComputeTotals(nil); total != 0 {
		t.Fatalf("expected 0 got %v", total)
	}
}
