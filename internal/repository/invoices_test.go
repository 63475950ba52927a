package repository

import "testing"

func TestFormatInvoiceNumber(t *testing.T) {
	tests := []struct {
		seq  int64
		want string
	}{
		{1, "INV-001"},
		{7, "INV-007"},
		{42, "INV-042"},
		{999, "INV-999"},
		{1000, "INV-1000"},
	}

	for _, tt := range tests {
		if got := FormatInvoiceNumber(tt.seq); got != tt.want {
			t.Fatalf("FormatInvoiceNumber(%d) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}
