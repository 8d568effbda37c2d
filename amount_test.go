package qfx

import (
	"strings"
	"testing"
)

func TestNormalizeCurrency(t *testing.T) {
	captureLog(t)
	tests := []struct {
		input    string
		invert   bool
		expected string
		present  bool
	}{
		// Empty cells mean no amount was supplied.
		{"", false, "", false},
		{"   ", false, "", false},
		{"", true, "", false},

		// Plain values.
		{"123.45", false, "123.45", true},
		{"7", false, "7.00", true},
		{"1e2", false, "100.00", true},

		// Export decorations.
		{"$1,234.50", false, "1234.50", true},
		{" $ 1,234.50 ", false, "1234.50", true},
		{"$1,234.50", true, "-1234.50", true},

		// Negative spellings.
		{"(250.00)", false, "-250.00", true},
		{"(1,234.50)", false, "-1234.50", true},
		{"($1,000.00)", false, "-1000.00", true},
		{"-42", false, "-42.00", true},
		{"--5", false, "-5.00", true},
		{"(-5)", false, "-5.00", true},

		// Junk degrades to zero instead of failing the row.
		{"abc", false, "0.00", true},
		{"(abc)", false, "0.00", true},
		{"abc", true, "0.00", true},

		// Inversion flips the final sign.
		{"5", true, "-5.00", true},
		{"(5)", true, "5.00", true},
		{"-5", true, "5.00", true},
	}

	for _, tt := range tests {
		a, ok := NormalizeCurrency(tt.input, tt.invert)
		if ok != tt.present {
			t.Errorf("NormalizeCurrency(%q, %v) present = %v, want %v", tt.input, tt.invert, ok, tt.present)
			continue
		}
		if ok && a.String() != tt.expected {
			t.Errorf("NormalizeCurrency(%q, %v) = %q, want %q", tt.input, tt.invert, a.String(), tt.expected)
		}
		// Normalization is idempotent: its output normalizes to itself.
		if ok {
			b, _ := NormalizeCurrency(a.String(), false)
			if b.String() != a.String() {
				t.Errorf("NormalizeCurrency(%q) = %q, not idempotent", a.String(), b.String())
			}
		}
	}
}

func TestNormalizeCurrencyWarnsOnJunk(t *testing.T) {
	buf := captureLog(t)
	a, ok := NormalizeCurrency("N/A", false)
	if !ok || a.String() != "0.00" {
		t.Fatalf("NormalizeCurrency(%q) = %q, %v, want 0.00, true", "N/A", a.String(), ok)
	}
	if !strings.Contains(buf.String(), `cannot parse amount "N/A"`) {
		t.Errorf("fallback to zero was not reported, log: %q", buf.String())
	}
}

func TestComputePrice(t *testing.T) {
	tests := []struct {
		quantity string
		amount   string
		expected string
	}{
		{"10", "-250.00", "25.000000000"},
		{"10", "-100.00", "10.000000000"},
		{"-10", "250.00", "25.000000000"},
		{"3", "100", "33.333333333"},
		{"2.5", "0.00", "0.000000000"},

		// A zero or non-numeric operand cannot price the trade.
		{"0", "100", "0.00"},
		{"abc", "100", "0.00"},
		{"10", "abc", "0.00"},
		{"", "", "0.00"},
	}

	for _, tt := range tests {
		if got := ComputePrice(tt.quantity, tt.amount); got != tt.expected {
			t.Errorf("ComputePrice(%q, %q) = %q, want %q", tt.quantity, tt.amount, got, tt.expected)
		}
	}
}

func TestPriceGap(t *testing.T) {
	tests := []struct {
		a, b     string
		expected bool
	}{
		{"25.000000000", "25.00", false},
		{"25.01", "25.00", false},
		{"25.02", "25.00", true},
		{"24.98", "25.00", true},
		{"abc", "25.00", false},
	}

	for _, tt := range tests {
		if got := priceGap(tt.a, tt.b); got != tt.expected {
			t.Errorf("priceGap(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestDeriveTotal(t *testing.T) {
	tests := []struct {
		quantity string
		price    string
		expected string
	}{
		// Buys consume cash.
		{"10", "25.00", "-250.00"},
		// Sells carry a negative quantity and produce cash.
		{"-4", "10.00", "40.00"},
		{"0", "10.00", "0.00"},
		{"abc", "10.00", "0.00"},
		{"10", "abc", "0.00"},
	}

	for _, tt := range tests {
		if got := deriveTotal(tt.quantity, tt.price); got != tt.expected {
			t.Errorf("deriveTotal(%q, %q) = %q, want %q", tt.quantity, tt.price, got, tt.expected)
		}
	}
}
