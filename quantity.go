package qfx

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity represents a number of units of a security.
type Quantity struct {
	value decimal.Decimal
}

// NormalizeQuantity cleans a quantity cell: surrounding whitespace and
// thousands separators are removed. Everything else (sign, decimal form,
// trailing zeros) is preserved verbatim, so unit counts flow into the
// document exactly as the export wrote them.
func NormalizeQuantity(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), ",", "")
}

// ParseQuantity parses a quantity cell after normalization.
func ParseQuantity(value string) (Quantity, error) {
	d, err := decimal.NewFromString(NormalizeQuantity(value))
	if err != nil {
		return Quantity{}, fmt.Errorf("invalid quantity %q: %w", value, err)
	}
	return Quantity{value: d}, nil
}

// String renders the canonical numeric form of the quantity.
func (q Quantity) String() string { return q.value.String() }

// IsZero reports whether the quantity is zero.
func (q Quantity) IsZero() bool { return q.value.IsZero() }

// Neg returns the quantity with its sign flipped.
func (q Quantity) Neg() Quantity { return Quantity{value: q.value.Neg()} }

// Amount returns the quantity reinterpreted as a monetary value. Funding
// rows are detected by their amount offsetting their quantity exactly.
func (q Quantity) Amount() Amount { return Amount{value: q.value} }
