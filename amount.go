package qfx

import (
	"strings"

	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency brokerage exports are denominated in.
// Statements carry it as both the statement default and the per-transaction
// currency.
const DefaultCurrency = "USD"

// Amount represents a monetary value in the statement currency.
//
// The zero value is a valid zero amount; it is what unparseable currency
// cells degrade to.
type Amount struct {
	value decimal.Decimal
}

// currency returns the statement currency metadata.
func currency() money.Currency {
	return *money.New(0, DefaultCurrency).Currency()
}

// String renders the amount the way statement elements expect it: fixed to
// the currency's minor unit, no symbol, no grouping.
func (a Amount) String() string {
	return a.value.StringFixed(int32(currency().Fraction))
}

// IsNegative reports whether the amount is strictly below zero.
func (a Amount) IsNegative() bool { return a.value.IsNegative() }

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount { return Amount{value: a.value.Neg()} }

// Equal reports whether both amounts have the same value.
func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) }

// NormalizeCurrency parses a currency cell from an export. The boolean
// reports whether the cell holds an amount at all: an empty cell means no
// amount was supplied, which is not the same thing as zero.
//
// Exports write negative amounts either in parentheses or with a leading
// minus, and decorate values with currency symbols and thousands
// separators. A non-empty cell that still fails to parse degrades to zero
// rather than failing the conversion. When invert is set the final sign is
// flipped, after every other rule.
func NormalizeCurrency(value string, invert bool) (Amount, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return Amount{}, false
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(strings.TrimLeft(s, "-"))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		logf("warning, cannot parse amount %q, falling back to 0.00", value)
		return Amount{}, true
	}
	if invert {
		negative = !negative
	}
	if negative {
		d = d.Neg()
	}
	return Amount{value: d}, true
}

// priceDigits is the precision of computed unit prices. Exports round hard;
// nine digits keep units times price close enough to the reported total.
const priceDigits = 9

// ComputePrice derives the absolute per-unit price from a quantity and a
// total amount, both in their normalized string form, fixed to nine
// fraction digits. It returns "0.00" when either operand is not a number or
// the quantity is zero.
func ComputePrice(quantity, amount string) string {
	q, errq := decimal.NewFromString(quantity)
	a, erra := decimal.NewFromString(amount)
	if errq != nil || erra != nil || q.IsZero() {
		return "0.00"
	}
	return a.Abs().DivRound(q.Abs(), priceDigits).StringFixed(priceDigits)
}

// priceGap reports whether two price renderings differ by more than one
// cent. The conversion warns when the export's own price disagrees with the
// one recomputed from the total.
func priceGap(a, b string) bool {
	da, erra := decimal.NewFromString(a)
	db, errb := decimal.NewFromString(b)
	if erra != nil || errb != nil {
		return false
	}
	return da.Sub(db).Abs().GreaterThan(decimal.New(1, -2))
}

// deriveTotal computes the signed total of a trade quoted by unit price
// alone. Buys consume cash, so the total is the negated quantity times
// price; sell rows carry a negative quantity, which flips it back. A
// non-numeric operand degrades to zero.
func deriveTotal(quantity, price string) string {
	q, errq := decimal.NewFromString(quantity)
	p, errp := decimal.NewFromString(price)
	if errq != nil || errp != nil {
		return "0.00"
	}
	return q.Mul(p).Neg().StringFixed(int32(currency().Fraction))
}
