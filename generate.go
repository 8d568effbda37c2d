package qfx

import (
	"fmt"
	"strings"
)

// Fragment is one generated transaction block, plus the security list entry
// it references (nil for blocks that reference no security, like fees).
// Banking fragments are ordered after investment fragments in the final
// document.
type Fragment struct {
	Element  *Element
	Security *SecurityEntry
	Bank     bool
}

// Generator turns statement rows into document fragments. It carries the
// fallback identity rules for rows without a CUSIP and the classifier
// deciding between fund and equity shapes.
type Generator struct {
	Rules      []MissingCusipRule
	Classifier Classifier
}

// Activity labels, lowercased, grouped by the block they generate.
var (
	buyActivities = map[string]bool{
		"buy":               true,
		"reinvest dividend": true,
		"rein stc gain":     true,
		"rein cap gain":     true,
	}
	transferActivities = map[string]bool{
		"asset trf":    true,
		"ach activity": true,
	}
)

// Generate builds the document fragment for one row. The counter feeds the
// transaction id and must be unique within the document; the caller numbers
// rows sequentially from one.
func (g *Generator) Generate(row Row, counter int) (*Fragment, error) {
	d, ok := ParseRowDate(row.Date)
	fitid := fmt.Sprintf("TXN%s%04d", compactDate(d, ok), counter)

	// Funding rows are labeled "buy", so they are detected before the
	// activity dispatch.
	if g.isFunding(row) {
		return g.transfer(row, d, ok, fitid)
	}
	switch act := strings.ToLower(row.activity()); {
	case buyActivities[act]:
		return g.buySell(row, false, d, ok, fitid, false)
	case act == "sell":
		return g.buySell(row, true, d, ok, fitid, false)
	case transferActivities[act]:
		return g.transfer(row, d, ok, fitid)
	case act == "dividend":
		return g.income(row, d, ok, fitid, "DIV")
	case act == "interest":
		return g.interest(row, d, ok, fitid)
	case act == "lt cap gain":
		return g.income(row, d, ok, fitid, "CGLONG")
	case act == "shrt trm gain":
		return g.income(row, d, ok, fitid, "CGSHORT")
	case act == "advisory fee", act == "journal":
		return g.fee(row, d, ok, fitid)
	case act == "reinvest dist":
		// distributions reinvest at no reported amount; book them at zero
		return g.buySell(row, false, d, ok, fitid, true)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, row.Activity)
}

// compactDate returns the 8-digit form of d, or the all-zero placeholder
// when the row date did not parse.
func compactDate(d Date, ok bool) string {
	if !ok {
		return "00000000"
	}
	return d.Compact()
}

// memo renders the standard memo line: the activity label, then the escaped
// description.
func memo(row Row) string {
	return row.activity() + ": " + Escape(row.description())
}

// isFunding detects sweep funding rows: labeled "buy" with no security
// identity, a description ending in "initial", and an amount exactly
// offsetting the quantity. They move cash rather than units, so they
// convert as cash transfers. The export later reverses them when the
// actual fund purchase settles.
func (g *Generator) isFunding(row Row) bool {
	if !strings.EqualFold(row.activity(), "buy") {
		return false
	}
	if !strings.HasSuffix(strings.ToLower(row.description()), "initial") {
		return false
	}
	if row.cusip() != "" || row.symbol() != "" {
		return false
	}
	amount, ok := NormalizeCurrency(row.Amount, false)
	if !ok {
		return false
	}
	quantity, err := ParseQuantity(row.Quantity)
	if err != nil {
		return false
	}
	return amount.Equal(quantity.Neg().Amount())
}

// buySell generates a trade block: BUYSTOCK, BUYMF, SELLSTOCK or SELLMF
// depending on direction and on how the classifier sees the symbol.
// Settlement is booked two days after the trade.
//
// A trade must carry a quantity, and an amount or a price: the total always
// follows the amount when one is present (recomputing the unit price from
// it), and is derived from the price otherwise. zeroDefault supplies a zero
// amount for rows that legitimately omit one.
func (g *Generator) buySell(row Row, sell bool, d Date, ok bool, fitid string, zeroDefault bool) (*Fragment, error) {
	quantity := NormalizeQuantity(row.Quantity)
	price, hasPrice := NormalizeCurrency(row.Price, false)
	amount, hasAmount := NormalizeCurrency(row.Amount, false)
	if !hasAmount && zeroDefault {
		amount, hasAmount = Amount{}, true
	}

	var unitPrice, total string
	switch {
	case quantity != "" && hasAmount:
		total = amount.String()
		unitPrice = ComputePrice(quantity, total)
		if hasPrice {
			if given := price.String(); priceGap(unitPrice, given) {
				logf("warning: given price %s differs from calculated price %s for %s - %s (%s)",
					given, unitPrice, row.symbol(), row.description(), fitid)
			}
		}
	case quantity != "" && hasPrice:
		unitPrice = price.String()
		total = deriveTotal(quantity, unitPrice)
	default:
		return nil, fmt.Errorf("%w: row carries neither amount nor price", ErrIncompleteTransaction)
	}

	fund, err := g.Classifier.IsFund(row.symbol())
	if err != nil {
		return nil, err
	}
	side := "BUY"
	if sell {
		side = "SELL"
	}
	outer := side + "STOCK"
	if fund {
		outer = side + "MF"
	}

	secid, err := resolveSecID(row, g.Rules)
	if err != nil {
		return nil, err
	}

	e := NewElement(outer)
	inv := e.Child("INV" + side)
	tran := inv.Child("INVTRAN")
	tran.Add("FITID", fitid)
	tran.Add("DTTRADE", compactDate(d, ok))
	tran.Add("DTSETTLE", compactDate(d.Add(2), ok))
	tran.Add("MEMO", memo(row))
	inv.Append(secid)
	inv.Add("UNITS", quantity)
	inv.Add("UNITPRICE", unitPrice)
	inv.Add("TOTAL", total)
	inv.Add("SUBACCTSEC", "CASH")
	inv.Add("SUBACCTFUND", "CASH")
	e.Add(side+"TYPE", side)

	security, err := resolveSecurity(row, g.Rules, g.Classifier)
	if err != nil {
		return nil, err
	}
	return &Fragment{Element: e, Security: security}, nil
}

// fee generates a banking block with a FEE statement transaction. Fees
// reference no security.
func (g *Generator) fee(row Row, d Date, ok bool, fitid string) (*Fragment, error) {
	amount, _ := NormalizeCurrency(row.Amount, false)
	return &Fragment{Element: bankBlock("FEE", row, d, ok, fitid, amount), Bank: true}, nil
}

// interest generates a banking block with an INT statement transaction.
// Exports report interest from the account's point of view, so a present
// amount has its sign flipped.
func (g *Generator) interest(row Row, d Date, ok bool, fitid string) (*Fragment, error) {
	amount, present := NormalizeCurrency(row.Amount, false)
	if present {
		amount = amount.Neg()
	}
	return &Fragment{Element: bankBlock("INT", row, d, ok, fitid, amount), Bank: true}, nil
}

// bankBlock builds the INVBANKTRAN aggregate shared by fee and interest
// rows.
func bankBlock(trnType string, row Row, d Date, ok bool, fitid string, amount Amount) *Element {
	e := NewElement("INVBANKTRAN")
	t := e.Child("STMTTRN")
	t.Add("TRNTYPE", trnType)
	t.Add("DTPOSTED", compactDate(d, ok))
	t.Add("TRNAMT", amount.String())
	t.Add("FITID", fitid)
	t.Add("MEMO", memo(row))
	cur := t.Child("CURRENCY")
	cur.Add("CURRATE", "1.0")
	cur.Add("CURSYM", DefaultCurrency)
	e.Add("SUBACCTFUND", "CASH")
	return e
}

// income generates an INCOME block for dividends and capital gain
// distributions. Income must reference a concrete security, so a CUSIP is
// required. The trade time carries the full noon timestamp, and the memo
// drops the activity prefix.
func (g *Generator) income(row Row, d Date, ok bool, fitid, incomeType string) (*Fragment, error) {
	cusip := row.cusip()
	if cusip == "" {
		return nil, fmt.Errorf("%w: income row %q carries no CUSIP", ErrMissingIdentifier, row.description())
	}
	amount, _ := NormalizeCurrency(row.Amount, false)

	e := NewElement("INCOME")
	tran := e.Child("INVTRAN")
	tran.Add("FITID", fitid)
	tran.Add("DTTRADE", compactDate(d, ok)+ofxNoon)
	tran.Add("MEMO", Escape(row.description()))
	e.Append(secID(cusip, "CUSIP"))
	e.Add("INCOMETYPE", incomeType)
	e.Add("TOTAL", amount.String())
	e.Add("SUBACCTSEC", "CASH")
	e.Add("SUBACCTFUND", "CASH")

	security, err := resolveSecurity(row, g.Rules, g.Classifier)
	if err != nil {
		return nil, err
	}
	return &Fragment{Element: e, Security: security}, nil
}

// transfer generates a TRANSFER block. A row with a CUSIP moves security
// units between accounts; a row without one moves cash, with the amount
// standing in for units against the cash pseudo security.
func (g *Generator) transfer(row Row, d Date, ok bool, fitid string) (*Fragment, error) {
	timestamp := compactDate(d, ok) + ofxNoon
	cusip := row.cusip()

	if cusip == "" {
		amount, present := NormalizeCurrency(row.Amount, false)
		if !present {
			return nil, fmt.Errorf("%w: cash transfer carries no amount", ErrIncompleteTransaction)
		}
		e := NewElement("TRANSFER")
		tran := e.Child("INVTRAN")
		tran.Add("FITID", fitid)
		tran.Add("DTTRADE", timestamp)
		tran.Add("MEMO", memo(row))
		e.Append(cashSecID())
		e.Add("SUBACCTSEC", "CASH")
		e.Add("UNITS", amount.String())
		action := "IN"
		if amount.IsNegative() {
			action = "OUT"
		}
		e.Add("TFERACTION", action)
		e.Add("POSTYPE", "LONG")
		return &Fragment{Element: e, Security: cashEntry()}, nil
	}

	e := NewElement("TRANSFER")
	tran := e.Child("INVTRAN")
	tran.Add("FITID", fitid)
	tran.Add("DTTRADE", timestamp)
	tran.Add("MEMO", memo(row))
	e.Append(secID(cusip, "CUSIP"))
	e.Add("SUBACCTSEC", "CASH")
	e.Add("UNITS", NormalizeQuantity(row.Quantity))
	// custody moves record the receiving side, whatever the unit sign
	e.Add("TFERACTION", "IN")
	e.Add("POSTYPE", "LONG")

	security, err := resolveSecurity(row, g.Rules, g.Classifier)
	if err != nil {
		return nil, err
	}
	return &Fragment{Element: e, Security: security}, nil
}
