package qfx

import (
	"fmt"
	"regexp"
	"strings"
)

// requiredColumns are the header names every export must carry. Generators
// address cells by these names only.
var requiredColumns = []string{
	"Date", "Account", "Activity", "Description",
	"CUSIP", "Symbol", "Quantity", "Price", "Amount",
}

// Row is one activity event read from an export. Cells hold the raw text of
// the export; normalization happens when a generator consumes them.
type Row struct {
	Date        string
	Account     string
	Activity    string
	Description string
	CUSIP       string
	Symbol      string
	Quantity    string
	Price       string
	Amount      string
}

// Trimmed accessors for the cells generators dispatch on.

func (r Row) activity() string    { return strings.TrimSpace(r.Activity) }
func (r Row) description() string { return strings.TrimSpace(r.Description) }
func (r Row) cusip() string       { return strings.TrimSpace(r.CUSIP) }
func (r Row) symbol() string      { return strings.TrimSpace(r.Symbol) }

// trailingNumber matches the copy counter some exports append to repeated
// column names.
var trailingNumber = regexp.MustCompile(`\s*\d+$`)

// NormalizeHeader cleans one header cell. Exports repeat the Price and
// Amount columns with a numeric suffix ("Price 1", "Amount 2"); the suffix
// is dropped so that the last such column wins.
func NormalizeHeader(header string) string {
	h := strings.TrimSpace(header)
	lower := strings.ToLower(h)
	if strings.HasPrefix(lower, "price") || strings.HasPrefix(lower, "amount") {
		h = trailingNumber.ReplaceAllString(h, "")
	}
	return h
}

// columnIndex maps normalized header names to their positions. When a name
// appears twice the later column wins. It fails when a required column is
// absent.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[NormalizeHeader(h)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrHeaderNotFound, name)
		}
	}
	return cols, nil
}

// newRow builds a Row from one record using the column index. Records
// shorter than the header read as empty cells; spreadsheet readers trim
// trailing empties, so short records are normal.
func newRow(cols map[string]int, record []string) Row {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	return Row{
		Date:        cell("Date"),
		Account:     cell("Account"),
		Activity:    cell("Activity"),
		Description: cell("Description"),
		CUSIP:       cell("CUSIP"),
		Symbol:      cell("Symbol"),
		Quantity:    cell("Quantity"),
		Price:       cell("Price"),
		Amount:      cell("Amount"),
	}
}
