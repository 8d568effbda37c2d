package qfx

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aclindsa/ofxgo"
)

// Summary describes a generated document the way a consuming application
// sees it after import: the envelope identity, the statement period, and
// how many blocks of each kind survived the round trip.
type Summary struct {
	Org        string
	AccountID  string
	Start, End Date
	Invest     int            // investment transaction blocks
	Bank       int            // banking transaction blocks
	Securities int            // entries in the security list
	Kinds      map[string]int // blocks by kind
}

// Verify parses a rendered document back through the same OFX library
// consuming applications build on, and summarizes what it read. A document
// that fails here would fail the import too.
func Verify(r io.Reader) (*Summary, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, fmt.Errorf("document does not parse back: %w", err)
	}
	if len(resp.InvStmt) == 0 {
		return nil, fmt.Errorf("document carries no investment statement")
	}
	stmt, ok := resp.InvStmt[0].(*ofxgo.InvStatementResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected statement type %T", resp.InvStmt[0])
	}
	s := &Summary{
		Org:       resp.Signon.Org.String(),
		AccountID: stmt.InvAcctFrom.AcctID.String(),
		Kinds:     make(map[string]int),
	}
	if list := stmt.InvTranList; list != nil {
		s.Start = NewDate(list.DtStart.Time.Date())
		s.End = NewDate(list.DtEnd.Time.Date())
		s.Invest = len(list.InvTransactions)
		s.Bank = len(list.BankTransactions)
		for _, txn := range list.InvTransactions {
			s.Kinds[kindOf(txn)]++
		}
		for _, bank := range list.BankTransactions {
			for _, txn := range bank.Transactions {
				s.Kinds[txn.TrnType.String()]++
			}
		}
	}
	for _, msg := range resp.SecList {
		if list, ok := msg.(*ofxgo.SecurityList); ok {
			s.Securities += len(list.Securities)
		}
	}
	return s, nil
}

// kindOf names an investment block by its library type, BuyStock, Income,
// Transfer and so on.
func kindOf(txn any) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", txn), "*")
	return strings.TrimPrefix(name, "ofxgo.")
}

// Check compares the summary against the document that produced it and
// reports the first discrepancy. It is the second half of the conversion's
// verify mode: render, parse back, compare.
func (s *Summary) Check(doc *Document) error {
	if s.AccountID != doc.AccountID {
		return fmt.Errorf("account id read back as %q, generated %q", s.AccountID, doc.AccountID)
	}
	invest, bank := doc.counts()
	if s.Invest != invest || s.Bank != bank {
		return fmt.Errorf("read back %d investment and %d banking transactions, generated %d and %d",
			s.Invest, s.Bank, invest, bank)
	}
	if s.Securities != doc.Securities.Len() {
		return fmt.Errorf("read back %d securities, generated %d", s.Securities, doc.Securities.Len())
	}
	return nil
}

// String renders the summary as a short human readable report.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "org:          %s\n", s.Org)
	fmt.Fprintf(&b, "account:      %s\n", s.AccountID)
	if !s.Start.IsZero() || !s.End.IsZero() {
		fmt.Fprintf(&b, "period:       %s to %s\n", s.Start, s.End)
	}
	fmt.Fprintf(&b, "transactions: %d investment, %d banking\n", s.Invest, s.Bank)
	fmt.Fprintf(&b, "securities:   %d\n", s.Securities)
	kinds := make([]string, 0, len(s.Kinds))
	for k := range s.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(&b, "  %-12s %d\n", k, s.Kinds[k])
	}
	return b.String()
}
