package qfx

import (
	"fmt"
	"strings"
)

// Institution identity the generated statements carry. Importing
// applications look the institution up by these; 4705 is the bank id
// Quicken resolves the download against.
const (
	brokerID   = "WellsFargo"
	intuBankID = "4705"
	intuUserID = "U424465"
)

// ofxHeader is the fixed declaration block of an OFX 1.02 SGML download,
// separated from the body by a blank line.
var ofxHeader = []string{
	"OFXHEADER:100",
	"DATA:OFXSGML",
	"VERSION:102",
	"SECURITY:NONE",
	"ENCODING:USASCII",
	"CHARSET:1252",
	"COMPRESSION:NONE",
	"OLDFILEUID:NONE",
	"NEWFILEUID:NONE",
	"",
}

// Document is a complete investment statement download: the account it
// belongs to, the period its dated rows span, the transaction fragments in
// export order, and the securities they reference.
type Document struct {
	AccountID  string
	Start, End Date
	HasPeriod  bool // false when no row carried a parseable date
	Fragments  []*Fragment
	Securities *SecurityList
}

// Build converts statement rows into a document. The account is taken from
// the first row and resolved through the mapping; every row must convert
// for the document to exist at all.
func Build(rows []Row, cfg *Config, cls Classifier) (*Document, error) {
	gen := &Generator{Rules: cfg.MissingCusipRules, Classifier: cls}
	doc := &Document{Securities: NewSecurityList()}
	for i, row := range rows {
		if d, ok := ParseRowDate(row.Date); ok {
			if !doc.HasPeriod {
				doc.Start, doc.End = d, d
				doc.HasPeriod = true
			} else {
				if d.Before(doc.Start) {
					doc.Start = d
				}
				if doc.End.Before(d) {
					doc.End = d
				}
			}
		}
		fragment, err := gen.Generate(row, i+1)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if fragment.Security != nil {
			doc.Securities.Add(fragment.Security)
		}
		doc.Fragments = append(doc.Fragments, fragment)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no account information found in statement")
	}
	accountID, err := cfg.AccountID(rows[0].Account)
	if err != nil {
		return nil, err
	}
	doc.AccountID = accountID
	return doc, nil
}

// counts returns how many investment and banking fragments the document
// holds.
func (doc *Document) counts() (invest, bank int) {
	for _, f := range doc.Fragments {
		if f.Bank {
			bank++
		} else {
			invest++
		}
	}
	return
}

// String renders the document: the declaration header, then the SGML body.
func (doc *Document) String() string {
	var b strings.Builder
	for _, line := range ofxHeader {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	doc.root().render(&b, 0)
	return b.String()
}

// root assembles the document element tree: the signon envelope, the
// statement with its transaction list and zeroed balances, and the security
// list when any security was referenced.
func (doc *Document) root() *Element {
	now := Now()

	ofx := NewElement("OFX")

	signon := ofx.Child("SIGNONMSGSRSV1").Child("SONRS")
	status := signon.Child("STATUS")
	status.Add("CODE", "0")
	status.Add("SEVERITY", "INFO")
	signon.Add("DTSERVER", now.Format("20060102150405"))
	signon.Add("LANGUAGE", "ENG")
	signon.Child("FI").Add("ORG", intuBankID)
	signon.Add("INTU.BID", intuBankID)
	signon.Add("INTU.USERID", intuUserID)

	trnrs := ofx.Child("INVSTMTMSGSRSV1").Child("INVSTMTTRNRS")
	trnrs.Add("TRNUID", "0")
	status = trnrs.Child("STATUS")
	status.Add("CODE", "0")
	status.Add("SEVERITY", "INFO")
	rs := trnrs.Child("INVSTMTRS")
	rs.Add("DTASOF", NewDate(now.Date()).Compact())
	rs.Add("CURDEF", DefaultCurrency)
	acct := rs.Child("INVACCTFROM")
	acct.Add("BROKERID", brokerID)
	acct.Add("ACCTID", doc.AccountID)

	list := rs.Child("INVTRANLIST")
	list.Add("DTSTART", Timestamp(doc.Start, doc.HasPeriod))
	list.Add("DTEND", Timestamp(doc.End, doc.HasPeriod))
	// investment blocks keep export order; banking blocks follow, in
	// export order too
	for _, f := range doc.Fragments {
		if !f.Bank {
			list.Append(f.Element)
		}
	}
	for _, f := range doc.Fragments {
		if f.Bank {
			list.Append(f.Element)
		}
	}

	bal := rs.Child("INVBAL")
	bal.Add("AVAILCASH", "0.00")
	bal.Add("MARGINBALANCE", "0.00")
	bal.Add("SHORTBALANCE", "0.00")

	if doc.Securities.Len() > 0 {
		seclist := ofx.Child("SECLISTMSGSRSV1").Child("SECLIST")
		for _, s := range doc.Securities.Entries() {
			seclist.Append(s.Element)
		}
	}
	return ofx
}
