package qfx

import (
	"fmt"
)

// Security list aggregate names. Which one a security gets decides how the
// importing application books its positions.
const (
	stockInfoTag = "STOCKINFO"
	mfInfoTag    = "MFINFO"
	otherInfoTag = "OTHERINFO"
)

// cashID is the pseudo identifier cash movements reference instead of a
// real security.
const cashID = "CASH"

// SecurityEntry is one entry of the document security list: the rendered
// aggregate plus the key it deduplicates under. The first transaction to
// reference a security defines its entry; later references reuse it.
type SecurityEntry struct {
	Key     string
	Element *Element
}

// SecurityList collects security entries in first-seen order, one entry per
// key. Order matters: the document lists securities in the order
// transactions first referenced them.
type SecurityList struct {
	seen    map[string]bool
	entries []*SecurityEntry
}

// NewSecurityList returns an empty security list.
func NewSecurityList() *SecurityList {
	return &SecurityList{seen: make(map[string]bool)}
}

// Add records an entry unless its key is already present.
func (l *SecurityList) Add(e *SecurityEntry) {
	if l.seen[e.Key] {
		return
	}
	l.seen[e.Key] = true
	l.entries = append(l.entries, e)
}

// Len returns the number of distinct securities collected.
func (l *SecurityList) Len() int { return len(l.entries) }

// Entries returns the collected entries in first-seen order.
func (l *SecurityList) Entries() []*SecurityEntry { return l.entries }

// secID builds a SECID aggregate.
func secID(id, idType string) *Element {
	e := NewElement("SECID")
	e.Add("UNIQUEID", id).Add("UNIQUEIDTYPE", idType)
	return e
}

// cashSecID is the SECID cash movements carry.
func cashSecID() *Element { return secID(cashID, "CUSIP") }

// resolveSecID returns the SECID for a row: the CUSIP when the export
// carries one, otherwise the identity of the first fallback rule matching
// the description. Rule identities are not CUSIPs, so they are typed OTHER.
func resolveSecID(row Row, rules []MissingCusipRule) (*Element, error) {
	if cusip := row.cusip(); cusip != "" {
		return secID(cusip, "CUSIP"), nil
	}
	description := row.description()
	for i := range rules {
		if rules[i].Match(description) {
			return secID(rules[i].UniqueID, "OTHER"), nil
		}
	}
	return nil, fmt.Errorf("%w: no CUSIP and no fallback rule matches description %q", ErrUnresolvedSecurity, description)
}

// resolveSecurity builds the security list entry for the instrument a row
// trades.
//
// With a CUSIP, the entry is keyed by it; the display symbol falls back to
// the CUSIP when the export leaves the Symbol cell empty, and the
// classifier decides between the fund and equity aggregates. Without a
// CUSIP, the first matching fallback rule supplies identity, symbol and
// aggregate, and the entry is keyed by the rule symbol.
func resolveSecurity(row Row, rules []MissingCusipRule, cls Classifier) (*SecurityEntry, error) {
	secid, err := resolveSecID(row, rules)
	if err != nil {
		return nil, err
	}
	if cusip := row.cusip(); cusip != "" {
		symbol := row.symbol()
		if symbol == "" {
			symbol = cusip
		}
		fund, err := cls.IsFund(symbol)
		if err != nil {
			return nil, err
		}
		tag := stockInfoTag
		if fund {
			tag = mfInfoTag
		}
		return &SecurityEntry{Key: cusip, Element: securityInfo(tag, secid, symbol)}, nil
	}
	description := row.description()
	for i := range rules {
		rule := &rules[i]
		if !rule.Match(description) {
			continue
		}
		tag := rule.InfoTag
		if tag == "" {
			tag = stockInfoTag
		}
		return &SecurityEntry{Key: rule.Symbol, Element: securityInfo(tag, secid, rule.Symbol)}, nil
	}
	return nil, fmt.Errorf("%w: no CUSIP and no fallback rule matches description %q", ErrUnresolvedSecurity, description)
}

// securityInfo builds a security list aggregate: the SECID plus the symbol
// as both name and ticker.
func securityInfo(tag string, secid *Element, symbol string) *Element {
	e := NewElement(tag)
	info := e.Child("SECINFO")
	info.Append(secid)
	info.Add("SECNAME", symbol)
	info.Add("TICKER", symbol)
	return e
}

// cashEntry is the security list entry backing cash movements.
func cashEntry() *SecurityEntry {
	e := NewElement(otherInfoTag)
	info := e.Child("SECINFO")
	info.Append(cashSecID())
	info.Add("SECNAME", "Cash Balance")
	return &SecurityEntry{Key: cashID, Element: e}
}
