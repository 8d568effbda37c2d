package qfx

import (
	"bytes"
	"fmt"
	"testing"
)

// fakeClassifier classifies from a fixed set of listed symbols, like the
// listings database does, without touching the filesystem. A non-nil err is
// returned from every lookup.
type fakeClassifier struct {
	listed map[string]bool
	err    error
}

func (f *fakeClassifier) IsFund(symbol string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return !f.listed[symbol], nil
}

// listedOnly returns a classifier treating the given symbols as listed
// equities and everything else as funds.
func listedOnly(symbols ...string) *fakeClassifier {
	listed := make(map[string]bool)
	for _, s := range symbols {
		listed[s] = true
	}
	return &fakeClassifier{listed: listed}
}

// testConfig returns a mapping with one account and one fallback rule, the
// way conversions usually run.
func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := ParseConfig([]byte(`{
		"account_id_mapping": {"My Brokerage": "123456789"},
		"missing_cusip_mapping": [
			{"description_regex": "SWEEP|MONEY MARKET", "uniqueid": "SWEEP01", "symbol": "SWEEPFD", "info_tag": "MFINFO"}
		]
	}`))
	if err != nil {
		t.Fatalf("test mapping does not parse: %v", err)
	}
	return cfg
}

// testGenerator returns a generator wired with the test mapping rules and a
// classifier listing the given symbols.
func testGenerator(t *testing.T, symbols ...string) *Generator {
	t.Helper()
	return &Generator{Rules: testConfig(t).MissingCusipRules, Classifier: listedOnly(symbols...)}
}

// buyRow returns a complete, coherent buy row. Tests override the cells
// they care about.
func buyRow() Row {
	return Row{
		Date:        "01/15/2023",
		Account:     "My Brokerage",
		Activity:    "Buy",
		Description: "ACME CORP COM",
		CUSIP:       "023135106",
		Symbol:      "ACME",
		Quantity:    "10",
		Price:       "25.00",
		Amount:      "(250.00)",
	}
}

// captureLog redirects conversion warnings to a buffer for the duration of
// the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := logf
	logf = func(format string, args ...any) { fmt.Fprintf(&buf, format+"\n", args...) }
	t.Cleanup(func() { logf = old })
	return &buf
}

// freezeNow pins Now to 2023-07-01 10:30:00 for the duration of the test.
func freezeNow(t *testing.T) {
	t.Helper()
	t.Setenv("QFX_TESTING_NOW", "2023-07-01 10:30:00")
}
