package qfx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfig(t *testing.T) {
	cfg := testConfig(t)

	id, err := cfg.AccountID("My Brokerage")
	if err != nil {
		t.Fatalf("AccountID() error = %v", err)
	}
	if id != "123456789" {
		t.Errorf("AccountID() = %q, want %q", id, "123456789")
	}

	if len(cfg.MissingCusipRules) != 1 {
		t.Fatalf("got %d rules, want 1", len(cfg.MissingCusipRules))
	}
	rule := &cfg.MissingCusipRules[0]
	if !rule.Match("WF ADVANTAGE MONEY MARKET FD") {
		t.Errorf("rule should match a money market description")
	}
	if rule.Match("ACME CORP COM") {
		t.Errorf("rule should not match an ordinary description")
	}
}

func TestParseConfigRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"missing accounts", `{"missing_cusip_mapping": []}`},
		{"missing rules", `{"account_id_mapping": {}}`},
		{"bad pattern", `{"account_id_mapping": {}, "missing_cusip_mapping": [{"description_regex": "(", "uniqueid": "X", "symbol": "X"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("ParseConfig() error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestAccountIDTrimsName(t *testing.T) {
	cfg := testConfig(t)
	if _, err := cfg.AccountID("  My Brokerage  "); err != nil {
		t.Errorf("AccountID() should trim the lookup name, got error %v", err)
	}
	if _, err := cfg.AccountID("Unknown Account"); !errors.Is(err, ErrAccountNotMapped) {
		t.Errorf("AccountID() error = %v, want ErrAccountNotMapped", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account_mapping.json")
	data := `{"account_id_mapping": {"My Brokerage": "123456789"}, "missing_cusip_mapping": []}`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("writing mapping: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if _, err := cfg.AccountID("My Brokerage"); err != nil {
		t.Errorf("AccountID() error = %v", err)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); !errors.Is(err, ErrConfiguration) {
		t.Errorf("LoadConfig(absent) error = %v, want ErrConfiguration", err)
	}
}
