package qfx

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// MissingCusipRule maps a description pattern to the security identity to
// use for rows that carry no CUSIP. Rules are tried in file order; the
// first match wins.
type MissingCusipRule struct {
	// DescriptionRegex matches anywhere in the trimmed description.
	DescriptionRegex string `json:"description_regex"`
	// UniqueID identifies the security in transaction references.
	UniqueID string `json:"uniqueid"`
	// Symbol is used as both name and ticker in the security list.
	Symbol string `json:"symbol"`
	// InfoTag names the security-list aggregate, STOCKINFO when empty.
	InfoTag string `json:"info_tag"`

	re *regexp.Regexp
}

// Match reports whether the rule applies to the given description.
func (r *MissingCusipRule) Match(description string) bool {
	return r.re.MatchString(description)
}

// Config is the mapping file: account display names to statement account
// ids, and the fallback identity rules for securities without a CUSIP.
type Config struct {
	AccountIDMapping  map[string]string  `json:"account_id_mapping"`
	MissingCusipRules []MissingCusipRule `json:"missing_cusip_mapping"`
}

// LoadConfig reads and validates a mapping file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig validates a raw mapping document. Both sections must be
// present, even when empty, and every rule pattern must compile; a mapping
// problem discovered mid-conversion would waste the whole run.
func ParseConfig(data []byte) (*Config, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for _, section := range []string{"account_id_mapping", "missing_cusip_mapping"} {
		if _, ok := sections[section]; !ok {
			return nil, fmt.Errorf("%w: required section %q not found", ErrConfiguration, section)
		}
	}
	cfg := new(Config)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for i := range cfg.MissingCusipRules {
		rule := &cfg.MissingCusipRules[i]
		re, err := regexp.Compile(rule.DescriptionRegex)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %v", ErrConfiguration, i, err)
		}
		rule.re = re
	}
	return cfg, nil
}

// AccountID resolves an account display name, trimmed, against the account
// id mapping.
func (c *Config) AccountID(name string) (string, error) {
	name = strings.TrimSpace(name)
	id, ok := c.AccountIDMapping[name]
	if !ok {
		return "", fmt.Errorf("%w: account name %q", ErrAccountNotMapped, name)
	}
	return id, nil
}
