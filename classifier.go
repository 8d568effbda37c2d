package qfx

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// A Classifier decides whether a symbol names a mutual fund or an exchange
// listed equity. The distinction selects the aggregate shape of both the
// trade blocks and the security list entries, and finance applications care
// about it during import.
//
// The conversion treats anything that is not a known listed equity as a
// fund, including the empty symbol.
type Classifier interface {
	IsFund(symbol string) (bool, error)
}

// Listings is a local database of exchange listed tickers. A symbol present
// in the listings is an equity; everything else classifies as a fund.
type Listings struct {
	tickers map[string]bool
}

// NewListings returns an empty listings database, under which every symbol
// classifies as a fund.
func NewListings() *Listings {
	return &Listings{tickers: make(map[string]bool)}
}

// Add records a listed ticker.
func (l *Listings) Add(ticker string) { l.tickers[ticker] = true }

// Len returns the number of listed tickers.
func (l *Listings) Len() int { return len(l.tickers) }

// IsFund implements Classifier from the local listings.
func (l *Listings) IsFund(symbol string) (bool, error) {
	return !l.tickers[symbol], nil
}

// DecodeListings reads a listings database in JSONL form, one
// {"ticker": "..."} object per line. Blank lines are skipped.
func DecodeListings(r io.Reader) (*Listings, error) {
	l := NewListings()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry struct {
			Ticker string `json:"ticker"`
		}
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("listings line %d: %w", n, err)
		}
		if entry.Ticker == "" {
			return nil, fmt.Errorf("listings line %d: missing ticker", n)
		}
		l.Add(entry.Ticker)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listings: %w", err)
	}
	return l, nil
}

// LoadListings opens and decodes a listings file.
func LoadListings(path string) (*Listings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening listings: %w", err)
	}
	defer f.Close()
	l, err := DecodeListings(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}
