package models

import "strings"

// Instrument — FX spot pair known to the terminal, keyed by broker UIC.
type Instrument struct {
	UIC    int    `json:"uic" yaml:"uic"`
	Symbol string `json:"symbol" yaml:"symbol"` // "EUR/USD"
}

// Base returns the base currency of the pair ("EUR" for "EUR/USD").
func (i Instrument) Base() string {
	base, _, _ := SplitPair(i.Symbol)
	return base
}

// Quote returns the quote currency of the pair ("USD" for "EUR/USD").
func (i Instrument) Quote() string {
	_, quote, _ := SplitPair(i.Symbol)
	return quote
}

// SplitPair parses "EUR/USD" into base and quote currencies.
func SplitPair(symbol string) (base string, quote string, ok bool) {
	i := strings.IndexByte(symbol, '/')
	if i <= 0 || i >= len(symbol)-1 {
		return "", "", false
	}
	return symbol[:i], symbol[i+1:], true
}
