package models

import "time"

// Position — open paper/live position. Exists only while Amount != 0.
// OpenPrice is the notional-weighted average over same-direction additions.
type Position struct {
	UIC       int
	Symbol    string
	Amount    float64
	OpenPrice float64
	OpenedAt  time.Time

	// Revalued on every query, never stored.
	CurrentPrice  float64
	MarketValue   float64
	UnrealizedPnL float64
}

// Balance — derived account snapshot, recomputed on every query.
type Balance struct {
	Currency      string
	Cash          float64
	CashAvailable float64
	UnrealizedPnL float64
	TotalEquity   float64
	OpenPositions int
	MarginUsed    float64
	MarginPct     float64
}
