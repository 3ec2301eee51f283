package models

import "time"

// Quote — one price observation for an instrument. Ephemeral, produced per poll.
type Quote struct {
	UIC    int
	Symbol string
	Mid    float64
	Bid    float64
	Ask    float64
	Time   time.Time
}

// PricePoint — one element of a symbol's rolling price series.
type PricePoint struct {
	Time  time.Time
	Price float64
}
