package models

import "time"

type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
)

// TriggerCond — comparison between the latest mid and a stored threshold.
type TriggerCond string

const (
	TriggerLE TriggerCond = "le" // fires when price <= trigger
	TriggerGE TriggerCond = "ge" // fires when price >= trigger
)

// OrderRequest — what a caller submits to a QuoteSource.
type OrderRequest struct {
	UIC      int
	Amount   float64
	Side     Side
	Type     OrderType
	Price    float64 // limit orders only
	Duration string  // "G.T.C" | "Day" | "Week"
}

// OrderAck — placement/cancellation acknowledgement.
type OrderAck struct {
	OrderID string
	Status  string
	Message string
}

// Order — broker-reported working order (live mode).
type Order struct {
	OrderID string
	UIC     int
	Symbol  string
	Side    Side
	Amount  float64
	Price   float64
	Type    OrderType
	Status  string
}

// PendingOrder — conditional order held locally until its trigger fires.
// Removed from the registry the moment an execution attempt begins.
type PendingOrder struct {
	ID           string
	UIC          int
	Symbol       string
	Side         Side
	Amount       float64
	TriggerPrice float64
	TriggerCond  TriggerCond
	CreatedAt    time.Time
}
