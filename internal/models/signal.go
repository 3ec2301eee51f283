package models

type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// PriceStatistics over a symbol's rolling series. Empty (zero Count) below 2 points.
type PriceStatistics struct {
	Current        float64
	Min            float64
	Max            float64
	Mean           float64
	StdDev         float64
	PriceChange    float64
	PriceChangePct float64
	Volatility     float64
	Count          int
}

// Indicators — snapshot derived on demand. Nil pointers mean "not enough data".
type Indicators struct {
	Current float64
	SMA5    *float64
	SMA20   *float64
	EMA12   *float64
	EMA26   *float64
	MACD    *float64
	RSI     *float64
	BBUpper *float64
	BBLower *float64
}

// TradingSignals — discrete per-indicator votes plus the majority outcome.
type TradingSignals struct {
	MA        Signal
	RSI       Signal
	Bollinger Signal
	Overall   Signal
}
