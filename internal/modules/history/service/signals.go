package service

import "fx_terminal/internal/models"

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// Signals — дискретные сигналы по индикаторам плюс мажоритарный итог.
// Пустой результат, пока индикаторы не готовы.
func (h *History) Signals(symbol string) (models.TradingSignals, bool) {
	ind, ok := h.Indicators(symbol)
	if !ok {
		return models.TradingSignals{}, false
	}

	var out models.TradingSignals
	var votes []models.Signal

	if ind.SMA5 != nil && ind.SMA20 != nil {
		switch {
		case *ind.SMA5 > *ind.SMA20:
			out.MA = models.SignalBuy
		case *ind.SMA5 < *ind.SMA20:
			out.MA = models.SignalSell
		default:
			out.MA = models.SignalHold
		}
		votes = append(votes, out.MA)
	}

	if ind.RSI != nil {
		switch {
		case *ind.RSI > rsiOverbought:
			out.RSI = models.SignalSell
		case *ind.RSI < rsiOversold:
			out.RSI = models.SignalBuy
		default:
			out.RSI = models.SignalHold
		}
		votes = append(votes, out.RSI)
	}

	if ind.BBUpper != nil && ind.BBLower != nil {
		switch {
		case ind.Current > *ind.BBUpper:
			out.Bollinger = models.SignalSell
		case ind.Current < *ind.BBLower:
			out.Bollinger = models.SignalBuy
		default:
			out.Bollinger = models.SignalHold
		}
		votes = append(votes, out.Bollinger)
	}

	out.Overall = majority(votes)
	return out, true
}

// majority: строго больше BUY, чем SELL — BUY; наоборот — SELL; иначе HOLD.
func majority(votes []models.Signal) models.Signal {
	buys, sells := 0, 0
	for _, v := range votes {
		switch v {
		case models.SignalBuy:
			buys++
		case models.SignalSell:
			sells++
		}
	}
	switch {
	case buys > sells:
		return models.SignalBuy
	case sells > buys:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}
