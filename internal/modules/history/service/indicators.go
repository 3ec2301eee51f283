package service

import "fx_terminal/internal/models"

const (
	smaShortPeriod  = 5
	smaLongPeriod   = 20
	emaShortSpan    = 12
	emaLongSpan     = 26
	rsiPeriod       = 14
	bollingerPeriod = 20
	bollingerWidth  = 2.0

	// минимум точек для расчёта индикаторов вообще
	indicatorMinPoints = 20
)

// Indicators — снапшот теханализа по ряду символа. Пустой результат,
// если точек меньше 20; внутри nil у значений, которым не хватило данных
// (EMA26/MACD появляются только с 26 точек).
func (h *History) Indicators(symbol string) (models.Indicators, bool) {
	prices := h.prices(symbol)
	if len(prices) < indicatorMinPoints {
		return models.Indicators{}, false
	}

	ind := models.Indicators{Current: prices[len(prices)-1]}

	ind.SMA5 = sma(prices, smaShortPeriod)
	ind.SMA20 = sma(prices, smaLongPeriod)
	ind.EMA12 = ema(prices, emaShortSpan)
	ind.EMA26 = ema(prices, emaLongSpan)

	if ind.EMA12 != nil && ind.EMA26 != nil {
		ind.MACD = fptr(*ind.EMA12 - *ind.EMA26)
	}

	ind.RSI = rsi(prices, rsiPeriod)
	ind.BBUpper, ind.BBLower = bollinger(prices, bollingerPeriod, bollingerWidth)

	return ind, true
}

func fptr(v float64) *float64 { return &v }

// sma — среднее по последним period точкам.
func sma(prices []float64, period int) *float64 {
	if len(prices) < period {
		return nil
	}
	tail := prices[len(prices)-period:]
	sum := 0.0
	for _, p := range tail {
		sum += p
	}
	return fptr(sum / float64(period))
}

// ema — рекурсивная экспонента по всей истории, alpha = 2/(span+1).
func ema(prices []float64, span int) *float64 {
	if len(prices) < span {
		return nil
	}
	alpha := 2.0 / float64(span+1)
	v := prices[0]
	for _, p := range prices[1:] {
		v = v + alpha*(p-v)
	}
	return fptr(v)
}

// rsi — средние gain/loss простым средним по последним period дельтам.
func rsi(prices []float64, period int) *float64 {
	if len(prices) < period+1 {
		return nil
	}
	tail := prices[len(prices)-period-1:]

	gain, loss := 0.0, 0.0
	for i := 1; i < len(tail); i++ {
		change := tail[i] - tail[i-1]
		if change > 0 {
			gain += change
		} else {
			loss += -change
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	if avgLoss == 0 {
		return fptr(100)
	}
	rs := avgGain / avgLoss
	return fptr(100 - 100/(1+rs))
}

// bollinger — SMA(period) ± width * population stddev по хвостовому окну.
func bollinger(prices []float64, period int, width float64) (*float64, *float64) {
	if len(prices) < period {
		return nil, nil
	}
	tail := prices[len(prices)-period:]

	sum := 0.0
	for _, p := range tail {
		sum += p
	}
	mean := sum / float64(period)
	std := stdDev(tail, mean)

	return fptr(mean + width*std), fptr(mean - width*std)
}
