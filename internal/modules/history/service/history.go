package service

import (
	"math"
	"sync"
	"time"

	"fx_terminal/internal/models"
	"fx_terminal/internal/modules/config"
)

// History — ограниченные ценовые ряды по символам. Пишет ingest-луп,
// читают индикаторы и UI; потребители всегда работают со снапшотом,
// устаревшее хвостовое окно для индикаторов допустимо.
type History struct {
	limit int

	mu     sync.RWMutex
	series map[string][]models.PricePoint
}

func NewHistory(cfg *config.Config) *History {
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = 1000
	}
	return &History{
		limit:  limit,
		series: make(map[string][]models.PricePoint),
	}
}

// AddPriceData добавляет точку; при переполнении выбрасываем самую старую.
func (h *History) AddPriceData(symbol string, price float64, ts time.Time) {
	if ts.IsZero() {
		ts = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s := append(h.series[symbol], models.PricePoint{Time: ts, Price: price})
	if len(s) > h.limit {
		s = s[len(s)-h.limit:]
	}
	h.series[symbol] = s
}

// Points — копия ряда для UI.
func (h *History) Points(symbol string) []models.PricePoint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]models.PricePoint(nil), h.series[symbol]...)
}

func (h *History) prices(symbol string) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := h.series[symbol]
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// Statistics — сводка по ряду; пустой результат, если точек меньше двух.
func (h *History) Statistics(symbol string) (models.PriceStatistics, bool) {
	prices := h.prices(symbol)
	if len(prices) < 2 {
		return models.PriceStatistics{}, false
	}

	minPx, maxPx := prices[0], prices[0]
	sum := 0.0
	for _, p := range prices {
		if p < minPx {
			minPx = p
		}
		if p > maxPx {
			maxPx = p
		}
		sum += p
	}
	mean := sum / float64(len(prices))
	std := stdDev(prices, mean)

	current := prices[len(prices)-1]
	prev := prices[len(prices)-2]

	changePct := 0.0
	if prev != 0 {
		changePct = (current - prev) / prev * 100
	}
	volatility := 0.0
	if mean != 0 {
		volatility = std / mean * 100
	}

	return models.PriceStatistics{
		Current:        current,
		Min:            minPx,
		Max:            maxPx,
		Mean:           mean,
		StdDev:         std,
		PriceChange:    current - prev,
		PriceChangePct: changePct,
		Volatility:     volatility,
		Count:          len(prices),
	}, true
}

// stdDev — population standard deviation.
func stdDev(prices []float64, mean float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	acc := 0.0
	for _, p := range prices {
		d := p - mean
		acc += d * d
	}
	return math.Sqrt(acc / float64(len(prices)))
}
