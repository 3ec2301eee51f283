package service

import (
	"context"

	"fx_terminal/internal/models"
)

// Feed — источник котировок. Возвращает последние известные цены по UIC.
// Partial results are allowed: a UIC the feed knows nothing about is simply
// absent from the map, and callers decide how to fill the gap.
type Feed interface {
	GetPrices(ctx context.Context, uics []int) (map[int]models.Quote, error)
	Connected() bool
}
