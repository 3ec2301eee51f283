package service

import (
	"context"
	"testing"

	"fx_terminal/internal/modules/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Instruments:   config.DefaultInstruments(),
		DefaultPrices: config.DefaultPrices(),
	}
}

func TestRandomWalkGetPrices(t *testing.T) {
	feed := NewRandomWalk(testConfig())
	assert.True(t, feed.Connected())

	quotes, err := feed.GetPrices(context.Background(), []int{21, 31, 999})
	require.NoError(t, err)
	require.Len(t, quotes, 2) // неизвестный uic пропускается

	q := quotes[21]
	assert.Equal(t, "EUR/USD", q.Symbol)
	// шаг ±5bp от дефолтной цены
	assert.InDelta(t, 1.09, q.Mid, 1.09*0.001)
	assert.Less(t, q.Bid, q.Mid)
	assert.Greater(t, q.Ask, q.Mid)
	assert.False(t, q.Time.IsZero())

	assert.InDelta(t, 149.0, quotes[31].Mid, 149.0*0.001)
}

func TestRandomWalkDrifts(t *testing.T) {
	feed := NewRandomWalk(testConfig())
	ctx := context.Background()

	first, err := feed.GetPrices(ctx, []int{21})
	require.NoError(t, err)

	changed := false
	for i := 0; i < 50; i++ {
		next, err := feed.GetPrices(ctx, []int{21})
		require.NoError(t, err)
		if next[21].Mid != first[21].Mid {
			changed = true
			break
		}
	}
	assert.True(t, changed, "random walk should move off its seed price")
}
