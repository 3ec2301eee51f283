package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fx_terminal/internal/models"
	"fx_terminal/internal/modules/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Mode:          "paper",
		Instruments:   config.DefaultInstruments(),
		DefaultPrices: config.DefaultPrices(),
	}
	cfg.Account.Currency = "USD"
	cfg.Account.StartingCash = 1_000_000
	return cfg
}

// stubFeed отдаёт фиксированные mid-ы; err эмулирует недоступный фид.
type stubFeed struct {
	cfg *config.Config

	mu     sync.Mutex
	prices map[int]float64
	err    error
}

func newStubFeed(cfg *config.Config, prices map[int]float64) *stubFeed {
	return &stubFeed{cfg: cfg, prices: prices}
}

func (f *stubFeed) set(uic int, px float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[uic] = px
}

func (f *stubFeed) Connected() bool { return true }

func (f *stubFeed) GetPrices(_ context.Context, uics []int) (map[int]models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int]models.Quote, len(uics))
	for _, uic := range uics {
		px, ok := f.prices[uic]
		if !ok {
			continue
		}
		inst, _ := f.cfg.Instrument(uic)
		out[uic] = models.Quote{
			UIC:    uic,
			Symbol: inst.Symbol,
			Mid:    px,
			Bid:    px,
			Ask:    px,
			Time:   time.Now(),
		}
	}
	return out, nil
}

func newTestLedger(prices map[int]float64) (*SimulatedLedger, *stubFeed) {
	cfg := testConfig()
	feed := newStubFeed(cfg, prices)
	return NewSimulatedLedger(cfg, feed), feed
}

func TestLedgerGetPricesFallback(t *testing.T) {
	ledger, feed := newTestLedger(map[int]float64{})
	feed.err = errors.New("feed down")

	quotes, err := ledger.GetPrices(context.Background(), []int{16, 21, 999})
	require.NoError(t, err)
	require.Len(t, quotes, 2) // неизвестный uic 999 молча пропускается

	assert.Equal(t, 7.45, quotes[0].Mid)
	assert.Equal(t, "EUR/DKK", quotes[0].Symbol)
	assert.Less(t, quotes[0].Bid, quotes[0].Mid)
	assert.Greater(t, quotes[0].Ask, quotes[0].Mid)

	assert.Equal(t, 1.09, quotes[1].Mid)
}

func TestLedgerBuyDebitsCash(t *testing.T) {
	ledger, _ := newTestLedger(map[int]float64{21: 1.10})
	ctx := context.Background()

	ack, err := ledger.PlaceOrder(ctx, models.OrderRequest{
		UIC:    21,
		Amount: 100_000,
		Side:   models.SideBuy,
		Type:   models.OrderTypeMarket,
	})
	require.NoError(t, err)
	assert.Equal(t, "Filled", ack.Status)
	assert.True(t, strings.HasPrefix(ack.OrderID, "PAPER-"))
	assert.Contains(t, ack.Message, "Bought 100000 EUR/USD @ 1.1000")

	balance, err := ledger.GetBalance(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 890_000, balance.Cash, 1e-6)
	assert.InDelta(t, 110_000, balance.MarginUsed, 1e-6)
	assert.InDelta(t, 1_000_000, balance.TotalEquity, 1e-6)
	assert.InDelta(t, 11.0, balance.MarginPct, 1e-9)
	assert.Equal(t, 1, balance.OpenPositions)
	assert.Equal(t, "USD", balance.Currency)
}

func TestLedgerBuyAveraging(t *testing.T) {
	ledger, feed := newTestLedger(map[int]float64{21: 1.10})
	ctx := context.Background()

	_, err := ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 21, Amount: 100_000, Side: models.SideBuy})
	require.NoError(t, err)

	feed.set(21, 1.20)
	ack, err := ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 21, Amount: 100_000, Side: models.SideBuy})
	require.NoError(t, err)
	assert.Contains(t, ack.Message, "Averaged EUR/USD. New Price: 1.1500")

	positions, err := ledger.GetPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.InDelta(t, 200_000, positions[0].Amount, 1e-9)
	assert.InDelta(t, 1.15, positions[0].OpenPrice, 1e-9)
}

func TestLedgerBuyInsufficientFunds(t *testing.T) {
	ledger, _ := newTestLedger(map[int]float64{21: 1.10})
	ctx := context.Background()

	_, err := ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 21, Amount: 10_000_000, Side: models.SideBuy})
	require.Error(t, err)
	assert.True(t, models.IsInsufficientFunds(err))

	// отказ не трогает состояние
	balance, err := ledger.GetBalance(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000, balance.Cash, 1e-6)
	assert.Equal(t, 0, balance.OpenPositions)
}

func TestLedgerSellWithoutPosition(t *testing.T) {
	ledger, _ := newTestLedger(map[int]float64{21: 1.10})

	_, err := ledger.PlaceOrder(context.Background(), models.OrderRequest{UIC: 21, Amount: 1000, Side: models.SideSell})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoPosition))
}

func TestLedgerOverSellClampsAndCloses(t *testing.T) {
	ledger, _ := newTestLedger(map[int]float64{21: 1.10})
	ctx := context.Background()

	_, err := ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 21, Amount: 100_000, Side: models.SideBuy})
	require.NoError(t, err)

	// просим больше, чем есть: продаётся вся позиция, не больше
	_, err = ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 21, Amount: 150_000, Side: models.SideSell})
	require.NoError(t, err)

	balance, err := ledger.GetBalance(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000, balance.Cash, 1e-6)
	assert.Equal(t, 0, balance.OpenPositions)

	positions, err := ledger.GetPositions(ctx)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestLedgerUnrealizedPnL(t *testing.T) {
	ledger, feed := newTestLedger(map[int]float64{21: 1.10})
	ctx := context.Background()

	_, err := ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 21, Amount: 100_000, Side: models.SideBuy})
	require.NoError(t, err)

	feed.set(21, 1.20)
	positions, err := ledger.GetPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.InDelta(t, 10_000, positions[0].UnrealizedPnL, 1e-6)
	assert.InDelta(t, 120_000, positions[0].MarketValue, 1e-6)

	balance, err := ledger.GetBalance(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 10_000, balance.UnrealizedPnL, 1e-6)
	assert.InDelta(t, 1_010_000, balance.TotalEquity, 1e-6)
}

func TestLedgerInversePairConversion(t *testing.T) {
	// USD/JPY: котировка в JPY, счёт в USD — стоимость юнита ровно 1 USD
	ledger, _ := newTestLedger(map[int]float64{31: 149.0})
	ctx := context.Background()

	_, err := ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 31, Amount: 1490, Side: models.SideBuy})
	require.NoError(t, err)

	balance, err := ledger.GetBalance(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000-1490, balance.Cash, 1e-6)
	assert.InDelta(t, 1490, balance.MarginUsed, 1e-6)
}

func TestLedgerCrossPairConversion(t *testing.T) {
	// EUR/GBP конвертируется в USD через GBP/USD
	ledger, _ := newTestLedger(map[int]float64{17: 0.86, 22: 1.27})
	ctx := context.Background()

	_, err := ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 17, Amount: 1000, Side: models.SideBuy})
	require.NoError(t, err)

	balance, err := ledger.GetBalance(ctx)
	require.NoError(t, err)
	cost := 1000 * 0.86 * 1.27
	assert.InDelta(t, 1_000_000-cost, balance.Cash, 1e-6)
}

func TestLedgerChainedPairConversion(t *testing.T) {
	// EUR/DKK: DKK/USD пары нет, конвертация идёт цепочкой через EUR/USD
	ledger, _ := newTestLedger(map[int]float64{16: 7.45, 21: 1.09})
	ctx := context.Background()

	_, err := ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 16, Amount: 1000, Side: models.SideBuy})
	require.NoError(t, err)

	balance, err := ledger.GetBalance(ctx)
	require.NoError(t, err)
	// value(DKK) * EUR/USD / EUR/DKK = 1000*7.45 * 1.09/7.45 = 1090
	assert.InDelta(t, 1_000_000-1090, balance.Cash, 1e-6)
}

func TestLedgerConversionFailSoft(t *testing.T) {
	// кросс-пара без референсной GBP/USD (и без цепочки через EUR/USD):
	// конвертировать нечем, списание остаётся в валюте котировки
	cfg := &config.Config{
		Mode:          "paper",
		Instruments:   []models.Instrument{{UIC: 17, Symbol: "EUR/GBP"}},
		DefaultPrices: map[int]float64{17: 0.86},
	}
	cfg.Account.Currency = "USD"
	cfg.Account.StartingCash = 1_000_000
	ledger := NewSimulatedLedger(cfg, newStubFeed(cfg, map[int]float64{17: 0.86}))
	ctx := context.Background()

	_, err := ledger.PlaceOrder(ctx, models.OrderRequest{UIC: 17, Amount: 1000, Side: models.SideBuy})
	require.NoError(t, err)

	balance, err := ledger.GetBalance(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000-860, balance.Cash, 1e-6)
	assert.InDelta(t, 860, balance.MarginUsed, 1e-6)
}

func TestLedgerNoWorkingOrders(t *testing.T) {
	ledger, _ := newTestLedger(map[int]float64{})
	ctx := context.Background()

	orders, err := ledger.GetOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	ack, err := ledger.CancelOrder(ctx, "some-id")
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", ack.Status)
}
