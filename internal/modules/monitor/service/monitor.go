package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fx_terminal/internal/models"
	"fx_terminal/internal/modules/config"
	sourcesvc "fx_terminal/internal/modules/source/service"
	"fx_terminal/internal/notify"
	"fx_terminal/pkg/logger"

	"github.com/google/uuid"
)

// ErrSellNotSupported: условные ордера только на покупку — paper-гроссбух
// не умеет открывать шорты, так что sell отбиваем сразу и громко.
var ErrSellNotSupported = errors.New("only buy-side conditional orders are supported")

// PriceGetter — обратная ссылка на оркестратор, только для цен.
type PriceGetter interface {
	GetPrices(ctx context.Context, uics []int) ([]models.Quote, error)
}

// Monitor — фоновый шедулер условных ордеров. Реестр pending-ордеров
// живёт только под mu; сетевые вызовы под локом не делаются никогда.
type Monitor struct {
	cfg      *config.Config
	source   sourcesvc.QuoteSource
	notifier notify.Notifier

	mu     sync.Mutex
	prices PriceGetter // nil до привязки к оркестратору
	orders map[string]models.PendingOrder

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewMonitor(cfg *config.Config, src sourcesvc.QuoteSource, n notify.Notifier) *Monitor {
	return &Monitor{
		cfg:      cfg,
		source:   src,
		notifier: n,
		orders:   make(map[string]models.PendingOrder),
	}
}

// BindPrices выставляет фасад цен. Вызывается оркестратором при сборке.
func (m *Monitor) BindPrices(p PriceGetter) {
	m.mu.Lock()
	m.prices = p
	m.mu.Unlock()
}

func (m *Monitor) priceGetter() PriceGetter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prices != nil {
		return m.prices
	}
	return m.source
}

// AddLimitOrder регистрирует условный buy-ордер и возвращает его id.
// Условие срабатывания: цена неизвестна — le; limit выше текущей — ge
// (breakout/stop); иначе le (классический limit-on-dip).
func (m *Monitor) AddLimitOrder(ctx context.Context, uic int, symbol string, side models.Side, amount, limitPrice float64) (string, error) {
	if side != models.SideBuy {
		return "", ErrSellNotSupported
	}

	cond := models.TriggerLE
	if current, ok := m.currentPrice(ctx, uic); ok && limitPrice > current {
		cond = models.TriggerGE
	}

	order := models.PendingOrder{
		ID:           uuid.NewString(),
		UIC:          uic,
		Symbol:       symbol,
		Side:         models.SideBuy,
		Amount:       amount,
		TriggerPrice: limitPrice,
		TriggerCond:  cond,
		CreatedAt:    time.Now(),
	}

	m.mu.Lock()
	m.orders[order.ID] = order
	m.mu.Unlock()

	logger.Info("[MONITOR] pending %s %.0f %s @%.4f cond=%s id=%s",
		order.Side, order.Amount, order.Symbol, order.TriggerPrice, order.TriggerCond, order.ID)
	return order.ID, nil
}

// GetPendingOrders — снапшот реестра.
func (m *Monitor) GetPendingOrders() []models.PendingOrder {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.PendingOrder, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out
}

// CancelPending снимает ещё не сработавший ордер.
func (m *Monitor) CancelPending(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return false
	}
	delete(m.orders, id)
	return true
}

func (m *Monitor) currentPrice(ctx context.Context, uic int) (float64, bool) {
	quotes, err := m.priceGetter().GetPrices(ctx, []int{uic})
	if err != nil || len(quotes) == 0 {
		return 0, false
	}
	return quotes[0].Mid, true
}

// Running сообщает, крутится ли цикл мониторинга.
func (m *Monitor) Running() bool { return m.running.Load() }

// Start поднимает цикл опроса; повторный вызов — no-op.
func (m *Monitor) Start(parent context.Context) {
	if m.running.Swap(true) {
		return
	}

	var ctx context.Context
	ctx, m.cancel = context.WithCancel(parent)
	m.done = make(chan struct{})

	go m.loop(ctx)
	logger.Info("[MONITOR] loop started, interval=%s", m.interval())
}

// Stop сигналит циклу и ждёт его не дольше таймаута; возвращается в любом
// случае — best-effort shutdown.
func (m *Monitor) Stop() {
	if !m.running.Load() {
		return
	}
	if m.cancel != nil {
		m.cancel()
	}

	timeout := m.cfg.MonitorStopTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	select {
	case <-m.done:
	case <-time.After(timeout):
		logger.Error("[MONITOR] stop: loop did not finish within %s", timeout)
	}
}

func (m *Monitor) interval() time.Duration {
	if m.cfg.MonitorInterval > 0 {
		return m.cfg.MonitorInterval
	}
	return 500 * time.Millisecond
}

func (m *Monitor) loop(ctx context.Context) {
	defer func() {
		m.running.Store(false)
		close(m.done)
	}()

	ticker := time.NewTicker(m.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runCycle(ctx)
		}
	}
}

// runCycle: снапшот реестра под локом, цены — уже без лока. Любая ошибка
// логируется, цикл живёт до следующего тика.
func (m *Monitor) runCycle(ctx context.Context) {
	m.mu.Lock()
	if len(m.orders) == 0 {
		m.mu.Unlock()
		return
	}
	active := make([]models.PendingOrder, 0, len(m.orders))
	uicSet := make(map[int]struct{})
	for _, o := range m.orders {
		active = append(active, o)
		uicSet[o.UIC] = struct{}{}
	}
	getter := m.prices
	m.mu.Unlock()

	uics := make([]int, 0, len(uicSet))
	for uic := range uicSet {
		uics = append(uics, uic)
	}

	if getter == nil {
		getter = m.source
	}
	quotes, err := getter.GetPrices(ctx, uics)
	if err != nil {
		logger.Error("[MONITOR] price fetch: %v", err)
		return
	}

	priceMap := make(map[int]float64, len(quotes))
	for _, q := range quotes {
		priceMap[q.UIC] = q.Mid
	}

	m.checkTriggers(ctx, active, priceMap)
}

func (m *Monitor) checkTriggers(ctx context.Context, orders []models.PendingOrder, priceMap map[int]float64) {
	for _, order := range orders {
		price, ok := priceMap[order.UIC]
		if !ok {
			continue
		}

		triggered := false
		switch order.TriggerCond {
		case models.TriggerLE:
			triggered = price <= order.TriggerPrice
		case models.TriggerGE:
			triggered = price >= order.TriggerPrice
		}

		if triggered {
			m.execute(ctx, order, price)
		}
	}
}

// execute: сначала атомарно снимаем ордер с реестра — ровно одна попытка
// исполнения на ордер, что бы дальше ни случилось. Повторов нет.
func (m *Monitor) execute(ctx context.Context, order models.PendingOrder, price float64) {
	m.mu.Lock()
	if _, ok := m.orders[order.ID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.orders, order.ID)
	m.mu.Unlock()

	_, err := m.source.PlaceOrder(ctx, models.OrderRequest{
		UIC:    order.UIC,
		Amount: order.Amount,
		Side:   order.Side,
		Type:   models.OrderTypeMarket,
	})
	if err != nil {
		m.notifier.Notifyf(notify.SeverityError, "Order Failed: %v", err)
		return
	}

	msg := fmt.Sprintf("FILLED: %s %s at %.4f", order.Side, order.Symbol, price)
	logger.Info("[MONITOR] %s", msg)
	m.notifier.Notify(msg, notify.SeverityInfo)
}
