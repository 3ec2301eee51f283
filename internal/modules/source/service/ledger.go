package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fx_terminal/internal/models"
	"fx_terminal/internal/modules/config"
	feedsvc "fx_terminal/internal/modules/feed/service"
	"fx_terminal/pkg/tracing"

	"github.com/google/uuid"
)

const spreadFactor = 0.0001

// SimulatedLedger — paper-trading движок: кэш + позиции в памяти,
// переоценка по текущему mid на каждый запрос.
type SimulatedLedger struct {
	cfg  *config.Config
	feed feedsvc.Feed

	mu        sync.Mutex
	cash      float64
	positions map[int]*paperPosition
}

type paperPosition struct {
	symbol    string
	amount    float64
	openPrice float64
	openedAt  time.Time
}

func NewSimulatedLedger(cfg *config.Config, feed feedsvc.Feed) *SimulatedLedger {
	return &SimulatedLedger{
		cfg:       cfg,
		feed:      feed,
		cash:      cfg.Account.StartingCash,
		positions: make(map[int]*paperPosition),
	}
}

// GetPrices делегирует фиду; при сбое подставляет дефолтную цену
// инструмента — доступность важнее точности.
func (s *SimulatedLedger) GetPrices(ctx context.Context, uics []int) ([]models.Quote, error) {
	fromFeed, err := s.feed.GetPrices(ctx, uics)
	if err != nil {
		fromFeed = nil
	}

	now := time.Now()
	quotes := make([]models.Quote, 0, len(uics))
	for _, uic := range uics {
		if q, ok := fromFeed[uic]; ok {
			quotes = append(quotes, q)
			continue
		}

		inst, ok := s.cfg.Instrument(uic)
		if !ok {
			continue
		}
		px, ok := s.cfg.DefaultPrices[uic]
		if !ok {
			px = 1.0
		}
		spread := px * spreadFactor
		quotes = append(quotes, models.Quote{
			UIC:    uic,
			Symbol: inst.Symbol,
			Mid:    px,
			Bid:    px - spread/2,
			Ask:    px + spread/2,
			Time:   now,
		})
	}
	return quotes, nil
}

func (s *SimulatedLedger) quote(ctx context.Context, uic int) (models.Quote, bool) {
	quotes, err := s.GetPrices(ctx, []int{uic})
	if err != nil || len(quotes) == 0 {
		return models.Quote{}, false
	}
	return quotes[0], true
}

// convertToAccount переводит value (в котируемой валюте пары uic) в валюту
// счёта. pairPrice — текущая цена самой пары. Любой неудачный кросс-лукап
// fail-soft: возвращаем неконвертированное значение, а не ошибку.
func (s *SimulatedLedger) convertToAccount(ctx context.Context, value float64, uic int, pairPrice float64) float64 {
	inst, ok := s.cfg.Instrument(uic)
	if !ok {
		return value
	}
	base, quoteCcy := inst.Base(), inst.Quote()
	if base == "" || quoteCcy == "" {
		return value
	}
	account := s.cfg.Account.Currency

	// котируется прямо в валюте счёта: EUR/USD -> USD
	if quoteCcy == account {
		return value
	}

	// обратная котировка: USD/JPY -> делим на цену пары
	if base == account {
		if pairPrice == 0 {
			return 0
		}
		return value / pairPrice
	}

	// кросс через референсную пару quote/account: EUR/GBP -> GBP/USD
	if ref, ok := s.cfg.InstrumentBySymbol(quoteCcy + "/" + account); ok {
		if mid, ok := s.refMid(ctx, ref.UIC); ok {
			return value * mid
		}
		return value
	}

	// цепочка через base/account: EUR/DKK -> в EUR по цене пары, дальше EUR/USD
	if ref, ok := s.cfg.InstrumentBySymbol(base + "/" + account); ok {
		if mid, ok := s.refMid(ctx, ref.UIC); ok && pairPrice != 0 {
			return value * mid / pairPrice
		}
		return value
	}

	return value
}

// refMid — рекурсивный get_prices по референсной паре.
func (s *SimulatedLedger) refMid(ctx context.Context, uic int) (float64, bool) {
	q, ok := s.quote(ctx, uic)
	if !ok || q.Mid <= 0 {
		return 0, false
	}
	return q.Mid, true
}

// PlaceOrder исполняет рыночный ордер немедленно по текущему mid.
// Limit-ордера в paper-режиме тоже филлятся сразу: условные триггеры
// живут в OrderMonitor, сюда приходит уже сработавший ордер.
func (s *SimulatedLedger) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderAck, error) {
	span, ctx := tracing.StartSpan(ctx, "ledger.place_order")
	defer span.Finish()

	q, ok := s.quote(ctx, req.UIC)
	if !ok {
		return models.OrderAck{}, fmt.Errorf("%w: uic=%d", models.ErrNoPriceAvailable, req.UIC)
	}
	// стоимость одной единицы в валюте счёта; конвертация линейна,
	// поэтому дальше обходимся без походов в фид под локом
	perUnit := s.convertToAccount(ctx, q.Mid, req.UIC, q.Mid)

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Side == models.SideBuy {
		return s.buyLocked(req, q, req.Amount*perUnit)
	}
	return s.sellLocked(req, q, perUnit)
}

func (s *SimulatedLedger) buyLocked(req models.OrderRequest, q models.Quote, cost float64) (models.OrderAck, error) {
	if cost > s.cash {
		return models.OrderAck{}, &models.InsufficientFundsError{Required: cost, Available: s.cash}
	}

	s.cash -= cost

	var msg string
	if pos, ok := s.positions[req.UIC]; ok {
		total := pos.amount + req.Amount
		pos.openPrice = (pos.amount*pos.openPrice + req.Amount*q.Mid) / total
		pos.amount = total
		msg = fmt.Sprintf("Averaged %s. New Price: %.4f", q.Symbol, pos.openPrice)
	} else {
		s.positions[req.UIC] = &paperPosition{
			symbol:    q.Symbol,
			amount:    req.Amount,
			openPrice: q.Mid,
			openedAt:  time.Now(),
		}
		msg = fmt.Sprintf("Bought %.0f %s @ %.4f (Cost: %.2f %s)",
			req.Amount, q.Symbol, q.Mid, cost, s.cfg.Account.Currency)
	}

	return s.ack(msg), nil
}

func (s *SimulatedLedger) sellLocked(req models.OrderRequest, q models.Quote, perUnit float64) (models.OrderAck, error) {
	pos, ok := s.positions[req.UIC]
	if !ok {
		return models.OrderAck{}, fmt.Errorf("%w: cannot sell %s", models.ErrNoPosition, q.Symbol)
	}

	// over-sell молча ограничиваем размером позиции
	amount := req.Amount
	if amount > pos.amount {
		amount = pos.amount
	}

	proceeds := amount * perUnit
	s.cash += proceeds

	pos.amount -= amount
	if pos.amount <= 0 {
		delete(s.positions, req.UIC)
	}

	return s.ack(fmt.Sprintf("Sold %s. Received: %.2f %s", q.Symbol, proceeds, s.cfg.Account.Currency)), nil
}

func (s *SimulatedLedger) ack(msg string) models.OrderAck {
	return models.OrderAck{
		OrderID: "PAPER-" + uuid.NewString(),
		Status:  "Filled",
		Message: msg,
	}
}

// GetBalance пересчитывает баланс по текущим ценам, ничего не кэшируя.
func (s *SimulatedLedger) GetBalance(ctx context.Context) (models.Balance, error) {
	cash, snapshot := s.snapshot()

	invested := 0.0
	unrealized := 0.0
	for uic, pos := range snapshot {
		q, ok := s.quote(ctx, uic)
		if !ok {
			continue
		}
		invested += s.convertToAccount(ctx, pos.amount*q.Mid, uic, q.Mid)
		unrealized += s.convertToAccount(ctx, (q.Mid-pos.openPrice)*pos.amount, uic, q.Mid)
	}

	total := cash + invested
	marginPct := 0.0
	if total > 0 {
		marginPct = invested / total * 100
	}

	return models.Balance{
		Currency:      s.cfg.Account.Currency,
		Cash:          cash,
		CashAvailable: cash,
		UnrealizedPnL: unrealized,
		TotalEquity:   total,
		OpenPositions: len(snapshot),
		MarginUsed:    invested,
		MarginPct:     marginPct,
	}, nil
}

// GetPositions возвращает позиции, переоценённые по текущему mid.
func (s *SimulatedLedger) GetPositions(ctx context.Context) ([]models.Position, error) {
	_, snapshot := s.snapshot()

	positions := make([]models.Position, 0, len(snapshot))
	for uic, pos := range snapshot {
		q, ok := s.quote(ctx, uic)
		if !ok {
			continue
		}
		positions = append(positions, models.Position{
			UIC:           uic,
			Symbol:        pos.symbol,
			Amount:        pos.amount,
			OpenPrice:     pos.openPrice,
			OpenedAt:      pos.openedAt,
			CurrentPrice:  q.Mid,
			MarketValue:   pos.amount * q.Mid,
			UnrealizedPnL: s.convertToAccount(ctx, (q.Mid-pos.openPrice)*pos.amount, uic, q.Mid),
		})
	}
	return positions, nil
}

// snapshot копирует состояние под локом; переоценка идёт уже без лока,
// чтобы не держать мьютекс на время походов в фид.
func (s *SimulatedLedger) snapshot() (float64, map[int]paperPosition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]paperPosition, len(s.positions))
	for uic, pos := range s.positions {
		out[uic] = *pos
	}
	return s.cash, out
}

// GetOrders: в paper-режиме рабочих ордеров нет — всё филлится сразу.
func (s *SimulatedLedger) GetOrders(context.Context) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (s *SimulatedLedger) CancelOrder(_ context.Context, orderID string) (models.OrderAck, error) {
	return models.OrderAck{OrderID: orderID, Status: "Cancelled", Message: "Order cancelled"}, nil
}
