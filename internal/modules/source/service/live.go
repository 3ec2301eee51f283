package service

import (
	"context"
	"math"

	"fx_terminal/internal/models"
)

// LiveBrokerSource — обёртка над коннектором. Балансу брокера не верим:
// invested notional пересчитывается локально из позиций, cash выводится
// как equity − invested.
type LiveBrokerSource struct {
	broker Broker
}

func NewLiveBrokerSource(b Broker) *LiveBrokerSource {
	return &LiveBrokerSource{broker: b}
}

func (s *LiveBrokerSource) GetPrices(ctx context.Context, uics []int) ([]models.Quote, error) {
	return s.broker.GetPrices(ctx, uics)
}

func (s *LiveBrokerSource) GetBalance(ctx context.Context) (models.Balance, error) {
	balance, err := s.broker.GetBalance(ctx)
	if err != nil {
		return models.Balance{}, err
	}
	positions, err := s.broker.GetPositions(ctx)
	if err != nil {
		return models.Balance{}, err
	}

	invested := 0.0
	for _, pos := range positions {
		price := pos.CurrentPrice
		if price == 0 {
			price = pos.OpenPrice
		}
		invested += math.Abs(pos.Amount * price)
	}

	cash := balance.TotalEquity - invested
	balance.Cash = cash
	balance.CashAvailable = cash
	balance.MarginUsed = invested
	if balance.TotalEquity > 0 {
		balance.MarginPct = invested / balance.TotalEquity * 100
	} else {
		balance.MarginPct = 0
	}
	balance.OpenPositions = len(positions)
	return balance, nil
}

func (s *LiveBrokerSource) GetPositions(ctx context.Context) ([]models.Position, error) {
	return s.broker.GetPositions(ctx)
}

func (s *LiveBrokerSource) GetOrders(ctx context.Context) ([]models.Order, error) {
	return s.broker.GetOrders(ctx)
}

func (s *LiveBrokerSource) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderAck, error) {
	return s.broker.PlaceOrder(ctx, req)
}

func (s *LiveBrokerSource) CancelOrder(ctx context.Context, orderID string) (models.OrderAck, error) {
	return s.broker.CancelOrder(ctx, orderID)
}
