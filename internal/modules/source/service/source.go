package service

import (
	"context"

	"fx_terminal/internal/models"
)

// QuoteSource — единый интерфейс к ценам/балансу/позициям/ордерам.
// Two implementations: LiveBrokerSource (broker connector) and
// SimulatedLedger (in-process paper accounting). Selected at startup.
type QuoteSource interface {
	GetPrices(ctx context.Context, uics []int) ([]models.Quote, error)
	GetBalance(ctx context.Context) (models.Balance, error)
	GetPositions(ctx context.Context) ([]models.Position, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
	PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderAck, error)
	CancelOrder(ctx context.Context, orderID string) (models.OrderAck, error)
}

// Broker — то, что должен уметь брокерский коннектор (live-режим).
type Broker interface {
	GetPrices(ctx context.Context, uics []int) ([]models.Quote, error)
	GetBalance(ctx context.Context) (models.Balance, error)
	GetPositions(ctx context.Context) ([]models.Position, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
	PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderAck, error)
	CancelOrder(ctx context.Context, orderID string) (models.OrderAck, error)
}
