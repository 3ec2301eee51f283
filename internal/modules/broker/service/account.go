package service

import (
	"context"
	"net/url"
	"time"

	"fx_terminal/internal/models"
)

// GetBalance — сырой баланс брокера. Cash figures are the broker's own view;
// the live source recomputes them from positions before anyone sees them.
func (c *Client) GetBalance(ctx context.Context) (models.Balance, error) {
	q := url.Values{}
	q.Set("ClientKey", c.clientKey)
	q.Set("AccountKey", c.accountKey)

	var resp struct {
		Currency                   string  `json:"Currency"`
		CashBalance                float64 `json:"CashBalance"`
		CashAvailableForTrading    float64 `json:"CashAvailableForTrading"`
		TotalValue                 float64 `json:"TotalValue"`
		UnrealizedMarginProfitLoss float64 `json:"UnrealizedMarginProfitLoss"`
		OpenPositionsCount         int     `json:"OpenPositionsCount"`
	}
	if err := c.get(ctx, "/port/v1/balances", q, &resp); err != nil {
		return models.Balance{}, err
	}

	return models.Balance{
		Currency:      resp.Currency,
		Cash:          resp.CashBalance,
		CashAvailable: resp.CashAvailableForTrading,
		UnrealizedPnL: resp.UnrealizedMarginProfitLoss,
		TotalEquity:   resp.TotalValue,
		OpenPositions: resp.OpenPositionsCount,
	}, nil
}

// GetPositions — открытые позиции с текущими ценами брокера.
func (c *Client) GetPositions(ctx context.Context) ([]models.Position, error) {
	q := url.Values{}
	q.Set("ClientKey", c.clientKey)
	q.Set("FieldGroups", "DisplayAndFormat,PositionBase,PositionView")

	var resp struct {
		Data []struct {
			PositionBase struct {
				Uic               int     `json:"Uic"`
				Amount            float64 `json:"Amount"`
				OpenPrice         float64 `json:"OpenPrice"`
				ExecutionTimeOpen string  `json:"ExecutionTimeOpen"`
			} `json:"PositionBase"`
			PositionView struct {
				CurrentPrice                    float64 `json:"CurrentPrice"`
				ProfitLossOnTradeInBaseCurrency float64 `json:"ProfitLossOnTradeInBaseCurrency"`
				MarketValueInBaseCurrency       float64 `json:"MarketValueInBaseCurrency"`
			} `json:"PositionView"`
			DisplayAndFormat struct {
				Symbol string `json:"Symbol"`
			} `json:"DisplayAndFormat"`
		} `json:"Data"`
	}
	if err := c.get(ctx, "/port/v1/positions", q, &resp); err != nil {
		return nil, err
	}

	positions := make([]models.Position, 0, len(resp.Data))
	for _, d := range resp.Data {
		openedAt, _ := time.Parse(time.RFC3339, d.PositionBase.ExecutionTimeOpen)
		positions = append(positions, models.Position{
			UIC:           d.PositionBase.Uic,
			Symbol:        d.DisplayAndFormat.Symbol,
			Amount:        d.PositionBase.Amount,
			OpenPrice:     d.PositionBase.OpenPrice,
			OpenedAt:      openedAt,
			CurrentPrice:  d.PositionView.CurrentPrice,
			MarketValue:   d.PositionView.MarketValueInBaseCurrency,
			UnrealizedPnL: d.PositionView.ProfitLossOnTradeInBaseCurrency,
		})
	}
	return positions, nil
}
