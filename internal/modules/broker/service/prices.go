package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fx_terminal/internal/models"
)

func decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

// GetPrices — инфо-цены по списку UIC одним запросом.
func (c *Client) GetPrices(ctx context.Context, uics []int) ([]models.Quote, error) {
	ids := make([]string, 0, len(uics))
	for _, uic := range uics {
		ids = append(ids, strconv.Itoa(uic))
	}

	q := url.Values{}
	q.Set("Uics", strings.Join(ids, ","))
	q.Set("AccountKey", c.accountKey)
	q.Set("AssetType", "FxSpot")
	q.Set("FieldGroups", "Quote,DisplayAndFormat")

	var resp struct {
		Data []struct {
			Uic   int `json:"Uic"`
			Quote struct {
				Mid float64 `json:"Mid"`
				Bid float64 `json:"Bid"`
				Ask float64 `json:"Ask"`
			} `json:"Quote"`
			DisplayAndFormat struct {
				Symbol string `json:"Symbol"`
			} `json:"DisplayAndFormat"`
		} `json:"Data"`
	}
	if err := c.get(ctx, "/trade/v1/infoprices/list", q, &resp); err != nil {
		return nil, err
	}

	now := time.Now()
	quotes := make([]models.Quote, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.Quote.Mid <= 0 {
			continue
		}
		quotes = append(quotes, models.Quote{
			UIC:    d.Uic,
			Symbol: d.DisplayAndFormat.Symbol,
			Mid:    d.Quote.Mid,
			Bid:    d.Quote.Bid,
			Ask:    d.Quote.Ask,
			Time:   now,
		})
	}
	return quotes, nil
}
