package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"fx_terminal/internal/models"

	"github.com/bytedance/sonic"
)

var durationMap = map[string]string{
	"G.T.C": "GoodTillCancel",
	"Day":   "DayOrder",
	"Week":  "GoodTillDate",
}

// GetOrders — рабочие ордера аккаунта.
func (c *Client) GetOrders(ctx context.Context) ([]models.Order, error) {
	q := url.Values{}
	q.Set("ClientKey", c.clientKey)
	q.Set("FieldGroups", "DisplayAndFormat,ExchangeInfo")

	var resp struct {
		Data []struct {
			OrderId          string  `json:"OrderId"`
			Uic              int     `json:"Uic"`
			Amount           float64 `json:"Amount"`
			Price            float64 `json:"Price"`
			BuySell          string  `json:"BuySell"`
			OpenOrderType    string  `json:"OpenOrderType"`
			Status           string  `json:"Status"`
			DisplayAndFormat struct {
				Symbol string `json:"Symbol"`
			} `json:"DisplayAndFormat"`
		} `json:"Data"`
	}
	if err := c.get(ctx, "/port/v1/orders", q, &resp); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(resp.Data))
	for _, d := range resp.Data {
		orders = append(orders, models.Order{
			OrderID: d.OrderId,
			UIC:     d.Uic,
			Symbol:  d.DisplayAndFormat.Symbol,
			Side:    models.Side(d.BuySell),
			Amount:  d.Amount,
			Price:   d.Price,
			Type:    models.OrderType(d.OpenOrderType),
			Status:  d.Status,
		})
	}
	return orders, nil
}

// PlaceOrder — market или limit ордер.
func (c *Client) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderAck, error) {
	body := map[string]any{
		"Uic":           req.UIC,
		"BuySell":       string(req.Side),
		"AssetType":     "FxSpot",
		"Amount":        req.Amount,
		"OrderType":     string(req.Type),
		"OrderRelation": "StandAlone",
		"ManualOrder":   false,
		"AccountKey":    c.accountKey,
	}
	if req.Type == models.OrderTypeLimit {
		if req.Price <= 0 {
			return models.OrderAck{}, fmt.Errorf("place order: limit without price")
		}
		body["OrderPrice"] = req.Price
		durationType, ok := durationMap[req.Duration]
		if !ok {
			durationType = "GoodTillCancel"
		}
		body["OrderDuration"] = map[string]string{"DurationType": durationType}
	} else {
		body["OrderDuration"] = map[string]string{"DurationType": "DayOrder"}
	}

	payload, err := sonic.Marshal(body)
	if err != nil {
		return models.OrderAck{}, fmt.Errorf("place order marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/trade/v2/orders",
		bytes.NewReader(payload),
	)
	if err != nil {
		return models.OrderAck{}, fmt.Errorf("place order new request: %w", err)
	}

	var resp struct {
		OrderId   string `json:"OrderId"`
		ErrorInfo *struct {
			ErrorCode string `json:"ErrorCode"`
			Message   string `json:"Message"`
		} `json:"ErrorInfo"`
	}
	if err := c.do(httpReq, &resp); err != nil {
		return models.OrderAck{}, err
	}
	if resp.ErrorInfo != nil {
		return models.OrderAck{}, fmt.Errorf("%w: broker rejected order: %s %s",
			models.ErrExecution, resp.ErrorInfo.ErrorCode, resp.ErrorInfo.Message)
	}
	if resp.OrderId == "" {
		return models.OrderAck{}, fmt.Errorf("%w: broker returned empty OrderId", models.ErrExecution)
	}

	return models.OrderAck{OrderID: resp.OrderId, Status: "Working"}, nil
}

// CancelOrder — снятие рабочего ордера.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (models.OrderAck, error) {
	u := fmt.Sprintf("%s/trade/v2/orders/%s?AccountKey=%s", c.baseURL, orderID, url.QueryEscape(c.accountKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return models.OrderAck{}, fmt.Errorf("cancel order new request: %w", err)
	}
	if err := c.do(httpReq, nil); err != nil {
		return models.OrderAck{}, err
	}
	return models.OrderAck{OrderID: orderID, Status: "Cancelled", Message: "Order cancelled"}, nil
}
