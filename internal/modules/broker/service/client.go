package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fx_terminal/internal/modules/config"

	"github.com/pkg/errors"
)

// Client — REST-коннектор к брокерскому шлюзу (Saxo-style openapi).
type Client struct {
	cfg  *config.Config
	http *http.Client

	baseURL    string
	token      string
	clientKey  string
	accountKey string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:        cfg,
		http:       &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.Broker.BaseURL,
		token:      cfg.Broker.Token,
		clientKey:  cfg.Broker.ClientKey,
		accountKey: cfg.Broker.AccountKey,
	}
}

// Setup резолвит ClientKey/AccountKey, если они не заданы в конфиге.
func (c *Client) Setup(ctx context.Context) error {
	if c.clientKey != "" && c.accountKey != "" {
		return nil
	}

	var client struct {
		ClientKey        string `json:"ClientKey"`
		DefaultAccountId string `json:"DefaultAccountId"`
	}
	if err := c.get(ctx, "/port/v1/clients/me", nil, &client); err != nil {
		return errors.Wrap(err, "resolve client")
	}
	c.clientKey = client.ClientKey

	var accounts struct {
		Data []struct {
			AccountId  string `json:"AccountId"`
			AccountKey string `json:"AccountKey"`
		} `json:"Data"`
	}
	if err := c.get(ctx, "/port/v1/accounts/me", nil, &accounts); err != nil {
		return errors.Wrap(err, "resolve accounts")
	}
	for _, acc := range accounts.Data {
		if acc.AccountId == client.DefaultAccountId {
			c.accountKey = acc.AccountKey
			break
		}
	}
	if c.accountKey == "" {
		return fmt.Errorf("broker setup: default account %q not found", client.DefaultAccountId)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("new request %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("broker http %d on %s: %s", resp.StatusCode, req.URL.Path, string(data))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := decode(data, out); err != nil {
		return fmt.Errorf("decode %s: %w; body=%s", req.URL.Path, err, string(data))
	}
	return nil
}
