package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"fx_terminal/internal/models"
	"fx_terminal/internal/modules/config"
	"fx_terminal/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// WSClient — стриминговый фид котировок: держит одно соединение на весь
// watchlist и кэширует последний тик по каждому UIC.
type WSClient struct {
	cfg      *config.Config
	wsDialer *websocket.Dialer

	connected atomic.Bool

	mu   sync.RWMutex
	last map[int]models.Quote
}

func NewWSClient(cfg *config.Config) *WSClient {
	return &WSClient{
		cfg:      cfg,
		wsDialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		last:     make(map[int]models.Quote),
	}
}

func (c *WSClient) Connected() bool { return c.connected.Load() }

// GetPrices отдаёт последние закэшированные котировки.
// Feed failure is "nothing cached at all"; partial data is not an error.
func (c *WSClient) GetPrices(_ context.Context, uics []int) (map[int]models.Quote, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[int]models.Quote, len(uics))
	for _, uic := range uics {
		if q, ok := c.last[uic]; ok {
			out[uic] = q
		}
	}
	if len(out) == 0 && !c.connected.Load() {
		return nil, models.ErrFeedUnavailable
	}
	return out, nil
}

type quoteFrame struct {
	UIC    int     `json:"uic"`
	Symbol string  `json:"symbol"`
	Mid    float64 `json:"mid"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	TsMs   int64   `json:"ts"`
}

// Run держит соединение до отмены ctx, с реконнектом раз в секунду.
func (c *WSClient) Run(ctx context.Context) {
	args := make([]map[string]any, 0, len(c.cfg.Instruments))
	for _, inst := range c.cfg.Instruments {
		args = append(args, map[string]any{
			"channel": "quotes",
			"uic":     inst.UIC,
			"symbol":  inst.Symbol,
		})
	}
	sub, err := sonic.Marshal(map[string]any{
		"op":   "subscribe",
		"args": args,
	})
	if err != nil {
		logger.Error("[FEED] marshal subscribe: %v", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		logger.Info("[FEED] connect %s (%d symbols)", c.cfg.Feed.URL, len(args))
		conn, _, err := c.wsDialer.DialContext(ctx, c.cfg.Feed.URL, nil)
		if err != nil {
			logger.Error("[FEED] dial error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		if err := conn.WriteMessage(websocket.TextMessage, sub); err != nil {
			logger.Error("[FEED] subscribe error: %v", err)
			_ = conn.Close()
			continue
		}
		c.connected.Store(true)

		c.readLoop(ctx, conn)

		c.connected.Store(false)
		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}

func (c *WSClient) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			logger.Error("[FEED] read error: %v", err)
			return
		}

		var frame quoteFrame
		if err := json.Unmarshal(msg, &frame); err != nil {
			continue
		}
		if frame.UIC == 0 || frame.Mid <= 0 {
			continue
		}

		q := models.Quote{
			UIC:    frame.UIC,
			Symbol: frame.Symbol,
			Mid:    frame.Mid,
			Bid:    frame.Bid,
			Ask:    frame.Ask,
			Time:   time.UnixMilli(frame.TsMs),
		}
		if q.Symbol == "" {
			if inst, ok := c.cfg.Instrument(frame.UIC); ok {
				q.Symbol = inst.Symbol
			}
		}
		if q.Bid == 0 || q.Ask == 0 {
			spread := q.Mid * spreadFactor
			q.Bid = q.Mid - spread/2
			q.Ask = q.Mid + spread/2
		}

		c.mu.Lock()
		c.last[frame.UIC] = q
		c.mu.Unlock()
	}
}
