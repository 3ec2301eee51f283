package service

import (
	"context"
	"time"

	"fx_terminal/internal/models"
	"fx_terminal/internal/modules/config"
	healthsvc "fx_terminal/internal/modules/health/service"
	historysvc "fx_terminal/internal/modules/history/service"
	monitorsvc "fx_terminal/internal/modules/monitor/service"
	sourcesvc "fx_terminal/internal/modules/source/service"
	"fx_terminal/pkg/logger"
	"fx_terminal/pkg/tracing"
)

// Orchestrator владеет активным источником, историей цен и монитором и
// отдаёт единый фасад цен. Через него ходят ingest-луп, монитор и UI.
type Orchestrator struct {
	cfg     *config.Config
	source  sourcesvc.QuoteSource
	history *historysvc.History
	monitor *monitorsvc.Monitor
}

func New(cfg *config.Config, src sourcesvc.QuoteSource, h *historysvc.History, m *monitorsvc.Monitor) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg,
		source:  src,
		history: h,
		monitor: m,
	}
	// обратная ссылка монитора — только для цен
	m.BindPrices(o)
	return o
}

// GetPrices — фасад цен поверх активного источника.
func (o *Orchestrator) GetPrices(ctx context.Context, uics []int) ([]models.Quote, error) {
	span, ctx := tracing.StartSpan(ctx, "orchestrator.get_prices")
	defer span.Finish()

	return o.source.GetPrices(ctx, uics)
}

func (o *Orchestrator) Source() sourcesvc.QuoteSource    { return o.source }
func (o *Orchestrator) History() *historysvc.History     { return o.history }
func (o *Orchestrator) Monitor() *monitorsvc.Monitor     { return o.monitor }

// RunIngest гонит котировки watch-листа в историю цен со своим кадансом.
// Ошибка итерации логируется, луп живёт до отмены ctx.
func (o *Orchestrator) RunIngest(ctx context.Context, state *healthsvc.State) {
	interval := o.cfg.IngestInterval
	if interval <= 0 {
		interval = time.Second
	}

	logger.Info("[INGEST] loop started, %d instruments, interval=%s", len(o.cfg.Watch), interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("[INGEST] loop stopped")
			return
		case <-ticker.C:
			quotes, err := o.GetPrices(ctx, o.cfg.Watch)
			if err != nil {
				logger.Error("[INGEST] %v", err)
				continue
			}
			now := time.Now()
			for _, q := range quotes {
				o.history.AddPriceData(q.Symbol, q.Mid, q.Time)
			}
			if len(quotes) > 0 && state != nil {
				state.TouchQuote(now)
			}
		}
	}
}
