package source

import (
	brokersvc "fx_terminal/internal/modules/broker/service"
	"fx_terminal/internal/modules/config"
	feedsvc "fx_terminal/internal/modules/feed/service"
	"fx_terminal/internal/modules/source/service"
	"fx_terminal/pkg/logger"

	"go.uber.org/fx"
)

// Module выбирает активный источник: live-коннектор или paper-гроссбух.
func Module() fx.Option {
	return fx.Module("source",
		fx.Provide(
			func(cfg *config.Config, feed feedsvc.Feed, broker *brokersvc.Client) service.QuoteSource {
				if cfg.Mode == "live" {
					logger.Info("[SOURCE] live broker source")
					return service.NewLiveBrokerSource(broker)
				}
				logger.Info("[SOURCE] paper trading ledger, starting cash %.0f %s",
					cfg.Account.StartingCash, cfg.Account.Currency)
				return service.NewSimulatedLedger(cfg, feed)
			},
		),
	)
}
