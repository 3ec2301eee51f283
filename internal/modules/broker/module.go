package broker

import (
	"context"

	"fx_terminal/internal/modules/broker/service"
	"fx_terminal/internal/modules/config"

	"go.uber.org/fx"
)

// Module поднимает брокерский коннектор (нужен только в live-режиме).
func Module() fx.Option {
	return fx.Module("broker",
		fx.Provide(
			service.NewClient,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, c *service.Client) {
			if cfg.Mode != "live" {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return c.Setup(ctx)
				},
			})
		}),
	)
}
