package feed

import (
	"context"

	"fx_terminal/internal/modules/config"
	"fx_terminal/internal/modules/feed/service"

	"go.uber.org/fx"
)

// Module поднимает фид котировок: ws-стример или random walk.
func Module() fx.Option {
	return fx.Module("feed",
		fx.Provide(
			func(cfg *config.Config) service.Feed {
				if cfg.Feed.Mode == "ws" {
					return service.NewWSClient(cfg)
				}
				return service.NewRandomWalk(cfg)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, appCtx context.Context, f service.Feed) {
			ws, ok := f.(*service.WSClient)
			if !ok {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go ws.Run(appCtx)
					return nil
				},
			})
		}),
	)
}
