package orchestrator

import (
	"context"

	healthsvc "fx_terminal/internal/modules/health/service"
	"fx_terminal/internal/modules/orchestrator/service"

	"go.uber.org/fx"
)

// Module связывает ядро: фасад цен, ingest-луп и жизненный цикл монитора.
func Module() fx.Option {
	return fx.Module("orchestrator",
		fx.Provide(
			service.New,
		),
		fx.Invoke(func(lc fx.Lifecycle, appCtx context.Context, o *service.Orchestrator, state *healthsvc.State) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					o.Monitor().Start(appCtx)
					go o.RunIngest(appCtx, state)
					state.SetReady(true)
					return nil
				},
				OnStop: func(context.Context) error {
					state.SetReady(false)
					o.Monitor().Stop()
					return nil
				},
			})
		}),
	)
}
