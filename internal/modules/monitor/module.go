package monitor

import (
	"fx_terminal/internal/modules/monitor/service"

	"go.uber.org/fx"
)

// Module собирает монитор условных ордеров. Жизненным циклом управляет
// оркестратор — он владеет монитором.
func Module() fx.Option {
	return fx.Module("monitor",
		fx.Provide(
			service.NewMonitor,
		),
	)
}
