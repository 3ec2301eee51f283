package main

import (
	"context"
	"log"

	"fx_terminal/internal/modules/broker"
	"fx_terminal/internal/modules/config"
	"fx_terminal/internal/modules/feed"
	"fx_terminal/internal/modules/health"
	"fx_terminal/internal/modules/history"
	"fx_terminal/internal/modules/monitor"
	"fx_terminal/internal/modules/orchestrator"
	"fx_terminal/internal/modules/source"
	"fx_terminal/internal/notify"
	"fx_terminal/pkg/logger"
	"fx_terminal/pkg/tracing"

	"go.uber.org/fx"
)

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.Notify == "telegram" && cfg.Telegram.Token != "" {
		t, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err == nil {
			return t
		}
		logger.Error("[NOTIFY] telegram init failed, falling back to stdout: %v", err)
	}
	return notify.NewStdout()
}

func initTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Jaeger.Host == "" {
		return nil
	}
	_, closer, err := tracing.InitTracer(tracing.Config{
		Host: cfg.Jaeger.Host,
		Port: cfg.Jaeger.Port,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closer()
			return nil
		},
	})
	return nil
}

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	logger.SetServiceName("fx_terminal")
	tracing.SetServiceName("fx_terminal")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			newNotifier,
		),
		config.Module(),
		feed.Module(),
		broker.Module(),
		source.Module(),
		history.Module(),
		monitor.Module(),
		orchestrator.Module(),
		health.Module(),
		fx.Invoke(initTracing),
	)
	app.Run()
}
