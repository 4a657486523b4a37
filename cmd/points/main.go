package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ayggdrasil/options-trading-base-sub001/app/points"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	defer cancel()

	app := points.Initialize(ctx)

	if err := points.SetupScheduler(ctx, app, cron.DefaultLogger); err != nil {
		app.Logger.Fatal("Unable to initialize scheduler", zap.Error(err))
	}

	if err := points.NewServer(app); err != nil {
		app.Logger.Fatal("Unable to initialize server", zap.Error(err))
	}

	app.Start(ctx)
}
