package types

import (
	"context"
	"net/http"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ayggdrasil/options-trading-base-sub001/pkg/ledger"
	"github.com/ayggdrasil/options-trading-base-sub001/pkg/notify"
	"github.com/ayggdrasil/options-trading-base-sub001/pkg/redis"
)

// JobRun records the outcome of one scheduled job invocation, served at
// /status.
type JobRun struct {
	Job        string    `json:"job"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Error      string    `json:"error,omitempty"`
}

// App wires the points ledger service: the redis-backed store, the rebate
// engine with its scheduled jobs, the read queries, and the HTTP surface.
type App struct {
	Redis *redis.Client

	Engine  *ledger.Engine
	Jobs    *ledger.Jobs
	Queries *ledger.Queries

	Notifier notify.Sink

	// Cron triggers the daily deposit job and the weekly reward job.
	Cron       *cron.Cron
	DailySpec  string
	WeeklySpec string

	// JobRuns tracks the most recent outcome per job name.
	JobRuns *xsync.Map[string, *JobRun]

	// Logger is used to log messages, errors, and events during the application's lifecycle and operations.
	Logger *zap.Logger

	// Server is the HTTP server that serves the API.
	Server *http.Server
}

// RecordJobRun stores the latest outcome for a job.
func (a *App) RecordJobRun(run *JobRun) {
	a.JobRuns.Store(run.Job, run)
}

// Start starts the HTTP server and the cron scheduler, then blocks until the
// context is cancelled and shuts both down.
func (a *App) Start(ctx context.Context) {
	a.Cron.Start()
	a.Logger.Info("Cron started",
		zap.String("dailySpec", a.DailySpec),
		zap.String("weeklySpec", a.WeeklySpec))

	go func() { _ = a.Server.ListenAndServe() }()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cronCtx := a.Cron.Stop()
	select {
	case <-cronCtx.Done():
	case <-shutdownCtx.Done():
		a.Logger.Warn("Cron jobs still running at shutdown deadline")
	}

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}

	if err := a.Redis.Close(); err != nil {
		a.Logger.Error("Failed to close Redis connection", zap.Error(err))
	}

	a.Logger.Info("Shutdown complete")
}
