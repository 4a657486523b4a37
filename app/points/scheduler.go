package points

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ayggdrasil/options-trading-base-sub001/app/points/types"
)

// jobTimeout bounds one scheduled job invocation.
const jobTimeout = 10 * time.Minute

// SetupScheduler sets up the cron scheduler with the daily deposit job and
// the weekly reward job. Specs use the seconds field; the weekly default
// fires Monday 00:00.
func SetupScheduler(ctx context.Context, app *types.App, cronLogger cron.Logger) error {
	app.Cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cronLogger)))

	_, err := app.Cron.AddFunc(app.DailySpec, func() {
		runJob(ctx, app, "olp-deposit-points", app.Jobs.ApplyDailyOlpDepositPoints)
	})
	if err != nil {
		return err
	}

	_, err = app.Cron.AddFunc(app.WeeklySpec, func() {
		runJob(ctx, app, "weekly-reward-points", app.Jobs.ApplyWeeklyRewardPoints)
	})
	if err != nil {
		return err
	}

	return nil
}

// runJob runs one job invocation with a bounded context and records its
// outcome for /status.
func runJob(ctx context.Context, app *types.App, name string, fn func(context.Context, time.Time) error) {
	jctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	run := &types.JobRun{Job: name, StartedAt: time.Now().UTC()}

	if err := fn(jctx, run.StartedAt); err != nil {
		run.Error = err.Error()
		app.Logger.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
	}

	run.FinishedAt = time.Now().UTC()
	app.RecordJobRun(run)
}
