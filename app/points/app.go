package points

import (
	"context"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/ayggdrasil/options-trading-base-sub001/app/points/types"
	"github.com/ayggdrasil/options-trading-base-sub001/pkg/ledger"
	"github.com/ayggdrasil/options-trading-base-sub001/pkg/logging"
	"github.com/ayggdrasil/options-trading-base-sub001/pkg/notify"
	"github.com/ayggdrasil/options-trading-base-sub001/pkg/redis"
	"github.com/ayggdrasil/options-trading-base-sub001/pkg/utils"
)

// Initialize initializes the application.
func Initialize(ctx context.Context) *types.App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	redisClient, err := redis.NewClient(ctx, logger)
	if err != nil {
		logger.Fatal("Unable to initialize Redis", zap.Error(err))
	}

	store := redis.NewPointStore(redisClient)
	graph := redis.NewReferralGraph(redisClient)
	contributors := redis.NewContributorSet(redisClient)
	deposits := redis.NewDepositBook(redisClient)

	classifier := ledger.NewClassifier(store, contributors)
	engine := ledger.NewEngine(store, graph, classifier, deposits, logger)

	var sink notify.Sink
	if url := utils.Env("NOTIFY_WEBHOOK_URL", ""); url != "" {
		sink = notify.NewWebhookSink(url, logger)
	} else {
		sink = notify.NewLogSink(logger)
	}

	jobs := ledger.NewJobs(store, engine, deposits, sink, logger)
	queries := ledger.NewQueries(store, graph, classifier, logger)

	app := &types.App{
		Redis:      redisClient,
		Engine:     engine,
		Jobs:       jobs,
		Queries:    queries,
		Notifier:   sink,
		DailySpec:  utils.Env("CRON_DAILY_OLP_SPEC", "0 0 0 * * *"),
		WeeklySpec: utils.Env("CRON_WEEKLY_REWARD_SPEC", "0 0 0 * * 1"),
		JobRuns:    xsync.NewMap[string, *types.JobRun](),
		Logger:     logger,
	}

	return app
}
