package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ayggdrasil/options-trading-base-sub001/pkg/notify"
)

// weeklyRewardPoolRate sizes the weekly reward pool as a share of the
// previous week's total credited points.
var weeklyRewardPoolRate = decimal.RequireFromString("0.02")

// Per-rank reward shares. The 4th-10th share is the historical literal
// 0.0714, intentionally not the exact fraction 1/14: changing it would move
// real payouts.
var (
	rewardShareRank1     = decimal.RequireFromString("0.25")
	rewardShareRank2     = decimal.RequireFromString("0.15")
	rewardShareRank3     = decimal.RequireFromString("0.1")
	rewardShareRank4To10 = decimal.RequireFromString("0.0714")
)

// RewardForRank returns the reward for the given 1-based weekly leaderboard
// rank out of pool. Ranks outside 1-10 earn nothing.
func RewardForRank(rank int64, pool decimal.Decimal) decimal.Decimal {
	switch {
	case rank == 1:
		return pool.Mul(rewardShareRank1)
	case rank == 2:
		return pool.Mul(rewardShareRank2)
	case rank == 3:
		return pool.Mul(rewardShareRank3)
	case rank >= 4 && rank <= 10:
		return pool.Mul(rewardShareRank4To10)
	default:
		return decimal.Zero
	}
}

// Jobs holds the two scheduled batch operations of the ledger. Both are
// single-shot: an external scheduler (or the service cron) invokes them and
// all durable state lives in the store.
type Jobs struct {
	store    Store
	engine   *Engine
	deposits DepositBook
	notifier notify.Sink
	logger   *zap.Logger
}

// NewJobs returns the scheduled jobs built on engine.
func NewJobs(store Store, engine *Engine, deposits DepositBook, notifier notify.Sink, logger *zap.Logger) *Jobs {
	return &Jobs{
		store:    store,
		engine:   engine,
		deposits: deposits,
		notifier: notifier,
		logger:   logger,
	}
}

// ApplyDailyOlpDepositPoints credits every OLP depositor with points
// proportional to their deposited amount, once per UTC day.
//
// The idempotency flag is set only after the whole snapshot has been
// processed. A crash mid-loop therefore replays the entire snapshot on
// retry, double-crediting the addresses processed before the crash. That
// all-or-nothing granularity is inherited behavior, kept as is.
func (j *Jobs) ApplyDailyOlpDepositPoints(ctx context.Context, now time.Time) error {
	day := Day(now)
	flagKey := OlpDepositAppliedKey(day)

	applied, err := j.store.Get(ctx, flagKey)
	if err != nil {
		return fmt.Errorf("read deposit flag for %s: %w", day, err)
	}
	if applied == "true" {
		j.logger.Info("daily OLP deposit points already applied", zap.String("day", day))
		return nil
	}

	deposits, err := j.deposits.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("read deposit snapshot for %s: %w", day, err)
	}

	for _, d := range deposits {
		point := d.Amount.Mul(OlpDepositPointRate())
		if err := j.engine.AddPoint(ctx, d.Address, point, now); err != nil {
			return fmt.Errorf("apply deposit points to %s: %w", d.Address, err)
		}
	}

	if err := j.store.Set(ctx, flagKey, "true"); err != nil {
		return fmt.Errorf("set deposit flag for %s: %w", day, err)
	}

	j.logger.Info("daily OLP deposit points applied",
		zap.String("day", day),
		zap.Int("accounts", len(deposits)))

	if err := j.notifier.Send(ctx, notify.LevelInfo, "daily OLP deposit points applied", map[string]any{
		"day":      day,
		"accounts": len(deposits),
	}); err != nil {
		j.logger.Warn("notification send failed", zap.Error(err))
	}

	return nil
}

// ApplyWeeklyRewardPoints distributes the previous week's reward pool to the
// top ten of the previous week's leaderboard. The rewards are credited
// through AddPoint at job time, so they land in the week the job runs in,
// not the week being rewarded.
func (j *Jobs) ApplyWeeklyRewardPoints(ctx context.Context, now time.Time) error {
	prevWeek := PrevWeekStart(now)

	totalRaw, err := j.store.Get(ctx, WeeklyTotalKey(prevWeek))
	if err != nil {
		return fmt.Errorf("read weekly total for %s: %w", prevWeek, err)
	}
	total := parseDecimal(totalRaw)

	top, err := j.store.RangeDesc(ctx, WeeklyKey(prevWeek), 0, 9)
	if err != nil {
		return fmt.Errorf("read weekly top for %s: %w", prevWeek, err)
	}

	pool := total.Mul(weeklyRewardPoolRate)

	for i, entry := range top {
		rank := int64(i) + 1
		reward := RewardForRank(rank, pool)
		if err := j.engine.AddPoint(ctx, entry.Member, reward, now); err != nil {
			return fmt.Errorf("apply weekly reward to %s: %w", entry.Member, err)
		}
	}

	j.logger.Info("weekly reward points applied",
		zap.String("week", prevWeek),
		zap.String("pool", pool.String()),
		zap.Int("winners", len(top)))

	if err := j.notifier.Send(ctx, notify.LevelInfo, "weekly reward points applied", map[string]any{
		"week":    prevWeek,
		"pool":    pool.String(),
		"winners": len(top),
	}); err != nil {
		j.logger.Warn("notification send failed", zap.Error(err))
	}

	return nil
}

// parseDecimal reads a store scalar, treating absent or malformed values as
// zero. Read paths never fail on missing history.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
