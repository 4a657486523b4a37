package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Engine is the single mutation entrypoint of the points ledger. Every write
// path — trade accrual, fee accrual, deposit points, weekly rewards,
// referral bonuses — funnels through AddPoint so the rebate propagation and
// weekly-pool accounting stay in one place.
type Engine struct {
	store    Store
	graph    ReferralGraph
	tiers    *Classifier
	deposits DepositBook
	logger   *zap.Logger
}

// NewEngine returns an Engine writing to store and walking graph for rebate
// propagation.
func NewEngine(store Store, graph ReferralGraph, tiers *Classifier, deposits DepositBook, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		graph:    graph,
		tiers:    tiers,
		deposits: deposits,
		logger:   logger,
	}
}

// AddPoint credits base points to addr and propagates rebates to its parent
// and grandparent, committing everything in one batched write.
//
// The tier reads and the batch commit are not enclosed in a transaction.
// Concurrent calls sharing an ancestor interleave safely because every
// staged write is an additive increment; only the ancestor's tier snapshot
// can be momentarily stale, bounded by the other call's in-flight window.
// That staleness is inherited behavior, kept as is.
func (e *Engine) AddPoint(ctx context.Context, addr string, base decimal.Decimal, ts time.Time) error {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return err
	}
	if base.IsNegative() {
		return fmt.Errorf("%w: %s for %s", ErrNegativePoints, base, addr)
	}

	week := WeekStart(ts)

	tier, err := e.tiers.Classify(ctx, addr, ts)
	if err != nil {
		return fmt.Errorf("classify %s: %w", addr, err)
	}

	selfCredit := base.Add(base.Mul(SelfRebateRate(tier)))

	ops := []WriteOp{
		IncrSortedSet(KeyAllTime, addr, selfCredit),
		IncrSortedSet(WeeklyKey(week), addr, selfCredit),
		IncrScalar(WeeklyTotalKey(week), selfCredit),
	}

	parent, hasParent, err := e.graph.Parent(ctx, addr)
	if err != nil {
		return fmt.Errorf("parent lookup for %s: %w", addr, err)
	}

	if hasParent {
		parentTier, err := e.tiers.Classify(ctx, parent, ts)
		if err != nil {
			return fmt.Errorf("classify parent %s: %w", parent, err)
		}

		parentRebate := base.Mul(ParentRebateRate(parentTier))
		ops = append(ops,
			IncrSortedSet(KeyAllTime, parent, parentRebate),
			IncrSortedSet(WeeklyKey(week), parent, parentRebate),
			IncrScalar(WeeklyTotalKey(week), parentRebate),
			IncrScalar(ReceivedFromChildrenKey(parent), parentRebate),
		)

		// The grandparent leg exists only when the parent does.
		grandparent, hasGrandparent, err := e.graph.Parent(ctx, parent)
		if err != nil {
			return fmt.Errorf("grandparent lookup for %s: %w", addr, err)
		}
		if hasGrandparent {
			grandparentRebate := base.Mul(grandparentRebateRate)
			ops = append(ops,
				IncrSortedSet(KeyAllTime, grandparent, grandparentRebate),
				IncrSortedSet(WeeklyKey(week), grandparent, grandparentRebate),
				IncrScalar(WeeklyTotalKey(week), grandparentRebate),
				IncrScalar(ReceivedFromGrandchildrenKey(grandparent), grandparentRebate),
			)
		}
	}

	if err := e.store.Batch(ctx, ops); err != nil {
		return fmt.Errorf("commit points for %s: %w", addr, err)
	}

	e.logger.Debug("points credited",
		zap.String("address", addr),
		zap.String("base", base.String()),
		zap.Int("tier", int(tier)),
		zap.String("week", week))

	return nil
}
