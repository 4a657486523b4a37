package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Point conversion rates for the protocol's accrual sources.
var (
	notionalVolumePointRate  = decimal.RequireFromString("0.0001")
	executionVolumePointRate = decimal.RequireFromString("0.25")
	tradeFeePointRate        = decimal.NewFromInt(30)
	olpDepositPointRate      = decimal.RequireFromString("0.02")
)

// Referral-registration bonuses, flat amounts independent of any tier.
var (
	referralRegisterParentBonus      = decimal.NewFromInt(100)
	referralRegisterGrandparentBonus = decimal.NewFromInt(20)
)

// OlpDepositPointRate exposes the daily deposit conversion rate to the
// deposit job.
func OlpDepositPointRate() decimal.Decimal {
	return olpDepositPointRate
}

// ApplyTradePoints credits points for a filled trade: a small cut of the
// notional volume plus a larger cut of the execution volume.
func (e *Engine) ApplyTradePoints(ctx context.Context, addr string, notionalVolume, executionVolume decimal.Decimal, ts time.Time) error {
	base := notionalVolume.Mul(notionalVolumePointRate).
		Add(executionVolume.Mul(executionVolumePointRate))
	return e.AddPoint(ctx, addr, base, ts)
}

// ApplyTradeFeePoints credits points for trading fees paid, at a fixed
// multiple of the fee in USD.
func (e *Engine) ApplyTradeFeePoints(ctx context.Context, addr string, feeUSD decimal.Decimal, ts time.Time) error {
	return e.AddPoint(ctx, addr, feeUSD.Mul(tradeFeePointRate), ts)
}

// RegisterOlpDeposit credits the immediate deposit points and records the
// deposited amount in the deposit book, which the daily job re-credits every
// day the deposit stays in the pool.
func (e *Engine) RegisterOlpDeposit(ctx context.Context, addr string, amount decimal.Decimal, ts time.Time) error {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return err
	}
	if err := e.AddPoint(ctx, addr, amount.Mul(olpDepositPointRate), ts); err != nil {
		return err
	}
	if err := e.deposits.Add(ctx, addr, amount); err != nil {
		return fmt.Errorf("record deposit for %s: %w", addr, err)
	}
	return nil
}

// DeregisterOlpDeposit removes a withdrawn amount from the deposit book. No
// points move; already-credited deposit points stay credited.
func (e *Engine) DeregisterOlpDeposit(ctx context.Context, addr string, amount decimal.Decimal) error {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return err
	}
	if err := e.deposits.Add(ctx, addr, amount.Neg()); err != nil {
		return fmt.Errorf("remove deposit for %s: %w", addr, err)
	}
	return nil
}

// ApplyReferralRegisterPoints credits the flat registration bonuses when a
// new account registers under parent: 100 points to the parent and 20 to the
// parent's own parent when present. The referral edge itself is written
// elsewhere; this only moves points.
func (e *Engine) ApplyReferralRegisterPoints(ctx context.Context, parent string, ts time.Time) error {
	parent, err := NormalizeAddress(parent)
	if err != nil {
		return err
	}

	week := WeekStart(ts)

	ops := []WriteOp{
		IncrSortedSet(KeyAllTime, parent, referralRegisterParentBonus),
		IncrSortedSet(WeeklyKey(week), parent, referralRegisterParentBonus),
		IncrScalar(WeeklyTotalKey(week), referralRegisterParentBonus),
		IncrScalar(ReceivedFromChildrenKey(parent), referralRegisterParentBonus),
	}

	grandparent, ok, err := e.graph.Parent(ctx, parent)
	if err != nil {
		return fmt.Errorf("grandparent lookup for %s: %w", parent, err)
	}
	if ok {
		ops = append(ops,
			IncrSortedSet(KeyAllTime, grandparent, referralRegisterGrandparentBonus),
			IncrSortedSet(WeeklyKey(week), grandparent, referralRegisterGrandparentBonus),
			IncrScalar(WeeklyTotalKey(week), referralRegisterGrandparentBonus),
			IncrScalar(ReceivedFromGrandchildrenKey(grandparent), referralRegisterGrandparentBonus),
		)
	}

	if err := e.store.Batch(ctx, ops); err != nil {
		return fmt.Errorf("commit referral bonus for %s: %w", parent, err)
	}

	e.logger.Debug("referral registration bonus credited",
		zap.String("parent", parent),
		zap.Bool("grandparent", ok),
		zap.String("week", week))

	return nil
}
