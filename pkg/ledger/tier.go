package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Tier is an account's incentive level. Tiers 1-3 follow the previous
// week's score; Tier 4 is reserved for flagged contributors.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
	Tier4 Tier = 4
)

// Weekly-score thresholds between tiers. The comparison is strict
// less-than on the upper side: exactly 10000 is already Tier 2, exactly
// 30000 already Tier 3.
var (
	tier2Threshold = decimal.NewFromInt(10000)
	tier3Threshold = decimal.NewFromInt(30000)
)

// selfRebateRates is the bonus an account earns on its own credits,
// keyed by its tier.
var selfRebateRates = map[Tier]decimal.Decimal{
	Tier1: decimal.Zero,
	Tier2: decimal.RequireFromString("0.1"),
	Tier3: decimal.RequireFromString("0.15"),
	Tier4: decimal.RequireFromString("0.2"),
}

// parentRebateRates is the share of a descendant's base credit paid to the
// parent, keyed by the PARENT's tier.
var parentRebateRates = map[Tier]decimal.Decimal{
	Tier1: decimal.RequireFromString("0.1"),
	Tier2: decimal.RequireFromString("0.15"),
	Tier3: decimal.RequireFromString("0.2"),
	Tier4: decimal.RequireFromString("0.3"),
}

// grandparentRebateRate is flat, independent of any tier.
var grandparentRebateRate = decimal.RequireFromString("0.05")

// SelfRebateRate returns the self-rebate rate for a tier.
func SelfRebateRate(t Tier) decimal.Decimal {
	return selfRebateRates[t]
}

// ParentRebateRate returns the parent-rebate rate for the parent's tier.
func ParentRebateRate(t Tier) decimal.Decimal {
	return parentRebateRates[t]
}

// Classifier computes incentive tiers from the contributor set and the
// previous week's score snapshot.
type Classifier struct {
	store        Store
	contributors ContributorSet
}

// NewClassifier returns a Classifier reading from the given store and
// contributor set.
func NewClassifier(store Store, contributors ContributorSet) *Classifier {
	return &Classifier{store: store, contributors: contributors}
}

// Classify returns addr's tier as of ts. Contributor membership overrides
// the point-based rule unconditionally; otherwise the previous week's score
// decides, with a missing score counting as zero.
func (c *Classifier) Classify(ctx context.Context, addr string, ts time.Time) (Tier, error) {
	member, err := c.contributors.IsMember(ctx, addr)
	if err != nil {
		return 0, fmt.Errorf("contributor lookup for %s: %w", addr, err)
	}
	if member {
		return Tier4, nil
	}

	score, ok, err := c.store.Score(ctx, WeeklyKey(PrevWeekStart(ts)), addr)
	if err != nil {
		return 0, fmt.Errorf("previous-week score for %s: %w", addr, err)
	}
	if !ok {
		score = decimal.Zero
	}

	switch {
	case score.LessThan(tier2Threshold):
		return Tier1, nil
	case score.LessThan(tier3Threshold):
		return Tier2, nil
	default:
		return Tier3, nil
	}
}
