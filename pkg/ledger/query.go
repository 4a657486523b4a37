package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const leaderboardSize = 50

// LeaderboardEntry is one row of the all-time leaderboard.
type LeaderboardEntry struct {
	Rank    int64           `json:"rank"`
	Address string          `json:"address"`
	Points  decimal.Decimal `json:"points"`
}

// WeeklyLeaderboardEntry is one row of the current-week leaderboard,
// carrying the reward the row would earn if the in-progress pool were
// finalized now.
type WeeklyLeaderboardEntry struct {
	Rank            int64           `json:"rank"`
	Address         string          `json:"address"`
	Points          decimal.Decimal `json:"points"`
	EstimatedReward decimal.Decimal `json:"estimatedReward"`
}

// Leaderboard is the combined all-time and current-week top 50.
type Leaderboard struct {
	AllTime []LeaderboardEntry       `json:"allTime"`
	Weekly  []WeeklyLeaderboardEntry `json:"weekly"`
}

// UserPointInfo is the full point profile of one account. Nil ranks mean
// the account has no entry in that leaderboard yet.
type UserPointInfo struct {
	Address                   string          `json:"address"`
	Tier                      Tier            `json:"tier"`
	AllTimePoints             decimal.Decimal `json:"allTimePoints"`
	WeeklyPoints              decimal.Decimal `json:"weeklyPoints"`
	ReceivedFromChildren      decimal.Decimal `json:"receivedFromChildren"`
	ReceivedFromGrandchildren decimal.Decimal `json:"receivedFromGrandchildren"`
	WeeklyPoolTotal           decimal.Decimal `json:"weeklyPoolTotal"`
	AllTimeRank               *int64          `json:"allTimeRank"`
	WeeklyRank                *int64          `json:"weeklyRank"`
	EstimatedReward           decimal.Decimal `json:"estimatedReward"`
	Parent                    string          `json:"parent,omitempty"`
	Grandparent               string          `json:"grandparent,omitempty"`
	ChildrenCount             int64           `json:"childrenCount"`
	GrandchildrenCount        int64           `json:"grandchildrenCount"`
}

// Queries is the read side of the ledger. It never mutates the store.
type Queries struct {
	store  Store
	graph  ReferralGraph
	tiers  *Classifier
	logger *zap.Logger
}

// NewQueries returns the read-side projections over store and graph.
func NewQueries(store Store, graph ReferralGraph, tiers *Classifier, logger *zap.Logger) *Queries {
	return &Queries{store: store, graph: graph, tiers: tiers, logger: logger}
}

// Leaderboard returns the all-time top 50 and the current-week top 50, the
// weekly rows annotated with rewards estimated from the in-progress,
// not-yet-finalized pool.
func (q *Queries) Leaderboard(ctx context.Context, now time.Time) (*Leaderboard, error) {
	week := WeekStart(now)

	allTime, err := q.store.RangeDesc(ctx, KeyAllTime, 0, leaderboardSize-1)
	if err != nil {
		return nil, fmt.Errorf("read all-time leaderboard: %w", err)
	}

	weekly, err := q.store.RangeDesc(ctx, WeeklyKey(week), 0, leaderboardSize-1)
	if err != nil {
		return nil, fmt.Errorf("read weekly leaderboard for %s: %w", week, err)
	}

	totalRaw, err := q.store.Get(ctx, WeeklyTotalKey(week))
	if err != nil {
		return nil, fmt.Errorf("read weekly total for %s: %w", week, err)
	}
	pool := parseDecimal(totalRaw).Mul(weeklyRewardPoolRate)

	out := &Leaderboard{
		AllTime: make([]LeaderboardEntry, 0, len(allTime)),
		Weekly:  make([]WeeklyLeaderboardEntry, 0, len(weekly)),
	}
	for i, e := range allTime {
		out.AllTime = append(out.AllTime, LeaderboardEntry{
			Rank:    int64(i) + 1,
			Address: e.Member,
			Points:  e.Score,
		})
	}
	for i, e := range weekly {
		rank := int64(i) + 1
		out.Weekly = append(out.Weekly, WeeklyLeaderboardEntry{
			Rank:            rank,
			Address:         e.Member,
			Points:          e.Score,
			EstimatedReward: RewardForRank(rank, pool),
		})
	}

	return out, nil
}

// UserPointInfo returns one account's scores, counters, ranks, tier and
// referral summary. Accounts with no recorded history get zero values and
// nil ranks, never an error.
func (q *Queries) UserPointInfo(ctx context.Context, addr string, now time.Time) (*UserPointInfo, error) {
	addr, err := NormalizeAddress(addr)
	if err != nil {
		return nil, err
	}

	week := WeekStart(now)

	allTimePoints, err := q.scoreOrZero(ctx, KeyAllTime, addr)
	if err != nil {
		return nil, err
	}
	weeklyPoints, err := q.scoreOrZero(ctx, WeeklyKey(week), addr)
	if err != nil {
		return nil, err
	}

	fromChildren, err := q.scalarOrZero(ctx, ReceivedFromChildrenKey(addr))
	if err != nil {
		return nil, err
	}
	fromGrandchildren, err := q.scalarOrZero(ctx, ReceivedFromGrandchildrenKey(addr))
	if err != nil {
		return nil, err
	}
	weeklyTotal, err := q.scalarOrZero(ctx, WeeklyTotalKey(week))
	if err != nil {
		return nil, err
	}

	allTimeRank, err := q.rankOrNil(ctx, KeyAllTime, addr)
	if err != nil {
		return nil, err
	}
	weeklyRank, err := q.rankOrNil(ctx, WeeklyKey(week), addr)
	if err != nil {
		return nil, err
	}

	tier, err := q.tiers.Classify(ctx, addr, now)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", addr, err)
	}

	parent, _, err := q.graph.Parent(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("parent lookup for %s: %w", addr, err)
	}
	var grandparent string
	if parent != "" {
		grandparent, _, err = q.graph.Parent(ctx, parent)
		if err != nil {
			return nil, fmt.Errorf("grandparent lookup for %s: %w", addr, err)
		}
	}
	childrenCount, err := q.graph.ChildrenCount(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("children count for %s: %w", addr, err)
	}
	grandchildrenCount, err := q.graph.GrandchildrenCount(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("grandchildren count for %s: %w", addr, err)
	}

	pool := weeklyTotal.Mul(weeklyRewardPoolRate)
	estimated := decimal.Zero
	if weeklyRank != nil {
		estimated = RewardForRank(*weeklyRank, pool)
	}

	return &UserPointInfo{
		Address:                   addr,
		Tier:                      tier,
		AllTimePoints:             allTimePoints,
		WeeklyPoints:              weeklyPoints,
		ReceivedFromChildren:      fromChildren,
		ReceivedFromGrandchildren: fromGrandchildren,
		WeeklyPoolTotal:           weeklyTotal,
		AllTimeRank:               allTimeRank,
		WeeklyRank:                weeklyRank,
		EstimatedReward:           estimated,
		Parent:                    parent,
		Grandparent:               grandparent,
		ChildrenCount:             childrenCount,
		GrandchildrenCount:        grandchildrenCount,
	}, nil
}

func (q *Queries) scoreOrZero(ctx context.Context, key, member string) (decimal.Decimal, error) {
	score, ok, err := q.store.Score(ctx, key, member)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read score %s: %w", key, err)
	}
	if !ok {
		return decimal.Zero, nil
	}
	return score, nil
}

func (q *Queries) scalarOrZero(ctx context.Context, key string) (decimal.Decimal, error) {
	raw, err := q.store.Get(ctx, key)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read scalar %s: %w", key, err)
	}
	return parseDecimal(raw), nil
}

// rankOrNil converts the store's 0-based descending rank to a 1-based rank,
// nil when the member is absent.
func (q *Queries) rankOrNil(ctx context.Context, key, member string) (*int64, error) {
	rank, ok, err := q.store.RankDesc(ctx, key, member)
	if err != nil {
		return nil, fmt.Errorf("read rank %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	r := rank + 1
	return &r, nil
}
