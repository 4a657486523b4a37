package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ayggdrasil/options-trading-base-sub001/pkg/ledger"
)

// Keys owned by the collaborator stores. The referral edges and sets are
// written by the registration path outside this service; the contributor set
// is maintained by operators.
const (
	keyContributors = "contributors"
	keyOlpDeposits  = "olp:deposits"

	keyPrefixParent        = "referral:parent:"
	keyPrefixChildren      = "referral:children:"
	keyPrefixGrandchildren = "referral:grandchildren:"
)

// ReferralGraph implements ledger.ReferralGraph on Redis: one parent scalar
// per account plus children/grandchildren sets maintained by the
// registration path.
type ReferralGraph struct {
	rdb *redis.Client
}

// NewReferralGraph returns a ledger.ReferralGraph backed by c.
func NewReferralGraph(c *Client) *ReferralGraph {
	return &ReferralGraph{rdb: c.GetClient()}
}

func (g *ReferralGraph) Parent(ctx context.Context, addr string) (string, bool, error) {
	parent, err := g.rdb.Get(ctx, keyPrefixParent+addr).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr("get parent of "+addr, err)
	}
	parent = strings.ToLower(parent)
	if parent == "" {
		return "", false, nil
	}
	return parent, true, nil
}

func (g *ReferralGraph) ChildrenCount(ctx context.Context, addr string) (int64, error) {
	n, err := g.rdb.SCard(ctx, keyPrefixChildren+addr).Result()
	if err != nil {
		return 0, storeErr("children count of "+addr, err)
	}
	return n, nil
}

func (g *ReferralGraph) GrandchildrenCount(ctx context.Context, addr string) (int64, error) {
	n, err := g.rdb.SCard(ctx, keyPrefixGrandchildren+addr).Result()
	if err != nil {
		return 0, storeErr("grandchildren count of "+addr, err)
	}
	return n, nil
}

// ContributorSet implements ledger.ContributorSet on a Redis set.
type ContributorSet struct {
	rdb *redis.Client
}

// NewContributorSet returns a ledger.ContributorSet backed by c.
func NewContributorSet(c *Client) *ContributorSet {
	return &ContributorSet{rdb: c.GetClient()}
}

func (s *ContributorSet) IsMember(ctx context.Context, addr string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, keyContributors, addr).Result()
	if err != nil {
		return false, storeErr("contributor check for "+addr, err)
	}
	return ok, nil
}

// DepositBook implements ledger.DepositBook on a Redis sorted set keyed by
// account with the deposited amount as score.
type DepositBook struct {
	rdb *redis.Client
}

// NewDepositBook returns a ledger.DepositBook backed by c.
func NewDepositBook(c *Client) *DepositBook {
	return &DepositBook{rdb: c.GetClient()}
}

func (b *DepositBook) Snapshot(ctx context.Context) ([]ledger.Deposit, error) {
	rows, err := b.rdb.ZRangeWithScores(ctx, keyOlpDeposits, 0, -1).Result()
	if err != nil {
		return nil, storeErr("deposit snapshot", err)
	}

	deposits := make([]ledger.Deposit, 0, len(rows))
	for _, row := range rows {
		addr, ok := row.Member.(string)
		if !ok {
			continue
		}
		deposits = append(deposits, ledger.Deposit{
			Address: addr,
			Amount:  decimal.NewFromFloat(row.Score),
		})
	}
	return deposits, nil
}

func (b *DepositBook) Add(ctx context.Context, addr string, delta decimal.Decimal) error {
	if err := b.rdb.ZIncrBy(ctx, keyOlpDeposits, delta.InexactFloat64(), addr).Err(); err != nil {
		return storeErr("deposit adjust for "+addr, err)
	}
	return nil
}
