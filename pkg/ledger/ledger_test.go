package ledger_test

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ayggdrasil/options-trading-base-sub001/pkg/ledger"
)

// memStore is an in-memory ledger.Store used across the package tests. It
// counts writes so idempotency tests can assert that a no-op run really
// touched nothing.
type memStore struct {
	scalars map[string]string
	zsets   map[string]map[string]decimal.Decimal
	sets    map[string]map[string]bool

	batches int
	writes  int
}

func newMemStore() *memStore {
	return &memStore{
		scalars: map[string]string{},
		zsets:   map[string]map[string]decimal.Decimal{},
		sets:    map[string]map[string]bool{},
	}
}

func (s *memStore) Get(_ context.Context, key string) (string, error) {
	return s.scalars[key], nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.writes++
	s.scalars[key] = value
	return nil
}

func (s *memStore) Batch(_ context.Context, ops []ledger.WriteOp) error {
	s.batches++
	for _, op := range ops {
		s.writes++
		switch op.Kind {
		case ledger.OpIncrSortedSet:
			zset := s.zsets[op.Key]
			if zset == nil {
				zset = map[string]decimal.Decimal{}
				s.zsets[op.Key] = zset
			}
			zset[op.Member] = zset[op.Member].Add(op.Delta)
		case ledger.OpIncrScalar:
			cur, _ := decimal.NewFromString(s.scalars[op.Key])
			s.scalars[op.Key] = cur.Add(op.Delta).String()
		case ledger.OpSetScalar:
			s.scalars[op.Key] = op.Value
		}
	}
	return nil
}

func (s *memStore) rangeDesc(key string) []ledger.Entry {
	zset := s.zsets[key]
	entries := make([]ledger.Entry, 0, len(zset))
	for member, score := range zset {
		entries = append(entries, ledger.Entry{Member: member, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Score.Equal(entries[j].Score) {
			return entries[i].Score.GreaterThan(entries[j].Score)
		}
		return entries[i].Member < entries[j].Member
	})
	return entries
}

func (s *memStore) RangeDesc(_ context.Context, key string, start, stop int64) ([]ledger.Entry, error) {
	entries := s.rangeDesc(key)
	if start >= int64(len(entries)) {
		return nil, nil
	}
	if stop >= int64(len(entries)) {
		stop = int64(len(entries)) - 1
	}
	return entries[start : stop+1], nil
}

func (s *memStore) RankDesc(_ context.Context, key, member string) (int64, bool, error) {
	for i, e := range s.rangeDesc(key) {
		if e.Member == member {
			return int64(i), true, nil
		}
	}
	return 0, false, nil
}

func (s *memStore) Score(_ context.Context, key, member string) (decimal.Decimal, bool, error) {
	score, ok := s.zsets[key][member]
	return score, ok, nil
}

func (s *memStore) IsSetMember(_ context.Context, key, member string) (bool, error) {
	return s.sets[key][member], nil
}

func (s *memStore) SetCardinality(_ context.Context, key string) (int64, error) {
	return int64(len(s.sets[key])), nil
}

// seedWeeklyScore plants a score in a week bucket without going through the
// engine.
func (s *memStore) seedWeeklyScore(week, addr string, score decimal.Decimal) {
	zset := s.zsets[ledger.WeeklyKey(week)]
	if zset == nil {
		zset = map[string]decimal.Decimal{}
		s.zsets[ledger.WeeklyKey(week)] = zset
	}
	zset[addr] = score
}

// memGraph is an in-memory ledger.ReferralGraph. parentLookups counts Parent
// calls so tests can assert the grandparent lookup is skipped when there is
// no parent.
type memGraph struct {
	parents       map[string]string
	children      map[string]int64
	grandchildren map[string]int64

	parentLookups int
}

func newMemGraph() *memGraph {
	return &memGraph{
		parents:       map[string]string{},
		children:      map[string]int64{},
		grandchildren: map[string]int64{},
	}
}

func (g *memGraph) Parent(_ context.Context, addr string) (string, bool, error) {
	g.parentLookups++
	parent, ok := g.parents[addr]
	return parent, ok, nil
}

func (g *memGraph) ChildrenCount(_ context.Context, addr string) (int64, error) {
	return g.children[addr], nil
}

func (g *memGraph) GrandchildrenCount(_ context.Context, addr string) (int64, error) {
	return g.grandchildren[addr], nil
}

// memContributors is an in-memory ledger.ContributorSet.
type memContributors struct {
	members map[string]bool
}

func newMemContributors() *memContributors {
	return &memContributors{members: map[string]bool{}}
}

func (c *memContributors) IsMember(_ context.Context, addr string) (bool, error) {
	return c.members[addr], nil
}

// memDeposits is an in-memory ledger.DepositBook.
type memDeposits struct {
	balances map[string]decimal.Decimal
	order    []string
}

func newMemDeposits() *memDeposits {
	return &memDeposits{balances: map[string]decimal.Decimal{}}
}

func (d *memDeposits) Snapshot(_ context.Context) ([]ledger.Deposit, error) {
	deposits := make([]ledger.Deposit, 0, len(d.order))
	for _, addr := range d.order {
		deposits = append(deposits, ledger.Deposit{Address: addr, Amount: d.balances[addr]})
	}
	return deposits, nil
}

func (d *memDeposits) Add(_ context.Context, addr string, delta decimal.Decimal) error {
	if _, ok := d.balances[addr]; !ok {
		d.order = append(d.order, addr)
	}
	d.balances[addr] = d.balances[addr].Add(delta)
	return nil
}

// testAddr builds a valid normalized address from a single hex digit.
func testAddr(c byte) string {
	return "0x" + strings.Repeat(string(c), 40)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
