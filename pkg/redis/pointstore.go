package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ayggdrasil/options-trading-base-sub001/pkg/ledger"
)

// PointStore implements ledger.Store on Redis: sorted sets for the
// leaderboards, INCRBYFLOAT scalars for the running counters, and one
// pipelined round-trip per batch. The pipeline is not a MULTI/EXEC
// transaction; the ledger's write ops are additive increments precisely so
// that it does not need one.
type PointStore struct {
	rdb *redis.Client
}

// NewPointStore returns a ledger.Store backed by c.
func NewPointStore(c *Client) *PointStore {
	return &PointStore{rdb: c.GetClient()}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ledger.ErrStoreUnavailable, op, err)
}

func (s *PointStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", storeErr("get "+key, err)
	}
	return v, nil
}

func (s *PointStore) Set(ctx context.Context, key, value string) error {
	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return storeErr("set "+key, err)
	}
	return nil
}

// Batch submits all staged writes in one pipeline.
func (s *PointStore) Batch(ctx context.Context, ops []ledger.WriteOp) error {
	if len(ops) == 0 {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, op := range ops {
		switch op.Kind {
		case ledger.OpIncrSortedSet:
			pipe.ZIncrBy(ctx, op.Key, op.Delta.InexactFloat64(), op.Member)
		case ledger.OpIncrScalar:
			pipe.IncrByFloat(ctx, op.Key, op.Delta.InexactFloat64())
		case ledger.OpSetScalar:
			pipe.Set(ctx, op.Key, op.Value, 0)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr(fmt.Sprintf("batch of %d ops", len(ops)), err)
	}
	return nil
}

func (s *PointStore) RangeDesc(ctx context.Context, key string, start, stop int64) ([]ledger.Entry, error) {
	rows, err := s.rdb.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, storeErr("zrevrange "+key, err)
	}

	entries := make([]ledger.Entry, 0, len(rows))
	for _, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			member = fmt.Sprint(row.Member)
		}
		entries = append(entries, ledger.Entry{
			Member: member,
			Score:  decimal.NewFromFloat(row.Score),
		})
	}
	return entries, nil
}

func (s *PointStore) RankDesc(ctx context.Context, key, member string) (int64, bool, error) {
	rank, err := s.rdb.ZRevRank(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storeErr("zrevrank "+key, err)
	}
	return rank, true, nil
}

func (s *PointStore) Score(ctx context.Context, key, member string) (decimal.Decimal, bool, error) {
	score, err := s.rdb.ZScore(ctx, key, member).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, storeErr("zscore "+key, err)
	}
	return decimal.NewFromFloat(score), true, nil
}

func (s *PointStore) IsSetMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, storeErr("sismember "+key, err)
	}
	return ok, nil
}

func (s *PointStore) SetCardinality(ctx context.Context, key string) (int64, error) {
	n, err := s.rdb.SCard(ctx, key).Result()
	if err != nil {
		return 0, storeErr("scard "+key, err)
	}
	return n, nil
}
