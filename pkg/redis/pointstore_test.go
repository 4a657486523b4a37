package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ayggdrasil/options-trading-base-sub001/pkg/ledger"
	"github.com/ayggdrasil/options-trading-base-sub001/pkg/redis"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	client := redis.NewClientFromRedis(rdb, zaptest.NewLogger(t))
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPointStoreScalars(t *testing.T) {
	client, _ := newTestClient(t)
	store := redis.NewPointStore(client)
	ctx := context.Background()

	// Missing keys read as empty, not as an error.
	v, err := store.Get(ctx, "flags:olp-deposit-applied:2024-01-10")
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, store.Set(ctx, "flags:olp-deposit-applied:2024-01-10", "true"))

	v, err = store.Get(ctx, "flags:olp-deposit-applied:2024-01-10")
	require.NoError(t, err)
	require.Equal(t, "true", v)
}

func TestPointStoreBatch(t *testing.T) {
	client, _ := newTestClient(t)
	store := redis.NewPointStore(client)
	ctx := context.Background()

	ops := []ledger.WriteOp{
		ledger.IncrSortedSet("points:all-time", "0xaa", dec("100")),
		ledger.IncrSortedSet("points:all-time", "0xaa", dec("50.5")),
		ledger.IncrSortedSet("points:all-time", "0xbb", dec("30")),
		ledger.IncrScalar("points:weekly-total:2024-01-08", dec("180.5")),
		ledger.SetScalar("flags:olp-deposit-applied:2024-01-08", "true"),
	}
	require.NoError(t, store.Batch(ctx, ops))

	score, ok, err := store.Score(ctx, "points:all-time", "0xaa")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, score.Equal(dec("150.5")), "got %s", score)

	total, err := store.Get(ctx, "points:weekly-total:2024-01-08")
	require.NoError(t, err)
	require.Equal(t, "180.5", total)

	flag, err := store.Get(ctx, "flags:olp-deposit-applied:2024-01-08")
	require.NoError(t, err)
	require.Equal(t, "true", flag)
}

func TestPointStoreEmptyBatch(t *testing.T) {
	client, _ := newTestClient(t)
	store := redis.NewPointStore(client)

	require.NoError(t, store.Batch(context.Background(), nil))
}

func TestPointStoreRangeAndRank(t *testing.T) {
	client, _ := newTestClient(t)
	store := redis.NewPointStore(client)
	ctx := context.Background()

	require.NoError(t, store.Batch(ctx, []ledger.WriteOp{
		ledger.IncrSortedSet("points:all-time", "0xaa", dec("300")),
		ledger.IncrSortedSet("points:all-time", "0xbb", dec("200")),
		ledger.IncrSortedSet("points:all-time", "0xcc", dec("100")),
	}))

	entries, err := store.RangeDesc(ctx, "points:all-time", 0, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "0xaa", entries[0].Member)
	require.True(t, entries[0].Score.Equal(dec("300")))
	require.Equal(t, "0xbb", entries[1].Member)

	rank, ok, err := store.RankDesc(ctx, "points:all-time", "0xcc")
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 2, rank)

	_, ok, err = store.RankDesc(ctx, "points:all-time", "0xdd")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.Score(ctx, "points:all-time", "0xdd")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPointStoreSets(t *testing.T) {
	client, _ := newTestClient(t)
	store := redis.NewPointStore(client)
	ctx := context.Background()

	rdb := client.GetClient()
	require.NoError(t, rdb.SAdd(ctx, "contributors", "0xaa", "0xbb").Err())

	ok, err := store.IsSetMember(ctx, "contributors", "0xaa")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.IsSetMember(ctx, "contributors", "0xcc")
	require.NoError(t, err)
	require.False(t, ok)

	n, err := store.SetCardinality(ctx, "contributors")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestPointStoreUnavailable(t *testing.T) {
	client, mr := newTestClient(t)
	store := redis.NewPointStore(client)
	mr.Close()

	_, err := store.Get(context.Background(), "points:all-time")
	require.ErrorIs(t, err, ledger.ErrStoreUnavailable)

	err = store.Batch(context.Background(), []ledger.WriteOp{
		ledger.IncrScalar("points:weekly-total:2024-01-08", dec("1")),
	})
	require.ErrorIs(t, err, ledger.ErrStoreUnavailable)
}

func TestReferralGraph(t *testing.T) {
	client, _ := newTestClient(t)
	graph := redis.NewReferralGraph(client)
	ctx := context.Background()

	rdb := client.GetClient()
	require.NoError(t, rdb.Set(ctx, "referral:parent:0xaa", "0xBB", 0).Err())
	require.NoError(t, rdb.SAdd(ctx, "referral:children:0xbb", "0xaa", "0xcc").Err())
	require.NoError(t, rdb.SAdd(ctx, "referral:grandchildren:0xbb", "0xdd").Err())

	parent, ok, err := graph.Parent(ctx, "0xaa")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "0xbb", parent, "parent reads are normalized")

	_, ok, err = graph.Parent(ctx, "0xbb")
	require.NoError(t, err)
	require.False(t, ok)

	n, err := graph.ChildrenCount(ctx, "0xbb")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	n, err = graph.GrandchildrenCount(ctx, "0xbb")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestContributorSet(t *testing.T) {
	client, _ := newTestClient(t)
	contributors := redis.NewContributorSet(client)
	ctx := context.Background()

	require.NoError(t, client.GetClient().SAdd(ctx, "contributors", "0xaa").Err())

	ok, err := contributors.IsMember(ctx, "0xaa")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = contributors.IsMember(ctx, "0xbb")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDepositBook(t *testing.T) {
	client, _ := newTestClient(t)
	book := redis.NewDepositBook(client)
	ctx := context.Background()

	require.NoError(t, book.Add(ctx, "0xaa", dec("5000")))
	require.NoError(t, book.Add(ctx, "0xbb", dec("1000")))
	require.NoError(t, book.Add(ctx, "0xaa", dec("-2000")))

	snapshot, err := book.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	byAddr := map[string]decimal.Decimal{}
	for _, d := range snapshot {
		byAddr[d.Address] = d.Amount
	}
	require.True(t, byAddr["0xaa"].Equal(dec("3000")))
	require.True(t, byAddr["0xbb"].Equal(dec("1000")))
}
