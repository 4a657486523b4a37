package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrStoreUnavailable wraps any backing-store failure. Callers abort the
// current call or job when they see it; nothing already committed is rolled
// back.
var ErrStoreUnavailable = errors.New("point store unavailable")

// ErrInvalidAddress is returned before any write is staged when an address
// does not normalize to 0x + 40 hex digits.
var ErrInvalidAddress = errors.New("invalid account address")

// ErrNegativePoints is returned when a caller tries to credit a negative
// amount. The ledger only ever increases counters.
var ErrNegativePoints = errors.New("negative point amount")

// WriteOpKind tags a staged write.
type WriteOpKind int

const (
	// OpIncrSortedSet adds Delta to Member's score in sorted set Key,
	// creating the entry at zero if absent.
	OpIncrSortedSet WriteOpKind = iota
	// OpIncrScalar adds Delta to the scalar at Key.
	OpIncrScalar
	// OpSetScalar sets the scalar at Key to Value.
	OpSetScalar
)

// WriteOp is one staged write in a batch. The kind decides which fields are
// meaningful; constructors below keep call sites honest.
type WriteOp struct {
	Kind   WriteOpKind
	Key    string
	Member string
	Delta  decimal.Decimal
	Value  string
}

// IncrSortedSet stages an additive sorted-set score increment.
func IncrSortedSet(key, member string, delta decimal.Decimal) WriteOp {
	return WriteOp{Kind: OpIncrSortedSet, Key: key, Member: member, Delta: delta}
}

// IncrScalar stages an additive scalar increment.
func IncrScalar(key string, delta decimal.Decimal) WriteOp {
	return WriteOp{Kind: OpIncrScalar, Key: key, Delta: delta}
}

// SetScalar stages a scalar overwrite.
func SetScalar(key, value string) WriteOp {
	return WriteOp{Kind: OpSetScalar, Key: key, Value: value}
}

// Entry is one (member, score) pair from a sorted-set range read.
type Entry struct {
	Member string
	Score  decimal.Decimal
}

// Store is the persistence boundary of the ledger. Implementations submit a
// Batch in one network round-trip for efficiency, but the batch is NOT a
// transaction: concurrent readers may observe it partially applied. The
// ledger tolerates this because every staged write is an additive increment
// (or the final idempotency flag set, which nothing races against).
type Store interface {
	// Get reads a scalar. Absent keys return "" with a nil error.
	Get(ctx context.Context, key string) (string, error)

	// Set writes a scalar.
	Set(ctx context.Context, key, value string) error

	// Batch submits all staged writes together.
	Batch(ctx context.Context, ops []WriteOp) error

	// RangeDesc reads members of a sorted set by descending score,
	// start and stop being inclusive 0-based ranks.
	RangeDesc(ctx context.Context, key string, start, stop int64) ([]Entry, error)

	// RankDesc reads a member's 0-based descending rank. The second return
	// is false when the member is absent.
	RankDesc(ctx context.Context, key, member string) (int64, bool, error)

	// Score reads a member's sorted-set score. The second return is false
	// when the member is absent.
	Score(ctx context.Context, key, member string) (decimal.Decimal, bool, error)

	// IsSetMember reports plain-set membership.
	IsSetMember(ctx context.Context, key, member string) (bool, error)

	// SetCardinality reports a plain set's size.
	SetCardinality(ctx context.Context, key string) (int64, error)
}
