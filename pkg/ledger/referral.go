package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// ReferralGraph exposes the read side of the referral hierarchy. The write
// path (who becomes whose parent) lives outside this package; the ledger
// only ever walks upward. At most one parent per account; the grandparent is
// the parent's parent. Cycle-freedom is not enforced here.
type ReferralGraph interface {
	// Parent returns an account's referrer. The second return is false when
	// the account has no parent.
	Parent(ctx context.Context, addr string) (string, bool, error)

	// ChildrenCount returns the number of direct referees.
	ChildrenCount(ctx context.Context, addr string) (int64, error)

	// GrandchildrenCount returns the number of second-level referees.
	GrandchildrenCount(ctx context.Context, addr string) (int64, error)
}

// ContributorSet flags accounts that always classify at the highest tier
// regardless of point history.
type ContributorSet interface {
	IsMember(ctx context.Context, addr string) (bool, error)
}

// Deposit is one account's current OLP deposit balance.
type Deposit struct {
	Address string
	Amount  decimal.Decimal
}

// DepositBook tracks per-account OLP pool-token deposits. The daily job
// consumes the full snapshot once per day; the register/deregister paths
// keep the balances current as deposits and withdrawals happen.
type DepositBook interface {
	// Snapshot returns every (account, deposited amount) pair.
	Snapshot(ctx context.Context) ([]Deposit, error)

	// Add adjusts an account's deposited amount. Withdrawals pass a
	// negative delta.
	Add(ctx context.Context, addr string, delta decimal.Decimal) error
}
