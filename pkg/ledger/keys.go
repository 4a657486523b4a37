package ledger

// Store key builders. Every key the ledger reads or writes is produced here
// so malformed keys cannot be assembled ad hoc at call sites.

// KeyAllTime is the sorted set holding every account's all-time score.
const KeyAllTime = "points:all-time"

// WeeklyKey returns the sorted set holding per-account scores for the week
// beginning at weekStart.
func WeeklyKey(weekStart string) string {
	return "points:weekly:" + weekStart
}

// WeeklyTotalKey returns the scalar accumulating every credit issued during
// the week beginning at weekStart, rebates included.
func WeeklyTotalKey(weekStart string) string {
	return "points:weekly-total:" + weekStart
}

// ReceivedFromChildrenKey returns the scalar counting rebates addr has
// received from its direct referees.
func ReceivedFromChildrenKey(addr string) string {
	return "points:received-from-children:" + addr
}

// ReceivedFromGrandchildrenKey returns the scalar counting rebates addr has
// received from its referees' referees.
func ReceivedFromGrandchildrenKey(addr string) string {
	return "points:received-from-grandchildren:" + addr
}

// OlpDepositAppliedKey returns the idempotency flag for the daily OLP
// deposit job on the given day.
func OlpDepositAppliedKey(day string) string {
	return "flags:olp-deposit-applied:" + day
}
