package ledger

import (
	"fmt"
	"strings"
)

// NormalizeAddress lower-cases and validates an account address. The ledger
// keys every counter by the normalized form, so all entrypoints normalize
// before touching the store.
func NormalizeAddress(addr string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(addr))
	if len(a) != 42 || !strings.HasPrefix(a, "0x") {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	for _, c := range a[2:] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
		}
	}
	return a, nil
}
