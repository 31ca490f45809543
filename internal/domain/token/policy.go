package token

import "strings"

// TransferPolicy selects whether tokens of a ledger may change hands.
type TransferPolicy string

const (
	// Transferable tokens move freely unless frozen.
	Transferable TransferPolicy = "transferable"
	// Locked tokens are soulbound: never transferable, only burnable.
	Locked TransferPolicy = "locked"
)

// ParsePolicy maps a configuration value to a policy. Empty means Transferable.
func ParsePolicy(s string) (TransferPolicy, error) {
	switch TransferPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Transferable:
		return Transferable, nil
	case Locked, "soulbound":
		return Locked, nil
	default:
		return "", ErrInvalidPolicy
	}
}
