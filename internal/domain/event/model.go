package event

import (
	"math"
	"time"
)

// ID is the caller-chosen identifier of an event.
type ID uint64

// MinMintLeadTime is the shortest allowed distance between event creation and
// its mint expiration.
const MinMintLeadTime = 72 * time.Hour

// Supply is an event's issuance cap.
type Supply struct {
	Max       uint64 `json:"max"`
	Unbounded bool   `json:"unbounded"`
}

// Unbounded returns a supply with no cap.
func Unbounded() Supply {
	return Supply{Unbounded: true}
}

// Capped returns a supply capped at max.
func Capped(max uint64) Supply {
	return Supply{Max: max}
}

// SupplyFromRequest maps a requested cap to a Supply; zero requests no cap.
func SupplyFromRequest(requested uint64) Supply {
	if requested == 0 {
		return Unbounded()
	}
	return Capped(requested)
}

// Allows reports whether one more token fits on top of total.
func (s Supply) Allows(total uint64) bool {
	return s.Unbounded || total < s.Max
}

// Value reports the cap, using math.MaxUint64 for an unbounded supply.
func (s Supply) Value() uint64 {
	if s.Unbounded {
		return math.MaxUint64
	}
	return s.Max
}

// Event is a minting campaign.
type Event struct {
	ID             ID        `json:"id"`
	MaxSupply      Supply    `json:"max_supply"`
	MintExpiration time.Time `json:"mint_expiration,omitempty"` // zero never expires
	TotalSupply    uint64    `json:"total_supply"`
	CreatedAt      time.Time `json:"created_at"`
}

// Expires reports whether the event has a mint expiration.
func (e Event) Expires() bool {
	return !e.MintExpiration.IsZero()
}

// Expired reports whether minting is closed at now. Comparison is at whole-second
// resolution.
func (e Event) Expired(now time.Time) bool {
	return e.Expires() && now.Unix() >= e.MintExpiration.Unix()
}
