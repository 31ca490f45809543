package event

import (
	"time"
)

// New validates a creation request and returns the event record to store.
// A zero expiration never expires; any other expiration must be at least
// MinMintLeadTime past now.
func New(id ID, maxSupplyRequested uint64, expiration, now time.Time) (Event, error) {
	if !expiration.IsZero() {
		minimum := now.Unix() + int64(MinMintLeadTime/time.Second)
		if expiration.Unix() < minimum {
			return Event{}, ErrExpirationTooSoon
		}
		expiration = time.Unix(expiration.Unix(), 0).UTC()
	}
	return Event{
		ID:             id,
		MaxSupply:      SupplyFromRequest(maxSupplyRequested),
		MintExpiration: expiration,
		CreatedAt:      time.Unix(now.Unix(), 0).UTC(),
	}, nil
}

// Admit reports whether one more token may be minted into e at now.
func (e Event) Admit(now time.Time) error {
	if e.Expired(now) {
		return ErrMintExpired
	}
	if !e.MaxSupply.Allows(e.TotalSupply) {
		return ErrMaxSupplyReached
	}
	return nil
}

// Minted returns e with one more token recorded.
func (e Event) Minted() Event {
	e.TotalSupply++
	return e
}

// Burned returns e with one token removed.
func (e Event) Burned() (Event, error) {
	if e.TotalSupply == 0 {
		return e, ErrSupplyUnderflow
	}
	e.TotalSupply--
	return e, nil
}
