package issuer

import (
	"fmt"

	"github.com/rpggio/attest/internal/domain/event"
)

// VerifyCounters checks the supply invariants against live state.
func (is *Issuer) VerifyCounters() error {
	var err error
	is.read(func() { err = is.verifyCounters() })
	return err
}

// verifyCounters checks that the global supply equals the sum of event
// supplies and the live token count, that no capped event exceeds its cap,
// and that every token id was allocated. Caller holds mu.
func (is *Issuer) verifyCounters() error {
	counters := is.ledger.Counters()
	perEvent := make(map[event.ID]uint64)
	for _, t := range is.ledger.All() {
		if t.ID == 0 || t.ID >= counters.NextTokenID {
			return fmt.Errorf("token %d outside allocated range: %w", t.ID, ErrCounterMismatch)
		}
		perEvent[t.EventID]++
	}

	var sum uint64
	for _, e := range is.events.All() {
		if !e.MaxSupply.Unbounded && e.TotalSupply > e.MaxSupply.Max {
			return fmt.Errorf("event %d supply %d exceeds cap %d: %w", e.ID, e.TotalSupply, e.MaxSupply.Max, ErrCounterMismatch)
		}
		if perEvent[e.ID] != e.TotalSupply {
			return fmt.Errorf("event %d supply %d but %d live tokens: %w", e.ID, e.TotalSupply, perEvent[e.ID], ErrCounterMismatch)
		}
		delete(perEvent, e.ID)
		sum += e.TotalSupply
	}
	if len(perEvent) > 0 {
		return fmt.Errorf("tokens reference unknown events: %w", ErrCounterMismatch)
	}
	if sum != counters.TotalSupply {
		return fmt.Errorf("global supply %d but events sum to %d: %w", counters.TotalSupply, sum, ErrCounterMismatch)
	}
	return nil
}
