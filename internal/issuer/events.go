package issuer

import (
	"context"
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
)

// CreateEventID registers a new event and makes organizer its first minter.
// maxSupply zero means unbounded; a zero expiration never expires.
func (is *Issuer) CreateEventID(ctx context.Context, caller access.Principal, id event.ID, maxSupply uint64, expiration time.Time, organizer access.Principal) error {
	return is.mutate(ctx, "create_event_id", caller, func(tx *txn) error {
		if err := tx.requireNotPaused(); err != nil {
			return err
		}
		if err := tx.requireAdmin(); err != nil {
			return err
		}
		if organizer.IsZero() {
			return access.ErrInvalidPrincipal
		}
		if _, ok := tx.event(id); ok {
			return event.ErrAlreadyCreated
		}
		e, err := event.New(id, maxSupply, expiration, tx.now)
		if err != nil {
			return err
		}
		tx.putEvent(e)
		tx.emit(activity.Entry{Kind: activity.KindEventCreated, EventID: activity.EventRef(id), Account: organizer})
		tx.grantEventMinter(id, organizer)
		return nil
	})
}

// EventMaxSupply returns the event's cap. Unknown events report a zero cap.
func (is *Issuer) EventMaxSupply(id event.ID) event.Supply {
	var s event.Supply
	is.read(func() {
		if e, ok := is.events.Get(id); ok {
			s = e.MaxSupply
		}
	})
	return s
}

// EventTotalSupply returns live tokens of the event, zero when unknown.
func (is *Issuer) EventTotalSupply(id event.ID) uint64 {
	var n uint64
	is.read(func() { n = is.events.TotalSupply(id) })
	return n
}

// TotalSupply returns live tokens across every event.
func (is *Issuer) TotalSupply() uint64 {
	var n uint64
	is.read(func() { n = is.ledger.Counters().TotalSupply })
	return n
}

// TokenEvent returns the event a live token was minted for.
func (is *Issuer) TokenEvent(id token.ID) (event.ID, error) {
	var (
		eid event.ID
		err error
	)
	is.read(func() {
		t, ok := is.ledger.Get(id)
		if !ok {
			err = token.ErrNotFound
			return
		}
		eid = t.EventID
	})
	return eid, err
}

func (is *Issuer) Event(id event.ID) (event.Event, bool) {
	var (
		e  event.Event
		ok bool
	)
	is.read(func() { e, ok = is.events.Get(id) })
	return e, ok
}

// Events lists every registered event by id.
func (is *Issuer) Events() []event.Event {
	var out []event.Event
	is.read(func() { out = is.events.All() })
	return out
}
