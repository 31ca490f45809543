package issuer

import (
	"context"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
)

type mintPair struct {
	eventID event.ID
	to      access.Principal
}

// MintToken mints one token of eventID to to. Admins and event minters may call it.
func (is *Issuer) MintToken(ctx context.Context, caller access.Principal, eventID event.ID, to access.Principal, initialState string) (token.ID, error) {
	ids, err := is.mint(ctx, "mint_token", caller, []mintPair{{eventID, to}}, initialState, eventMinterAuth(eventID))
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// MintEventToManyUsers mints one token of eventID to each recipient, in order.
func (is *Issuer) MintEventToManyUsers(ctx context.Context, caller access.Principal, eventID event.ID, to []access.Principal, initialState string) ([]token.ID, error) {
	pairs := make([]mintPair, len(to))
	for i, p := range to {
		pairs[i] = mintPair{eventID, p}
	}
	return is.mint(ctx, "mint_event_to_many_users", caller, pairs, initialState, eventMinterAuth(eventID))
}

// MintUserToManyEvents mints one token of each event to to, in order. Admin only;
// event minter standing does not count here.
func (is *Issuer) MintUserToManyEvents(ctx context.Context, caller access.Principal, eventIDs []event.ID, to access.Principal, initialState string) ([]token.ID, error) {
	pairs := make([]mintPair, len(eventIDs))
	for i, id := range eventIDs {
		pairs[i] = mintPair{id, to}
	}
	return is.mint(ctx, "mint_user_to_many_events", caller, pairs, initialState, (*txn).requireAdmin)
}

func eventMinterAuth(id event.ID) func(*txn) error {
	return func(tx *txn) error {
		if !tx.isAdmin(tx.caller) && !tx.isEventMinter(id, tx.caller) {
			return access.ErrNotEventMinter
		}
		return nil
	}
}

// mint runs every pair through the same admission and allocation path. Any
// failure discards the whole batch.
func (is *Issuer) mint(ctx context.Context, op string, caller access.Principal, pairs []mintPair, initialState string, authorize func(*txn) error) ([]token.ID, error) {
	var ids []token.ID
	err := is.mutate(ctx, op, caller, func(tx *txn) error {
		if err := tx.requireNotPaused(); err != nil {
			return err
		}
		if err := authorize(tx); err != nil {
			return err
		}
		ids = make([]token.ID, 0, len(pairs))
		for _, p := range pairs {
			id, err := tx.mintOne(p.eventID, p.to, initialState)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (tx *txn) mintOne(eventID event.ID, to access.Principal, initialState string) (token.ID, error) {
	e, ok := tx.event(eventID)
	if !ok {
		return 0, event.ErrNotFound
	}
	if err := e.Admit(tx.now); err != nil {
		return 0, err
	}
	if to.IsZero() {
		return 0, access.ErrInvalidPrincipal
	}

	id := tx.meta.Counters.NextTokenID
	tx.meta.Counters.NextTokenID++
	tx.meta.Counters.TotalSupply++
	tx.putEvent(e.Minted())

	t := token.Mint(id, eventID, to, tx.meta.Policy, initialState, tx.now)
	tx.putToken(t)
	tx.minted++

	tx.emit(activity.Entry{Kind: activity.KindEventToken, EventID: activity.EventRef(eventID), TokenID: activity.TokenRef(id), Account: to})
	if t.Locked {
		tx.emit(activity.Entry{Kind: activity.KindLocked, TokenID: activity.TokenRef(id), Account: to})
	}
	return id, nil
}
