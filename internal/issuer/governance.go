package issuer

import (
	"context"
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
)

// Initialize performs the one-time setup: it records baseURI and grants admin
// to the owner and every extra admin. Only the owner may call it.
func (is *Issuer) Initialize(ctx context.Context, caller access.Principal, baseURI string, extraAdmins []access.Principal) error {
	return is.execute(ctx, "initialize", caller, false, func(tx *txn) error {
		if tx.meta.Initialized {
			return ErrAlreadyInitialized
		}
		if caller != is.owner {
			return access.ErrNotOwner
		}
		for _, p := range extraAdmins {
			if p.IsZero() {
				return access.ErrInvalidPrincipal
			}
		}
		tx.meta.Initialized = true
		tx.meta.Paused = false
		tx.meta.BaseURI = baseURI
		tx.emit(activity.Entry{Kind: activity.KindInitialized, Account: caller})
		tx.grantAdmin(is.owner)
		for _, p := range extraAdmins {
			tx.grantAdmin(p)
		}
		return nil
	})
}

func (tx *txn) grantAdmin(p access.Principal) {
	if tx.isAdmin(p) {
		return
	}
	tx.setAdmin(p, true)
	tx.emit(activity.Entry{Kind: activity.KindAdminAdded, Account: p})
}

// AddAdmin grants admin standing to p. Granting an existing admin is a no-op.
func (is *Issuer) AddAdmin(ctx context.Context, caller, p access.Principal) error {
	return is.mutate(ctx, "add_admin", caller, func(tx *txn) error {
		if err := tx.requireAdmin(); err != nil {
			return err
		}
		if p.IsZero() {
			return access.ErrInvalidPrincipal
		}
		tx.grantAdmin(p)
		return nil
	})
}

// RemoveAdmin revokes admin standing from p. Revoking a non-admin is a no-op.
func (is *Issuer) RemoveAdmin(ctx context.Context, caller, p access.Principal) error {
	return is.mutate(ctx, "remove_admin", caller, func(tx *txn) error {
		if err := tx.requireAdmin(); err != nil {
			return err
		}
		if p.IsZero() {
			return access.ErrInvalidPrincipal
		}
		if !tx.isAdmin(p) {
			return nil
		}
		tx.setAdmin(p, false)
		tx.emit(activity.Entry{Kind: activity.KindAdminRemoved, Account: p})
		return nil
	})
}

func (is *Issuer) IsAdmin(p access.Principal) bool {
	var ok bool
	is.read(func() { ok = is.access.IsAdmin(p) })
	return ok
}

// Admins lists the current admin set.
func (is *Issuer) Admins() []access.Principal {
	var out []access.Principal
	is.read(func() { out = is.access.Admins() })
	return out
}

// AddEventMinter grants minting standing for one event. Admins and existing
// minters of the event may call it.
func (is *Issuer) AddEventMinter(ctx context.Context, caller access.Principal, id event.ID, p access.Principal) error {
	return is.mutate(ctx, "add_event_minter", caller, func(tx *txn) error {
		if !tx.isAdmin(caller) && !tx.isEventMinter(id, caller) {
			return access.ErrNotEventMinter
		}
		if _, ok := tx.event(id); !ok {
			return event.ErrNotFound
		}
		if p.IsZero() {
			return access.ErrInvalidPrincipal
		}
		tx.grantEventMinter(id, p)
		return nil
	})
}

func (tx *txn) grantEventMinter(id event.ID, p access.Principal) {
	if tx.isEventMinter(id, p) {
		return
	}
	tx.setEventMinter(id, p, true)
	tx.emit(activity.Entry{Kind: activity.KindEventMinterAdded, EventID: activity.EventRef(id), Account: p})
}

// RemoveEventMinter revokes minting standing for one event. Admin only.
func (is *Issuer) RemoveEventMinter(ctx context.Context, caller access.Principal, id event.ID, p access.Principal) error {
	return is.mutate(ctx, "remove_event_minter", caller, func(tx *txn) error {
		if err := tx.requireAdmin(); err != nil {
			return err
		}
		if _, ok := tx.event(id); !ok {
			return event.ErrNotFound
		}
		if p.IsZero() {
			return access.ErrInvalidPrincipal
		}
		if !tx.isEventMinter(id, p) {
			return nil
		}
		tx.setEventMinter(id, p, false)
		tx.emit(activity.Entry{Kind: activity.KindEventMinterRemoved, EventID: activity.EventRef(id), Account: p})
		return nil
	})
}

// IsEventMinter reports explicit minter standing only; admins are not implied.
func (is *Issuer) IsEventMinter(id event.ID, p access.Principal) bool {
	var ok bool
	is.read(func() { ok = is.access.IsEventMinter(id, p) })
	return ok
}

// EventMinters lists the explicit minters of one event.
func (is *Issuer) EventMinters(id event.ID) []access.Principal {
	var out []access.Principal
	is.read(func() { out = is.access.EventMinters(id) })
	return out
}

// Pause stops event creation, minting, freeze and unfreeze.
func (is *Issuer) Pause(ctx context.Context, caller access.Principal) error {
	return is.mutate(ctx, "pause", caller, func(tx *txn) error {
		if err := tx.requireNotPaused(); err != nil {
			return err
		}
		if err := tx.requireAdmin(); err != nil {
			return err
		}
		tx.meta.Paused = true
		tx.emit(activity.Entry{Kind: activity.KindPaused, Account: caller})
		return nil
	})
}

func (is *Issuer) Unpause(ctx context.Context, caller access.Principal) error {
	return is.mutate(ctx, "unpause", caller, func(tx *txn) error {
		if err := tx.requireAdmin(); err != nil {
			return err
		}
		if !tx.meta.Paused {
			return ErrNotPaused
		}
		tx.meta.Paused = false
		tx.emit(activity.Entry{Kind: activity.KindUnpaused, Account: caller})
		return nil
	})
}

func (is *Issuer) Paused() bool {
	var paused bool
	is.read(func() { paused = is.meta.Paused })
	return paused
}

// SetFreezeDuration records the global freeze duration, truncated to whole
// seconds. It never unfreezes anything.
func (is *Issuer) SetFreezeDuration(ctx context.Context, caller access.Principal, d time.Duration) error {
	return is.mutate(ctx, "set_freeze_duration", caller, func(tx *txn) error {
		if err := tx.requireAdmin(); err != nil {
			return err
		}
		if d < 0 {
			return token.ErrInvalidDuration
		}
		tx.meta.Counters.FreezeDuration = d.Truncate(time.Second)
		return nil
	})
}

func (is *Issuer) FreezeDuration() time.Duration {
	var d time.Duration
	is.read(func() { d = is.ledger.Counters().FreezeDuration })
	return d
}
