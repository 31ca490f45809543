package issuer

import (
	"context"
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/token"
)

// Freeze blocks transfers and approvals of a token. The owner, an approved
// account, an operator of the owner, or an admin may freeze.
func (is *Issuer) Freeze(ctx context.Context, caller access.Principal, id token.ID) error {
	return is.mutate(ctx, "freeze", caller, func(tx *txn) error {
		if err := tx.requireNotPaused(); err != nil {
			return err
		}
		t, ok := tx.token(id)
		if !ok {
			return token.ErrNotFound
		}
		if !tx.isApprovedOrOwner(caller, t) && !tx.isAdmin(caller) {
			return token.ErrNotAuthorizedToFreeze
		}
		frozen, err := t.Freeze(tx.now)
		if err != nil {
			return err
		}
		tx.putToken(frozen)
		tx.emit(activity.Entry{Kind: activity.KindFrozen, TokenID: activity.TokenRef(id), Account: t.Owner})
		return nil
	})
}

// Unfreeze is admin only. Owners cannot lift a freeze themselves.
func (is *Issuer) Unfreeze(ctx context.Context, caller access.Principal, id token.ID) error {
	return is.mutate(ctx, "unfreeze", caller, func(tx *txn) error {
		if err := tx.requireNotPaused(); err != nil {
			return err
		}
		t, ok := tx.token(id)
		if !ok {
			return token.ErrNotFound
		}
		if err := tx.requireAdmin(); err != nil {
			return err
		}
		thawed, err := t.Unfreeze()
		if err != nil {
			return err
		}
		tx.putToken(thawed)
		tx.emit(activity.Entry{Kind: activity.KindUnfrozen, TokenID: activity.TokenRef(id), Account: t.Owner})
		return nil
	})
}

// IsFrozen reports whether a live token is frozen. Unknown tokens are not frozen.
func (is *Issuer) IsFrozen(id token.ID) bool {
	var frozen bool
	is.read(func() {
		t, ok := is.ledger.Get(id)
		frozen = ok && t.Frozen
	})
	return frozen
}

// GetFreezeTime returns when the token was last frozen, zero if never.
func (is *Issuer) GetFreezeTime(id token.ID) time.Time {
	var at time.Time
	is.read(func() {
		if t, ok := is.ledger.Get(id); ok {
			at = t.FreezeStartedAt
		}
	})
	return at
}

// FreezeStatus describes a token's freeze state against the global duration.
type FreezeStatus struct {
	Frozen    bool          `json:"frozen"`
	StartedAt time.Time     `json:"started_at,omitempty"`
	Duration  time.Duration `json:"duration"`
	// ReviewAt is StartedAt plus Duration. Nothing unfreezes automatically.
	ReviewAt time.Time `json:"review_at,omitempty"`
}

func (is *Issuer) FreezeStatus(id token.ID) (FreezeStatus, error) {
	var (
		st  FreezeStatus
		err error
	)
	is.read(func() {
		t, ok := is.ledger.Get(id)
		if !ok {
			err = token.ErrNotFound
			return
		}
		st.Frozen = t.Frozen
		st.Duration = is.ledger.Counters().FreezeDuration
		if t.Frozen {
			st.StartedAt = t.FreezeStartedAt
			st.ReviewAt = t.FreezeStartedAt.Add(st.Duration)
		}
	})
	return st, err
}
