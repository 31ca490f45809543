package issuer

import (
	"context"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/token"
)

func (is *Issuer) OwnerOf(id token.ID) (access.Principal, error) {
	var (
		owner access.Principal
		err   error
	)
	is.read(func() {
		t, ok := is.ledger.Get(id)
		if !ok {
			err = token.ErrNotFound
			return
		}
		owner = t.Owner
	})
	return owner, err
}

func (is *Issuer) BalanceOf(p access.Principal) (uint64, error) {
	if p.IsZero() {
		return 0, access.ErrInvalidPrincipal
	}
	var n uint64
	is.read(func() { n = is.ledger.BalanceOf(p) })
	return n, nil
}

func (is *Issuer) GetApproved(id token.ID) (access.Principal, error) {
	var (
		approved access.Principal
		err      error
	)
	is.read(func() {
		t, ok := is.ledger.Get(id)
		if !ok {
			err = token.ErrNotFound
			return
		}
		approved = t.Approved
	})
	return approved, err
}

func (is *Issuer) IsApprovedForAll(owner, operator access.Principal) bool {
	var ok bool
	is.read(func() { ok = is.ledger.IsApprovedForAll(owner, operator) })
	return ok
}

// Locked reports whether a live token is soulbound.
func (is *Issuer) Locked(id token.ID) (bool, error) {
	var (
		locked bool
		err    error
	)
	is.read(func() {
		t, ok := is.ledger.Get(id)
		if !ok {
			err = token.ErrNotFound
			return
		}
		locked = t.Locked
	})
	return locked, err
}

// Approve sets the single-token approval. An empty to clears it. Frozen
// tokens cannot be approved; soulbound tokens can.
func (is *Issuer) Approve(ctx context.Context, caller, to access.Principal, id token.ID) error {
	return is.mutate(ctx, "approve", caller, func(tx *txn) error {
		t, ok := tx.token(id)
		if !ok {
			return token.ErrNotFound
		}
		if to == t.Owner {
			return token.ErrApprovalToOwner
		}
		if caller != t.Owner && !tx.isApprovedForAll(t.Owner, caller) {
			return token.ErrNotAuthorizedToApprove
		}
		if t.Frozen {
			return token.ErrFrozen
		}
		tx.putToken(t.WithApproval(to))
		tx.emit(activity.Entry{Kind: activity.KindApproval, TokenID: activity.TokenRef(id), EventID: activity.EventRef(t.EventID), Account: t.Owner, Target: to})
		return nil
	})
}

// SetApprovalForAll grants or revokes operator standing over every token the caller owns.
func (is *Issuer) SetApprovalForAll(ctx context.Context, caller, operator access.Principal, approved bool) error {
	return is.mutate(ctx, "set_approval_for_all", caller, func(tx *txn) error {
		if operator.IsZero() || caller.IsZero() {
			return access.ErrInvalidPrincipal
		}
		if operator == caller {
			return token.ErrApproveToCaller
		}
		tx.setOperator(caller, operator, approved)
		tx.emit(activity.Entry{Kind: activity.KindApprovalForAll, Account: caller, Target: operator, Approved: approved})
		return nil
	})
}

// TransferFrom moves a token from its owner to a new owner. Every transfer
// passes the ledger's transfer gate first, so soulbound and frozen tokens
// never move.
func (is *Issuer) TransferFrom(ctx context.Context, caller, from, to access.Principal, id token.ID) error {
	return is.mutate(ctx, "transfer_from", caller, func(tx *txn) error {
		t, ok := tx.token(id)
		if !ok {
			return token.ErrNotFound
		}
		if err := is.ledger.TransferGate(t); err != nil {
			return err
		}
		if !tx.isApprovedOrOwner(caller, t) {
			return token.ErrNotAuthorizedToTransfer
		}
		if t.Owner != from {
			return token.ErrIncorrectOwner
		}
		if to.IsZero() {
			return access.ErrInvalidPrincipal
		}
		tx.putToken(t.TransferredTo(to))
		tx.emit(activity.Entry{Kind: activity.KindTransfer, TokenID: activity.TokenRef(id), EventID: activity.EventRef(t.EventID), Account: to, Target: from})
		return nil
	})
}
