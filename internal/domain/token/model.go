package token

import (
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/event"
)

// ID is the sequential token identifier, starting at 1.
type ID uint64

// Token is one issued attendance credential.
type Token struct {
	ID              ID               `json:"id"`
	EventID         event.ID         `json:"event_id"`
	Owner           access.Principal `json:"owner"`
	Approved        access.Principal `json:"approved,omitempty"`
	Frozen          bool             `json:"frozen"`
	FreezeStartedAt time.Time        `json:"freeze_started_at,omitempty"`
	Locked          bool             `json:"locked"`
	InitialState    string           `json:"initial_state,omitempty"`
	MintedAt        time.Time        `json:"minted_at"`
}

// Mint returns a fresh token. initialState is stored unchanged.
func Mint(id ID, eventID event.ID, owner access.Principal, policy TransferPolicy, initialState string, now time.Time) Token {
	return Token{
		ID:           id,
		EventID:      eventID,
		Owner:        owner,
		Locked:       policy == Locked,
		InitialState: initialState,
		MintedAt:     time.Unix(now.Unix(), 0).UTC(),
	}
}

// Freeze returns t frozen at now.
func (t Token) Freeze(now time.Time) (Token, error) {
	if t.Locked {
		return t, ErrFreezeUnsupported
	}
	if t.Frozen {
		return t, ErrFrozen
	}
	t.Frozen = true
	t.FreezeStartedAt = time.Unix(now.Unix(), 0).UTC()
	return t, nil
}

// Unfreeze returns t unfrozen. The freeze start time is kept for inspection.
func (t Token) Unfreeze() (Token, error) {
	if t.Locked {
		return t, ErrFreezeUnsupported
	}
	if !t.Frozen {
		return t, ErrNotFrozen
	}
	t.Frozen = false
	return t, nil
}

// TransferredTo returns t owned by to, with its single-token approval cleared.
func (t Token) TransferredTo(to access.Principal) Token {
	t.Owner = to
	t.Approved = ""
	return t
}

// WithApproval returns t with a single-token approval for p (empty clears it).
func (t Token) WithApproval(p access.Principal) Token {
	t.Approved = p
	return t
}
