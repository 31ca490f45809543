package mcp

import (
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
)

// Times cross the wire as unix seconds. Zero means unset.

type InitializeParams struct {
	BaseURI string   `json:"base_uri"`
	Admins  []string `json:"admins,omitempty"`
}

type CreateEventIDParams struct {
	EventID        uint64 `json:"event_id"`
	MaxSupply      uint64 `json:"max_supply"`
	MintExpiration int64  `json:"mint_expiration"`
	Organizer      string `json:"organizer"`
}

type MintTokenParams struct {
	EventID      uint64 `json:"event_id"`
	To           string `json:"to"`
	InitialState string `json:"initial_state,omitempty"`
}

type MintEventToManyUsersParams struct {
	EventID      uint64   `json:"event_id"`
	To           []string `json:"to"`
	InitialState string   `json:"initial_state,omitempty"`
}

type MintUserToManyEventsParams struct {
	EventIDs     []uint64 `json:"event_ids"`
	To           string   `json:"to"`
	InitialState string   `json:"initial_state,omitempty"`
}

type EventParams struct {
	EventID uint64 `json:"event_id"`
}

type TokenParams struct {
	TokenID uint64 `json:"token_id"`
}

type AccountParams struct {
	Account string `json:"account"`
}

type EventMinterParams struct {
	EventID uint64 `json:"event_id"`
	Account string `json:"account"`
}

type SetFreezeDurationParams struct {
	Seconds int64 `json:"seconds"`
}

type SupportsInterfaceParams struct {
	// InterfaceID is a 4-byte selector, hex ("0x80ac58cd") or decimal.
	InterfaceID string `json:"interface_id"`
}

type ApproveParams struct {
	To      string `json:"to"`
	TokenID uint64 `json:"token_id"`
}

type SetApprovalForAllParams struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

type IsApprovedForAllParams struct {
	Owner    string `json:"owner"`
	Operator string `json:"operator"`
}

type TransferFromParams struct {
	From    string `json:"from"`
	To      string `json:"to"`
	TokenID uint64 `json:"token_id"`
}

type ListNotificationsParams struct {
	Kind     string  `json:"kind,omitempty"`
	EventID  *uint64 `json:"event_id,omitempty"`
	TokenID  *uint64 `json:"token_id,omitempty"`
	AfterSeq int64   `json:"after_seq,omitempty"`
	Limit    int     `json:"limit,omitempty"`
}

type MintTokenResponse struct {
	TokenID token.ID `json:"token_id"`
}

type MintBatchResponse struct {
	TokenIDs []token.ID `json:"token_ids"`
}

type EventMaxSupplyResponse struct {
	EventID   event.ID `json:"event_id"`
	MaxSupply uint64   `json:"max_supply"`
	Unbounded bool     `json:"unbounded"`
}

type CountResponse struct {
	Count uint64 `json:"count"`
}

type FlagResponse struct {
	Value bool `json:"value"`
}

type TokenEventResponse struct {
	TokenID token.ID `json:"token_id"`
	EventID event.ID `json:"event_id"`
}

type AccountResponse struct {
	Account access.Principal `json:"account"`
}

type TokenURIResponse struct {
	URI string `json:"uri"`
}

type FreezeTimeResponse struct {
	TokenID         token.ID `json:"token_id"`
	Frozen          bool     `json:"frozen"`
	FrozenAt        int64    `json:"frozen_at"`
	DurationSeconds int64    `json:"duration_seconds"`
	ReviewAt        int64    `json:"review_at,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

var okStatus = StatusResponse{Status: "ok"}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeFromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// principalInputs is implemented by requests that carry principals, so that
// decodeParams can reject blank values before they read as "unset".
type principalInputs interface {
	principalInputs() []string
}

func (r InitializeParams) principalInputs() []string { return r.Admins }
func (r CreateEventIDParams) principalInputs() []string { return []string{r.Organizer} }
func (r MintTokenParams) principalInputs() []string { return []string{r.To} }
func (r MintEventToManyUsersParams) principalInputs() []string { return r.To }
func (r MintUserToManyEventsParams) principalInputs() []string { return []string{r.To} }
func (r AccountParams) principalInputs() []string { return []string{r.Account} }
func (r EventMinterParams) principalInputs() []string { return []string{r.Account} }
func (r ApproveParams) principalInputs() []string { return []string{r.To} }
func (r SetApprovalForAllParams) principalInputs() []string { return []string{r.Operator} }
func (r IsApprovedForAllParams) principalInputs() []string { return []string{r.Owner, r.Operator} }
func (r TransferFromParams) principalInputs() []string { return []string{r.From, r.To} }
