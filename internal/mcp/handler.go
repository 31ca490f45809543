package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
	"github.com/rpggio/attest/internal/issuer"
)

// Issuer defines the credential operations exposed over MCP.
type Issuer interface {
	Initialize(ctx context.Context, caller access.Principal, baseURI string, extraAdmins []access.Principal) error
	CreateEventID(ctx context.Context, caller access.Principal, id event.ID, maxSupply uint64, expiration time.Time, organizer access.Principal) error
	MintToken(ctx context.Context, caller access.Principal, eventID event.ID, to access.Principal, initialState string) (token.ID, error)
	MintEventToManyUsers(ctx context.Context, caller access.Principal, eventID event.ID, to []access.Principal, initialState string) ([]token.ID, error)
	MintUserToManyEvents(ctx context.Context, caller access.Principal, eventIDs []event.ID, to access.Principal, initialState string) ([]token.ID, error)
	EventMaxSupply(id event.ID) event.Supply
	EventTotalSupply(id event.ID) uint64
	TotalSupply() uint64
	TokenEvent(id token.ID) (event.ID, error)

	AddAdmin(ctx context.Context, caller, p access.Principal) error
	RemoveAdmin(ctx context.Context, caller, p access.Principal) error
	IsAdmin(p access.Principal) bool
	AddEventMinter(ctx context.Context, caller access.Principal, id event.ID, p access.Principal) error
	RemoveEventMinter(ctx context.Context, caller access.Principal, id event.ID, p access.Principal) error
	IsEventMinter(id event.ID, p access.Principal) bool

	SetFreezeDuration(ctx context.Context, caller access.Principal, d time.Duration) error
	Freeze(ctx context.Context, caller access.Principal, id token.ID) error
	Unfreeze(ctx context.Context, caller access.Principal, id token.ID) error
	IsFrozen(id token.ID) bool
	GetFreezeTime(id token.ID) time.Time
	FreezeStatus(id token.ID) (issuer.FreezeStatus, error)
	Burn(ctx context.Context, caller access.Principal, id token.ID) error
	Pause(ctx context.Context, caller access.Principal) error
	Unpause(ctx context.Context, caller access.Principal) error
	Paused() bool

	SupportsInterface(id uint32) bool
	TokenURI(id token.ID) (string, error)
	Info() issuer.Info

	OwnerOf(id token.ID) (access.Principal, error)
	BalanceOf(p access.Principal) (uint64, error)
	GetApproved(id token.ID) (access.Principal, error)
	IsApprovedForAll(owner, operator access.Principal) bool
	Locked(id token.ID) (bool, error)
	Approve(ctx context.Context, caller, to access.Principal, id token.ID) error
	SetApprovalForAll(ctx context.Context, caller, operator access.Principal, approved bool) error
	TransferFrom(ctx context.Context, caller, from, to access.Principal, id token.ID) error
}

// NotificationService defines notification queries needed by MCP.
type NotificationService interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// maxFreezeSeconds is the longest freeze duration a time.Duration can hold.
const maxFreezeSeconds = math.MaxInt64 / int64(time.Second)

// Handler dispatches MCP commands.
type Handler struct {
	issuer        Issuer
	notifications NotificationService
}

// NewHandler creates a new MCP handler.
func NewHandler(is Issuer, notifications NotificationService) *Handler {
	return &Handler{issuer: is, notifications: notifications}
}

// Handle dispatches one method call made by caller.
func (h *Handler) Handle(ctx context.Context, caller access.Principal, method string, params json.RawMessage) (any, error) {
	switch method {
	case "initialize":
		var req InitializeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.issuer.Initialize(ctx, caller, req.BaseURI, principals(req.Admins)); err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "contract_info":
		return h.issuer.Info(), nil
	case "create_event_id":
		var req CreateEventIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		err := h.issuer.CreateEventID(ctx, caller, event.ID(req.EventID), req.MaxSupply,
			timeFromUnix(req.MintExpiration), principal(req.Organizer))
		if err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "mint_token":
		var req MintTokenParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		id, err := h.issuer.MintToken(ctx, caller, event.ID(req.EventID), principal(req.To), req.InitialState)
		if err != nil {
			return nil, mapError(err)
		}
		return MintTokenResponse{TokenID: id}, nil
	case "mint_event_to_many_users":
		var req MintEventToManyUsersParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		ids, err := h.issuer.MintEventToManyUsers(ctx, caller, event.ID(req.EventID), principals(req.To), req.InitialState)
		if err != nil {
			return nil, mapError(err)
		}
		return MintBatchResponse{TokenIDs: ids}, nil
	case "mint_user_to_many_events":
		var req MintUserToManyEventsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		eventIDs := make([]event.ID, 0, len(req.EventIDs))
		for _, id := range req.EventIDs {
			eventIDs = append(eventIDs, event.ID(id))
		}
		ids, err := h.issuer.MintUserToManyEvents(ctx, caller, eventIDs, principal(req.To), req.InitialState)
		if err != nil {
			return nil, mapError(err)
		}
		return MintBatchResponse{TokenIDs: ids}, nil
	case "event_max_supply":
		var req EventParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		supply := h.issuer.EventMaxSupply(event.ID(req.EventID))
		return EventMaxSupplyResponse{
			EventID:   event.ID(req.EventID),
			MaxSupply: supply.Value(),
			Unbounded: supply.Unbounded,
		}, nil
	case "event_total_supply":
		var req EventParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return CountResponse{Count: h.issuer.EventTotalSupply(event.ID(req.EventID))}, nil
	case "total_supply":
		return CountResponse{Count: h.issuer.TotalSupply()}, nil
	case "token_event":
		var req TokenParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		eventID, err := h.issuer.TokenEvent(token.ID(req.TokenID))
		if err != nil {
			return nil, mapError(err)
		}
		return TokenEventResponse{TokenID: token.ID(req.TokenID), EventID: eventID}, nil
	case "add_admin", "remove_admin":
		var req AccountParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		op := h.issuer.AddAdmin
		if method == "remove_admin" {
			op = h.issuer.RemoveAdmin
		}
		if err := op(ctx, caller, principal(req.Account)); err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "is_admin":
		var req AccountParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return FlagResponse{Value: h.issuer.IsAdmin(principal(req.Account))}, nil
	case "add_event_minter", "remove_event_minter":
		var req EventMinterParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		op := h.issuer.AddEventMinter
		if method == "remove_event_minter" {
			op = h.issuer.RemoveEventMinter
		}
		if err := op(ctx, caller, event.ID(req.EventID), principal(req.Account)); err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "is_event_minter":
		var req EventMinterParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return FlagResponse{Value: h.issuer.IsEventMinter(event.ID(req.EventID), principal(req.Account))}, nil
	case "set_freeze_duration":
		var req SetFreezeDurationParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Seconds > maxFreezeSeconds {
			return nil, invalidParams(fmt.Errorf("seconds %d exceeds %d", req.Seconds, maxFreezeSeconds))
		}
		if err := h.issuer.SetFreezeDuration(ctx, caller, time.Duration(req.Seconds)*time.Second); err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "freeze", "unfreeze", "burn":
		var req TokenParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		op := h.issuer.Freeze
		switch method {
		case "unfreeze":
			op = h.issuer.Unfreeze
		case "burn":
			op = h.issuer.Burn
		}
		if err := op(ctx, caller, token.ID(req.TokenID)); err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "is_frozen":
		var req TokenParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return FlagResponse{Value: h.issuer.IsFrozen(token.ID(req.TokenID))}, nil
	case "get_freeze_time":
		var req TokenParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		id := token.ID(req.TokenID)
		resp := FreezeTimeResponse{
			TokenID:  id,
			FrozenAt: unixOrZero(h.issuer.GetFreezeTime(id)),
		}
		// Unknown tokens read as never frozen.
		if st, err := h.issuer.FreezeStatus(id); err == nil {
			resp.Frozen = st.Frozen
			resp.DurationSeconds = int64(st.Duration / time.Second)
			resp.ReviewAt = unixOrZero(st.ReviewAt)
		}
		return resp, nil
	case "pause", "unpause":
		op := h.issuer.Pause
		if method == "unpause" {
			op = h.issuer.Unpause
		}
		if err := op(ctx, caller); err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "paused":
		return FlagResponse{Value: h.issuer.Paused()}, nil
	case "supports_interface":
		var req SupportsInterfaceParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		id, err := strconv.ParseUint(req.InterfaceID, 0, 32)
		if err != nil {
			return nil, invalidParams(fmt.Errorf("interface_id %q: %w", req.InterfaceID, err))
		}
		return FlagResponse{Value: h.issuer.SupportsInterface(uint32(id))}, nil
	case "token_uri":
		var req TokenParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		uri, err := h.issuer.TokenURI(token.ID(req.TokenID))
		if err != nil {
			return nil, mapError(err)
		}
		return TokenURIResponse{URI: uri}, nil
	case "owner_of", "get_approved":
		var req TokenParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		read := h.issuer.OwnerOf
		if method == "get_approved" {
			read = h.issuer.GetApproved
		}
		p, err := read(token.ID(req.TokenID))
		if err != nil {
			return nil, mapError(err)
		}
		return AccountResponse{Account: p}, nil
	case "balance_of":
		var req AccountParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		n, err := h.issuer.BalanceOf(principal(req.Account))
		if err != nil {
			return nil, mapError(err)
		}
		return CountResponse{Count: n}, nil
	case "locked":
		var req TokenParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		locked, err := h.issuer.Locked(token.ID(req.TokenID))
		if err != nil {
			return nil, mapError(err)
		}
		return FlagResponse{Value: locked}, nil
	case "approve":
		var req ApproveParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.issuer.Approve(ctx, caller, principal(req.To), token.ID(req.TokenID)); err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "set_approval_for_all":
		var req SetApprovalForAllParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.issuer.SetApprovalForAll(ctx, caller, principal(req.Operator), req.Approved); err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "is_approved_for_all":
		var req IsApprovedForAllParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return FlagResponse{Value: h.issuer.IsApprovedForAll(principal(req.Owner), principal(req.Operator))}, nil
	case "transfer_from":
		var req TransferFromParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		err := h.issuer.TransferFrom(ctx, caller, principal(req.From), principal(req.To), token.ID(req.TokenID))
		if err != nil {
			return nil, mapError(err)
		}
		return okStatus, nil
	case "list_notifications":
		var req ListNotificationsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListOptions{AfterSeq: req.AfterSeq, Limit: req.Limit}
		if req.Kind != "" {
			kind := activity.Kind(req.Kind)
			opts.Kind = &kind
		}
		if req.EventID != nil {
			opts.EventID = activity.EventRef(event.ID(*req.EventID))
		}
		if req.TokenID != nil {
			opts.TokenID = activity.TokenRef(token.ID(*req.TokenID))
		}
		entries, err := h.notifications.List(ctx, opts)
		if err != nil {
			return nil, mapError(err)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return invalidParams(err)
	}
	if req, ok := out.(principalInputs); ok {
		for _, s := range req.principalInputs() {
			if s != "" && strings.TrimSpace(s) == "" {
				return invalidParams(fmt.Errorf("blank principal %q", s))
			}
		}
	}
	return nil
}

func invalidParams(err error) error {
	return mapError(fmt.Errorf("%w: %v", ErrInvalidParams, err))
}

// principal normalizes s. Absent input stays empty so the issuer reports it in
// its own check order; blank input was already rejected by decodeParams.
func principal(s string) access.Principal {
	p, err := access.ParsePrincipal(s)
	if err != nil {
		return ""
	}
	return p
}

func principals(ss []string) []access.Principal {
	out := make([]access.Principal, 0, len(ss))
	for _, s := range ss {
		out = append(out, principal(s))
	}
	return out
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
