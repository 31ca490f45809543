package event

import "github.com/rpggio/attest/internal/domain/fault"

var (
	// ErrAlreadyCreated indicates the event id is already registered.
	ErrAlreadyCreated = fault.New(fault.ErrStateConflict, "event already created")
	// ErrNotFound indicates the event id is not registered.
	ErrNotFound = fault.New(fault.ErrStateConflict, "event does not exist")
	// ErrMintExpired indicates the event's minting window has closed.
	ErrMintExpired = fault.New(fault.ErrStateConflict, "event mint has expired")
	// ErrMaxSupplyReached indicates the event cannot issue more tokens.
	ErrMaxSupplyReached = fault.New(fault.ErrStateConflict, "max supply reached for event")
	// ErrExpirationTooSoon indicates the requested expiration is inside the minimum lead time.
	ErrExpirationTooSoon = fault.New(fault.ErrInvalidParameter, "mint expiration must be higher than current timestamp plus 3 days")
	// ErrSupplyUnderflow indicates a burn was recorded against an event with no supply.
	ErrSupplyUnderflow = fault.New(fault.ErrStateConflict, "event supply underflow")
)
