package access

import "github.com/rpggio/attest/internal/domain/fault"

var (
	// ErrNotAdmin indicates the caller is not a global admin.
	ErrNotAdmin = fault.New(fault.ErrUnauthorized, "caller is not an admin")
	// ErrNotEventMinter indicates the caller is neither an admin nor a minter of the event.
	ErrNotEventMinter = fault.New(fault.ErrUnauthorized, "caller is not an admin or event minter")
	// ErrNotOwner indicates the caller is not the deploying owner.
	ErrNotOwner = fault.New(fault.ErrUnauthorized, "caller is not the owner")
	// ErrInvalidPrincipal indicates an empty or malformed principal.
	ErrInvalidPrincipal = fault.New(fault.ErrInvalidParameter, "invalid principal")
)
