package token

import "github.com/rpggio/attest/internal/domain/fault"

var (
	ErrNotFound          = fault.New(fault.ErrStateConflict, "token does not exist")
	ErrFrozen            = fault.New(fault.ErrStateConflict, "token is frozen")
	ErrNotFrozen         = fault.New(fault.ErrStateConflict, "token is not frozen")
	ErrSoulboundLocked   = fault.New(fault.ErrStateConflict, "soulbound is locked to transfer")
	ErrFreezeUnsupported = fault.New(fault.ErrStateConflict, "locked tokens cannot be frozen")
	ErrIncorrectOwner    = fault.New(fault.ErrStateConflict, "transfer from incorrect owner")

	ErrNotAuthorizedToBurn     = fault.New(fault.ErrUnauthorized, "not authorized to burn")
	ErrNotAuthorizedToFreeze   = fault.New(fault.ErrUnauthorized, "not authorized to freeze")
	ErrNotAuthorizedToTransfer = fault.New(fault.ErrUnauthorized, "not authorized to transfer")
	ErrNotAuthorizedToApprove  = fault.New(fault.ErrUnauthorized, "not authorized to approve")

	ErrApprovalToOwner = fault.New(fault.ErrInvalidParameter, "approval to current owner")
	ErrApproveToCaller = fault.New(fault.ErrInvalidParameter, "approve to caller")
	ErrInvalidPolicy   = fault.New(fault.ErrInvalidParameter, "invalid transfer policy")
	ErrInvalidDuration = fault.New(fault.ErrInvalidParameter, "freeze duration must not be negative")
	ErrPolicyMismatch  = fault.New(fault.ErrStateConflict, "stored transfer policy differs from configured policy")
	ErrSupplyUnderflow = fault.New(fault.ErrStateConflict, "global supply underflow")
)
