package issuer

import (
	"errors"

	"github.com/rpggio/attest/internal/domain/fault"
)

var (
	ErrNotInitialized     = fault.New(fault.ErrStateConflict, "not initialized")
	ErrAlreadyInitialized = fault.New(fault.ErrStateConflict, "already initialized")
	ErrPaused             = fault.New(fault.ErrPaused, "contract is paused")
	ErrNotPaused          = fault.New(fault.ErrStateConflict, "contract is not paused")

	// ErrCounterMismatch is returned when stored or live state breaks the
	// supply invariants. It indicates corruption, not caller error.
	ErrCounterMismatch = errors.New("supply counters are inconsistent")
)
