package activity

import "github.com/rpggio/attest/internal/domain/fault"

// ErrInvalidInput rejects negative paging values.
var ErrInvalidInput = fault.New(fault.ErrInvalidParameter, "invalid list options")
