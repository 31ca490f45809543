package activity

import (
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListOptions filters notifications. Entries come back in Seq order.
type ListOptions struct {
	Kind     *Kind
	EventID  *event.ID
	TokenID  *token.ID
	AfterSeq int64
	Limit    int
}

// Matches reports whether e passes every filter except Limit.
func (o ListOptions) Matches(e Entry) bool {
	if e.Seq <= o.AfterSeq {
		return false
	}
	if o.Kind != nil && e.Kind != *o.Kind {
		return false
	}
	if o.EventID != nil && (e.EventID == nil || *e.EventID != *o.EventID) {
		return false
	}
	if o.TokenID != nil && (e.TokenID == nil || *e.TokenID != *o.TokenID) {
		return false
	}
	return true
}
