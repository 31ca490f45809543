package activity

import (
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
)

// Kind names a notification emitted by a successful issuer operation.
type Kind string

const (
	KindEventCreated       Kind = "event_created"
	KindEventToken         Kind = "event_token"
	KindTransfer           Kind = "transfer"
	KindApproval           Kind = "approval"
	KindApprovalForAll     Kind = "approval_for_all"
	KindAdminAdded         Kind = "admin_added"
	KindAdminRemoved       Kind = "admin_removed"
	KindEventMinterAdded   Kind = "event_minter_added"
	KindEventMinterRemoved Kind = "event_minter_removed"
	KindFrozen             Kind = "frozen"
	KindUnfrozen           Kind = "unfrozen"
	KindLocked             Kind = "locked"
	KindUnlocked           Kind = "unlocked"
	KindPaused             Kind = "paused"
	KindUnpaused           Kind = "unpaused"
	KindInitialized        Kind = "initialized"
)

// Entry is one notification. Seq is assigned in commit order and never reused.
//
// Account is the principal the notification is about (new admin, token
// recipient, pausing caller). Target is the second party where one exists:
// the transfer source, the approved account or the operator. A transfer with
// no Account is a burn.
type Entry struct {
	Seq       int64            `json:"seq"`
	CallID    string           `json:"call_id"`
	Kind      Kind             `json:"kind"`
	EventID   *event.ID        `json:"event_id,omitempty"`
	TokenID   *token.ID        `json:"token_id,omitempty"`
	Account   access.Principal `json:"account,omitempty"`
	Target    access.Principal `json:"target,omitempty"`
	Approved  bool             `json:"approved,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// EventRef and TokenRef build the optional id fields.
func EventRef(id event.ID) *event.ID { return &id }
func TokenRef(id token.ID) *token.ID { return &id }
