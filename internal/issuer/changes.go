package issuer

import (
	"context"
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
)

// Meta is the singleton issuer record.
type Meta struct {
	Initialized bool                 `json:"initialized"`
	Paused      bool                 `json:"paused"`
	BaseURI     string               `json:"base_uri"`
	Policy      token.TransferPolicy `json:"policy"`
	Counters    token.Counters       `json:"counters"`
	LastSeq     int64                `json:"last_seq"`
}

type AdminChange struct {
	Principal access.Principal
	Granted   bool
}

type MinterChange struct {
	EventID   event.ID
	Principal access.Principal
	Granted   bool
}

type OperatorChange struct {
	Owner    access.Principal
	Operator access.Principal
	Approved bool
}

// Changes is the full effect of one committed operation: post-images of every
// touched record plus the notifications it produced.
type Changes struct {
	CallID        string
	// At is the issuer clock reading the operation ran under.
	At            time.Time
	Meta          Meta
	Events        []event.Event
	Tokens        []token.Token
	BurnedTokens  []token.ID
	Admins        []AdminChange
	Minters       []MinterChange
	Operators     []OperatorChange
	Notifications []activity.Entry
}

// Snapshot is the persisted issuer state used to rebuild an Issuer.
type Snapshot struct {
	Meta      Meta
	Events    []event.Event
	Tokens    []token.Token
	Admins    []access.Principal
	Minters   map[event.ID][]access.Principal
	Operators []token.OperatorGrant
}

// Store persists issuer state. Commit must apply Changes atomically.
type Store interface {
	// Load returns the stored snapshot, or nil when nothing has been stored yet.
	Load(ctx context.Context) (*Snapshot, error)
	Commit(ctx context.Context, changes Changes) error
}
