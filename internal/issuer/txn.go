package issuer

import (
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
)

type minterKey struct {
	eventID   event.ID
	principal access.Principal
}

type operatorKey struct {
	owner    access.Principal
	operator access.Principal
}

// txn stages the effects of one operation on top of live state. Reads fall
// through to the issuer's registries; nothing reaches them until commit.
type txn struct {
	is     *Issuer
	callID string
	caller access.Principal
	now    time.Time

	base Meta
	meta Meta

	events   map[event.ID]event.Event
	eventIDs []event.ID

	tokens   map[token.ID]token.Token
	tokenIDs []token.ID
	burned   map[token.ID]struct{}
	burnIDs  []token.ID

	admins     map[access.Principal]bool
	adminOrder []access.Principal

	minters     map[minterKey]bool
	minterOrder []minterKey

	operators     map[operatorKey]bool
	operatorOrder []operatorKey

	notes       []activity.Entry
	minted      int
	burnedCount int
}

func (is *Issuer) begin(callID string, caller access.Principal) *txn {
	meta := is.currentMeta()
	return &txn{
		is:        is,
		callID:    callID,
		caller:    caller,
		now:       is.clock.Now().UTC(),
		base:      meta,
		meta:      meta,
		events:    make(map[event.ID]event.Event),
		tokens:    make(map[token.ID]token.Token),
		burned:    make(map[token.ID]struct{}),
		admins:    make(map[access.Principal]bool),
		minters:   make(map[minterKey]bool),
		operators: make(map[operatorKey]bool),
	}
}

func (tx *txn) requireNotPaused() error {
	if tx.meta.Paused {
		return ErrPaused
	}
	return nil
}

func (tx *txn) requireAdmin() error {
	if !tx.isAdmin(tx.caller) {
		return access.ErrNotAdmin
	}
	return nil
}

func (tx *txn) event(id event.ID) (event.Event, bool) {
	if e, ok := tx.events[id]; ok {
		return e, true
	}
	return tx.is.events.Get(id)
}

func (tx *txn) putEvent(e event.Event) {
	if _, ok := tx.events[e.ID]; !ok {
		tx.eventIDs = append(tx.eventIDs, e.ID)
	}
	tx.events[e.ID] = e
}

func (tx *txn) token(id token.ID) (token.Token, bool) {
	if _, gone := tx.burned[id]; gone {
		return token.Token{}, false
	}
	if t, ok := tx.tokens[id]; ok {
		return t, true
	}
	return tx.is.ledger.Get(id)
}

func (tx *txn) putToken(t token.Token) {
	if _, ok := tx.tokens[t.ID]; !ok {
		tx.tokenIDs = append(tx.tokenIDs, t.ID)
	}
	tx.tokens[t.ID] = t
}

func (tx *txn) burnToken(id token.ID) {
	if _, ok := tx.tokens[id]; ok {
		delete(tx.tokens, id)
		for i, staged := range tx.tokenIDs {
			if staged == id {
				tx.tokenIDs = append(tx.tokenIDs[:i], tx.tokenIDs[i+1:]...)
				break
			}
		}
	}
	tx.burned[id] = struct{}{}
	tx.burnIDs = append(tx.burnIDs, id)
	tx.burnedCount++
}

func (tx *txn) isAdmin(p access.Principal) bool {
	if granted, ok := tx.admins[p]; ok {
		return granted
	}
	return tx.is.access.IsAdmin(p)
}

func (tx *txn) setAdmin(p access.Principal, granted bool) {
	if _, ok := tx.admins[p]; !ok {
		tx.adminOrder = append(tx.adminOrder, p)
	}
	tx.admins[p] = granted
}

func (tx *txn) isEventMinter(id event.ID, p access.Principal) bool {
	if granted, ok := tx.minters[minterKey{id, p}]; ok {
		return granted
	}
	return tx.is.access.IsEventMinter(id, p)
}

func (tx *txn) setEventMinter(id event.ID, p access.Principal, granted bool) {
	k := minterKey{id, p}
	if _, ok := tx.minters[k]; !ok {
		tx.minterOrder = append(tx.minterOrder, k)
	}
	tx.minters[k] = granted
}

func (tx *txn) isApprovedForAll(owner, operator access.Principal) bool {
	if approved, ok := tx.operators[operatorKey{owner, operator}]; ok {
		return approved
	}
	return tx.is.ledger.IsApprovedForAll(owner, operator)
}

func (tx *txn) setOperator(owner, operator access.Principal, approved bool) {
	k := operatorKey{owner, operator}
	if _, ok := tx.operators[k]; !ok {
		tx.operatorOrder = append(tx.operatorOrder, k)
	}
	tx.operators[k] = approved
}

// isApprovedOrOwner mirrors token.Ledger.IsApprovedOrOwner over staged state.
func (tx *txn) isApprovedOrOwner(p access.Principal, t token.Token) bool {
	if p.IsZero() {
		return false
	}
	return t.Owner == p || t.Approved == p || tx.isApprovedForAll(t.Owner, p)
}

// emit stages a notification with the next sequence number.
func (tx *txn) emit(e activity.Entry) {
	tx.meta.LastSeq++
	e.Seq = tx.meta.LastSeq
	e.CallID = tx.callID
	e.CreatedAt = tx.now
	tx.notes = append(tx.notes, e)
}

func (tx *txn) dirty() bool {
	return tx.meta != tx.base ||
		len(tx.eventIDs) > 0 ||
		len(tx.tokenIDs) > 0 ||
		len(tx.burnIDs) > 0 ||
		len(tx.adminOrder) > 0 ||
		len(tx.minterOrder) > 0 ||
		len(tx.operatorOrder) > 0 ||
		len(tx.notes) > 0
}

func (tx *txn) changes() Changes {
	ch := Changes{
		CallID:        tx.callID,
		At:            tx.now,
		Meta:          tx.meta,
		BurnedTokens:  append([]token.ID(nil), tx.burnIDs...),
		Notifications: append([]activity.Entry(nil), tx.notes...),
	}
	for _, id := range tx.eventIDs {
		ch.Events = append(ch.Events, tx.events[id])
	}
	for _, id := range tx.tokenIDs {
		ch.Tokens = append(ch.Tokens, tx.tokens[id])
	}
	for _, p := range tx.adminOrder {
		ch.Admins = append(ch.Admins, AdminChange{Principal: p, Granted: tx.admins[p]})
	}
	for _, k := range tx.minterOrder {
		ch.Minters = append(ch.Minters, MinterChange{EventID: k.eventID, Principal: k.principal, Granted: tx.minters[k]})
	}
	for _, k := range tx.operatorOrder {
		ch.Operators = append(ch.Operators, OperatorChange{Owner: k.owner, Operator: k.operator, Approved: tx.operators[k]})
	}
	return ch
}
