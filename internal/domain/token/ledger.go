package token

import (
	"sort"
	"time"

	"github.com/rpggio/attest/internal/domain/access"
)

// Counters are the ledger-wide values every mint and burn keeps in step.
type Counters struct {
	NextTokenID    ID            `json:"next_token_id"`
	TotalSupply    uint64        `json:"total_supply"`
	FreezeDuration time.Duration `json:"freeze_duration"`
}

// OperatorGrant is an owner's blanket approval of an operator.
type OperatorGrant struct {
	Owner    access.Principal `json:"owner"`
	Operator access.Principal `json:"operator"`
}

// Ledger holds token records, ownership indexes and counters for one policy.
type Ledger struct {
	policy    TransferPolicy
	tokens    map[ID]Token
	balances  map[access.Principal]uint64
	operators map[access.Principal]map[access.Principal]struct{}
	counters  Counters
}

// NewLedger returns an empty ledger whose first token id is 1.
func NewLedger(policy TransferPolicy) *Ledger {
	return &Ledger{
		policy:    policy,
		tokens:    make(map[ID]Token),
		balances:  make(map[access.Principal]uint64),
		operators: make(map[access.Principal]map[access.Principal]struct{}),
		counters:  Counters{NextTokenID: 1},
	}
}

func (l *Ledger) Policy() TransferPolicy {
	return l.policy
}

func (l *Ledger) Counters() Counters {
	return l.counters
}

func (l *Ledger) SetCounters(c Counters) {
	l.counters = c
}

func (l *Ledger) Get(id ID) (Token, bool) {
	t, ok := l.tokens[id]
	return t, ok
}

// Put stores t and keeps owner balances in step.
func (l *Ledger) Put(t Token) {
	if prev, ok := l.tokens[t.ID]; ok {
		l.debit(prev.Owner)
	}
	l.tokens[t.ID] = t
	l.balances[t.Owner]++
}

// Delete removes the token record.
func (l *Ledger) Delete(id ID) {
	prev, ok := l.tokens[id]
	if !ok {
		return
	}
	l.debit(prev.Owner)
	delete(l.tokens, id)
}

func (l *Ledger) debit(owner access.Principal) {
	if l.balances[owner] <= 1 {
		delete(l.balances, owner)
		return
	}
	l.balances[owner]--
}

// Len returns the number of live tokens.
func (l *Ledger) Len() int {
	return len(l.tokens)
}

// All returns every live token ordered by id.
func (l *Ledger) All() []Token {
	out := make([]Token, 0, len(l.tokens))
	for _, t := range l.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (l *Ledger) BalanceOf(p access.Principal) uint64 {
	return l.balances[p]
}

func (l *Ledger) IsApprovedForAll(owner, operator access.Principal) bool {
	_, ok := l.operators[owner][operator]
	return ok
}

// SetOperator grants or revokes a blanket approval.
func (l *Ledger) SetOperator(owner, operator access.Principal, approved bool) {
	set := l.operators[owner]
	if approved {
		if set == nil {
			set = make(map[access.Principal]struct{})
			l.operators[owner] = set
		}
		set[operator] = struct{}{}
		return
	}
	delete(set, operator)
	if len(set) == 0 {
		delete(l.operators, owner)
	}
}

// Operators returns every blanket approval, ordered by owner then operator.
func (l *Ledger) Operators() []OperatorGrant {
	var out []OperatorGrant
	for owner, set := range l.operators {
		for op := range set {
			out = append(out, OperatorGrant{Owner: owner, Operator: op})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Owner != out[j].Owner {
			return out[i].Owner < out[j].Owner
		}
		return out[i].Operator < out[j].Operator
	})
	return out
}

// IsApprovedOrOwner reports whether p owns t, is approved for it, or operates for its owner.
func (l *Ledger) IsApprovedOrOwner(p access.Principal, t Token) bool {
	if p.IsZero() {
		return false
	}
	return t.Owner == p || t.Approved == p || l.IsApprovedForAll(t.Owner, p)
}

// TransferGate is the single check every ownership change passes through.
func (l *Ledger) TransferGate(t Token) error {
	if l.policy == Locked || t.Locked {
		return ErrSoulboundLocked
	}
	if t.Frozen {
		return ErrFrozen
	}
	return nil
}

// IsLocked reports whether id is a live soulbound token.
func (l *Ledger) IsLocked(id ID) bool {
	t, ok := l.tokens[id]
	return ok && t.Locked
}
