package token_test

import (
	"testing"
	"time"

	"github.com/rpggio/attest/internal/domain/fault"
	"github.com/rpggio/attest/internal/domain/token"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestParsePolicy(t *testing.T) {
	p, err := token.ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, token.Transferable, p)

	p, err = token.ParsePolicy("Soulbound")
	require.NoError(t, err)
	require.Equal(t, token.Locked, p)

	_, err = token.ParsePolicy("sticky")
	require.ErrorIs(t, err, token.ErrInvalidPolicy)
}

func TestToken_FreezeCycle(t *testing.T) {
	tok := token.Mint(1, 1, "alice", token.Transferable, "InitialState", now)
	require.False(t, tok.Frozen)
	require.Equal(t, "InitialState", tok.InitialState)

	_, err := tok.Unfreeze()
	require.ErrorIs(t, err, token.ErrNotFrozen)

	frozen, err := tok.Freeze(now.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, frozen.Frozen)
	require.Equal(t, now.Add(time.Minute), frozen.FreezeStartedAt)

	_, err = frozen.Freeze(now)
	require.ErrorIs(t, err, token.ErrFrozen)
	require.ErrorIs(t, err, fault.ErrStateConflict)

	thawed, err := frozen.Unfreeze()
	require.NoError(t, err)
	require.False(t, thawed.Frozen)
}

func TestToken_LockedCannotFreeze(t *testing.T) {
	tok := token.Mint(1, 1, "alice", token.Locked, "", now)
	require.True(t, tok.Locked)
	_, err := tok.Freeze(now)
	require.ErrorIs(t, err, token.ErrFreezeUnsupported)
}

func TestLedger_BalancesFollowOwnership(t *testing.T) {
	l := token.NewLedger(token.Transferable)
	require.Equal(t, token.ID(1), l.Counters().NextTokenID)

	a := token.Mint(1, 1, "alice", token.Transferable, "", now)
	b := token.Mint(2, 1, "alice", token.Transferable, "", now)
	l.Put(a)
	l.Put(b)
	require.Equal(t, uint64(2), l.BalanceOf("alice"))

	l.Put(a.TransferredTo("bob"))
	require.Equal(t, uint64(1), l.BalanceOf("alice"))
	require.Equal(t, uint64(1), l.BalanceOf("bob"))

	l.Delete(2)
	l.Delete(99)
	require.Equal(t, uint64(0), l.BalanceOf("alice"))
	require.Equal(t, 1, l.Len())
}

func TestLedger_IsApprovedOrOwner(t *testing.T) {
	l := token.NewLedger(token.Transferable)
	tok := token.Mint(1, 1, "alice", token.Transferable, "", now).WithApproval("bob")
	l.Put(tok)

	require.True(t, l.IsApprovedOrOwner("alice", tok))
	require.True(t, l.IsApprovedOrOwner("bob", tok))
	require.False(t, l.IsApprovedOrOwner("carol", tok))
	require.False(t, l.IsApprovedOrOwner("", tok))

	l.SetOperator("alice", "carol", true)
	require.True(t, l.IsApprovedOrOwner("carol", tok))
	require.Equal(t, []token.OperatorGrant{{Owner: "alice", Operator: "carol"}}, l.Operators())

	l.SetOperator("alice", "carol", false)
	require.False(t, l.IsApprovedOrOwner("carol", tok))
	require.Empty(t, l.Operators())
}

func TestLedger_TransferGate(t *testing.T) {
	open := token.NewLedger(token.Transferable)
	tok := token.Mint(1, 1, "alice", token.Transferable, "", now)
	require.NoError(t, open.TransferGate(tok))

	frozen, err := tok.Freeze(now)
	require.NoError(t, err)
	require.ErrorIs(t, open.TransferGate(frozen), token.ErrFrozen)

	soulbound := token.NewLedger(token.Locked)
	locked := token.Mint(1, 1, "alice", token.Locked, "", now)
	soulbound.Put(locked)
	require.ErrorIs(t, soulbound.TransferGate(locked), token.ErrSoulboundLocked)
	require.True(t, soulbound.IsLocked(1))
	require.False(t, soulbound.IsLocked(2))
}
