package integration_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/attest/internal/clock"
	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/fault"
	"github.com/rpggio/attest/internal/domain/token"
	"github.com/rpggio/attest/internal/issuer"
	"github.com/rpggio/attest/internal/sqlite"
)

const owner access.Principal = "owner"

var start = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	db            *sqlite.DB
	clock         *clock.Manual
	policy        token.TransferPolicy
	issuer        *issuer.Issuer
	notifications *activity.Service
}

func newTestEnv(t *testing.T, policy token.TransferPolicy) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		db:            db,
		clock:         clock.NewManual(start),
		policy:        policy,
		notifications: activity.NewService(sqlite.NewActivityRepository(db), nil),
	}
	env.issuer = env.open(t)
	return env
}

// open builds a fresh issuer over the same database, as a restarted process would.
func (e *testEnv) open(t *testing.T) *issuer.Issuer {
	t.Helper()
	is, err := issuer.Open(context.Background(), issuer.Config{
		Name:   "Attendance",
		Symbol: "ATT",
		Owner:  owner,
		Policy: e.policy,
		Clock:  e.clock,
		Store:  sqlite.NewStateRepository(e.db),
	})
	require.NoError(t, err)
	return is
}

func (e *testEnv) bootstrap(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.issuer.Initialize(ctx, owner, "ipfs://meta/", []access.Principal{"admin"}))
	require.NoError(t, e.issuer.CreateEventID(ctx, "admin", 7, 2, start.Add(96*time.Hour), "organizer"))
}

func TestIntegration_StateSurvivesRestart(t *testing.T) {
	env := newTestEnv(t, token.Transferable)
	env.bootstrap(t)
	ctx := context.Background()

	ids, err := env.issuer.MintEventToManyUsers(ctx, "organizer", 7, []access.Principal{"alice", "bob"}, "checked-in")
	require.NoError(t, err)
	require.Equal(t, []token.ID{1, 2}, ids)
	require.NoError(t, env.issuer.Freeze(ctx, "alice", 1))
	require.NoError(t, env.issuer.Burn(ctx, "bob", 2))
	require.NoError(t, env.issuer.Pause(ctx, "admin"))

	restarted := env.open(t)
	require.True(t, restarted.IsAdmin(owner))
	require.True(t, restarted.IsAdmin("admin"))
	require.True(t, restarted.IsEventMinter(7, "organizer"))
	require.True(t, restarted.Paused())
	require.True(t, restarted.IsFrozen(1))
	require.Equal(t, start, restarted.GetFreezeTime(1))
	require.EqualValues(t, 1, restarted.TotalSupply())
	require.EqualValues(t, 1, restarted.EventTotalSupply(7))
	require.Equal(t, event.Capped(2), restarted.EventMaxSupply(7))
	require.NoError(t, restarted.VerifyCounters())

	holder, err := restarted.OwnerOf(1)
	require.NoError(t, err)
	require.Equal(t, access.Principal("alice"), holder)
	_, err = restarted.OwnerOf(2)
	require.ErrorIs(t, err, token.ErrNotFound)

	// Token ids are never reused, even after a burn and a restart.
	require.NoError(t, restarted.Unpause(ctx, "admin"))
	_, err = restarted.MintToken(ctx, "organizer", 7, "carol", "")
	require.ErrorIs(t, err, event.ErrMaxSupplyReached)
	require.NoError(t, restarted.Burn(ctx, "alice", 1))
	id, err := restarted.MintToken(ctx, "organizer", 7, "carol", "")
	require.NoError(t, err)
	require.Equal(t, token.ID(3), id)
}

func TestIntegration_FailedBatchLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t, token.Transferable)
	env.bootstrap(t)
	ctx := context.Background()

	before, err := env.notifications.List(ctx, activity.ListOptions{Limit: activity.MaxListLimit})
	require.NoError(t, err)

	_, err = env.issuer.MintEventToManyUsers(ctx, "organizer", 7, []access.Principal{"a", "b", "c"}, "")
	require.ErrorIs(t, err, event.ErrMaxSupplyReached)

	after, err := env.notifications.List(ctx, activity.ListOptions{Limit: activity.MaxListLimit})
	require.NoError(t, err)
	require.Equal(t, before, after)

	restarted := env.open(t)
	require.Zero(t, restarted.TotalSupply())
	require.Zero(t, restarted.EventTotalSupply(7))
	id, err := restarted.MintToken(ctx, "organizer", 7, "a", "")
	require.NoError(t, err)
	require.Equal(t, token.ID(1), id)
}

func TestIntegration_MintWindowCloses(t *testing.T) {
	env := newTestEnv(t, token.Transferable)
	env.bootstrap(t)
	ctx := context.Background()

	env.clock.Advance(96*time.Hour - time.Second)
	_, err := env.issuer.MintToken(ctx, "organizer", 7, "alice", "")
	require.NoError(t, err)

	env.clock.Advance(time.Second)
	_, err = env.issuer.MintToken(ctx, "organizer", 7, "bob", "")
	require.ErrorIs(t, err, event.ErrMintExpired)
	require.ErrorIs(t, err, fault.ErrStateConflict)
}

func TestIntegration_SoulboundNotifications(t *testing.T) {
	env := newTestEnv(t, token.Locked)
	env.bootstrap(t)
	ctx := context.Background()

	require.True(t, env.issuer.SupportsInterface(issuer.InterfaceSoulbound))

	id, err := env.issuer.MintToken(ctx, "organizer", 7, "alice", "")
	require.NoError(t, err)
	locked, err := env.issuer.Locked(id)
	require.NoError(t, err)
	require.True(t, locked)

	err = env.issuer.TransferFrom(ctx, "alice", "alice", "bob", id)
	require.ErrorIs(t, err, token.ErrSoulboundLocked)
	require.ErrorIs(t, env.issuer.Freeze(ctx, "alice", id), token.ErrFreezeUnsupported)
	require.NoError(t, env.issuer.Burn(ctx, "alice", id))

	entries, err := env.notifications.List(ctx, activity.ListOptions{TokenID: activity.TokenRef(id)})
	require.NoError(t, err)
	kinds := make([]activity.Kind, 0, len(entries))
	for _, e := range entries {
		kinds = append(kinds, e.Kind)
	}
	require.Equal(t, []activity.Kind{
		activity.KindEventToken,
		activity.KindLocked,
		activity.KindUnlocked,
		activity.KindTransfer,
	}, kinds)

	burned := entries[len(entries)-1]
	require.True(t, burned.Account.IsZero())
	require.Equal(t, access.Principal("alice"), burned.Target)
}

func TestIntegration_RoleChangesRequireInit(t *testing.T) {
	env := newTestEnv(t, token.Transferable)
	ctx := context.Background()

	err := env.issuer.AddAdmin(ctx, owner, "admin")
	require.ErrorIs(t, err, issuer.ErrNotInitialized)

	require.ErrorIs(t, env.issuer.Initialize(ctx, "admin", "x", nil), access.ErrNotOwner)
	require.NoError(t, env.issuer.Initialize(ctx, owner, "x", nil))
	require.ErrorIs(t, env.issuer.Initialize(ctx, owner, "x", nil), issuer.ErrAlreadyInitialized)

	require.NoError(t, env.issuer.AddAdmin(ctx, owner, "admin"))
	require.NoError(t, env.issuer.RemoveAdmin(ctx, "admin", owner))
	require.False(t, env.open(t).IsAdmin(owner))
}
