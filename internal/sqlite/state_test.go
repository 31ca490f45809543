package sqlite

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rpggio/attest/internal/clock"
	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
	"github.com/rpggio/attest/internal/issuer"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func openIssuer(t *testing.T, db *DB, policy token.TransferPolicy) *issuer.Issuer {
	t.Helper()
	is, err := issuer.Open(context.Background(), issuer.Config{
		Name:   "Attendance",
		Symbol: "ATT",
		Owner:  "owner",
		Policy: policy,
		Clock:  clock.NewFixed(testNow),
		Store:  NewStateRepository(db),
	})
	require.NoError(t, err)
	return is
}

func TestStateRepository_LoadEmpty(t *testing.T) {
	db := NewTestDB(t)
	snap, err := NewStateRepository(db).Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, snap)
}

func TestStateRepository_RoundTrip(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	is := openIssuer(t, db, token.Transferable)
	require.NoError(t, is.Initialize(ctx, "owner", "ipfs://base/", []access.Principal{"admin"}))
	require.NoError(t, is.SetFreezeDuration(ctx, "admin", 2*time.Hour))
	require.NoError(t, is.CreateEventID(ctx, "admin", 1, 3, testNow.Add(7*24*time.Hour), "alice"))
	require.NoError(t, is.CreateEventID(ctx, "admin", math.MaxUint64, 0, time.Time{}, "alice"))
	require.NoError(t, is.AddEventMinter(ctx, "alice", 1, "bob"))

	ids, err := is.MintEventToManyUsers(ctx, "alice", 1, []access.Principal{"bob", "carol"}, "state")
	require.NoError(t, err)
	_, err = is.MintToken(ctx, "admin", math.MaxUint64, "bob", "")
	require.NoError(t, err)
	require.NoError(t, is.Freeze(ctx, "bob", ids[0]))
	require.NoError(t, is.SetApprovalForAll(ctx, "carol", "dave", true))
	require.NoError(t, is.Approve(ctx, "carol", "erin", ids[1]))
	require.NoError(t, is.Burn(ctx, "dave", ids[1]))
	require.NoError(t, is.RemoveEventMinter(ctx, "admin", 1, "bob"))
	require.NoError(t, is.Pause(ctx, "admin"))

	reopened := openIssuer(t, db, token.Transferable)
	require.Equal(t, is.Info(), reopened.Info())
	require.True(t, reopened.Paused())
	require.Equal(t, 2*time.Hour, reopened.FreezeDuration())
	require.Equal(t, []access.Principal{"admin", "owner"}, reopened.Admins())
	require.Equal(t, []access.Principal{"alice"}, reopened.EventMinters(1))
	require.True(t, reopened.IsApprovedForAll("carol", "dave"))
	require.True(t, reopened.IsFrozen(ids[0]))
	require.Equal(t, testNow, reopened.GetFreezeTime(ids[0]))

	require.Equal(t, uint64(1), reopened.EventTotalSupply(1))
	require.Equal(t, uint64(1), reopened.EventTotalSupply(math.MaxUint64))
	require.Equal(t, uint64(2), reopened.TotalSupply())
	require.True(t, reopened.EventMaxSupply(math.MaxUint64).Unbounded)
	require.Equal(t, uint64(3), reopened.EventMaxSupply(1).Value())
	require.Equal(t, is.Events(), reopened.Events())

	_, err = reopened.OwnerOf(ids[1])
	require.ErrorIs(t, err, token.ErrNotFound)
	require.NoError(t, reopened.VerifyCounters())

	require.NoError(t, reopened.Unpause(ctx, "admin"))
	next, err := reopened.MintToken(ctx, "alice", 1, "bob", "")
	require.NoError(t, err)
	require.Equal(t, token.ID(4), next)
}

func TestStateRepository_PolicyPersisted(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	is := openIssuer(t, db, token.Locked)
	require.NoError(t, is.Initialize(ctx, "owner", "", nil))

	_, err := issuer.Open(ctx, issuer.Config{Owner: "owner", Policy: token.Transferable, Store: NewStateRepository(db)})
	require.ErrorIs(t, err, token.ErrPolicyMismatch)
}

func TestActivityRepository_ListsCommittedNotifications(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	is := openIssuer(t, db, token.Locked)
	require.NoError(t, is.Initialize(ctx, "owner", "", nil))
	require.NoError(t, is.CreateEventID(ctx, "owner", 5, 0, time.Time{}, "alice"))
	id, err := is.MintToken(ctx, "alice", 5, "bob", "")
	require.NoError(t, err)
	require.NoError(t, is.Burn(ctx, "bob", id))

	// rejected calls leave no trace
	require.Error(t, is.Burn(ctx, "bob", id))

	repo := NewActivityRepository(db)
	all, err := repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	kinds := make([]activity.Kind, 0, len(all))
	for i, e := range all {
		require.Equal(t, int64(i+1), e.Seq)
		require.NotEmpty(t, e.CallID)
		require.Equal(t, testNow, e.CreatedAt)
		kinds = append(kinds, e.Kind)
	}
	require.Equal(t, []activity.Kind{
		activity.KindInitialized,
		activity.KindAdminAdded,
		activity.KindEventCreated,
		activity.KindEventMinterAdded,
		activity.KindEventToken,
		activity.KindLocked,
		activity.KindUnlocked,
		activity.KindTransfer,
	}, kinds)

	byToken, err := repo.List(ctx, activity.ListOptions{TokenID: activity.TokenRef(id)})
	require.NoError(t, err)
	require.Len(t, byToken, 4)

	byEvent, err := repo.List(ctx, activity.ListOptions{EventID: activity.EventRef(event.ID(5)), AfterSeq: 3, Limit: 1})
	require.NoError(t, err)
	require.Len(t, byEvent, 1)
	require.Equal(t, activity.KindEventMinterAdded, byEvent[0].Kind)
	require.Equal(t, access.Principal("alice"), byEvent[0].Account)
}

func TestStateRepository_StampsIssuerClock(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	clk := clock.NewManual(testNow)
	is, err := issuer.Open(ctx, issuer.Config{
		Owner: "owner",
		Clock: clk,
		Store: NewStateRepository(db),
	})
	require.NoError(t, err)

	require.NoError(t, is.Initialize(ctx, "owner", "", nil))
	clk.Advance(time.Hour)
	require.NoError(t, is.CreateEventID(ctx, "owner", 1, 0, time.Time{}, "alice"))

	var adminAt, minterAt, metaAt int64
	require.NoError(t, db.QueryRowContext(ctx, `SELECT granted_at FROM admins WHERE principal = 'owner'`).Scan(&adminAt))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT granted_at FROM event_minters WHERE principal = 'alice'`).Scan(&minterAt))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT updated_at FROM issuer_meta WHERE id = 1`).Scan(&metaAt))
	require.Equal(t, testNow.Unix(), adminAt)
	require.Equal(t, testNow.Add(time.Hour).Unix(), minterAt)
	require.Equal(t, minterAt, metaAt)

	entries, err := NewActivityRepository(db).List(ctx, activity.ListOptions{Kind: kindRef(activity.KindEventMinterAdded)})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, minterAt, entries[0].CreatedAt.Unix())
}

func kindRef(k activity.Kind) *activity.Kind { return &k }
