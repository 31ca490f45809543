package issuer_test

import (
	"context"
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

const (
	owner    access.Principal = "owner"
	admin    access.Principal = "admin"
	alice    access.Principal = "alice"
	bob      access.Principal = "bob"
	carol    access.Principal = "carol"
	baseURI                   = "https://meta.example/attest/"
	sevenDay                  = 7 * 24 * time.Hour
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	is    *issuer.Issuer
	clock *clock.Manual
	log   *activity.MemoryLog
}

func newFixture(t *testing.T, policy token.TransferPolicy) *fixture {
	t.Helper()
	f := newUninitialized(t, policy)
	require.NoError(t, f.is.Initialize(context.Background(), owner, baseURI, []access.Principal{admin}))
	return f
}

func newUninitialized(t *testing.T, policy token.TransferPolicy) *fixture {
	t.Helper()
	clk := clock.NewManual(t0)
	log := activity.NewMemoryLog()
	is, err := issuer.New(issuer.Config{
		Name:   "Attendance",
		Symbol: "ATT",
		Owner:  owner,
		Policy: policy,
		Clock:  clk,
		Sink:   log,
	})
	require.NoError(t, err)
	return &fixture{is: is, clock: clk, log: log}
}

func (f *fixture) createEvent(t *testing.T, id event.ID, maxSupply uint64, organizer access.Principal) {
	t.Helper()
	require.NoError(t, f.is.CreateEventID(context.Background(), admin, id, maxSupply, f.clock.Now().Add(sevenDay), organizer))
}

func (f *fixture) mint(t *testing.T, id event.ID, to access.Principal) token.ID {
	t.Helper()
	tid, err := f.is.MintToken(context.Background(), admin, id, to, "InitialState")
	require.NoError(t, err)
	return tid
}

func (f *fixture) entries(t *testing.T, kind activity.Kind) []activity.Entry {
	t.Helper()
	got, err := f.log.List(context.Background(), activity.ListOptions{Kind: &kind})
	require.NoError(t, err)
	return got
}

// requireConsistent checks the supply invariants after every scenario.
func (f *fixture) requireConsistent(t *testing.T) {
	t.Helper()
	require.NoError(t, f.is.VerifyCounters())
	var sum uint64
	for _, e := range f.is.Events() {
		sum += f.is.EventTotalSupply(e.ID)
	}
	require.Equal(t, f.is.TotalSupply(), sum)
}
