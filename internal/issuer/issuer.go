// Package issuer is the attendance credential engine. One Issuer owns the
// access registry, the event registry and the token ledger, and runs every
// operation as a single all-or-nothing unit.
package issuer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rpggio/attest/internal/clock"
	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/fault"
	"github.com/rpggio/attest/internal/domain/token"
	"github.com/rpggio/attest/internal/issuer/metrics"
)

const tracerName = "github.com/rpggio/attest/internal/issuer"

// Config describes one issuer deployment.
type Config struct {
	Name   string
	Symbol string
	// Owner is the only principal allowed to call Initialize.
	Owner  access.Principal
	Policy token.TransferPolicy

	Clock   clock.Clock
	Store   Store         // optional
	Sink    activity.Sink // optional
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Issuer is a single credential contract instance.
type Issuer struct {
	mu sync.RWMutex

	name   string
	symbol string
	owner  access.Principal

	clock   clock.Clock
	store   Store
	sink    activity.Sink
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer

	meta   Meta
	access *access.Registry
	events *event.Registry
	ledger *token.Ledger
}

// New returns an uninitialized issuer with empty state.
func New(cfg Config) (*Issuer, error) {
	if cfg.Owner.IsZero() {
		return nil, fmt.Errorf("issuer owner: %w", access.ErrInvalidPrincipal)
	}
	policy := cfg.Policy
	if policy == "" {
		policy = token.Transferable
	}
	if _, err := token.ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewSystem()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Issuer{
		name:    cfg.Name,
		symbol:  cfg.Symbol,
		owner:   cfg.Owner,
		clock:   cfg.Clock,
		store:   cfg.Store,
		sink:    cfg.Sink,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
		tracer:  otel.Tracer(tracerName),
		meta:    Meta{Policy: policy},
		access:  access.NewRegistry(),
		events:  event.NewRegistry(),
		ledger:  token.NewLedger(policy),
	}, nil
}

// Open builds an issuer and restores it from cfg.Store when the store holds state.
func Open(ctx context.Context, cfg Config) (*Issuer, error) {
	is, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if is.store == nil {
		return is, nil
	}
	snap, err := is.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading issuer state: %w", err)
	}
	if snap == nil {
		return is, nil
	}
	if err := is.restore(snap); err != nil {
		return nil, err
	}
	is.logger.Info("issuer state restored",
		"events", is.events.Len(),
		"tokens", is.ledger.Len(),
		"total_supply", is.ledger.Counters().TotalSupply,
	)
	return is, nil
}

func (is *Issuer) restore(snap *Snapshot) error {
	if snap.Meta.Policy != "" && snap.Meta.Policy != is.ledger.Policy() {
		return token.ErrPolicyMismatch
	}
	is.meta = snap.Meta
	is.meta.Policy = is.ledger.Policy()
	is.ledger.SetCounters(snap.Meta.Counters)
	for _, e := range snap.Events {
		is.events.Put(e)
	}
	for _, t := range snap.Tokens {
		is.ledger.Put(t)
	}
	for _, p := range snap.Admins {
		is.access.SetAdmin(p, true)
	}
	for id, minters := range snap.Minters {
		for _, p := range minters {
			is.access.SetEventMinter(id, p, true)
		}
	}
	for _, g := range snap.Operators {
		is.ledger.SetOperator(g.Owner, g.Operator, true)
	}
	return is.verifyCounters()
}

// currentMeta returns the meta record with ledger-owned fields filled in.
// Caller holds mu.
func (is *Issuer) currentMeta() Meta {
	m := is.meta
	m.Policy = is.ledger.Policy()
	m.Counters = is.ledger.Counters()
	return m
}

// mutate runs fn as one operation against an initialized issuer.
func (is *Issuer) mutate(ctx context.Context, op string, caller access.Principal, fn func(*txn) error) error {
	return is.execute(ctx, op, caller, true, fn)
}

func (is *Issuer) execute(ctx context.Context, op string, caller access.Principal, requireInit bool, fn func(*txn) error) error {
	start := time.Now()
	callID := uuid.NewString()
	ctx, span := is.tracer.Start(ctx, "issuer."+op, trace.WithAttributes(
		attribute.String("issuer.call_id", callID),
		attribute.String("issuer.caller", caller.String()),
	))
	defer span.End()

	is.mu.Lock()
	defer is.mu.Unlock()

	tx := is.begin(callID, caller)
	var err error
	if requireInit && !tx.meta.Initialized {
		err = ErrNotInitialized
	} else {
		err = fn(tx)
	}
	if err == nil {
		err = is.commit(ctx, tx)
	}

	result := resultLabel(err)
	is.metrics.ObserveOperation(op, result, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		is.logger.Debug("operation rejected", "op", op, "call_id", callID, "caller", caller, "result", result, "error", err)
		return err
	}
	is.logger.Debug("operation committed", "op", op, "call_id", callID, "caller", caller, "notifications", len(tx.notes))
	return nil
}

func (is *Issuer) commit(ctx context.Context, tx *txn) error {
	if !tx.dirty() {
		return nil
	}
	ch := tx.changes()
	if is.store != nil {
		if err := is.store.Commit(ctx, ch); err != nil {
			is.logger.Error("committing changes", "call_id", ch.CallID, "error", err)
			return fmt.Errorf("committing changes: %w", err)
		}
	}
	is.apply(ch)
	if is.sink != nil && len(ch.Notifications) > 0 {
		is.sink.Append(ch.Notifications...)
	}
	is.metrics.AddMinted(tx.minted)
	is.metrics.AddBurned(tx.burnedCount)
	is.metrics.SetTotalSupply(ch.Meta.Counters.TotalSupply)
	return nil
}

// apply writes a committed changeset into memory. Caller holds mu.
func (is *Issuer) apply(ch Changes) {
	is.meta = ch.Meta
	is.ledger.SetCounters(ch.Meta.Counters)
	for _, e := range ch.Events {
		is.events.Put(e)
	}
	for _, t := range ch.Tokens {
		is.ledger.Put(t)
	}
	for _, id := range ch.BurnedTokens {
		is.ledger.Delete(id)
	}
	for _, a := range ch.Admins {
		is.access.SetAdmin(a.Principal, a.Granted)
	}
	for _, m := range ch.Minters {
		is.access.SetEventMinter(m.EventID, m.Principal, m.Granted)
	}
	for _, o := range ch.Operators {
		is.ledger.SetOperator(o.Owner, o.Operator, o.Approved)
	}
}

// read runs fn under the shared lock.
func (is *Issuer) read(fn func()) {
	is.mu.RLock()
	defer is.mu.RUnlock()
	fn()
}

func resultLabel(err error) string {
	switch kind := fault.KindOf(err); {
	case err == nil:
		return "ok"
	case errors.Is(kind, fault.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(kind, fault.ErrStateConflict):
		return "state_conflict"
	case errors.Is(kind, fault.ErrPaused):
		return "paused"
	case errors.Is(kind, fault.ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return "error"
	}
}
