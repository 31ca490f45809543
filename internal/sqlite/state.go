package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
	"github.com/rpggio/attest/internal/issuer"
)

// StateRepository implements repository.StateRepository for SQLite
type StateRepository struct {
	db *DB
}

// NewStateRepository creates a new StateRepository
func NewStateRepository(db *DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load reads the full issuer state. It returns nil when no meta row exists.
func (r *StateRepository) Load(ctx context.Context) (*issuer.Snapshot, error) {
	var (
		snap           issuer.Snapshot
		nextID, supply int64
		freezeSeconds  int64
		policy         string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT initialized, paused, base_uri, policy, next_token_id, total_supply,
			freeze_duration_seconds, last_seq
		FROM issuer_meta WHERE id = 1
	`).Scan(
		&snap.Meta.Initialized,
		&snap.Meta.Paused,
		&snap.Meta.BaseURI,
		&policy,
		&nextID,
		&supply,
		&freezeSeconds,
		&snap.Meta.LastSeq,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load issuer meta: %w", err)
	}
	snap.Meta.Policy = token.TransferPolicy(policy)
	snap.Meta.Counters = token.Counters{
		NextTokenID:    token.ID(fromInt(nextID)),
		TotalSupply:    fromInt(supply),
		FreezeDuration: time.Duration(freezeSeconds) * time.Second,
	}

	if snap.Events, err = r.loadEvents(ctx); err != nil {
		return nil, err
	}
	if snap.Tokens, err = r.loadTokens(ctx); err != nil {
		return nil, err
	}
	if snap.Admins, err = r.loadAdmins(ctx); err != nil {
		return nil, err
	}
	if snap.Minters, err = r.loadMinters(ctx); err != nil {
		return nil, err
	}
	if snap.Operators, err = r.loadOperators(ctx); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *StateRepository) loadEvents(ctx context.Context) ([]event.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, max_supply, unbounded, mint_expiration, total_supply, created_at
		FROM events ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		var (
			id, maxSupply, total, expiration, createdAt int64
			unbounded                                   bool
		)
		if err := rows.Scan(&id, &maxSupply, &unbounded, &expiration, &total, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, event.Event{
			ID:             event.ID(fromInt(id)),
			MaxSupply:      event.Supply{Max: fromInt(maxSupply), Unbounded: unbounded},
			MintExpiration: fromUnix(expiration),
			TotalSupply:    fromInt(total),
			CreatedAt:      fromUnix(createdAt),
		})
	}
	return out, rows.Err()
}

func (r *StateRepository) loadTokens(ctx context.Context) ([]token.Token, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, owner, approved, frozen, freeze_started_at, locked, initial_state, minted_at
		FROM tokens ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}
	defer rows.Close()

	var out []token.Token
	for rows.Next() {
		var (
			id, eventID, frozenAt, mintedAt int64
			owner, approved, initialState   string
			frozen, locked                  bool
		)
		if err := rows.Scan(&id, &eventID, &owner, &approved, &frozen, &frozenAt, &locked, &initialState, &mintedAt); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		out = append(out, token.Token{
			ID:              token.ID(fromInt(id)),
			EventID:         event.ID(fromInt(eventID)),
			Owner:           access.Principal(owner),
			Approved:        access.Principal(approved),
			Frozen:          frozen,
			FreezeStartedAt: fromUnix(frozenAt),
			Locked:          locked,
			InitialState:    initialState,
			MintedAt:        fromUnix(mintedAt),
		})
	}
	return out, rows.Err()
}

func (r *StateRepository) loadAdmins(ctx context.Context) ([]access.Principal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT principal FROM admins ORDER BY principal`)
	if err != nil {
		return nil, fmt.Errorf("failed to load admins: %w", err)
	}
	defer rows.Close()

	var out []access.Principal
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		out = append(out, access.Principal(p))
	}
	return out, rows.Err()
}

func (r *StateRepository) loadMinters(ctx context.Context) (map[event.ID][]access.Principal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT event_id, principal FROM event_minters ORDER BY event_id, principal`)
	if err != nil {
		return nil, fmt.Errorf("failed to load event minters: %w", err)
	}
	defer rows.Close()

	out := make(map[event.ID][]access.Principal)
	for rows.Next() {
		var (
			id int64
			p  string
		)
		if err := rows.Scan(&id, &p); err != nil {
			return nil, fmt.Errorf("failed to scan event minter: %w", err)
		}
		eid := event.ID(fromInt(id))
		out[eid] = append(out[eid], access.Principal(p))
	}
	return out, rows.Err()
}

func (r *StateRepository) loadOperators(ctx context.Context) ([]token.OperatorGrant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT owner, operator FROM operators ORDER BY owner, operator`)
	if err != nil {
		return nil, fmt.Errorf("failed to load operators: %w", err)
	}
	defer rows.Close()

	var out []token.OperatorGrant
	for rows.Next() {
		var owner, op string
		if err := rows.Scan(&owner, &op); err != nil {
			return nil, fmt.Errorf("failed to scan operator: %w", err)
		}
		out = append(out, token.OperatorGrant{Owner: access.Principal(owner), Operator: access.Principal(op)})
	}
	return out, rows.Err()
}

// Commit writes one operation's changes in a single transaction.
func (r *StateRepository) Commit(ctx context.Context, ch issuer.Changes) error {
	return r.db.RunInTx(ctx, func(tx *sql.Tx) error {
		now := toUnix(ch.At)
		if err := writeMeta(ctx, tx, ch.Meta, now); err != nil {
			return err
		}
		for _, e := range ch.Events {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO events (id, max_supply, unbounded, mint_expiration, total_supply, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET total_supply = excluded.total_supply
			`, toInt(uint64(e.ID)), toInt(e.MaxSupply.Max), boolInt(e.MaxSupply.Unbounded),
				toUnix(e.MintExpiration), toInt(e.TotalSupply), toUnix(e.CreatedAt)); err != nil {
				return fmt.Errorf("failed to write event %d: %w", e.ID, err)
			}
		}
		for _, a := range ch.Admins {
			if err := writeGrant(ctx, tx, a.Granted,
				`INSERT OR IGNORE INTO admins (principal, granted_at) VALUES (?, ?)`,
				`DELETE FROM admins WHERE principal = ?`,
				[]any{string(a.Principal), now}, []any{string(a.Principal)}); err != nil {
				return fmt.Errorf("failed to write admin: %w", err)
			}
		}
		for _, m := range ch.Minters {
			id := toInt(uint64(m.EventID))
			if err := writeGrant(ctx, tx, m.Granted,
				`INSERT OR IGNORE INTO event_minters (event_id, principal, granted_at) VALUES (?, ?, ?)`,
				`DELETE FROM event_minters WHERE event_id = ? AND principal = ?`,
				[]any{id, string(m.Principal), now}, []any{id, string(m.Principal)}); err != nil {
				return fmt.Errorf("failed to write event minter: %w", err)
			}
		}
		for _, t := range ch.Tokens {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tokens (id, event_id, owner, approved, frozen, freeze_started_at, locked, initial_state, minted_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					owner = excluded.owner,
					approved = excluded.approved,
					frozen = excluded.frozen,
					freeze_started_at = excluded.freeze_started_at
			`, toInt(uint64(t.ID)), toInt(uint64(t.EventID)), string(t.Owner), string(t.Approved),
				boolInt(t.Frozen), toUnix(t.FreezeStartedAt), boolInt(t.Locked), t.InitialState, toUnix(t.MintedAt)); err != nil {
				return fmt.Errorf("failed to write token %d: %w", t.ID, err)
			}
		}
		for _, id := range ch.BurnedTokens {
			if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE id = ?`, toInt(uint64(id))); err != nil {
				return fmt.Errorf("failed to delete token %d: %w", id, err)
			}
		}
		for _, o := range ch.Operators {
			if err := writeGrant(ctx, tx, o.Approved,
				`INSERT OR IGNORE INTO operators (owner, operator) VALUES (?, ?)`,
				`DELETE FROM operators WHERE owner = ? AND operator = ?`,
				[]any{string(o.Owner), string(o.Operator)}, []any{string(o.Owner), string(o.Operator)}); err != nil {
				return fmt.Errorf("failed to write operator: %w", err)
			}
		}
		return insertNotifications(ctx, tx, ch)
	})
}

func writeMeta(ctx context.Context, tx *sql.Tx, m issuer.Meta, now int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO issuer_meta (
			id, initialized, paused, base_uri, policy, next_token_id, total_supply,
			freeze_duration_seconds, last_seq, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			initialized = excluded.initialized,
			paused = excluded.paused,
			base_uri = excluded.base_uri,
			policy = excluded.policy,
			next_token_id = excluded.next_token_id,
			total_supply = excluded.total_supply,
			freeze_duration_seconds = excluded.freeze_duration_seconds,
			last_seq = excluded.last_seq,
			updated_at = excluded.updated_at
	`,
		boolInt(m.Initialized),
		boolInt(m.Paused),
		m.BaseURI,
		string(m.Policy),
		toInt(uint64(m.Counters.NextTokenID)),
		toInt(m.Counters.TotalSupply),
		int64(m.Counters.FreezeDuration/time.Second),
		m.LastSeq,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to write issuer meta: %w", err)
	}
	return nil
}

func writeGrant(ctx context.Context, tx *sql.Tx, granted bool, insert, remove string, insertArgs, removeArgs []any) error {
	if granted {
		_, err := tx.ExecContext(ctx, insert, insertArgs...)
		return err
	}
	_, err := tx.ExecContext(ctx, remove, removeArgs...)
	return err
}
