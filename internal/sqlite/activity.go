package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/event"
	"github.com/rpggio/attest/internal/domain/token"
	"github.com/rpggio/attest/internal/issuer"
)

// ActivityRepository implements repository.ActivityRepository for SQLite.
// Rows are written by StateRepository.Commit in the same transaction as the
// state change that produced them.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func insertNotifications(ctx context.Context, tx *sql.Tx, ch issuer.Changes) error {
	for _, e := range ch.Notifications {
		var eventID, tokenID sql.NullInt64
		if e.EventID != nil {
			eventID = sql.NullInt64{Int64: toInt(uint64(*e.EventID)), Valid: true}
		}
		if e.TokenID != nil {
			tokenID = sql.NullInt64{Int64: toInt(uint64(*e.TokenID)), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (
				seq, call_id, kind, event_id, token_id, account, target, approved, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			e.Seq,
			e.CallID,
			string(e.Kind),
			eventID,
			tokenID,
			string(e.Account),
			string(e.Target),
			boolInt(e.Approved),
			toUnix(e.CreatedAt),
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("notification %d already recorded: %w", e.Seq, err)
			}
			return fmt.Errorf("failed to log notification: %w", err)
		}
	}
	return nil
}

// List returns notifications matching the given filters in sequence order
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	query := `
		SELECT seq, call_id, kind, event_id, token_id, account, target, approved, created_at
		FROM notifications
	`

	conditions := []string{"seq > ?"}
	args := []interface{}{opts.AfterSeq}

	if opts.Kind != nil {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(*opts.Kind))
	}
	if opts.EventID != nil {
		conditions = append(conditions, "event_id = ?")
		args = append(args, toInt(uint64(*opts.EventID)))
	}
	if opts.TokenID != nil {
		conditions = append(conditions, "token_id = ?")
		args = append(args, toInt(uint64(*opts.TokenID)))
	}

	query += " WHERE " + strings.Join(conditions, " AND ")
	query += " ORDER BY seq ASC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	entries := []activity.Entry{}
	for rows.Next() {
		var (
			e                activity.Entry
			kind             string
			eventID, tokenID sql.NullInt64
			account, target  string
			createdAt        int64
		)
		if err := rows.Scan(&e.Seq, &e.CallID, &kind, &eventID, &tokenID, &account, &target, &e.Approved, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		e.Kind = activity.Kind(kind)
		if eventID.Valid {
			e.EventID = activity.EventRef(event.ID(fromInt(eventID.Int64)))
		}
		if tokenID.Valid {
			e.TokenID = activity.TokenRef(token.ID(fromInt(tokenID.Int64)))
		}
		e.Account = access.Principal(account)
		e.Target = access.Principal(target)
		e.CreatedAt = fromUnix(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return entries, nil
}
