package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/repository"
)

// APIKeyRepository implements repository.APIKeyRepository for SQLite
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create stores a key hash for a principal
func (r *APIKeyRepository) Create(ctx context.Context, key repository.APIKey) error {
	if key.KeyHash == "" || key.Principal.IsZero() {
		return repository.ErrInvalidInput
	}
	createdAt := key.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, principal, description, created_at) VALUES (?, ?, ?, ?)`,
		key.KeyHash, string(key.Principal), key.Description, createdAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

// Resolve returns the principal for keyHash and stamps last_used
func (r *APIKeyRepository) Resolve(ctx context.Context, keyHash string) (access.Principal, error) {
	var principal string
	err := r.db.QueryRowContext(ctx, `SELECT principal FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&principal)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().Unix(), keyHash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return access.Principal(principal), nil
}

// List returns the keys issued to a principal, newest first
func (r *APIKeyRepository) List(ctx context.Context, principal access.Principal) ([]repository.APIKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key_hash, principal, description, created_at, last_used
		FROM api_keys WHERE principal = ?
		ORDER BY created_at DESC, key_hash
	`, string(principal))
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer rows.Close()

	keys := []repository.APIKey{}
	for rows.Next() {
		var (
			k         repository.APIKey
			p         string
			createdAt int64
			lastUsed  sql.NullInt64
		)
		if err := rows.Scan(&k.KeyHash, &p, &k.Description, &createdAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		k.Principal = access.Principal(p)
		k.CreatedAt = fromUnix(createdAt)
		if lastUsed.Valid {
			used := fromUnix(lastUsed.Int64)
			k.LastUsed = &used
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
