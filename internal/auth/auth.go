// Package auth turns bearer API keys into issuer principals.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/fault"
	"github.com/rpggio/attest/internal/repository"
)

// KeyPrefix marks plaintext keys issued by GenerateKey.
const KeyPrefix = "atk_"

var (
	ErrMissingKey = fault.New(fault.ErrUnauthorized, "missing api key")
	ErrInvalidKey = fault.New(fault.ErrUnauthorized, "invalid api key")
)

// HashKey returns the stored form of a plaintext key.
func HashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// GenerateKey returns a new plaintext key. Only its hash should be stored.
func GenerateKey() string {
	return KeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// KeyResolver resolves bearer tokens against stored key hashes.
type KeyResolver struct {
	keys   repository.APIKeyRepository
	logger *slog.Logger
}

func NewKeyResolver(keys repository.APIKeyRepository, logger *slog.Logger) *KeyResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyResolver{keys: keys, logger: logger}
}

// ResolvePrincipal returns the principal that owns token.
func (r *KeyResolver) ResolvePrincipal(ctx context.Context, token string) (access.Principal, error) {
	if token == "" {
		return "", ErrMissingKey
	}
	p, err := r.keys.Resolve(ctx, HashKey(token))
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidKey
	}
	if err != nil {
		r.logger.Error("api key lookup failed", "error", err)
		return "", fmt.Errorf("resolving api key: %w", err)
	}
	if p.IsZero() {
		return "", ErrInvalidKey
	}
	return p, nil
}

// Issue generates a key for principal, stores its hash and returns the plaintext.
func (r *KeyResolver) Issue(ctx context.Context, principal access.Principal, description string) (string, error) {
	if principal.IsZero() {
		return "", access.ErrInvalidPrincipal
	}
	key := GenerateKey()
	if err := r.keys.Create(ctx, repository.APIKey{
		KeyHash:     HashKey(key),
		Principal:   principal,
		Description: description,
	}); err != nil {
		return "", fmt.Errorf("storing api key: %w", err)
	}
	return key, nil
}
