package repository

import (
	"context"
	"time"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/issuer"
)

// StateRepository persists issuer state and the notifications each commit produces.
type StateRepository interface {
	issuer.Store
}

// ActivityRepository reads persisted notifications.
type ActivityRepository interface {
	activity.Repository
}

// APIKey is a stored credential. Only the hash of the key is kept.
type APIKey struct {
	KeyHash     string
	Principal   access.Principal
	Description string
	CreatedAt   time.Time
	LastUsed    *time.Time
}

// APIKeyRepository manages API keys that authenticate HTTP callers.
type APIKeyRepository interface {
	Create(ctx context.Context, key APIKey) error
	// Resolve returns the principal owning keyHash and records the use.
	Resolve(ctx context.Context, keyHash string) (access.Principal, error)
	List(ctx context.Context, principal access.Principal) ([]APIKey, error)
}
