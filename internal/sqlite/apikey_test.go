package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/attest/internal/auth"
	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository_CreateResolve(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewAPIKeyRepository(db)

	hash := auth.HashKey("secret-key")
	require.Len(t, hash, 64)
	require.NoError(t, repo.Create(ctx, repository.APIKey{KeyHash: hash, Principal: "alice", Description: "ci"}))
	require.ErrorIs(t, repo.Create(ctx, repository.APIKey{KeyHash: hash, Principal: "bob"}), repository.ErrConflict)
	require.ErrorIs(t, repo.Create(ctx, repository.APIKey{Principal: "bob"}), repository.ErrInvalidInput)

	p, err := repo.Resolve(ctx, hash)
	require.NoError(t, err)
	require.Equal(t, access.Principal("alice"), p)

	_, err = repo.Resolve(ctx, auth.HashKey("wrong"))
	require.ErrorIs(t, err, repository.ErrNotFound)

	keys, err := repo.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.Equal(t, "ci", keys[0].Description)
	require.NotNil(t, keys[0].LastUsed)

	keys, err = repo.List(ctx, "bob")
	require.NoError(t, err)
	require.Empty(t, keys)
}
