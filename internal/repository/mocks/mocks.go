package mocks

import (
	"context"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/issuer"
	"github.com/rpggio/attest/internal/repository"
	"github.com/stretchr/testify/mock"
)

// StateRepository is a mock for repository.StateRepository.
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) Load(ctx context.Context) (*issuer.Snapshot, error) {
	args := m.Called(ctx)
	if snap, ok := args.Get(0).(*issuer.Snapshot); ok {
		return snap, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StateRepository) Commit(ctx context.Context, changes issuer.Changes) error {
	args := m.Called(ctx, changes)
	return args.Error(0)
}

// ActivityRepository is a mock for repository.ActivityRepository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for repository.APIKeyRepository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Create(ctx context.Context, key repository.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *APIKeyRepository) Resolve(ctx context.Context, keyHash string) (access.Principal, error) {
	args := m.Called(ctx, keyHash)
	return args.Get(0).(access.Principal), args.Error(1)
}

func (m *APIKeyRepository) List(ctx context.Context, principal access.Principal) ([]repository.APIKey, error) {
	args := m.Called(ctx, principal)
	if list, ok := args.Get(0).([]repository.APIKey); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ repository.StateRepository    = (*StateRepository)(nil)
	_ repository.ActivityRepository = (*ActivityRepository)(nil)
	_ repository.APIKeyRepository   = (*APIKeyRepository)(nil)
)
