// Package storagemock contains testify mocks for the storage interfaces.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/sbxmon/internal/model"
)

// MockRepository is a mock of storage.Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetCacheEntry(ctx context.Context, taskID string) (*model.CacheEntry, error) {
	args := m.Called(ctx, taskID)
	entry, _ := args.Get(0).(*model.CacheEntry)
	return entry, args.Error(1)
}

func (m *MockRepository) PutCacheEntry(ctx context.Context, e model.CacheEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockRepository) DeleteCacheEntry(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockRepository) ListCacheEntries(ctx context.Context) ([]model.CacheEntry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]model.CacheEntry)
	return entries, args.Error(1)
}
