package cache_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/sbxmon/internal/cache"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
	"github.com/slok/sbxmon/internal/storage/memory"
	"github.com/slok/sbxmon/internal/storage/storagemock"
)

func newMemoryStore(t *testing.T) *cache.Store {
	t.Helper()

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	store, err := cache.NewStore(cache.StoreConfig{Repository: repo, Logger: log.Noop})
	require.NoError(t, err)

	return store
}

func TestNewStore(t *testing.T) {
	tests := map[string]struct {
		config cache.StoreConfig
		expErr bool
	}{
		"valid config should create store": {
			config: cache.StoreConfig{Repository: &storagemock.MockRepository{}},
			expErr: false,
		},
		"missing repository should fail": {
			config: cache.StoreConfig{},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			store, err := cache.NewStore(test.config)
			if test.expErr {
				require.Error(t, err)
				require.Nil(t, store)
			} else {
				require.NoError(t, err)
				require.NotNil(t, store)
			}
		})
	}
}

func TestStoreIsStale(t *testing.T) {
	tests := map[string]struct {
		setup            func(ctx context.Context, s *cache.Store)
		taskID           string
		summaryUpdatedAt string
		expStale         bool
	}{
		"absent entry is stale": {
			setup:            func(ctx context.Context, s *cache.Store) {},
			taskID:           "t1",
			summaryUpdatedAt: "v1",
			expStale:         true,
		},
		"same version is fresh": {
			setup: func(ctx context.Context, s *cache.Store) {
				_ = s.Put(ctx, model.Task{ID: "t1", UpdatedAt: "v1"})
			},
			taskID:           "t1",
			summaryUpdatedAt: "v1",
			expStale:         false,
		},
		"different version is stale": {
			setup: func(ctx context.Context, s *cache.Store) {
				_ = s.Put(ctx, model.Task{ID: "t1", UpdatedAt: "v1"})
			},
			taskID:           "t1",
			summaryUpdatedAt: "v2",
			expStale:         true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newMemoryStore(t)
			test.setup(ctx, store)

			stale, err := store.IsStale(ctx, test.taskID, test.summaryUpdatedAt)
			require.NoError(t, err)
			assert.Equal(t, test.expStale, stale)
		})
	}
}

func TestStoreGetAbsentIsNil(t *testing.T) {
	store := newMemoryStore(t)

	entry, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStoreEvictMissing(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ctx := context.Background()
	store := newMemoryStore(t)

	require.NoError(store.Put(ctx, model.Task{ID: "t1", UpdatedAt: "v1"}))
	require.NoError(store.Put(ctx, model.Task{ID: "t2", UpdatedAt: "v1"}))
	require.NoError(store.Put(ctx, model.Task{ID: "t3", UpdatedAt: "v1"}))

	evicted, err := store.EvictMissing(ctx, map[string]struct{}{
		"t2": {},
	})
	require.NoError(err)
	assert.ElementsMatch([]string{"t1", "t3"}, evicted)

	entry, err := store.Get(ctx, "t2")
	require.NoError(err)
	assert.NotNil(entry)

	entry, err = store.Get(ctx, "t1")
	require.NoError(err)
	assert.Nil(entry)
}

func TestStoreRepositoryErrorPropagates(t *testing.T) {
	m := &storagemock.MockRepository{}
	m.On("GetCacheEntry", mock.Anything, "t1").Once().Return(nil, fmt.Errorf("database error"))

	store, err := cache.NewStore(cache.StoreConfig{Repository: m})
	require.NoError(t, err)

	_, err = store.IsStale(context.Background(), "t1", "v1")
	assert.Error(t, err)
	m.AssertExpectations(t)
}
