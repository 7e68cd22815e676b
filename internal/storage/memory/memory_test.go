package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/sbxmon/internal/model"
	"github.com/slok/sbxmon/internal/storage/memory"
)

func TestRepositoryCacheEntries(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ctx := context.Background()

	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(err)

	// Missing entry.
	_, err = repo.GetCacheEntry(ctx, "t1")
	assert.ErrorIs(err, model.ErrNotFound)

	// Put and get.
	entry := model.CacheEntry{
		TaskID:           "t1",
		Detail:           model.Task{ID: "t1", Status: model.TaskStatusProcessing, UpdatedAt: "v1"},
		FetchedAtVersion: "v1",
	}
	require.NoError(repo.PutCacheEntry(ctx, entry))

	got, err := repo.GetCacheEntry(ctx, "t1")
	require.NoError(err)
	assert.Equal(entry, *got)

	// Refresh overwrites.
	entry.FetchedAtVersion = "v2"
	require.NoError(repo.PutCacheEntry(ctx, entry))
	got, err = repo.GetCacheEntry(ctx, "t1")
	require.NoError(err)
	assert.Equal("v2", got.FetchedAtVersion)

	// List is sorted by task ID.
	require.NoError(repo.PutCacheEntry(ctx, model.CacheEntry{TaskID: "a9", FetchedAtVersion: "v1"}))
	entries, err := repo.ListCacheEntries(ctx)
	require.NoError(err)
	require.Len(entries, 2)
	assert.Equal("a9", entries[0].TaskID)
	assert.Equal("t1", entries[1].TaskID)

	// Delete is idempotent.
	require.NoError(repo.DeleteCacheEntry(ctx, "t1"))
	require.NoError(repo.DeleteCacheEntry(ctx, "t1"))
	_, err = repo.GetCacheEntry(ctx, "t1")
	assert.ErrorIs(err, model.ErrNotFound)
}

func TestRepositoryPutValidation(t *testing.T) {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)

	err = repo.PutCacheEntry(context.Background(), model.CacheEntry{})
	assert.ErrorIs(t, err, model.ErrNotValid)
}
