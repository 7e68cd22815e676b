package storage

import (
	"context"

	"github.com/slok/sbxmon/internal/model"
)

// Repository is the interface for cached task detail persistence.
type Repository interface {
	GetCacheEntry(ctx context.Context, taskID string) (*model.CacheEntry, error)
	PutCacheEntry(ctx context.Context, e model.CacheEntry) error
	DeleteCacheEntry(ctx context.Context, taskID string) error
	ListCacheEntries(ctx context.Context) ([]model.CacheEntry, error)
}
