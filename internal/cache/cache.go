// Package cache implements the per-task detail cache with staleness
// invalidation: the sync scheduler consults it before issuing a detail
// fetch, so unchanged tasks cost no network round-trip.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
	"github.com/slok/sbxmon/internal/storage"
)

// StoreConfig is the configuration for the cache store.
type StoreConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "cache.Store"})
	return nil
}

// Store owns the task detail cache entries.
type Store struct {
	repo   storage.Repository
	logger log.Logger
}

// NewStore creates a new cache store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Store{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Get returns the cache entry for a task, nil when absent.
func (s *Store) Get(ctx context.Context, taskID string) (*model.CacheEntry, error) {
	entry, err := s.repo.GetCacheEntry(ctx, taskID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not get cache entry: %w", err)
	}
	return entry, nil
}

// Put stores the task detail, recording its updated_at as the entry's
// freshness marker.
func (s *Store) Put(ctx context.Context, detail model.Task) error {
	err := s.repo.PutCacheEntry(ctx, model.CacheEntry{
		TaskID:           detail.ID,
		Detail:           detail,
		FetchedAtVersion: detail.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("could not store cache entry: %w", err)
	}
	return nil
}

// IsStale reports whether a detail fetch is needed for the task: the entry
// is stale when absent or when the latest summary version differs from the
// version the entry was fetched at. Comparison is an opaque equality check,
// no timestamp ordering is assumed.
func (s *Store) IsStale(ctx context.Context, taskID, summaryUpdatedAt string) (bool, error) {
	entry, err := s.Get(ctx, taskID)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return true, nil
	}
	return entry.FetchedAtVersion != summaryUpdatedAt, nil
}

// Evict removes the entry for a task.
func (s *Store) Evict(ctx context.Context, taskID string) error {
	if err := s.repo.DeleteCacheEntry(ctx, taskID); err != nil {
		return fmt.Errorf("could not evict cache entry: %w", err)
	}
	return nil
}

// EvictMissing drops every cached entry whose task is no longer present in
// the latest list fetch, and returns the evicted task ids so callers can
// clear dependent selections.
func (s *Store) EvictMissing(ctx context.Context, present map[string]struct{}) ([]string, error) {
	entries, err := s.repo.ListCacheEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list cache entries: %w", err)
	}

	evicted := []string{}
	for _, entry := range entries {
		if _, ok := present[entry.TaskID]; ok {
			continue
		}
		if err := s.repo.DeleteCacheEntry(ctx, entry.TaskID); err != nil {
			return evicted, fmt.Errorf("could not evict cache entry: %w", err)
		}
		s.logger.Debugf("Evicted cache entry for vanished task %s", entry.TaskID)
		evicted = append(evicted, entry.TaskID)
	}

	return evicted, nil
}
