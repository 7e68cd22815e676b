package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	entries map[string]model.CacheEntry
	mu      sync.RWMutex
	logger  log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		entries: make(map[string]model.CacheEntry),
		logger:  cfg.Logger,
	}, nil
}

// GetCacheEntry retrieves a cache entry by task ID.
func (r *Repository) GetCacheEntry(ctx context.Context, taskID string) (*model.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[taskID]
	if !ok {
		return nil, fmt.Errorf("cache entry %s: %w", taskID, model.ErrNotFound)
	}

	// Return a copy.
	entryCopy := entry
	return &entryCopy, nil
}

// PutCacheEntry creates or refreshes the cache entry for a task.
func (r *Repository) PutCacheEntry(ctx context.Context, e model.CacheEntry) error {
	if e.TaskID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[e.TaskID] = e
	r.logger.Debugf("Stored cache entry for task %s (version %s)", e.TaskID, e.FetchedAtVersion)

	return nil
}

// DeleteCacheEntry removes the cache entry for a task. Deleting an absent
// entry is not an error.
func (r *Repository) DeleteCacheEntry(ctx context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, taskID)
	r.logger.Debugf("Deleted cache entry for task %s", taskID)

	return nil
}

// ListCacheEntries returns all cache entries sorted by task ID.
func (r *Repository) ListCacheEntries(ctx context.Context) ([]model.CacheEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]model.CacheEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].TaskID < entries[j].TaskID })

	return entries, nil
}
