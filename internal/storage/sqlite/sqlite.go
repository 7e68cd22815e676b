package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
	"github.com/slok/sbxmon/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository. It keeps the
// task detail cache on disk so a restarted monitor starts warm.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	if err := migrations.Apply(db, cfg.Logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate cache schema: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// GetCacheEntry retrieves a cache entry by task ID.
func (r *Repository) GetCacheEntry(ctx context.Context, taskID string) (*model.CacheEntry, error) {
	query := `SELECT task_id, fetched_at_version, detail FROM cache_entries WHERE task_id = ?`

	var entry model.CacheEntry
	var detail []byte
	err := r.db.QueryRowContext(ctx, query, taskID).Scan(&entry.TaskID, &entry.FetchedAtVersion, &detail)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cache entry %s: %w", taskID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get cache entry: %w", err)
	}

	if err := json.Unmarshal(detail, &entry.Detail); err != nil {
		return nil, fmt.Errorf("could not decode cached detail: %w", err)
	}

	return &entry, nil
}

// PutCacheEntry creates or refreshes the cache entry for a task.
func (r *Repository) PutCacheEntry(ctx context.Context, e model.CacheEntry) error {
	if e.TaskID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	detail, err := json.Marshal(e.Detail)
	if err != nil {
		return fmt.Errorf("could not encode detail: %w", err)
	}

	query := `
		INSERT INTO cache_entries (task_id, fetched_at_version, detail, stored_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			fetched_at_version = excluded.fetched_at_version,
			detail = excluded.detail,
			stored_at = excluded.stored_at
	`

	_, err = r.db.ExecContext(ctx, query, e.TaskID, e.FetchedAtVersion, detail, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("could not upsert cache entry: %w", err)
	}

	r.logger.Debugf("Stored cache entry for task %s (version %s)", e.TaskID, e.FetchedAtVersion)
	return nil
}

// DeleteCacheEntry removes the cache entry for a task. Deleting an absent
// entry is not an error.
func (r *Repository) DeleteCacheEntry(ctx context.Context, taskID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("could not delete cache entry: %w", err)
	}

	r.logger.Debugf("Deleted cache entry for task %s", taskID)
	return nil
}

// ListCacheEntries returns all cache entries sorted by task ID.
func (r *Repository) ListCacheEntries(ctx context.Context) ([]model.CacheEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT task_id, fetched_at_version, detail FROM cache_entries ORDER BY task_id`)
	if err != nil {
		return nil, fmt.Errorf("could not list cache entries: %w", err)
	}
	defer rows.Close()

	entries := []model.CacheEntry{}
	for rows.Next() {
		var entry model.CacheEntry
		var detail []byte
		if err := rows.Scan(&entry.TaskID, &entry.FetchedAtVersion, &detail); err != nil {
			return nil, fmt.Errorf("could not scan cache entry: %w", err)
		}
		if err := json.Unmarshal(detail, &entry.Detail); err != nil {
			return nil, fmt.Errorf("could not decode cached detail: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not iterate cache entries: %w", err)
	}

	return entries, nil
}
