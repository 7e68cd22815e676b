package model

// CacheEntry is the last-fetched detail of a task, together with the
// freshness marker it was fetched at. Owned exclusively by the cache store.
type CacheEntry struct {
	TaskID string
	Detail Task
	// FetchedAtVersion is the task's updated_at as of the fetch that
	// produced Detail. Compared as an opaque string.
	FetchedAtVersion string
}
