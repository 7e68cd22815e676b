// Package guard implements the sequence guard: every named asynchronous
// resource owns a monotonically increasing request id, and a completed
// response may only be committed if its id still matches the latest issued
// one for that resource key. This is the single mechanism that prevents a
// slow, superseded request from overwriting fresher data, and it must be
// used for every guarded resource rather than ad hoc per call site.
package guard

import (
	"context"
	"sync"
)

// resource tracks the in-flight state for a single resource key. Each
// resource carries its own lock so a commit for one key never blocks
// requests for another.
type resource struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Guard issues and checks per-resource-key request ids.
//
// The original single-threaded environment needed no locking; this port runs
// handlers from multiple goroutines, so per-key mutexes protect the counters
// and serialize commits against supersession.
type Guard struct {
	mu        sync.Mutex
	resources map[string]*resource
}

// New creates a new sequence guard.
func New() *Guard {
	return &Guard{resources: map[string]*resource{}}
}

func (g *Guard) resource(key string) *resource {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.resources[key]
	if r == nil {
		r = &resource{}
		g.resources[key] = r
	}
	return r
}

// Begin issues a fresh request id for the resource key, superseding (and
// cancelling) any request previously in flight for the same key. It returns
// the id and a context derived from ctx that is cancelled on the next
// supersession of the key. Begin waits for an in-progress Commit on the
// same key, so a new request can never start between a currency check and
// its commit.
func (g *Guard) Begin(ctx context.Context, key string) (uint64, context.Context) {
	r := g.resource(key)
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	r.seq++
	reqCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	return r.seq, reqCtx
}

// IsCurrent reports whether the request id is still the latest issued one
// for the resource key.
func (g *Guard) IsCurrent(key string, id uint64) bool {
	r := g.resource(key)
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.seq == id
}

// Commit runs fn only if the request id is still the latest issued one for
// the resource key, holding the key's lock for the duration of fn. The
// currency check and the commit are one atomic step: a newer request for
// the same key cannot begin, complete, and commit in between, so results
// always land in issue order. It reports whether fn ran.
func (g *Guard) Commit(key string, id uint64, fn func()) bool {
	r := g.resource(key)
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seq != id {
		return false
	}

	fn()
	return true
}

// Supersede cancels any request in flight for the resource key without
// issuing a new one. Any pending result for the key will be dropped.
func (g *Guard) Supersede(key string) {
	r := g.resource(key)
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.seq++
}
