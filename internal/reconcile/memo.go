package reconcile

import (
	"fmt"
	"hash/fnv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/slok/sbxmon/internal/model"
)

const memoSize = 256

// Reconciler memoizes step reconciliation by task id and segment-log
// fingerprint, so polling loops don't recompute unchanged traces on every
// tick.
type Reconciler struct {
	memo *lru.Cache[string, memoEntry]
}

type memoEntry struct {
	fingerprint uint64
	steps       []model.Step
}

// NewReconciler creates a new memoizing reconciler.
func NewReconciler() (*Reconciler, error) {
	memo, err := lru.New[string, memoEntry](memoSize)
	if err != nil {
		return nil, fmt.Errorf("could not create memo cache: %w", err)
	}
	return &Reconciler{memo: memo}, nil
}

// Steps returns the reconciled steps for the task, reusing the previous
// result when the segment log hasn't changed.
func (r *Reconciler) Steps(t model.Task) []model.Step {
	fp := fingerprint(t.Segments)
	if entry, ok := r.memo.Get(t.ID); ok && entry.fingerprint == fp {
		return entry.steps
	}

	steps := Steps(t.Segments)
	r.memo.Add(t.ID, memoEntry{fingerprint: fp, steps: steps})
	return steps
}

// fingerprint produces a cheap hash of the segment log (length plus the
// discriminating fields of every segment). Segments are immutable and
// append-only server-side, so this is enough to detect change.
func fingerprint(segs []model.Segment) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d", len(segs))
	for _, s := range segs {
		fmt.Fprintf(h, "|%s\x00%s\x00%s\x00%d\x00%d", s.Type, s.Tool, s.Text, len(s.Args), len(s.Preview))
	}
	return h.Sum64()
}
