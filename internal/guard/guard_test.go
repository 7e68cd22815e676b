package guard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/sbxmon/internal/guard"
)

func TestGuardOrdering(t *testing.T) {
	tests := map[string]struct {
		run func(g *guard.Guard) (key string, id uint64)
		exp bool
	}{
		"a single request should be current": {
			run: func(g *guard.Guard) (string, uint64) {
				id, _ := g.Begin(context.Background(), "task-detail:t1")
				return "task-detail:t1", id
			},
			exp: true,
		},
		"an earlier request should not be current after a later one": {
			run: func(g *guard.Guard) (string, uint64) {
				idA, _ := g.Begin(context.Background(), "task-detail:t1")
				_, _ = g.Begin(context.Background(), "task-detail:t1")
				return "task-detail:t1", idA
			},
			exp: false,
		},
		"the latest request should be current": {
			run: func(g *guard.Guard) (string, uint64) {
				_, _ = g.Begin(context.Background(), "task-detail:t1")
				idB, _ := g.Begin(context.Background(), "task-detail:t1")
				return "task-detail:t1", idB
			},
			exp: true,
		},
		"requests on different keys should not interfere": {
			run: func(g *guard.Guard) (string, uint64) {
				idA, _ := g.Begin(context.Background(), "file-preview:/a.txt")
				_, _ = g.Begin(context.Background(), "file-preview:/b.txt")
				return "file-preview:/a.txt", idA
			},
			exp: true,
		},
		"supersede without a new request should invalidate the previous one": {
			run: func(g *guard.Guard) (string, uint64) {
				id, _ := g.Begin(context.Background(), "task-detail:t1")
				g.Supersede("task-detail:t1")
				return "task-detail:t1", id
			},
			exp: false,
		},
		"unknown key should never be current": {
			run: func(g *guard.Guard) (string, uint64) {
				return "task-detail:unknown", 1
			},
			exp: false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			g := guard.New()
			key, id := test.run(g)
			assert.Equal(t, test.exp, g.IsCurrent(key, id))
		})
	}
}

func TestGuardCancelsSupersededContext(t *testing.T) {
	assert := assert.New(t)

	g := guard.New()

	_, ctxA := g.Begin(context.Background(), "task-detail:t1")
	assert.NoError(ctxA.Err())

	// A new request for the same key aborts the previous in-flight one.
	_, ctxB := g.Begin(context.Background(), "task-detail:t1")
	assert.ErrorIs(ctxA.Err(), context.Canceled)
	assert.NoError(ctxB.Err())

	// Supersession without replacement also aborts.
	g.Supersede("task-detail:t1")
	assert.ErrorIs(ctxB.Err(), context.Canceled)

	// Other keys are untouched.
	_, ctxC := g.Begin(context.Background(), "file-preview:/a.txt")
	g.Supersede("task-detail:t1")
	assert.NoError(ctxC.Err())
}

func TestGuardCommit(t *testing.T) {
	assert := assert.New(t)

	g := guard.New()

	// A current request commits.
	idA, _ := g.Begin(context.Background(), "task-detail:t1")
	ran := false
	assert.True(g.Commit("task-detail:t1", idA, func() { ran = true }))
	assert.True(ran)

	// A superseded request does not.
	idB, _ := g.Begin(context.Background(), "task-detail:t1")
	g.Supersede("task-detail:t1")
	assert.False(g.Commit("task-detail:t1", idB, func() { t.Error("stale commit ran") }))
}

func TestGuardCommitBlocksNewRequests(t *testing.T) {
	assert := assert.New(t)

	g := guard.New()

	id, _ := g.Begin(context.Background(), "file-preview")

	inCommit := make(chan struct{})
	release := make(chan struct{})
	committed := make(chan bool, 1)
	began := make(chan uint64, 1)

	go func() {
		committed <- g.Commit("file-preview", id, func() {
			close(inCommit)
			<-release
		})
	}()

	<-inCommit

	// Begin for the same key must wait until the commit finishes.
	go func() {
		newID, _ := g.Begin(context.Background(), "file-preview")
		began <- newID
	}()

	select {
	case <-began:
		t.Fatal("Begin returned while a commit for the key was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	assert.True(<-committed)
	assert.Greater(<-began, id)
}

func TestGuardLastIssuedWinsOverLateCompletion(t *testing.T) {
	assert := assert.New(t)

	g := guard.New()

	// Request A issued before B; both "complete", A completes later.
	idA, _ := g.Begin(context.Background(), "task-detail:t1")
	idB, _ := g.Begin(context.Background(), "task-detail:t1")

	committed := ""
	commit := func(id uint64, result string) {
		if g.IsCurrent("task-detail:t1", id) {
			committed = result
		}
	}

	commit(idB, "fresh")
	commit(idA, "stale") // Late arrival of the superseded request.

	assert.Equal("fresh", committed)

	// If both are superseded by C, neither commits.
	idC, _ := g.Begin(context.Background(), "task-detail:t1")
	committed = ""
	commit(idA, "stale")
	commit(idB, "stale")
	assert.Equal("", committed)
	commit(idC, "fresh")
	assert.Equal("fresh", committed)
}
