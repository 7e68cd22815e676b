package loader_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/sbxmon/internal/loader"
	"github.com/slok/sbxmon/internal/model"
)

func newLoader(t *testing.T) *loader.Loader {
	t.Helper()

	l, err := loader.NewLoader(loader.LoaderConfig{})
	require.NoError(t, err)
	return l
}

func TestLoadCommitsCurrentResult(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := newLoader(t)

	committed := ""
	err := loader.Load(context.Background(), l, "task-detail", func(ctx context.Context) (string, error) {
		return "detail-v1", nil
	}, func(v string) { committed = v })

	require.NoError(err)
	assert.Equal("detail-v1", committed)
}

func TestLoadFetchErrorIsReported(t *testing.T) {
	l := newLoader(t)

	err := loader.Load(context.Background(), l, "task-detail", func(ctx context.Context) (string, error) {
		return "", fmt.Errorf("boom")
	}, func(string) { t.Fatal("commit should not be called") })

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrSuperseded)
}

// The visible preview must never show stale bytes: an in-flight load
// superseded by a newer one for the same pane is dropped on arrival.
func TestLoadSupersededPreviewNeverCommitsStaleBytes(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := newLoader(t)

	var visible string
	commit := func(res loader.StreamResult) { visible = string(res.Data) }

	aStarted := make(chan struct{})
	aRelease := make(chan struct{})
	aDone := make(chan error, 1)

	// Load /a.txt, which blocks mid-stream.
	go func() {
		aDone <- l.LoadStream(context.Background(), "file-preview", func(ctx context.Context) (io.ReadCloser, string, error) {
			close(aStarted)
			<-aRelease
			return io.NopCloser(strings.NewReader("contents of a")), "text/plain", nil
		}, commit)
	}()

	<-aStarted

	// /b.txt supersedes /a.txt and resolves first.
	err := l.LoadStream(context.Background(), "file-preview", func(ctx context.Context) (io.ReadCloser, string, error) {
		return io.NopCloser(strings.NewReader("contents of b")), "text/plain", nil
	}, commit)
	require.NoError(err)
	assert.Equal("contents of b", visible)

	// /a.txt's late arrival is dropped as a supersession, not a failure.
	close(aRelease)
	err = <-aDone
	assert.ErrorIs(err, model.ErrSuperseded)
	assert.Equal("contents of b", visible)
}

// A slow commit must not let a newer load for the same key slip in between
// the currency check and the write: results land in issue order, so the
// newest load's data is always what remains visible.
func TestLoadSlowCommitKeepsIssueOrder(t *testing.T) {
	assert := assert.New(t)

	l := newLoader(t)

	var visible string

	aInCommit := make(chan struct{})
	aRelease := make(chan struct{})
	aDone := make(chan error, 1)
	bDone := make(chan error, 1)

	// /a.txt resolves first but stalls inside its commit.
	go func() {
		aDone <- loader.Load(context.Background(), l, "file-preview", func(ctx context.Context) (string, error) {
			return "contents of a", nil
		}, func(v string) {
			close(aInCommit)
			<-aRelease
			visible = v
		})
	}()

	<-aInCommit

	// /b.txt starts while /a.txt is still inside its commit. It has to wait
	// for /a.txt's commit to finish before it can even begin, so it always
	// lands last.
	go func() {
		bDone <- loader.Load(context.Background(), l, "file-preview", func(ctx context.Context) (string, error) {
			return "contents of b", nil
		}, func(v string) { visible = v })
	}()

	// Give /b.txt time to run as far as the guard lets it before /a.txt's
	// commit is released.
	time.Sleep(50 * time.Millisecond)
	close(aRelease)

	assert.NoError(<-aDone)
	assert.NoError(<-bDone)
	assert.Equal("contents of b", visible)
}

func TestLoadStreamAccumulatesBeforeCommit(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	l := newLoader(t)

	var committedChunks []string
	err := l.LoadStream(context.Background(), "file-preview", func(ctx context.Context) (io.ReadCloser, string, error) {
		// The reader yields content in several small chunks.
		return io.NopCloser(&chunkReader{parts: []string{"part one, ", "part two, ", "part three"}}), "text/plain", nil
	}, func(res loader.StreamResult) {
		committedChunks = append(committedChunks, string(res.Data))
		assert.Equal("text/plain", res.ContentType)
	})

	require.NoError(err)
	// A single commit with the full content, no partial flickers.
	require.Len(committedChunks, 1)
	assert.Equal("part one, part two, part three", committedChunks[0])
}

func TestLoadSupersedeAborts(t *testing.T) {
	assert := assert.New(t)

	l := newLoader(t)

	started := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- loader.Load(context.Background(), l, "file-preview", func(ctx context.Context) (string, error) {
			close(started)
			<-ctx.Done() // Blocks until superseded.
			return "", ctx.Err()
		}, func(string) { t.Error("commit should not be called") })
	}()

	<-started
	l.Supersede("file-preview")

	assert.ErrorIs(<-done, model.ErrSuperseded)
}

// chunkReader yields its parts one Read call at a time.
type chunkReader struct {
	parts []string
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.parts) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.parts[0])
	r.parts = r.parts[1:]
	return n, nil
}
