// Package loader implements the cancellable load pattern shared by task
// detail fetches and streamed file previews: every load supersedes the
// previous in-flight load for the same resource key, and its result is
// committed only if it is still the latest when it completes.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/slok/sbxmon/internal/guard"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
)

// LoaderConfig is the configuration for the loader.
type LoaderConfig struct {
	Guard  *guard.Guard
	Logger log.Logger
}

func (c *LoaderConfig) defaults() error {
	if c.Guard == nil {
		c.Guard = guard.New()
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "loader.Loader"})
	return nil
}

// Loader performs guarded loads.
type Loader struct {
	guard  *guard.Guard
	logger log.Logger
}

// NewLoader creates a new loader.
func NewLoader(cfg LoaderConfig) (*Loader, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Loader{
		guard:  cfg.Guard,
		logger: cfg.Logger,
	}, nil
}

// Load fetches a resource under the sequence guard for key and hands the
// result to commit only if the load is still the latest one for the key
// when it completes.
//
// Supersession is returned as model.ErrSuperseded so internal callers can
// recognize it, but it is a normal outcome, never to be surfaced as a
// failure.
func Load[T any](ctx context.Context, l *Loader, key string, fetch func(ctx context.Context) (T, error), commit func(T)) error {
	id, loadCtx := l.guard.Begin(ctx, key)

	result, err := fetch(loadCtx)
	if err != nil {
		// An abort caused by supersession is not a failure.
		if loadCtx.Err() != nil && ctx.Err() == nil {
			l.logger.Debugf("Load of %s superseded mid-flight", key)
			return model.ErrSuperseded
		}
		return fmt.Errorf("could not load %s: %w", key, err)
	}

	// Check-and-commit is a single atomic step under the key's lock so a
	// newer load for the same key can never commit in between.
	if !l.guard.Commit(key, id, func() { commit(result) }) {
		l.logger.Debugf("Dropping stale result for %s", key)
		return model.ErrSuperseded
	}

	return nil
}

// StreamResult is the fully accumulated result of a streamed load.
type StreamResult struct {
	ContentType string
	Data        []byte
}

// StreamFetch opens a streamed resource, returning its body and content type.
type StreamFetch func(ctx context.Context) (io.ReadCloser, string, error)

// LoadStream performs a guarded streamed load: the response is read
// incrementally and accumulated in full before commit, so a consumer never
// sees flickering partial content, and a superseded stream is dropped
// without committing anything.
func (l *Loader) LoadStream(ctx context.Context, key string, fetch StreamFetch, commit func(StreamResult)) error {
	return Load(ctx, l, key, func(loadCtx context.Context) (StreamResult, error) {
		body, contentType, err := fetch(loadCtx)
		if err != nil {
			return StreamResult{}, err
		}
		defer body.Close()

		var buf bytes.Buffer
		chunk := make([]byte, 32*1024)
		for {
			if err := loadCtx.Err(); err != nil {
				return StreamResult{}, err
			}

			n, err := body.Read(chunk)
			if n > 0 {
				buf.Write(chunk[:n])
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return StreamResult{}, fmt.Errorf("reading stream: %w", err)
			}
		}

		return StreamResult{ContentType: contentType, Data: buf.Bytes()}, nil
	}, commit)
}

// Supersede aborts any in-flight load for the key without starting a new one.
func (l *Loader) Supersede(key string) {
	l.guard.Supersede(key)
}
