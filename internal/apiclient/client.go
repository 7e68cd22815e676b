// Package apiclient implements the REST client for the remote
// task-execution API. The API owns all durable state; this client only
// reads it and submits new tasks or cancellation requests.
package apiclient

import (
	"context"
	"io"

	"github.com/slok/sbxmon/internal/model"
)

// Client knows how to talk to the remote task-execution API.
type Client interface {
	// ListTasks returns the latest task summaries, newest first.
	ListTasks(ctx context.Context, limit int) ([]model.TaskSummary, error)
	// GetTask returns the full task detail including its segment log.
	GetTask(ctx context.Context, id string) (*model.Task, error)
	// CreateTask submits a new task.
	CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.TaskSummary, error)
	// CancelTask requests cancellation of a task.
	CancelTask(ctx context.Context, id string) error
	// ListFiles returns a paginated listing of the sandbox filesystem.
	ListFiles(ctx context.Context, path string, offset, limit int64) (*model.FileListing, error)
	// ReadFile streams the content of a file together with its content
	// type. The caller owns closing the reader. Not-found maps to
	// model.ErrNotFound and over-the-preview-cap to model.ErrTooLarge.
	ReadFile(ctx context.Context, path string) (io.ReadCloser, string, error)
	// DeleteFile deletes a file. The backing store may legitimately refuse
	// (read-only stores); the server message is surfaced verbatim and the
	// call is never retried automatically.
	DeleteFile(ctx context.Context, path string) error
	// GetSession returns the top-level session state.
	GetSession(ctx context.Context) (*model.Session, error)
	// GetStats returns the auxiliary global stats.
	GetStats(ctx context.Context) (*model.Stats, error)
}
