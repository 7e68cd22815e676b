// Package apiclientmock contains testify mocks for the API client.
package apiclientmock

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/slok/sbxmon/internal/model"
)

// MockClient is a mock of apiclient.Client.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ListTasks(ctx context.Context, limit int) ([]model.TaskSummary, error) {
	args := m.Called(ctx, limit)
	tasks, _ := args.Get(0).([]model.TaskSummary)
	return tasks, args.Error(1)
}

func (m *MockClient) GetTask(ctx context.Context, id string) (*model.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockClient) CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.TaskSummary, error) {
	args := m.Called(ctx, req)
	summary, _ := args.Get(0).(*model.TaskSummary)
	return summary, args.Error(1)
}

func (m *MockClient) CancelTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClient) ListFiles(ctx context.Context, path string, offset, limit int64) (*model.FileListing, error) {
	args := m.Called(ctx, path, offset, limit)
	listing, _ := args.Get(0).(*model.FileListing)
	return listing, args.Error(1)
}

func (m *MockClient) ReadFile(ctx context.Context, path string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, path)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.String(1), args.Error(2)
}

func (m *MockClient) DeleteFile(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockClient) GetSession(ctx context.Context) (*model.Session, error) {
	args := m.Called(ctx)
	session, _ := args.Get(0).(*model.Session)
	return session, args.Error(1)
}

func (m *MockClient) GetStats(ctx context.Context) (*model.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*model.Stats)
	return stats, args.Error(1)
}
