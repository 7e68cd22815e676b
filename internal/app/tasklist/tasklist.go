package tasklist

import (
	"context"
	"fmt"

	"github.com/slok/sbxmon/internal/apiclient"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
)

// ServiceConfig is the configuration for the task list service.
type ServiceConfig struct {
	Client apiclient.Client
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("api client is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists tasks with optional filtering.
type Service struct {
	client apiclient.Client
	logger log.Logger
}

// NewService creates a new task list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// Request represents the task list request parameters.
type Request struct {
	// Limit is how many summaries to ask the API for.
	Limit int
	// StatusFilter is an optional filter to only show tasks with this status.
	StatusFilter *model.TaskStatus
}

// Run lists the latest task summaries, optionally filtered by status.
func (s *Service) Run(ctx context.Context, req Request) ([]model.TaskSummary, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}

	s.logger.Debugf("listing tasks with filter: %v", req.StatusFilter)

	tasks, err := s.client.ListTasks(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	if req.StatusFilter != nil {
		filtered := make([]model.TaskSummary, 0, len(tasks))
		for _, task := range tasks {
			if task.Status == *req.StatusFilter {
				filtered = append(filtered, task)
			}
		}
		tasks = filtered
	}

	s.logger.Debugf("found %d tasks", len(tasks))
	return tasks, nil
}
