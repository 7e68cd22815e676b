package taskcancel

import (
	"context"
	"fmt"

	"github.com/slok/sbxmon/internal/apiclient"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
)

// ServiceConfig is the configuration for the task cancel service.
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

// Service requests cancellation of running tasks.
type Service struct {
	client apiclient.Client
	logger log.Logger
}

// NewService creates a new task cancel service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// Request represents the task cancel request parameters.
type Request struct {
	TaskID string
}

// Run asks the API to cancel a task. Cancellation is a request, not a
// guarantee: the task transitions to cancelled only when the API confirms
// it on a later poll.
func (s *Service) Run(ctx context.Context, req Request) error {
	if req.TaskID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	s.logger.Debugf("cancelling task %s", req.TaskID)

	if err := s.client.CancelTask(ctx, req.TaskID); err != nil {
		return fmt.Errorf("could not cancel task: %w", err)
	}

	s.logger.Infof("Cancellation of task %s requested", req.TaskID)
	return nil
}
