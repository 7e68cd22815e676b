package taskcreate

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/sbxmon/internal/apiclient"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
)

// ServiceConfig is the configuration for the task create service.
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

// Service submits new tasks to the remote API.
type Service struct {
	client apiclient.Client
	logger log.Logger
}

// NewService creates a new task create service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// Request represents the task create request parameters.
type Request struct {
	// Input is the task instruction text.
	Input string
	// TaskType is an optional task type hint for the API.
	TaskType string
}

// Run submits a new task. Every submission carries a fresh idempotency key
// so a retried HTTP request cannot create duplicate tasks.
func (s *Service) Run(ctx context.Context, req Request) (*model.TaskSummary, error) {
	var input []model.ContentItem
	if req.Input != "" {
		input = append(input, model.ContentItem{"type": "text", "text": req.Input})
	}

	apiReq := model.CreateTaskRequest{
		Input:          input,
		TaskType:       req.TaskType,
		IdempotencyKey: ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String(),
	}
	if err := apiReq.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	s.logger.Debugf("creating task with idempotency key %s", apiReq.IdempotencyKey)

	summary, err := s.client.CreateTask(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("could not create task: %w", err)
	}

	s.logger.Infof("Task %s created", summary.ID)
	return summary, nil
}
