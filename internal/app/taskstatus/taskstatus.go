package taskstatus

import (
	"context"
	"fmt"

	"github.com/slok/sbxmon/internal/apiclient"
	"github.com/slok/sbxmon/internal/cache"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
	"github.com/slok/sbxmon/internal/reconcile"
)

// ServiceConfig is the configuration for the task status service.
type ServiceConfig struct {
	Client     apiclient.Client
	Reconciler *reconcile.Reconciler
	// Cache is optional; when set the fetched detail is stored so a
	// following watch session starts warm.
	Cache  *cache.Store
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("api client is required")
	}

	if c.Reconciler == nil {
		reconciler, err := reconcile.NewReconciler()
		if err != nil {
			return fmt.Errorf("could not create reconciler: %w", err)
		}
		c.Reconciler = reconciler
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service shows the reconciled detail of a single task.
type Service struct {
	client     apiclient.Client
	reconciler *reconcile.Reconciler
	cache      *cache.Store
	logger     log.Logger
}

// NewService creates a new task status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		client:     cfg.Client,
		reconciler: cfg.Reconciler,
		cache:      cfg.Cache,
		logger:     cfg.Logger,
	}, nil
}

// Request represents the task status request parameters.
type Request struct {
	TaskID string
}

// Status is the reconciled view of a task.
type Status struct {
	Task   model.Task
	Steps  []model.Step
	Output []model.ContentItem
}

// Run fetches a task and reconciles its segment log into steps.
func (s *Service) Run(ctx context.Context, req Request) (*Status, error) {
	if req.TaskID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	s.logger.Debugf("fetching task %s", req.TaskID)

	task, err := s.client.GetTask(ctx, req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, *task); err != nil {
			s.logger.Warningf("Could not cache task detail: %s", err)
		}
	}

	return &Status{
		Task:   *task,
		Steps:  s.reconciler.Steps(*task),
		Output: reconcile.OutputContent(*task),
	}, nil
}
