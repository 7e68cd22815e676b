package fileremove

import (
	"context"
	"fmt"

	"github.com/slok/sbxmon/internal/apiclient"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
)

// ServiceConfig is the configuration for the file remove service.
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

// Service deletes files from the sandbox filesystem.
type Service struct {
	client apiclient.Client
	logger log.Logger
}

// NewService creates a new file remove service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// Request represents the file remove request parameters.
type Request struct {
	Path string
}

// Run deletes a file. The backing store may refuse the deletion; the
// server's message is surfaced verbatim and the call is never retried.
func (s *Service) Run(ctx context.Context, req Request) error {
	if req.Path == "" {
		return fmt.Errorf("file path is required: %w", model.ErrNotValid)
	}

	s.logger.Debugf("deleting file %s", req.Path)

	if err := s.client.DeleteFile(ctx, req.Path); err != nil {
		return fmt.Errorf("could not delete file: %w", err)
	}

	s.logger.Infof("File %s deleted", req.Path)
	return nil
}
