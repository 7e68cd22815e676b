package filelist

import (
	"context"
	"fmt"

	"github.com/slok/sbxmon/internal/apiclient"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
)

// ServiceConfig is the configuration for the file list service.
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

// Service lists sandbox filesystem directories.
type Service struct {
	client apiclient.Client
	logger log.Logger
}

// NewService creates a new file list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// Request represents the file list request parameters.
type Request struct {
	Path   string
	Offset int64
	Limit  int64
}

// Run lists one page of a directory. The listing's NextOffset tells the
// caller whether more pages follow.
func (s *Service) Run(ctx context.Context, req Request) (*model.FileListing, error) {
	if req.Path == "" {
		req.Path = "/"
	}
	if req.Limit <= 0 {
		req.Limit = 200
	}

	s.logger.Debugf("listing files at %s (offset=%d limit=%d)", req.Path, req.Offset, req.Limit)

	listing, err := s.client.ListFiles(ctx, req.Path, req.Offset, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("could not list files: %w", err)
	}

	return listing, nil
}
