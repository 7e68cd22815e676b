package fileread

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/slok/sbxmon/internal/apiclient"
	"github.com/slok/sbxmon/internal/loader"
	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
)

// previewKey is the resource key of the file preview pane. A single key
// means opening a new preview supersedes the previous one.
const previewKey = "file-preview"

// ServiceConfig is the configuration for the file read service.
type ServiceConfig struct {
	Client apiclient.Client
	Loader *loader.Loader
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Client == nil {
		return fmt.Errorf("api client is required")
	}

	if c.Loader == nil {
		ld, err := loader.NewLoader(loader.LoaderConfig{})
		if err != nil {
			return fmt.Errorf("could not create loader: %w", err)
		}
		c.Loader = ld
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service reads file previews from the sandbox filesystem.
type Service struct {
	client apiclient.Client
	loader *loader.Loader
	logger log.Logger
}

// NewService creates a new file read service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		client: cfg.Client,
		loader: cfg.Loader,
		logger: cfg.Logger,
	}, nil
}

// Request represents the file read request parameters.
type Request struct {
	Path string
}

// Run loads a file preview. The whole body is accumulated before it is
// returned, and a concurrent Run for another path supersedes this one with
// model.ErrSuperseded.
//
// A missing file surfaces model.ErrNotFound and an over-the-cap file
// model.ErrTooLarge; both are expected conditions for the caller to render,
// not failures.
func (s *Service) Run(ctx context.Context, req Request) (*model.FilePreview, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("file path is required: %w", model.ErrNotValid)
	}

	s.logger.Debugf("reading file %s", req.Path)

	var preview *model.FilePreview
	err := s.loader.LoadStream(ctx, previewKey,
		func(loadCtx context.Context) (io.ReadCloser, string, error) {
			return s.client.ReadFile(loadCtx, req.Path)
		},
		func(res loader.StreamResult) {
			preview = &model.FilePreview{
				Path:        req.Path,
				ContentType: res.ContentType,
				Mode:        model.PreviewModeFor(res.ContentType),
				Data:        res.Data,
			}
		},
	)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrTooLarge) || errors.Is(err, model.ErrSuperseded) {
			return nil, err
		}
		return nil, fmt.Errorf("could not read file: %w", err)
	}

	return preview, nil
}

// Supersede aborts any in-flight preview load.
func (s *Service) Supersede() {
	s.loader.Supersede(previewKey)
}
