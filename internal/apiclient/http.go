package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/slok/sbxmon/internal/log"
	"github.com/slok/sbxmon/internal/model"
)

// HTTPClientConfig is the configuration for the HTTP API client.
type HTTPClientConfig struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     log.Logger
}

func (c *HTTPClientConfig) defaults() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "apiclient.HTTP"})
	return nil
}

// HTTPClient is the HTTP implementation of Client.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	logger  log.Logger
}

// NewHTTPClient creates a new HTTP API client.
func NewHTTPClient(cfg HTTPClientConfig) (*HTTPClient, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  cfg.HTTPClient,
		logger:  cfg.Logger,
	}, nil
}

// ListTasks returns the latest task summaries.
func (c *HTTPClient) ListTasks(ctx context.Context, limit int) ([]model.TaskSummary, error) {
	u := fmt.Sprintf("%s/tasks?limit=%d", c.baseURL, limit)

	var tasks []model.TaskSummary
	if err := c.getJSON(ctx, u, &tasks); err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns the full task detail.
func (c *HTTPClient) GetTask(ctx context.Context, id string) (*model.Task, error) {
	u := fmt.Sprintf("%s/tasks/%s", c.baseURL, url.PathEscape(id))

	task := &model.Task{}
	if err := c.getJSON(ctx, u, task); err != nil {
		return nil, fmt.Errorf("could not get task %s: %w", id, err)
	}
	return task, nil
}

// CreateTask submits a new task.
func (c *HTTPClient) CreateTask(ctx context.Context, req model.CreateTaskRequest) (*model.TaskSummary, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid create task request: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("could not create task: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("could not create task: %w", err)
	}

	summary := &model.TaskSummary{}
	if err := json.NewDecoder(resp.Body).Decode(summary); err != nil {
		return nil, fmt.Errorf("could not decode created task: %w", err)
	}
	return summary, nil
}

// CancelTask requests cancellation of a task.
func (c *HTTPClient) CancelTask(ctx context.Context, id string) error {
	u := fmt.Sprintf("%s/tasks/%s/cancel", c.baseURL, url.PathEscape(id))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return fmt.Errorf("could not cancel task %s: %w", id, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("could not cancel task %s: %w", id, err)
	}
	return nil
}

// ListFiles returns a paginated listing of the sandbox filesystem.
func (c *HTTPClient) ListFiles(ctx context.Context, filePath string, offset, limit int64) (*model.FileListing, error) {
	u := fmt.Sprintf("%s/files/list", c.baseURL)
	if filePath != "" {
		u = fmt.Sprintf("%s/%s", u, escapePath(filePath))
	}
	u = fmt.Sprintf("%s?offset=%d&limit=%d", u, offset, limit)

	listing := &model.FileListing{}
	if err := c.getJSON(ctx, u, listing); err != nil {
		return nil, fmt.Errorf("could not list files: %w", err)
	}
	return listing, nil
}

// ReadFile streams the content of a file.
func (c *HTTPClient) ReadFile(ctx context.Context, filePath string) (io.ReadCloser, string, error) {
	u := fmt.Sprintf("%s/files/read/%s", c.baseURL, escapePath(filePath))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("could not read file %s: %w", filePath, err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, "", fmt.Errorf("file %s: %w", filePath, model.ErrNotFound)
	case http.StatusRequestEntityTooLarge:
		resp.Body.Close()
		return nil, "", fmt.Errorf("file %s: %w", filePath, model.ErrTooLarge)
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, "", fmt.Errorf("could not read file %s: %w", filePath, err)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// DeleteFile deletes a file, surfacing the server message on refusal.
func (c *HTTPClient) DeleteFile(ctx context.Context, filePath string) error {
	u := fmt.Sprintf("%s/files/delete/%s", c.baseURL, escapePath(filePath))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return fmt.Errorf("could not delete file %s: %w", filePath, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("could not delete file %s: %w", filePath, err)
	}
	return nil
}

// GetSession returns the top-level session state.
func (c *HTTPClient) GetSession(ctx context.Context) (*model.Session, error) {
	session := &model.Session{}
	if err := c.getJSON(ctx, c.baseURL+"/session", session); err != nil {
		return nil, fmt.Errorf("could not get session: %w", err)
	}
	return session, nil
}

// GetStats returns the auxiliary global stats.
func (c *HTTPClient) GetStats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{}
	if err := c.getJSON(ctx, c.baseURL+"/stats", stats); err != nil {
		return nil, fmt.Errorf("could not get stats: %w", err)
	}
	return stats, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, u string, into interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.client.Do(req)
}

// checkStatus maps non-2xx responses to errors carrying the server message.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := readErrorMessage(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		if msg != "" {
			return fmt.Errorf("%s: %w", msg, model.ErrNotFound)
		}
		return model.ErrNotFound
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, msg)
}

// readErrorMessage extracts a best-effort message from an error body
// ({"error": ...} or {"message": ...} or plain text).
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	return strings.TrimSpace(string(data))
}

// escapePath escapes every element of a slash-separated path, keeping the
// separators.
func escapePath(p string) string {
	parts := strings.Split(path.Clean("/"+p), "/")
	escaped := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		escaped = append(escaped, url.PathEscape(part))
	}
	return strings.Join(escaped, "/")
}
