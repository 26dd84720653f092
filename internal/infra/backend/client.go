// Package backend provides the HTTP client for the task queue backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/runoshun/promptdesk/internal/domain"
)

// Ensure Client implements domain.TaskQueue.
var _ domain.TaskQueue = (*Client)(nil)

// maxErrorBody caps how much of an error response is kept in a RequestError.
const maxErrorBody = 512

// maxBody caps how much of a task response is read.
const maxBody = 4 << 20

// SessionHeader carries the client session id on every request.
const SessionHeader = "X-Client-Session"

// Client talks to the task queue over HTTP.
// Fields are ordered to minimize memory padding.
type Client struct {
	httpClient *http.Client
	baseURL    string
	taskType   string
	sessionID  string
	userAgent  string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithSessionID sets the value of the session header.
func WithSessionID(id string) Option {
	return func(c *Client) {
		c.sessionID = id
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a Client for the given backend settings.
func NewClient(cfg domain.BackendConfig, opts ...Option) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		taskType:   cfg.TaskType,
		userAgent:  "promptdesk",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// FetchNewTask requests a new task of the configured type.
// A 204 response, an empty body or a JSON null mean the queue is empty.
func (c *Client) FetchNewTask(ctx context.Context) (*domain.Task, error) {
	return c.do(ctx, "fetch task", http.MethodGet, domain.TaskEndpoint(c.taskType), nil)
}

// SubmitResponse posts a reply and returns the next task.
func (c *Client) SubmitResponse(ctx context.Context, req domain.SubmissionRequest) (*domain.Task, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &domain.RequestError{Op: "submit response", Err: fmt.Errorf("encode request: %w", err)}
	}
	return c.do(ctx, "submit response", http.MethodPost, domain.UpdateEndpoint, body)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte) (*domain.Task, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &domain.RequestError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.sessionID != "" {
		httpReq.Header.Set(SessionHeader, c.sessionID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.RequestError{Op: op, Err: fmt.Errorf("send request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &domain.RequestError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       errorBody(data),
		}
	}

	task, err := domain.DecodeTask(data)
	if err != nil {
		return nil, &domain.RequestError{Op: op, Err: err}
	}
	return task, nil
}

// errorBody returns a single-line, truncated version of an error response.
func errorBody(data []byte) string {
	s := strings.Join(strings.Fields(string(data)), " ")
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
