package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/models"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 1 << 20

// maxErrorBodyBytes caps how much of a failed response is kept for diagnostics
const maxErrorBodyBytes = 512

// Answerer sends a prompt to the answering service and returns its answer
type Answerer interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// askRequest is the JSON body of an ask request
type askRequest struct {
	Prompt string `json:"prompt"`
}

// Client is the HTTP client for the answering service
type Client struct {
	httpClient tls_client.HttpClient
	endpoint   string
	timeout    time.Duration
	logger     zerolog.Logger
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements Answerer
var _ Answerer = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint sets the full URL of the ask route
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if strings.TrimSpace(endpoint) != "" {
			c.endpoint = strings.TrimSpace(endpoint)
		}
	}
}

// WithTimeout sets the transport timeout for a single request
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint: models.DefaultEndpoint,
		timeout:  300 * time.Second,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the ask URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close releases idle connections. Ask fails after Close.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Ask posts {"prompt": prompt} to the endpoint and returns the "answer" field.
// Every failure is reported as *errors.RequestFailedError.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if c.IsClosed() {
		return "", apierrors.NewRequestFailedError(c.endpoint, "client is closed", nil)
	}

	payload, err := json.Marshal(askRequest{Prompt: prompt})
	if err != nil {
		return "", apierrors.NewRequestFailedError(c.endpoint, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apierrors.NewRequestFailedError(c.endpoint, "failed to create request", err)
	}
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewRequestFailedError(c.endpoint, "", err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", apierrors.NewRequestFailedError(c.endpoint, "failed to read response", err)
	}

	c.logger.Debug().
		Str("endpoint", c.endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("ask response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apierrors.NewStatusError(c.endpoint, resp.StatusCode, truncate(strings.TrimSpace(string(body)), maxErrorBodyBytes))
	}

	return parseAnswer(body, c.endpoint)
}

// parseAnswer extracts a usable answer from a successful response body
func parseAnswer(body []byte, endpoint string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewRequestFailedError(endpoint, "response is not valid JSON", apierrors.ErrInvalidResponse)
	}

	answer := gjson.GetBytes(body, PathAnswer)
	if !answer.Exists() {
		msg := "response has no answer field"
		if serviceErr := serviceError(body); serviceErr != "" {
			msg = fmt.Sprintf("%s (service error: %s)", msg, serviceErr)
		}
		return "", apierrors.NewRequestFailedError(endpoint, msg, apierrors.ErrNoContent)
	}

	if answer.Type != gjson.String {
		return "", apierrors.NewRequestFailedError(endpoint, fmt.Sprintf("answer field is %s, not a string", answer.Type), apierrors.ErrInvalidResponse)
	}

	if strings.TrimSpace(answer.Str) == "" {
		return "", apierrors.NewRequestFailedError(endpoint, "answer is empty", apierrors.ErrNoContent)
	}

	return answer.Str, nil
}

// serviceError returns the error text the service reported, if any
func serviceError(body []byte) string {
	for _, path := range []string{PathError, PathTupleError} {
		if res := gjson.GetBytes(body, path); res.Exists() {
			return res.String()
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
