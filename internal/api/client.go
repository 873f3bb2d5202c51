// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chat backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota

	// ErrTypeApplication means the backend answered with an error field.
	ErrTypeApplication

	// ErrTypeTransport means the backend could not be reached.
	ErrTypeTransport

	// ErrTypeTimeout means the request deadline expired.
	ErrTypeTimeout

	// ErrTypeInvalidResponse means the backend answered with something
	// that is neither a result nor an error field.
	ErrTypeInvalidResponse
)

// String returns the error type name.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeApplication:
		return "application"
	case ErrTypeTransport:
		return "transport"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// IsApplication reports whether err carries a server-supplied error message.
func IsApplication(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeApplication
}

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && (ce.Type == ErrTypeTransport || ce.Type == ErrTypeTimeout)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the API base URL, including any path prefix (default: http://127.0.0.1:5000/api)
	BaseURL string

	// Timeout per request (default: 120s; chat completions can be slow)
	Timeout time.Duration

	// RequestsPerSecond paces outgoing requests. 0 disables pacing.
	RequestsPerSecond float64

	// UserAgent sent with every request.
	UserAgent string
}

// DefaultBaseURL is the backend the original web front end was served from.
const DefaultBaseURL = "http://127.0.0.1:5000/api"

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   DefaultBaseURL,
		Timeout:   120 * time.Second,
		UserAgent: "aurora-chat",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the chat backend.
//
// The Client is safe for concurrent use. It performs no retries.
//
// Example:
//
//	client := api.NewClient(&api.ClientConfig{BaseURL: "http://localhost:5000/api"})
//	resp, err := client.Chat(ctx, req)
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client. Zero fields in config take their defaults.
func NewClient(config *ClientConfig) *Client {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}

	cfg := *config
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}

	c := &Client{
		config: &cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:          10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: cfg.Timeout,
			},
		},
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// ListModels returns the models available for a provider.
// An error field in the response is returned as an application error.
func (c *Client) ListModels(ctx context.Context, providerID string) ([]string, error) {
	endpoint := "/models?" + url.Values{"provider": {providerID}}.Encode()

	var result ModelsResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, &ClientError{Type: ErrTypeApplication, Message: result.Error}
	}
	return result.Models, nil
}

// Chat sends one chat request and returns the backend's reply.
// An error field in the response is returned as an application error, even
// on a 2xx status.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var result ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, &ClientError{Type: ErrTypeApplication, Message: result.Error}
	}
	return &result, nil
}

// FetchConfig retrieves the startup configuration published by the backend.
func (c *Client) FetchConfig(ctx context.Context) (*RemoteConfig, error) {
	var result RemoteConfig
	if err := c.do(ctx, http.MethodGet, "/config", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &ClientError{Type: ErrTypeTransport, Message: "request cancelled", Cause: err}
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+endpoint, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeTransport, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
		}
		return &ClientError{Type: ErrTypeTransport, Message: "network error", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &ClientError{Type: ErrTypeTransport, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Prefer the server's own error text over the status line
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			return &ClientError{Type: ErrTypeApplication, Message: eb.Error}
		}
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("request failed with status %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
