// Package api is the HTTP client for the office backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/malex-office/internal/common"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://malexoffice-bkdt.onrender.com/api"

// TokenSource supplies the bearer token of the current session. An empty
// token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// Client talks to the backend. All methods are safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	baseURL        string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenSource attaches the session token to every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithUnauthorizedHandler registers fn to run whenever the backend answers 401.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the common response shape: {success, data, error, message}.
// Some endpoints name the payload differently, hence the extra fields.
type envelope struct {
	Data         json.RawMessage `json:"data"`
	Transaction  json.RawMessage `json:"transaction"`
	Records      json.RawMessage `json:"records"`
	Transactions json.RawMessage `json:"transactions"`
	Error        string          `json:"error"`
	Message      string          `json:"message"`
	Success      bool            `json:"success"`
}

func (e envelope) failure(fallback string) error {
	msg := e.Error
	if msg == "" {
		msg = fallback
	}
	return &AppError{Message: msg}
}

// call performs an envelope request and fails with an AppError when the
// backend reports success=false.
func (c *Client) call(ctx context.Context, method, path string, body any, fallback string) (envelope, error) {
	var env envelope
	if err := c.do(ctx, method, path, body, &env); err != nil {
		return env, err
	}
	if !env.Success {
		return env, env.failure(fallback)
	}
	return env, nil
}

// do sends one request and decodes a 2xx body into out when out is not nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Debug("failed to close response body", "error", closeErr)
		}
	}()

	slog.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%s %s: %w", method, path, common.ErrNotAuthenticated)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newStatusError(resp *http.Response) *StatusError {
	// Prefer the reason phrase the server sent over the canonical one.
	statusErr := &StatusError{
		Code:   resp.StatusCode,
		Status: strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))),
	}
	if statusErr.Status == "" {
		statusErr.Status = http.StatusText(resp.StatusCode)
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		statusErr.Message = body.Error
		if statusErr.Message == "" {
			statusErr.Message = body.Message
		}
	}
	return statusErr
}

func decodeData(raw json.RawMessage, out any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
