// Package client is the typed Go SDK for the TasksList REST API. Every consumer
// (the CLI, integration tests, other services) goes through a Client, which
// attaches the session token and normalises failures into pkg/errors kinds.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	appErrors "github.com/lironatar/TasksList/pkg/errors"
)

const (
	apiPrefix             = "/api/v1"
	defaultTimeout        = 30 * time.Second
	defaultResendCooldown = 2 * time.Minute
)

// ErrResendThrottled is returned when a verification code is requested again before the cooldown elapsed.
var ErrResendThrottled = errors.New("client: verification code was sent recently, try again later")

// TransportError reports a call that never produced a well-formed API answer:
// the network failed or the body was not a recognised envelope.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithSession shares an existing session, e.g. one restored from disk.
func WithSession(s *Session) Option {
	return func(c *Client) {
		if s != nil {
			c.session = s
		}
	}
}

// WithResendCooldown sets the minimum delay between two code requests for the same email.
// Zero disables throttling.
func WithResendCooldown(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.cooldown = d
		}
	}
}

// WithClock overrides the time source used for resend throttling.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client talks to one TasksList backend.
type Client struct {
	baseURL  string
	http     *http.Client
	session  *Session
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

// New builds a Client for the backend rooted at baseURL (scheme and host, optionally a path prefix).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, appErrors.NewValidation("base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, appErrors.NewValidation(fmt.Sprintf("invalid base URL %q", baseURL))
	}

	c := &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: defaultTimeout},
		session:  &Session{},
		cooldown: defaultResendCooldown,
		now:      time.Now,
		lastSent: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

// BaseURL reports the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do sends one request and decodes the envelope's data into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode envelope: %w", err)}
	}

	if !env.Success {
		if env.Error == nil {
			return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: errors.New("error envelope without details")}
		}
		kind := appErrors.FromCode(env.Error.Code)
		if kind == nil {
			return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("unknown error code %q: %s", env.Error.Code, env.Error.Message)}
		}
		if env.Error.Message != "" {
			return kind.WithMessage(env.Error.Message)
		}
		return kind
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

func requireValue(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return appErrors.NewValidation(field + " is required")
	}
	return nil
}

// throttle reserves a code send for email, refusing while the previous one is inside the cooldown.
func (c *Client) throttle(email string) error {
	if c.cooldown <= 0 {
		return nil
	}
	key := strings.ToLower(strings.TrimSpace(email))
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.lastSent[key]; ok && now.Sub(last) < c.cooldown {
		return ErrResendThrottled
	}
	c.lastSent[key] = now
	return nil
}

func (c *Client) markSent(email string) {
	key := strings.ToLower(strings.TrimSpace(email))
	c.mu.Lock()
	c.lastSent[key] = c.now()
	c.mu.Unlock()
}

func (c *Client) releaseThrottle(email string) {
	key := strings.ToLower(strings.TrimSpace(email))
	c.mu.Lock()
	delete(c.lastSent, key)
	c.mu.Unlock()
}

// ResendAvailableIn reports how long until another code may be requested for email.
func (c *Client) ResendAvailableIn(email string) time.Duration {
	key := strings.ToLower(strings.TrimSpace(email))
	c.mu.Lock()
	last, ok := c.lastSent[key]
	c.mu.Unlock()
	if !ok || c.cooldown <= 0 {
		return 0
	}
	if remaining := c.cooldown - c.now().Sub(last); remaining > 0 {
		return remaining
	}
	return 0
}
