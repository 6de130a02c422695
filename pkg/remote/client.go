// Package remote talks to the Infotafel store: the state snapshot, the push
// channel, media files and the admin API.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"tableflip.dev/kiosk/pkg/model"
)

var (
	// ErrUnauthorized is returned when the store rejects the admin password.
	ErrUnauthorized = errors.New("remote: unauthorized")
	// ErrNotFound is returned for unknown folders, images or paths.
	ErrNotFound = errors.New("remote: not found")
)

// StatusError carries any other non-2xx response.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("remote: status %d", e.Code)
	}
	return fmt.Sprintf("remote: status %d: %s", e.Code, e.Detail)
}

// Notification is one message from the push channel.
type Notification struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// Client is an HTTP client bound to one store.
type Client struct {
	base     *url.URL
	http     *http.Client
	dialer   *websocket.Dialer
	password string

	keepalive time.Duration
	deadTime  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithPassword sets the admin password sent as X-Admin-Password.
func WithPassword(pw string) Option {
	return func(c *Client) { c.password = pw }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithKeepalive sets how often the push channel pings and how long it may
// stay silent before it is considered dead.
func WithKeepalive(every, dead time.Duration) Option {
	return func(c *Client) {
		c.keepalive = every
		c.deadTime = dead
	}
}

// New parses the store base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote: parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: unsupported scheme %q", u.Scheme)
	}
	c := &Client{
		base:      u,
		http:      &http.Client{Timeout: 20 * time.Second},
		dialer:    &websocket.Dialer{HandshakeTimeout: 10 * time.Second, Proxy: http.ProxyFromEnvironment},
		keepalive: 30 * time.Second,
		deadTime:  75 * time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the store address.
func (c *Client) BaseURL() string { return c.base.String() }

// URL joins a store path onto the base URL, keeping any base path prefix.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base.String() + path
}

// Fetch loads the full state snapshot.
func (c *Client) Fetch(ctx context.Context) (model.State, error) {
	data, err := c.get(ctx, "/api/state", false)
	if err != nil {
		return model.State{}, fmt.Errorf("remote: fetch state: %w", err)
	}
	return model.DecodeState(data)
}

// Media downloads a file served under /media/.
func (c *Client) Media(ctx context.Context, path string) ([]byte, error) {
	data, err := c.get(ctx, path, false)
	if err != nil {
		return nil, fmt.Errorf("remote: fetch media %s: %w", path, err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, admin bool) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, "", nil, admin)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, admin bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if admin {
		req.Header.Set("X-Admin-Password", c.password)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

func checkStatus(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}
	var detail struct {
		Detail any `json:"detail"`
	}
	msg := ""
	if json.Unmarshal(body, &detail) == nil && detail.Detail != nil {
		msg = fmt.Sprint(detail.Detail)
	}
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	default:
		return &StatusError{Code: code, Detail: msg}
	}
}
