package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

// OnlineProbe reports current network availability. The shell wires the
// platform's connectivity signal in; tests inject their own.
type OnlineProbe func() bool

// Client is the remote state client: a typed fetch layer keyed per logical
// resource, with response-shape validation, an offline read cache, and
// forced logout on authorization failure.
//
// Reads degrade to the cache when offline; writes are never queued here (the
// hardware action queue is the only offline write path).
type Client struct {
	baseURL  string
	http     *http.Client
	session  *Session
	validate *validator.Validate
	online   OnlineProbe
	log      zerolog.Logger

	mu    sync.Mutex
	cache map[string]any
}

func NewClient(baseURL string, session *Session, online OnlineProbe, log zerolog.Logger) *Client {
	if online == nil {
		online = func() bool { return true }
	}
	return &Client{
		baseURL:  baseURL,
		http:     http.DefaultClient,
		session:  session,
		validate: validator.New(),
		online:   online,
		log:      log,
		cache:    make(map[string]any),
	}
}

// SetHTTPClient overrides the transport, for tests and custom timeouts.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Invalidate drops the cached value for a key so the next read refetches.
func (c *Client) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, key)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Get fetches a resource bound to a cache key. Offline, it returns the
// cached value for the key when present, otherwise the zero value — the UI
// renders an empty state instead of an error while disconnected.
func Get[T any](ctx context.Context, c *Client, key, path string) (T, error) {
	var zero T
	if !c.online() {
		c.mu.Lock()
		cached, ok := c.cache[key]
		c.mu.Unlock()
		if ok {
			return cached.(T), nil
		}
		return zero, nil
	}

	out, err := do[T](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	c.cache[key] = out
	c.mu.Unlock()
	return out, nil
}

// Mutate issues a write and invalidates the given cache key on success so
// subsequent reads are fresh. Response ordering is never assumed.
func Mutate[T any](ctx context.Context, c *Client, key, method, path string, body any) (T, error) {
	out, err := do[T](ctx, c, method, path, body)
	if err != nil {
		return out, err
	}
	if key != "" {
		c.Invalidate(key)
	}
	return out, nil
}

func do[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Logout()
		return zero, domain.ErrSessionExpired
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return zero, fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return zero, fmt.Errorf("%s %s: %s", method, path, msg)
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return zero, fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	if err := c.checkShape(out); err != nil {
		return zero, fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrValidationFailed, err)
	}
	return out, nil
}

// checkShape fail-fast validates the decoded payload against its declared
// struct tags. Shape mismatches are hard errors, never coerced.
func (c *Client) checkShape(v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := c.checkShape(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return c.checkShape(rv.Elem().Interface())
	case reflect.Struct:
		return c.validate.Struct(v)
	default:
		return nil
	}
}
