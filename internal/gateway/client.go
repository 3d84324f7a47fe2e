// Package gateway is the HTTP/JSON client for the storefront backend. It is
// a stateless request/response facade: identity lives in the session
// manager, which feeds the bearer token in through a TokenSource.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
)

// TokenSource returns the current bearer token, or "" when the session is
// anonymous.
type TokenSource func() string

// ErrUnauthorized marks an authoritative authorization rejection (HTTP 401).
// It is never returned for transport failures.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is an authoritative non-auth rejection from the backend, carrying
// its message verbatim when one was provided.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend rejected request (%d): %s", e.StatusCode, e.Message)
}

// IsTransient reports whether err represents a failure without an
// authoritative backend rejection: a timeout, connection error, or open
// circuit. Transient failures must never purge session or cart state.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	return !errors.Is(err, ErrUnauthorized)
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	breaker        *gobreaker.CircuitBreaker[*http.Response]
	tokens         TokenSource
	onUnauthorized func()
}

// NewClient builds a client for the backend at baseURL. tokens may be nil
// for a client that only calls public endpoints.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name: "storefront-backend",
		}),
		tokens: tokens,
	}
}

// SetUnauthorizedHook registers the callback fired whenever the backend
// answers 401. Set once at wiring time, before the client is used.
func (c *Client) SetUnauthorizedHook(hook func()) {
	c.onUnauthorized = hook
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens()
}

// do runs one round-trip. body and out may be nil; extra headers are added
// verbatim. Transport failures come back wrapped, 401 as ErrUnauthorized,
// other non-2xx statuses as *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, header map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range header {
		req.Header.Set(key, value)
	}

	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// apiError extracts the backend's rejection message. The backend reports
// failures as {"detail": "..."}; the generic fallback covers anything else.
func apiError(resp *http.Response) error {
	var payload struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}

	message := ""
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Detail != "" {
			message = payload.Detail
		} else {
			message = payload.Error
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
