// Package client is the remote resource client: thin typed wrappers over the
// REST endpoints with a fixed request timeout and typed failures. It never
// retries; read retries belong to the query cache and writes are never
// retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"parkledger/internal/apierr"
)

// DefaultTimeout bounds every request, connection included.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token attached to requests when a session
// is active.
type TokenSource interface {
	Token() (string, bool)
}

type API struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

type Option func(*API)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *API) { a.http = c }
}

// WithTokenSource attaches bearer tokens from the given source.
func WithTokenSource(ts TokenSource) Option {
	return func(a *API) { a.tokens = ts }
}

func NewAPI(baseURL string, opts ...Option) *API {
	a := &API{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.tokens != nil {
		if token, ok := a.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return &apierr.NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apierr.NetworkError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierr.NewHTTPError(resp.StatusCode, serverMessage(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &apierr.ParseError{Resource: path, Err: err}
		}
	}
	return nil
}

// serverMessage pulls the message out of an error body when the server sent
// one; the raw body and status text are the fallbacks.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return ""
}
