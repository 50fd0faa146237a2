// Package api is the gateway to the school backend: one HTTP client whose
// transport attaches the stored bearer token and turns a rejected token into
// a logout, plus a typed method per backend operation.
package api

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

	"schoolerp/internal/adapters/http/perf"
	"schoolerp/internal/adapters/storage/local"
)

// DefaultBaseURL is the backend root used when none is configured.
const DefaultBaseURL = "http://localhost:3000/api"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	BaseURL   string            // default DefaultBaseURL
	Storage   local.Store       // source of the bearer token; required
	Bus       local.Notifier    // raised after a forced logout; optional
	Collector *perf.Collector   // upstream timings; optional
	Transport http.RoundTripper // default http.DefaultTransport
}

// Client sends JSON requests to the backend. It holds no per-call state and
// is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	if opts.Storage == nil {
		return nil, errors.New("api: Options.Storage is required")
	}
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api: invalid base URL %q", raw)
	}
	next := opts.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	return &Client{
		base: base,
		http: &http.Client{Transport: &authTransport{
			next:       next,
			storage:    opts.Storage,
			bus:        opts.Bus,
			collector:  opts.Collector,
			authPrefix: base.Path + "/auth/",
		}},
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

type validatable interface {
	Validate() error
}

// Do sends body (JSON-encoded when non-nil) to path under the base URL and
// decodes a 2xx response into out. Non-2xx responses return *HTTPError.
// Request bodies with a Validate method are checked first and never sent
// when invalid.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		if v, ok := body.(validatable); ok {
			if err := v.Validate(); err != nil {
				return err
			}
		}
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read %s %s: %w", method, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

// call sends a request and decodes the standard envelope.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (*Envelope[T], error) {
	var env Envelope[T]
	if err := c.Do(ctx, method, path, body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// id escapes a path identifier.
func id(v string) string {
	return url.PathEscape(v)
}
