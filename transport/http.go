package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds one request of an HTTP getter.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response body is kept.
const maxErrorBody = 64 << 10

// HTTP is a Getter on net/http.
type HTTP struct {
	client  *http.Client
	timeout time.Duration
	header  http.Header
}

// HTTPOption configures an HTTP getter.
type HTTPOption func(*HTTP)

// WithClient replaces the underlying client, e.g. to instrument its
// RoundTripper. The client is copied, never modified.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTimeout sets the per-request timeout, whatever the order of options.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) { h.timeout = d }
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) HTTPOption {
	return func(h *HTTP) { h.header.Add(key, value) }
}

// NewHTTP returns an HTTP getter with DefaultTimeout.
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		header:  http.Header{"Accept": {"application/json"}},
	}
	for _, o := range opts {
		o(h)
	}
	c := *h.client
	c.Timeout = h.timeout
	h.client = &c
	return h
}

func (h *HTTP) Get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	for k, vv := range h.header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := h.client.Do(req)
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if !Successful(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			URL:    url,
			Status: resp.StatusCode,
			Response: &Response{
				Status: resp.StatusCode,
				Header: resp.Header.Clone(),
				Body:   body,
			},
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{URL: url, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
