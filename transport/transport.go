// Package transport defines the GET-only JSON capability the catalog client
// talks through, and its failure type.
package transport

import (
	"context"
	"fmt"
	"net/http"
)

// RequestIDHeader is set on every outgoing request.
const RequestIDHeader = "X-Request-Id"

// Getter fetches url and decodes the JSON body into out.
// Failures that reached the server are reported as *Error.
type Getter interface {
	Get(ctx context.Context, url string, out any) error
}

// GetterFunc adapts a function to Getter.
type GetterFunc func(ctx context.Context, url string, out any) error

func (f GetterFunc) Get(ctx context.Context, url string, out any) error { return f(ctx, url, out) }

// Response is the part of a failed response kept for the caller.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Error is a failed Get. Status is zero when no response was received.
type Error struct {
	URL      string
	Status   int
	Response *Response
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.StatusCode() != 0:
		return fmt.Sprintf("transport: GET %s: status %d: %v", e.URL, e.StatusCode(), e.Err)
	case e.Err != nil:
		return fmt.Sprintf("transport: GET %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("transport: GET %s: status %d", e.URL, e.StatusCode())
	}
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the status of the attached response, falling back to
// Status when none is attached.
func (e *Error) StatusCode() int {
	if e.Response != nil && e.Response.Status != 0 {
		return e.Response.Status
	}
	return e.Status
}

// Successful reports whether status is 2xx.
func Successful(status int) bool { return status >= 200 && status < 300 }
