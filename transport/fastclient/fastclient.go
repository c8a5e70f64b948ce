// Package fastclient implements transport.Getter on valyala/fasthttp.
package fastclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/core-ts/video/transport"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// Getter is a transport.Getter backed by a fasthttp.Client. fasthttp has no
// context support: the context deadline, or Timeout when there is none,
// bounds each request.
type Getter struct {
	Client  *fasthttp.Client
	Timeout time.Duration
}

// New returns a Getter with a default client and transport.DefaultTimeout.
func New() *Getter {
	return &Getter{
		Client: &fasthttp.Client{
			Name:                "catalog",
			MaxIdleConnDuration: 30 * time.Second,
		},
		Timeout: transport.DefaultTimeout,
	}
}

var _ transport.Getter = (*Getter)(nil)

func (g *Getter) Get(ctx context.Context, url string, out any) error {
	if err := ctx.Err(); err != nil {
		return &transport.Error{URL: url, Err: err}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(transport.RequestIDHeader, uuid.NewString())

	var err error
	if dl, ok := ctx.Deadline(); ok {
		err = g.Client.DoDeadline(req, resp, dl)
	} else {
		err = g.Client.DoTimeout(req, resp, g.timeout())
	}
	if err != nil {
		return &transport.Error{URL: url, Err: err}
	}

	status := resp.StatusCode()
	if !transport.Successful(status) {
		h := http.Header{}
		resp.Header.VisitAll(func(k, v []byte) {
			h.Add(string(k), string(v))
		})
		return &transport.Error{
			URL:    url,
			Status: status,
			Response: &transport.Response{
				Status: status,
				Header: h,
				Body:   append([]byte(nil), resp.Body()...),
			},
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &transport.Error{URL: url, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func (g *Getter) timeout() time.Duration {
	if g.Timeout > 0 {
		return g.Timeout
	}
	return transport.DefaultTimeout
}
