package fastclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/core-ts/video/normalize"
	"github.com/core-ts/video/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/videos/v1":
			assert.NotEmpty(t, r.Header.Get(transport.RequestIDHeader))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"v1","publishedAt":"2020-05-01T10:00:00Z"}`))
		case "/videos/v2":
			http.NotFound(w, r)
		default:
			w.Header().Set("Retry-After", "1")
			http.Error(w, "busy", http.StatusServiceUnavailable)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetter_Success(t *testing.T) {
	srv := newServer(t)

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, New().Get(context.Background(), srv.URL+"/videos/v1", &out))
	assert.Equal(t, "v1", out.ID)
}

func TestGetter_NotFound(t *testing.T) {
	srv := newServer(t)

	err := New().Get(context.Background(), srv.URL+"/videos/v2", &struct{}{})
	require.Error(t, err)
	assert.True(t, normalize.IsNotFound(err))
}

func TestGetter_OtherStatus(t *testing.T) {
	srv := newServer(t)

	err := New().Get(context.Background(), srv.URL+"/x", nil)
	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode())
	assert.Equal(t, "1", te.Response.Header.Get("Retry-After"))
	assert.False(t, normalize.IsNotFound(err))
}

func TestGetter_DeadlineFromContext(t *testing.T) {
	srv := newServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, New().Get(ctx, srv.URL+"/videos/v1", nil))

	done, cancelDone := context.WithCancel(context.Background())
	cancelDone()
	err := New().Get(done, srv.URL+"/videos/v1", nil)
	require.ErrorIs(t, err, context.Canceled)
}
