package normalize

import (
	"context"
	"errors"
	"net/http"
)

// StatusCoder is implemented by transport failures that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// IsNotFound reports whether err carries a not-found class status
// (404 Not Found or 410 Gone) anywhere in its chain.
func IsNotFound(err error) bool {
	var sc StatusCoder
	if !errors.As(err, &sc) {
		return false
	}
	switch sc.StatusCode() {
	case http.StatusNotFound, http.StatusGone:
		return true
	}
	return false
}

// FetchOptional runs a single-entity fetch. On success the entity's
// publication time is coerced and the entity returned; a not-found class
// failure yields (nil, nil); any other failure is returned unchanged.
func FetchOptional[T any, PT Timestamped[T]](ctx context.Context, fetch func(context.Context) (PT, error)) (PT, error) {
	v, err := fetch(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return CoerceTimestamp[T, PT](v), nil
}
