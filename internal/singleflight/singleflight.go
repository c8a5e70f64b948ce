// Package singleflight coalesces concurrent fetches of the same entity.
package singleflight

import (
	"context"
	"sync"
)

// Group runs at most one fetch per id at a time. Callers that arrive while
// a fetch for the same id is in flight wait for its result instead of
// issuing their own request.
//
// Concurrency notes:
//   - The first caller for an id starts fn on its own goroutine; every
//     caller, the first included, then waits for the result or its ctx.
//   - Publishing (val, err) happens-before close(done), so callers
//     reading after <-done observe the final values.
//   - Cancelling ctx unblocks only that caller. fn keeps running for the
//     others, so it must not depend on any single caller's context.
type Group[V any] struct {
	mu sync.Mutex
	m  map[string]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed when val/err are published
	val  V
	err  error
	dups int
}

// Do runs fn once for id. shared reports whether the result was delivered
// to more than one caller.
func (g *Group[V]) Do(ctx context.Context, id string, fn func() (V, error)) (v V, shared bool, err error) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[string]*call[V])
	}
	c, joined := g.m[id]
	if joined {
		c.dups++
	} else {
		c = &call[V]{done: make(chan struct{})}
		g.m[id] = c
		go g.run(id, c, fn)
	}
	g.mu.Unlock()

	select {
	case <-c.done:
		g.mu.Lock()
		shared = joined || c.dups > 0
		g.mu.Unlock()
		return c.val, shared, c.err
	case <-ctx.Done():
		var zero V
		return zero, joined, ctx.Err()
	}
}

func (g *Group[V]) run(id string, c *call[V], fn func() (V, error)) {
	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.m, id)
	g.mu.Unlock()
	close(c.done)
}
