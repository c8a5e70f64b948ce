package singleflight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// Concurrent callers for the same id share one execution of fn.
func TestGroup_CoalescesSameID(t *testing.T) {
	var g Group[string]
	var calls int64
	release := make(chan struct{})

	var eg errgroup.Group
	var started sync.WaitGroup
	const n = 16
	started.Add(n)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			started.Done()
			v, _, err := g.Do(context.Background(), "UC1", func() (string, error) {
				atomic.AddInt64(&calls, 1)
				<-release
				return "channel", nil
			})
			if err != nil {
				return err
			}
			if v != "channel" {
				return errors.New("unexpected value " + v)
			}
			return nil
		})
	}
	started.Wait()
	waitForFollowers(t, &g, "UC1", n-1)
	close(release)

	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("fn must run once, got %d", got)
	}
}

// Errors are shared with followers and the next call runs fn again.
func TestGroup_ErrorNotRemembered(t *testing.T) {
	t.Parallel()

	var g Group[int]
	boom := errors.New("boom")

	if _, _, err := g.Do(context.Background(), "x", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	v, shared, err := g.Do(context.Background(), "x", func() (int, error) { return 7, nil })
	if err != nil || v != 7 || shared {
		t.Fatalf("second Do: v=%d shared=%v err=%v", v, shared, err)
	}
}

// A follower with a cancelled context returns early; the leader finishes.
func TestGroup_FollowerCancel(t *testing.T) {
	t.Parallel()

	var g Group[int]
	release := make(chan struct{})
	entered := make(chan struct{})
	leaderDone := make(chan int)

	go func() {
		v, _, _ := g.Do(context.Background(), "x", func() (int, error) {
			close(entered)
			<-release
			return 1, nil
		})
		leaderDone <- v
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Do(ctx, "x", func() (int, error) { return 2, nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("follower want context.Canceled, got %v", err)
	}

	close(release)
	if v := <-leaderDone; v != 1 {
		t.Fatalf("leader want 1, got %d", v)
	}
}

// A leader that gives up does not take the result away from followers.
func TestGroup_LeaderCancel(t *testing.T) {
	t.Parallel()

	var g Group[int]
	release := make(chan struct{})
	entered := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)

	go func() {
		_, _, err := g.Do(ctx, "x", func() (int, error) {
			close(entered)
			<-release
			return 1, nil
		})
		leaderErr <- err
	}()
	<-entered

	type result struct {
		v   int
		err error
	}
	follower := make(chan result, 1)
	go func() {
		v, _, err := g.Do(context.Background(), "x", func() (int, error) { return 2, nil })
		follower <- result{v, err}
	}()
	waitForFollowers(t, &g, "x", 1)

	cancel()
	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("leader want context.Canceled, got %v", err)
	}

	close(release)
	r := <-follower
	if r.err != nil || r.v != 1 {
		t.Fatalf("follower want 1, got %d err=%v", r.v, r.err)
	}
}

// waitForFollowers polls the in-flight call for id until want followers joined.
func waitForFollowers[V any](t *testing.T, g *Group[V], id string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		g.mu.Lock()
		c, ok := g.m[id]
		dups := 0
		if ok {
			dups = c.dups
		}
		g.mu.Unlock()
		if dups >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("followers did not join the flight for %q", id)
}
