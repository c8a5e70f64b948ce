package cache

import (
	"sync"
	"time"
)

// store implements Cache with one lock, one map and one list, since the
// eviction order is global across all ids.
type store[V any] struct {
	// ---- guarded by mu ----
	mu   sync.RWMutex
	m    map[string]*node[V]
	head *node[V] // newest
	tail *node[V] // oldest
	len  int

	cap int
	opt Options[V]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics -> NoopMetrics
//   - nil Clock   -> wall clock
func New[V any](opt Options[V]) Cache[V] {
	if opt.Capacity <= 0 {
		panic("Capacity must be > 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	return &store[V]{
		m:   make(map[string]*node[V], opt.Capacity+1),
		cap: opt.Capacity,
		opt: opt,
	}
}

// ---- Cache[V] implementation ----

// Get returns the item for id. Ordering is untouched.
func (s *store[V]) Get(id string) (V, bool) {
	e, ok := s.Entry(id)
	return e.Item, ok
}

// Entry returns the item and its insertion time for id.
func (s *store[V]) Entry(id string) (Entry[V], bool) {
	s.mu.RLock()
	n, ok := s.m[id]
	var e Entry[V]
	if ok {
		e = n.entry()
	}
	s.mu.RUnlock()

	if !ok {
		s.opt.Metrics.Miss()
		return e, false
	}
	s.opt.Metrics.Hit()
	return e, true
}

// Set stores v under id with a fresh timestamp and restores the capacity bound.
func (s *store[V]) Set(id string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.m[id]; ok {
		// Entries are immutable: drop the old node, link a new one.
		s.evictNode(old, EvictReplace)
	}
	n := &node[V]{id: id, val: v, ts: s.now()}
	s.m[id] = n
	s.insertOrdered(n)
	s.enforceLimitsLocked()
}

// Len returns the number of resident entries.
func (s *store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.len
}

// Keys returns resident ids from oldest to newest.
func (s *store[V]) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, s.len)
	for n := s.tail; n != nil; n = n.prev {
		keys = append(keys, n.id)
	}
	return keys
}

// -------------------- internals (mu held) --------------------

func (s *store[V]) now() int64 {
	if s.opt.Clock != nil {
		return s.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// insertOrdered links n so the list stays sorted by timestamp, newest at head.
// With a monotonic clock this stops at the head in O(1). A node never goes
// ahead of an older one with a larger timestamp, and it goes ahead of nodes
// with an equal timestamp, so ties evict in insertion order.
func (s *store[V]) insertOrdered(n *node[V]) {
	at := s.head
	for at != nil && at.ts > n.ts {
		at = at.next
	}
	// n goes right before `at` (or at the tail if at == nil).
	if at == nil {
		n.prev = s.tail
		n.next = nil
		if s.tail != nil {
			s.tail.next = n
		}
		s.tail = n
		if s.head == nil {
			s.head = n
		}
	} else {
		n.next = at
		n.prev = at.prev
		if at.prev != nil {
			at.prev.next = n
		} else {
			s.head = n
		}
		at.prev = n
	}
	s.len++
}

// removeNode unlinks n from the list in O(1).
func (s *store[V]) removeNode(n *node[V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if s.head == n {
		s.head = n.next
	}
	if s.tail == n {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
	s.len--
}

// evictNode removes the node, updates metrics and calls OnEvict.
func (s *store[V]) evictNode(n *node[V], reason EvictReason) {
	s.removeNode(n)
	delete(s.m, n.id)
	s.opt.Metrics.Evict(reason)
	if cb := s.opt.OnEvict; cb != nil {
		cb(n.id, n.val, reason)
	}
}

// enforceLimitsLocked evicts the oldest entries until len <= cap.
func (s *store[V]) enforceLimitsLocked() {
	for s.len > s.cap {
		if s.tail == nil {
			break
		}
		s.evictNode(s.tail, EvictCapacity)
	}
	s.opt.Metrics.Size(s.len)
}

func unixNano(ns int64) time.Time { return time.Unix(0, ns) }
