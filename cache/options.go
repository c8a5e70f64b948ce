package cache

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity: removed to bring the store back within Capacity.
	EvictCapacity EvictReason = iota
	// EvictReplace: superseded by a newer Set for the same id.
	EvictReplace
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache. Zero values are safe except Capacity;
// defaults are applied in New():
//   - nil Metrics => NoopMetrics
//   - nil Clock   => time.Now()
type Options[V any] struct {
	// Capacity is the maximum number of resident entries. Must be > 0.
	Capacity int

	// OnEvict is called under the store lock for every entry removed by
	// capacity pressure or replaced by a newer Set; keep callbacks lightweight.
	OnEvict func(id string, v V, reason EvictReason)

	Metrics Metrics

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock
}
