// Package cache provides a small, generic, bounded in-memory store used to
// remember entities (channels, playlists) fetched from the catalog service.
//
// Design
//
//   - Ordering: entries are kept in a doubly linked list sorted by insertion
//     timestamp (head newest, tail oldest) and indexed by a map. Reads do not
//     reorder; this is insertion-time eviction, not access-time LRU.
//
//   - Capacity: after every Set the store evicts from the tail until
//     Len() <= Capacity. The tail is always the entry with the smallest
//     timestamp. Ties keep insertion order, so the first inserted goes first.
//
//   - Immutability: a Set for an existing id replaces the entry wholesale
//     (new node, new timestamp). The replaced entry is reported with
//     EvictReplace.
//
//   - No TTL: capacity is the only eviction trigger.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     NoopMetrics is used by default; metrics/prom exports them to Prometheus.
//
// Basic usage
//
//	c := cache.New[*model.Channel](cache.Options[*model.Channel]{Capacity: 40})
//	c.Set(ch.ID, ch)
//	if v, ok := c.Get(ch.ID); ok {
//	    _ = v
//	}
//
// Thread-safety & complexity
//
// All methods are safe for concurrent use. Set is O(1) with a monotonic
// clock (the new node lands at the head) and evicts in O(1) per entry.
package cache
