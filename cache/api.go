package cache

import "time"

// Cache is a bounded, in-memory store of entities keyed by identifier.
// All methods are safe for concurrent use by multiple goroutines.
//
// Entries are ordered by the time they were inserted. Reads never change
// that order: the entry evicted on overflow is always the one with the
// oldest insertion timestamp.
type Cache[V any] interface {
	// Get returns the item stored for id and a presence flag.
	// It has no side effect on ordering.
	Get(id string) (V, bool)

	// Entry returns the full entry (item plus insertion time) for id.
	Entry(id string) (Entry[V], bool)

	// Set stores v under id stamped with the current time, replacing any
	// previous entry for id, then evicts the oldest entries until the
	// size is back within Capacity.
	Set(id string, v V)

	// Len returns the number of resident entries.
	Len() int

	// Keys returns the resident ids, oldest first.
	Keys() []string
}

// Entry is an immutable snapshot of a cached item and its insertion time.
type Entry[V any] struct {
	Item      V
	Timestamp time.Time
}
