package cache

// node is an intrusive doubly linked list element owned by the store.
// The list is ordered by insertion timestamp: head is the newest entry,
// tail the oldest (next eviction candidate).
type node[V any] struct {
	id  string
	val V

	prev *node[V]
	next *node[V]

	// Insertion time in UnixNano. A replaced entry gets a new node.
	ts int64
}

// entry converts the node into the public immutable snapshot.
func (n *node[V]) entry() Entry[V] {
	return Entry[V]{Item: n.val, Timestamp: unixNano(n.ts)}
}
