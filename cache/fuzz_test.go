package cache

import (
	"strings"
	"testing"
)

// Fuzz Set/Get/Entry semantics under arbitrary string inputs.
// Guards against panics and ensures core invariants hold.
func FuzzCache_SetGet(f *testing.F) {
	// Seed corpus: empty, ASCII, Unicode, long strings.
	f.Add("", "")
	f.Add("UC123", "channel")
	f.Add("PL456", "playlist")
	f.Add("αβγ", "δ")
	f.Add("emoji🙂", "🙂🙂")
	f.Add("long", strings.Repeat("x", 1024))

	f.Fuzz(func(t *testing.T, k, v string) {
		const limit = 1 << 12
		if len(k) > limit {
			k = k[:limit]
		}
		if len(v) > limit {
			v = v[:limit]
		}

		c := New[string](Options[string]{Capacity: 2})

		c.Set(k, v)
		got, ok := c.Get(k)
		if !ok || got != v {
			t.Fatalf("after Set/Get: want %q, got %q ok=%v", v, got, ok)
		}

		// Overwriting keeps a single resident entry.
		c.Set(k, v+"!")
		if c.Len() != 1 {
			t.Fatalf("Len after overwrite want 1, got %d", c.Len())
		}

		// Two more distinct ids push k out.
		c.Set(k+"#1", v)
		c.Set(k+"#2", v)
		if _, ok := c.Get(k); ok {
			t.Fatalf("%q must be evicted as the oldest entry", k)
		}
		if c.Len() != 2 {
			t.Fatalf("Len want 2, got %d", c.Len())
		}
	})
}
