package cache

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"testing"
)

// benchmarkMix exercises a read/write mix against a warm cache sized like
// the client's playlist cache. Most writes overflow and evict.
func benchmarkMix(b *testing.B, capacity, readsPct int) {
	c := New[string](Options[string]{Capacity: capacity})

	for i := 0; i < capacity; i++ {
		c.Set("k:"+strconv.Itoa(i), "v")
	}

	b.ReportAllocs()
	b.ResetTimer()

	var seed int64 = 1
	keyMask := (1 << 10) - 1

	b.RunParallel(func(pb *testing.PB) {
		r := rand.New(rand.NewSource(atomic.AddInt64(&seed, 1)))
		i := 0
		for pb.Next() {
			k := "k:" + strconv.Itoa(i&keyMask)
			if r.Intn(100) < readsPct {
				c.Get(k)
			} else {
				c.Set(k, "v")
			}
			i++
		}
	})
}

func BenchmarkCache_Channels_90r10w(b *testing.B)  { benchmarkMix(b, 40, 90) }
func BenchmarkCache_Playlists_90r10w(b *testing.B) { benchmarkMix(b, 200, 90) }
func BenchmarkCache_Playlists_50r50w(b *testing.B) { benchmarkMix(b, 200, 50) }
