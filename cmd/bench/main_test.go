package main

import (
	"math/rand"
	"testing"
)

// Non-positive -keys values fall back to a single id instead of wrapping.
func TestIDSpace_Clamps(t *testing.T) {
	t.Parallel()

	for _, keys := range []int{-5, 0, 1} {
		n, imax := idSpace(keys)
		if n != 1 || imax != 0 {
			t.Fatalf("keys=%d: want (1, 0), got (%d, %d)", keys, n, imax)
		}
		z := rand.NewZipf(rand.New(rand.NewSource(1)), 1.1, 1, imax)
		for i := 0; i < 100; i++ {
			if v := z.Uint64(); v != 0 {
				t.Fatalf("keys=%d: draw %d outside the id space", keys, v)
			}
		}
	}

	if n, imax := idSpace(1000); n != 1000 || imax != 999 {
		t.Fatalf("keys=1000: want (1000, 999), got (%d, %d)", n, imax)
	}
}
