package hash

import (
	"testing"

	"github.com/cespare/xxhash/v2"
)

func TestString_MatchesXXHash(t *testing.T) {
	for _, key := range []string{"", "logistic-orders", "payment-orders"} {
		if got, want := String(key), xxhash.Sum64String(key); got != want {
			t.Errorf("String(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestString_SpreadsAcrossShards(t *testing.T) {
	const mask = 15
	seen := make(map[uint64]bool)
	for _, key := range []string{"q-0", "q-1", "q-2", "q-3", "q-4", "q-5", "q-6", "q-7",
		"q-8", "q-9", "q-10", "q-11", "q-12", "q-13", "q-14", "q-15"} {
		seen[String(key)&mask] = true
	}
	if len(seen) < 4 {
		t.Errorf("16 keys hit only %d of 16 shards", len(seen))
	}
}
