// Package hash provides the string hasher used to pick registry shards.
package hash

import (
	"github.com/cespare/xxhash/v2"
)

// String hashes a string key. It matches the hasher signature expected by shardedmap.
func String(key string) uint64 {
	return xxhash.Sum64String(key)
}
