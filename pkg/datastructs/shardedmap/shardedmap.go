package shardedmap

import (
	"sync"

	"github.com/huynhanx03/xk6-queue/pkg/utils"
)

// Map is a thread-safe map that uses sharding to minimize lock contention.
// Keys that land on different shards never contend for the same lock.
type Map[K comparable, V any] struct {
	shards []*lockedShard[K, V]
	mask   uint64
	hasher func(K) uint64
}

type lockedShard[K comparable, V any] struct {
	sync.RWMutex
	data map[K]V

	// Keeps neighbouring shards off the same cache line.
	pad [64]byte
}

// New creates a new Sharded Map.
// shards: Number of shards to use. Will be rounded up to the nearest power of 2.
// hashFn: Function to hash the key K into a uint64.
func New[K comparable, V any](shards int, hashFn func(K) uint64) *Map[K, V] {
	if shards <= 0 {
		shards = 256
	}
	numShards := utils.CeilToPowerOfTwo(shards)
	m := &Map[K, V]{
		shards: make([]*lockedShard[K, V], numShards),
		mask:   uint64(numShards - 1),
		hasher: hashFn,
	}

	for i := range m.shards {
		m.shards[i] = &lockedShard[K, V]{
			data: make(map[K]V),
		}
	}
	return m
}

func (m *Map[K, V]) shard(key K) *lockedShard[K, V] {
	return m.shards[m.hasher(key)&m.mask]
}

// Get retrieves a value from the map.
func (m *Map[K, V]) Get(key K) (V, bool) {
	shard := m.shard(key)

	shard.RLock()
	val, ok := shard.data[key]
	shard.RUnlock()
	return val, ok
}

// GetOrCreate returns the value stored under key, calling create to build and
// store one if absent. create runs at most once per key and under the shard
// lock, so concurrent callers for the same key always observe the same value.
// loaded reports whether the value already existed.
func (m *Map[K, V]) GetOrCreate(key K, create func() V) (val V, loaded bool) {
	shard := m.shard(key)

	shard.RLock()
	val, ok := shard.data[key]
	shard.RUnlock()
	if ok {
		return val, true
	}

	shard.Lock()
	defer shard.Unlock()
	if val, ok = shard.data[key]; ok {
		return val, true
	}
	val = create()
	shard.data[key] = val
	return val, false
}

// Len returns the total number of items in the map.
// It locks shards one at a time, so it is not atomic across the whole map.
func (m *Map[K, V]) Len() int {
	total := 0
	for _, shard := range m.shards {
		shard.RLock()
		total += len(shard.data)
		shard.RUnlock()
	}
	return total
}

// Keys returns every key currently stored. Order is unspecified.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.Len())
	m.Do(func(k K, _ V) {
		keys = append(keys, k)
	})
	return keys
}

// Do iterates over all items in the map and executes fn.
// It locks one shard at a time; fn must not call back into the map.
func (m *Map[K, V]) Do(fn func(K, V)) {
	for _, shard := range m.shards {
		shard.RLock()
		for k, v := range shard.data {
			fn(k, v)
		}
		shard.RUnlock()
	}
}
