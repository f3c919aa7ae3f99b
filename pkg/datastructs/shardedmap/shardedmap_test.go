package shardedmap_test

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/huynhanx03/xk6-queue/pkg/datastructs/shardedmap"
	"github.com/huynhanx03/xk6-queue/pkg/hash"
)

// intHash is a hash function for testing with int keys.
func intHash(key int) uint64 {
	return uint64(key)
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		shards int
	}{
		{"valid_16", 16},
		{"zero_defaults_to_256", 0},
		{"negative_defaults_to_256", -1},
		{"rounds_up_17_to_32", 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := shardedmap.New[string, int](tt.shards, hash.String)
			if m == nil {
				t.Fatal("New returned nil")
			}
			m.GetOrCreate("key", func() int { return 42 })
			val, ok := m.Get("key")
			if !ok || val != 42 {
				t.Errorf("basic GetOrCreate/Get failed: got %v, %v", val, ok)
			}
		})
	}
}

// =============================================================================
// Get / GetOrCreate Tests
// =============================================================================

func TestGet(t *testing.T) {
	m := shardedmap.New[string, int](16, hash.String)

	if _, ok := m.Get("missing"); ok {
		t.Error("Get on empty map should return false")
	}
	if m.Len() != 0 {
		t.Error("Get must not create entries")
	}
}

func TestGetOrCreate(t *testing.T) {
	tests := []struct {
		name       string
		existing   map[string]int
		key        string
		create     int
		wantValue  int
		wantLoaded bool
	}{
		{
			name:       "creates_missing_key",
			existing:   nil,
			key:        "a",
			create:     1,
			wantValue:  1,
			wantLoaded: false,
		},
		{
			name:       "returns_existing_value",
			existing:   map[string]int{"a": 7},
			key:        "a",
			create:     1,
			wantValue:  7,
			wantLoaded: true,
		},
		{
			name:       "empty_string_key",
			existing:   nil,
			key:        "",
			create:     9,
			wantValue:  9,
			wantLoaded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := shardedmap.New[string, int](16, hash.String)
			for k, v := range tt.existing {
				m.GetOrCreate(k, func() int { return v })
			}

			val, loaded := m.GetOrCreate(tt.key, func() int { return tt.create })
			if val != tt.wantValue || loaded != tt.wantLoaded {
				t.Errorf("GetOrCreate() = (%d, %v), want (%d, %v)", val, loaded, tt.wantValue, tt.wantLoaded)
			}
		})
	}
}

func TestGetOrCreate_ConcurrentCreatesOnce(t *testing.T) {
	m := shardedmap.New[string, *int](8, hash.String)

	var calls atomic.Int32
	var wg sync.WaitGroup
	results := make([]*int, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.GetOrCreate("shared", func() *int {
				calls.Add(1)
				v := i
				return &v
			})
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("create called %d times, want 1", calls.Load())
	}
	for i, p := range results {
		if p != results[0] {
			t.Fatalf("caller %d observed a different value", i)
		}
	}
}

// =============================================================================
// Len / Keys / Do Tests
// =============================================================================

func TestKeys(t *testing.T) {
	m := shardedmap.New[string, int](4, hash.String)
	for i, k := range []string{"c", "a", "b"} {
		v := i
		m.GetOrCreate(k, func() int { return v })
	}

	keys := m.Keys()
	sort.Strings(keys)
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() len = %d, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestDo_CountMatchesLen(t *testing.T) {
	m := shardedmap.New[int, string](16, intHash)
	for i := 0; i < 100; i++ {
		m.GetOrCreate(i, func() string { return "value" })
	}

	count := 0
	m.Do(func(k int, v string) {
		count++
	})

	if count != m.Len() || count != 100 {
		t.Errorf("Do visited %d items, Len() = %d", count, m.Len())
	}
}

// =============================================================================
// Panic Tests
// =============================================================================

func TestPanic_NilHashFunction(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic when using nil hash function")
		}
	}()

	m := shardedmap.New[string, int](16, nil)
	m.Get("key")
}
