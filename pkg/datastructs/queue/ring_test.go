package queue

import (
	"testing"
)

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewRing(t *testing.T) {
	tests := []struct {
		name         string
		initial      int
		limit        int
		wantCapacity uint64
		wantBuf      int
	}{
		{"unbounded_default", 0, 0, 0, defaultRingSize},
		{"unbounded_rounds_up", 100, 0, 0, 128},
		{"bounded_exact", 8, 8, 8, 8},
		{"initial_clamped_to_limit", 64, 5, 5, 8},
		{"negative_limit_is_unbounded", 4, -3, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing[int](tt.initial, tt.limit)
			if r == nil {
				t.Fatal("NewRing returned nil")
			}
			if got := r.Capacity(); got != tt.wantCapacity {
				t.Errorf("Capacity() = %d, want %d", got, tt.wantCapacity)
			}
			if got := len(r.buf); got != tt.wantBuf {
				t.Errorf("len(buf) = %d, want %d", got, tt.wantBuf)
			}
			if !r.IsEmpty() {
				t.Error("new ring should be empty")
			}
		})
	}
}

// =============================================================================
// Enqueue Tests
// =============================================================================

func TestRing_Enqueue(t *testing.T) {
	tests := []struct {
		name   string
		limit  int
		items  []int
		wantOk []bool
	}{
		{
			name:   "single_item",
			limit:  0,
			items:  []int{42},
			wantOk: []bool{true},
		},
		{
			name:   "fill_to_limit",
			limit:  4,
			items:  []int{1, 2, 3, 4},
			wantOk: []bool{true, true, true, true},
		},
		{
			name:   "exceed_limit",
			limit:  4,
			items:  []int{1, 2, 3, 4, 5},
			wantOk: []bool{true, true, true, true, false},
		},
		{
			name:   "unbounded_grows",
			limit:  0,
			items:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
			wantOk: []bool{true, true, true, true, true, true, true, true, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing[int](2, tt.limit)
			for i, item := range tt.items {
				if got := r.Enqueue(item); got != tt.wantOk[i] {
					t.Errorf("Enqueue(%d) = %v, want %v", item, got, tt.wantOk[i])
				}
			}
		})
	}
}

func TestRing_GrowPreservesOrderAcrossWrap(t *testing.T) {
	r := NewRing[int](4, 0)

	// Move head off zero so the next grow has to unwrap.
	for i := 0; i < 3; i++ {
		r.Enqueue(i)
	}
	r.Dequeue()
	r.Dequeue()
	for i := 3; i < 10; i++ {
		r.Enqueue(i)
	}

	for want := 2; want < 10; want++ {
		got, ok := r.Dequeue()
		if !ok || got != want {
			t.Fatalf("Dequeue() = (%d, %v), want (%d, true)", got, ok, want)
		}
	}
}

// =============================================================================
// Dequeue / Peek Tests
// =============================================================================

func TestRing_Dequeue(t *testing.T) {
	t.Run("empty_ring", func(t *testing.T) {
		r := NewRing[int](4, 0)
		v, ok := r.Dequeue()
		if ok {
			t.Error("Dequeue on empty ring should return false")
		}
		if v != 0 {
			t.Errorf("Dequeue on empty should return zero value, got %d", v)
		}
	})

	t.Run("fifo_order", func(t *testing.T) {
		r := NewRing[string](4, 0)
		for _, s := range []string{"a", "b", "c"} {
			r.Enqueue(s)
		}
		for _, want := range []string{"a", "b", "c"} {
			got, ok := r.Dequeue()
			if !ok || got != want {
				t.Errorf("Dequeue() = (%q, %v), want (%q, true)", got, ok, want)
			}
		}
	})

	t.Run("releases_slot_reference", func(t *testing.T) {
		r := NewRing[*int](4, 0)
		v := 7
		r.Enqueue(&v)
		r.Dequeue()
		if r.buf[0] != nil {
			t.Error("dequeued slot should be zeroed")
		}
	})
}

func TestRing_Peek(t *testing.T) {
	r := NewRing[int](4, 0)
	if _, ok := r.Peek(); ok {
		t.Error("Peek on empty ring should return false")
	}

	r.Enqueue(1)
	r.Enqueue(2)
	v, ok := r.Peek()
	if !ok || v != 1 {
		t.Errorf("Peek() = (%d, %v), want (1, true)", v, ok)
	}
	if r.Len() != 2 {
		t.Errorf("Peek should not remove, Len() = %d", r.Len())
	}
}

// =============================================================================
// AppendTo / Clear Tests
// =============================================================================

func TestRing_AppendTo(t *testing.T) {
	r := NewRing[int](4, 0)
	for i := 1; i <= 4; i++ {
		r.Enqueue(i)
	}
	r.Dequeue()
	r.Enqueue(5) // wraps to index 0

	got := r.AppendTo(nil)
	want := []int{2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("AppendTo len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AppendTo[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if r.Len() != 4 {
		t.Errorf("AppendTo should not mutate, Len() = %d", r.Len())
	}
}

func TestRing_Clear(t *testing.T) {
	t.Run("returns_removed_count", func(t *testing.T) {
		r := NewRing[int](8, 0)
		for i := 0; i < 5; i++ {
			r.Enqueue(i)
		}
		if n := r.Clear(); n != 5 {
			t.Errorf("Clear() = %d, want 5", n)
		}
		if !r.IsEmpty() {
			t.Error("ring should be empty after Clear")
		}
	})

	t.Run("empty_ring", func(t *testing.T) {
		r := NewRing[int](8, 0)
		if n := r.Clear(); n != 0 {
			t.Errorf("Clear() on empty = %d, want 0", n)
		}
	})

	t.Run("shrinks_after_growth", func(t *testing.T) {
		r := NewRing[int](4, 0)
		for i := 0; i < 100; i++ {
			r.Enqueue(i)
		}
		r.Clear()
		if len(r.buf) != 4 {
			t.Errorf("len(buf) after Clear = %d, want 4", len(r.buf))
		}
		r.Enqueue(9)
		if v, ok := r.Dequeue(); !ok || v != 9 {
			t.Errorf("Dequeue after Clear = (%d, %v), want (9, true)", v, ok)
		}
	})

	t.Run("bounded_accepts_after_clear", func(t *testing.T) {
		r := NewRing[int](2, 2)
		r.Enqueue(1)
		r.Enqueue(2)
		if !r.IsFull() {
			t.Error("ring should be full")
		}
		r.Clear()
		if !r.Enqueue(3) {
			t.Error("Enqueue after Clear should succeed")
		}
	})
}

// =============================================================================
// Conservation
// =============================================================================

func TestRing_LenTracksOperations(t *testing.T) {
	r := NewRing[int](2, 0)
	pushes, pops := 0, 0

	for round := 0; round < 50; round++ {
		for i := 0; i < round%7; i++ {
			r.Enqueue(i)
			pushes++
		}
		for i := 0; i < round%5; i++ {
			if _, ok := r.Dequeue(); ok {
				pops++
			}
		}
		if r.Len() != pushes-pops {
			t.Fatalf("round %d: Len() = %d, want %d", round, r.Len(), pushes-pops)
		}
	}
}
