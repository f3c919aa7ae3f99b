package queue

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/huynhanx03/xk6-queue/pkg/envelope"
)

// =============================================================================
// Name Validation Tests
// =============================================================================

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		maxLen  int
		wantErr bool
	}{
		{"simple", "logistic-orders", 0, false},
		{"case_sensitive", "Orders", 0, false},
		{"unicode", "đơn-hàng", 0, false},
		{"spaces", "pending orders", 0, false},
		{"empty", "", 0, true},
		{"too_long", strings.Repeat("a", 11), 10, true},
		{"at_limit", strings.Repeat("a", 10), 10, false},
		{"newline", "a\nb", 0, true},
		{"nul", "a\x00", 0, true},
		{"invalid_utf8", "\xff\xfe", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input, tt.maxLen)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidName) {
				t.Errorf("error %v does not match ErrInvalidName", err)
			}
		})
	}
}

// =============================================================================
// Registry Tests
// =============================================================================

func TestRegistry_StartsEmpty(t *testing.T) {
	r := NewRegistry()
	if names := r.List(); len(names) != 0 {
		t.Errorf("List() = %v, want empty", names)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get found a queue in an empty registry")
	}
	if len(r.List()) != 0 {
		t.Error("Get materialized a queue")
	}
}

func TestRegistry_InvalidNameCreatesNothing(t *testing.T) {
	r := NewRegistry()
	if _, err := r.GetOrCreate(""); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("GetOrCreate(\"\") error = %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("invalid name created a queue, Len() = %d", r.Len())
	}
}

func TestRegistry_MaxNameLength(t *testing.T) {
	r := NewRegistry(WithMaxNameLength(4))
	if _, err := r.GetOrCreate("abcd"); err != nil {
		t.Errorf("GetOrCreate at limit: %v", err)
	}
	if _, err := r.GetOrCreate("abcde"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("GetOrCreate past limit error = %v", err)
	}
}

func TestRegistry_GetOrCreateIdempotent(t *testing.T) {
	r := NewRegistry()
	a, _ := r.GetOrCreate("orders")
	b, _ := r.GetOrCreate("orders")
	if a != b {
		t.Error("same name produced two queues")
	}
	got, ok := r.Get("orders")
	if !ok || got != a {
		t.Error("Get did not return the created queue")
	}
}

func TestRegistry_ConcurrentFirstCreation(t *testing.T) {
	r := NewRegistry()

	const callers = 100
	queues := make([]*Queue, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			q, err := r.GetOrCreate("logistic-orders")
			if err != nil {
				t.Errorf("GetOrCreate: %v", err)
				return
			}
			_ = q.Push(envelope.Int(int64(i)))
			queues[i] = q
		}(i)
	}
	close(start)
	wg.Wait()

	for i, q := range queues {
		if q != queues[0] {
			t.Fatalf("caller %d got a distinct queue instance", i)
		}
	}

	names := r.List()
	if len(names) != 1 || names[0] != "logistic-orders" {
		t.Errorf("List() = %v, want [logistic-orders]", names)
	}
	if queues[0].Size() != callers {
		t.Errorf("Size() = %d, want %d", queues[0].Size(), callers)
	}
}

func TestRegistry_ListSortedAndKeepsCleared(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"validated-orders", "completed-orders", "pending-orders"} {
		q, _ := r.GetOrCreate(name)
		_ = q.Push(envelope.String(name))
	}

	q, _ := r.Get("pending-orders")
	q.Clear()

	want := []string{"completed-orders", "pending-orders", "validated-orders"}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_Isolation(t *testing.T) {
	r := NewRegistry(WithShards(1))
	a, _ := r.GetOrCreate("A")
	b, _ := r.GetOrCreate("B")

	done := make(chan error, 1)
	go func() {
		_, err := b.Pop(context.Background(), time.Now().Add(100*time.Millisecond))
		done <- err
	}()
	waitFor(t, func() bool { return b.Waiting() == 1 })

	_ = a.Push(envelope.String("for A"))
	_ = a.Push(envelope.String("also A"))
	a.Clear()
	_ = a.Push(envelope.String("kept"))

	if err := <-done; !errors.Is(err, ErrTimedOut) {
		t.Errorf("waiter on B got %v, want ErrTimedOut", err)
	}
	if b.Size() != 0 {
		t.Errorf("B size = %d, want 0", b.Size())
	}
	if a.Size() != 1 {
		t.Errorf("A size = %d, want 1", a.Size())
	}
}

func TestRegistry_SnapshotAndStats(t *testing.T) {
	r := NewRegistry()
	x, _ := r.GetOrCreate("x")
	y, _ := r.GetOrCreate("y")
	_ = x.Push(envelope.Int(1))
	_ = x.Push(envelope.Int(2))
	_ = y.Push(envelope.String("only"))

	snap := r.Snapshot()
	if len(snap) != 2 || len(snap["x"]) != 2 || len(snap["y"]) != 1 {
		t.Fatalf("Snapshot() = %v", snap)
	}
	if x.Size() != 2 {
		t.Error("Snapshot drained the queue")
	}

	stats := r.Stats()
	if len(stats) != 2 || stats[0].Name != "x" || stats[1].Name != "y" {
		t.Fatalf("Stats() = %+v", stats)
	}
	if stats[0].Size != 2 || stats[0].Pushed != 2 {
		t.Errorf("x stats = %+v", stats[0])
	}
}
