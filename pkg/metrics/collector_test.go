package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/huynhanx03/xk6-queue/pkg/envelope"
	"github.com/huynhanx03/xk6-queue/pkg/queue"
)

func TestNoQueuesCollected(t *testing.T) {
	collector := NewCollector(queue.NewRegistry())

	err := testutil.CollectAndCompare(collector, strings.NewReader(`
		# HELP xk6_queue_queues Number of named queues in the registry.
		# TYPE xk6_queue_queues gauge
		xk6_queue_queues 0
`), "xk6_queue_queues", "xk6_queue_items")
	if err != nil {
		t.Fatal(err)
	}
}

func TestMetricsCollected(t *testing.T) {
	reg := queue.NewRegistry()
	q, _ := reg.GetOrCreate("pending-orders")
	_ = q.Push(envelope.Int(1))
	_ = q.Push(envelope.Int(2))
	_ = q.Push(envelope.Int(3))
	q.TryPop()
	q.Clear()

	other, _ := reg.GetOrCreate("completed-orders")
	_ = other.Push(envelope.String("done"))

	collector := NewCollector(reg)
	err := testutil.CollectAndCompare(collector, strings.NewReader(`
		# HELP xk6_queue_items Number of items currently stored in the queue.
		# TYPE xk6_queue_items gauge
		xk6_queue_items{queue="completed-orders"} 1
		xk6_queue_items{queue="pending-orders"} 0
		# HELP xk6_queue_pushed_total Items accepted by the queue.
		# TYPE xk6_queue_pushed_total counter
		xk6_queue_pushed_total{queue="completed-orders"} 1
		xk6_queue_pushed_total{queue="pending-orders"} 3
		# HELP xk6_queue_cleared_total Items removed by clear.
		# TYPE xk6_queue_cleared_total counter
		xk6_queue_cleared_total{queue="completed-orders"} 0
		xk6_queue_cleared_total{queue="pending-orders"} 2
`), "xk6_queue_items", "xk6_queue_pushed_total", "xk6_queue_cleared_total")
	if err != nil {
		t.Fatal(err)
	}

	if n := testutil.CollectAndCount(collector); n != 1+7*2 {
		t.Errorf("CollectAndCount = %d, want %d", n, 1+7*2)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(queue.NewRegistry())
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected Go runtime metrics")
	}
}
