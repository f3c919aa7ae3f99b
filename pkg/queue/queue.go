// Package queue implements named FIFO queues of envelope values with blocking
// pops and a registry that creates queues on first use.
//
// Every queue guards its items and its waiters with one mutex. A push that
// finds pending waiters hands the item straight to the oldest one, so a queue
// never holds items while waiters are pending.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	dsqueue "github.com/huynhanx03/xk6-queue/pkg/datastructs/queue"
	"github.com/huynhanx03/xk6-queue/pkg/envelope"
	"github.com/huynhanx03/xk6-queue/pkg/timer"
)

// Queue is a thread-safe FIFO of envelope values.
type Queue struct {
	name   string
	logger *zap.Logger
	timer  timer.Timer

	mu      sync.Mutex
	items   *dsqueue.Ring[envelope.Value]
	waiters waitSet
	stats   counters
}

type counters struct {
	pushed       uint64
	popped       uint64
	timedOut     uint64
	cancelled    uint64
	cleared      uint64
	lastActivity time.Time
}

// Stats is a point-in-time view of one queue.
type Stats struct {
	Name         string    `json:"name"`
	Size         int       `json:"size"`
	Waiters      int       `json:"waiters"`
	Capacity     int       `json:"capacity"`
	Pushed       uint64    `json:"pushed"`
	Popped       uint64    `json:"popped"`
	TimedOut     uint64    `json:"timedOut"`
	Cancelled    uint64    `json:"cancelled"`
	Cleared      uint64    `json:"cleared"`
	LastActivity time.Time `json:"lastActivity"`
}

func newQueue(name string, o options) *Queue {
	return &Queue{
		name:   name,
		logger: o.logger.With(zap.String("queue", name)),
		timer:  o.timer,
		items:  dsqueue.NewRing[envelope.Value](o.initialSize, o.capacity),
	}
}

// Name returns the queue name.
func (q *Queue) Name() string { return q.name }

// Push appends v at the tail, or hands it to the oldest pending waiter.
// A bounded queue with no waiters at capacity returns ErrQueueFull.
func (q *Queue) Push(v envelope.Value) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if w := q.waiters.popFront(); w != nil {
		w.fulfil(v)
		q.stats.pushed++
		q.stats.popped++
		q.touch()
		return nil
	}

	if !q.items.Enqueue(v) {
		return errors.Wrapf(ErrQueueFull, "queue %q holds %d items", q.name, q.items.Len())
	}
	q.stats.pushed++
	q.touch()
	return nil
}

// TryPop removes and returns the head item. ok is false when the queue is empty.
func (q *Queue) TryPop() (v envelope.Value, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dequeueLocked()
}

func (q *Queue) dequeueLocked() (envelope.Value, bool) {
	v, ok := q.items.Dequeue()
	if ok {
		q.stats.popped++
		q.touch()
	}
	return v, ok
}

// Pop removes and returns the head item, waiting for one if the queue is empty.
//
// A zero deadline waits until ctx ends. Pop returns ErrTimedOut once the
// deadline passes and ErrCancelled once ctx is done. A deadline already in the
// past still takes an available item.
func (q *Queue) Pop(ctx context.Context, deadline time.Time) (envelope.Value, error) {
	q.mu.Lock()
	if v, ok := q.dequeueLocked(); ok {
		q.mu.Unlock()
		return v, nil
	}

	var wait time.Duration
	if !deadline.IsZero() {
		wait = time.Until(deadline)
		if wait <= 0 {
			q.stats.timedOut++
			q.mu.Unlock()
			return envelope.Value{}, ErrTimedOut
		}
	}
	if err := ctx.Err(); err != nil {
		q.stats.cancelled++
		q.mu.Unlock()
		return envelope.Value{}, errors.Wrap(ErrCancelled, err.Error())
	}

	w := newWaiter()
	q.waiters.push(w)
	q.mu.Unlock()

	var expired <-chan time.Time
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		expired = t.C
	}

	select {
	case v := <-w.slot:
		return v, nil
	case <-expired:
		return q.abandon(w, stateTimedOut, nil)
	case <-ctx.Done():
		return q.abandon(w, stateCancelled, ctx.Err())
	}
}

// abandon withdraws a waiter whose deadline or context fired. If a push
// already fulfilled it, the committed item is returned instead.
func (q *Queue) abandon(w *waiter, to waiterState, cause error) (envelope.Value, error) {
	q.mu.Lock()
	if w.state != statePending {
		q.mu.Unlock()
		return <-w.slot, nil
	}
	q.waiters.remove(w)
	w.transition(to)
	if to == stateTimedOut {
		q.stats.timedOut++
	} else {
		q.stats.cancelled++
	}
	q.mu.Unlock()

	if to == stateTimedOut {
		return envelope.Value{}, ErrTimedOut
	}
	return envelope.Value{}, errors.Wrap(ErrCancelled, cause.Error())
}

// Peek returns the head item without removing it.
func (q *Queue) Peek() (envelope.Value, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Peek()
}

// Size returns the number of stored items.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Waiting returns the number of pending waiters.
func (q *Queue) Waiting() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waiters.len()
}

// Snapshot returns the stored items, oldest first. The queue is not modified.
func (q *Queue) Snapshot() []envelope.Value {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.AppendTo(make([]envelope.Value, 0, q.items.Len()))
}

// Clear removes every stored item and returns how many were removed.
// Items already handed to waiters are unaffected.
func (q *Queue) Clear() int {
	q.mu.Lock()
	n := q.items.Clear()
	q.stats.cleared += uint64(n)
	q.touch()
	q.mu.Unlock()

	if n > 0 {
		q.logger.Info("queue cleared", zap.Int("removed", n))
	}
	return n
}

// Stats returns the queue's counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Name:         q.name,
		Size:         q.items.Len(),
		Waiters:      q.waiters.len(),
		Capacity:     int(q.items.Capacity()),
		Pushed:       q.stats.pushed,
		Popped:       q.stats.popped,
		TimedOut:     q.stats.timedOut,
		Cancelled:    q.stats.cancelled,
		Cleared:      q.stats.cleared,
		LastActivity: q.stats.lastActivity,
	}
}

func (q *Queue) touch() {
	q.stats.lastActivity = q.timer.Now()
}
