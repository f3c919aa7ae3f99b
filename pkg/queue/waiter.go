package queue

import (
	"container/list"

	"github.com/huynhanx03/xk6-queue/pkg/envelope"
)

type waiterState uint8

const (
	statePending waiterState = iota
	stateFulfilled
	stateTimedOut
	stateCancelled
)

func (s waiterState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateFulfilled:
		return "fulfilled"
	case stateTimedOut:
		return "timed_out"
	case stateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// waiter is one blocked Pop. state and elem are guarded by the owning Queue's mutex.
// slot has room for exactly one item, so fulfil never blocks while the lock is held.
type waiter struct {
	state waiterState
	slot  chan envelope.Value
	elem  *list.Element
}

func newWaiter() *waiter {
	return &waiter{slot: make(chan envelope.Value, 1)}
}

func (w *waiter) fulfil(v envelope.Value) {
	w.transition(stateFulfilled)
	w.slot <- v
}

func (w *waiter) transition(to waiterState) {
	if w.state != statePending {
		panic("queue: waiter bookkeeping corrupted: " + w.state.String() + " -> " + to.String())
	}
	w.state = to
}

// waitSet keeps pending waiters in registration order.
type waitSet struct {
	l list.List
}

func (s *waitSet) push(w *waiter) {
	w.elem = s.l.PushBack(w)
}

// popFront removes and returns the oldest waiter, or nil.
func (s *waitSet) popFront() *waiter {
	front := s.l.Front()
	if front == nil {
		return nil
	}
	w := s.l.Remove(front).(*waiter)
	w.elem = nil
	return w
}

func (s *waitSet) remove(w *waiter) {
	if w.elem == nil {
		panic("queue: waiter bookkeeping corrupted: pending waiter not in wait set")
	}
	s.l.Remove(w.elem)
	w.elem = nil
}

func (s *waitSet) len() int { return s.l.Len() }
