package queue

import (
	"github.com/huynhanx03/xk6-queue/pkg/utils"
)

var _ Queue[int] = (*Ring[int])(nil)

const (
	defaultRingSize = 16

	// shrinkFactor bounds how much larger than its initial size a cleared ring may stay.
	shrinkFactor = 4
)

// Ring is a growable circular FIFO buffer.
// It is NOT thread-safe; callers serialize access.
type Ring[T any] struct {
	buf     []T
	mask    int // len(buf)-1, len(buf) is always a power of two
	head    int // index of the oldest item
	count   int // number of stored items
	initial int // allocation size restored by Clear
	limit   int // hard item limit, 0 means unbounded
}

// NewRing creates a ring with room for initial items before growing.
// limit caps the number of stored items; 0 or less means unbounded.
func NewRing[T any](initial, limit int) *Ring[T] {
	if initial <= 0 {
		initial = defaultRingSize
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 0 && initial > limit {
		initial = limit
	}
	size := utils.CeilToPowerOfTwo(initial)

	return &Ring[T]{
		buf:     make([]T, size),
		mask:    size - 1,
		initial: size,
		limit:   limit,
	}
}

// Enqueue appends item at the tail. Returns false if the ring is at its limit.
func (r *Ring[T]) Enqueue(item T) bool {
	if r.limit > 0 && r.count >= r.limit {
		return false
	}
	if r.count == len(r.buf) {
		r.resize(len(r.buf) * 2)
	}

	r.buf[(r.head+r.count)&r.mask] = item
	r.count++
	return true
}

// Dequeue removes and returns the head item. Returns false if the ring is empty.
func (r *Ring[T]) Dequeue() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}

	item := r.buf[r.head]
	r.buf[r.head] = zero
	r.head = (r.head + 1) & r.mask
	r.count--
	if r.count == 0 {
		r.head = 0
	}
	return item, true
}

// Peek returns the head item without removing it.
func (r *Ring[T]) Peek() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	return r.buf[r.head], true
}

// Len returns the number of stored items.
func (r *Ring[T]) Len() int { return r.count }

// IsEmpty reports whether the ring holds no items.
func (r *Ring[T]) IsEmpty() bool { return r.count == 0 }

// IsFull reports whether a bounded ring has reached its limit.
func (r *Ring[T]) IsFull() bool { return r.limit > 0 && r.count >= r.limit }

// Capacity returns the hard limit, 0 when unbounded.
func (r *Ring[T]) Capacity() uint64 { return uint64(r.limit) }

// AppendTo appends the stored items, oldest first, to dst and returns the extended slice.
func (r *Ring[T]) AppendTo(dst []T) []T {
	if r.count == 0 {
		return dst
	}

	end := r.head + r.count
	if end <= len(r.buf) {
		return append(dst, r.buf[r.head:end]...)
	}
	dst = append(dst, r.buf[r.head:]...)
	return append(dst, r.buf[:end&r.mask]...)
}

// Clear drops all stored items and returns how many were removed.
// Backing storage that grew well past the initial size is released.
func (r *Ring[T]) Clear() int {
	n := r.count
	if len(r.buf) > r.initial*shrinkFactor {
		r.buf = make([]T, r.initial)
		r.mask = r.initial - 1
	} else {
		clear(r.buf)
	}
	r.head = 0
	r.count = 0
	return n
}

// resize moves the stored items, in order, into a buffer of the given power-of-two size.
func (r *Ring[T]) resize(size int) {
	buf := r.AppendTo(make([]T, 0, size))
	r.buf = buf[:size]
	r.mask = size - 1
	r.head = 0
}
