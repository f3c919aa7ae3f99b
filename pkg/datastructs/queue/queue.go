package queue

// Queue is a generic interface for FIFO queues.
type Queue[T any] interface {
	// Enqueue adds an item to the tail of the queue.
	// Returns true if successful, false if the queue is full.
	Enqueue(item T) bool

	// Dequeue removes and returns the head item.
	// Returns (item, true) if successful, (zero, false) if the queue is empty.
	Dequeue() (T, bool)

	// Peek returns the head item without removing it.
	Peek() (T, bool)

	// Len returns the number of stored items.
	Len() int

	// Capacity returns the hard limit of the queue, 0 when unbounded.
	Capacity() uint64
}
