package queue

import "github.com/pkg/errors"

var (
	// ErrInvalidName is returned for empty or malformed queue names. No queue is created.
	ErrInvalidName = errors.New("queue: invalid name")

	// ErrQueueFull is returned by Push on a bounded queue that has reached capacity.
	ErrQueueFull = errors.New("queue: full")

	// ErrTimedOut is returned by Pop when the deadline passes before an item arrives.
	ErrTimedOut = errors.New("queue: pop timed out")

	// ErrCancelled is returned by Pop when its context ends before an item arrives.
	ErrCancelled = errors.New("queue: pop cancelled")
)

// IsNothingAvailable reports whether err means the pop simply found nothing.
func IsNothingAvailable(err error) bool {
	return errors.Is(err, ErrTimedOut) || errors.Is(err, ErrCancelled)
}
