// Package adapter exposes a queue registry to script callers.
//
// "Nothing available" never surfaces as an error: an empty pop, an expired
// wait and an abandoned wait all return a nil value with a nil error. Errors
// are kept for misuse such as unsupported values, bad names or a full queue.
package adapter

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/huynhanx03/xk6-queue/pkg/envelope"
	"github.com/huynhanx03/xk6-queue/pkg/queue"
	"github.com/huynhanx03/xk6-queue/pkg/utils"
)

// DefaultQueue is the queue used by Enqueue and Dequeue.
const DefaultQueue = "default"

// Client is the caller-facing view of a Registry.
type Client struct {
	registry *queue.Registry
	logger   *zap.Logger
}

// New wraps registry. A nil logger is replaced with a no-op logger.
func New(registry *queue.Registry, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{registry: registry, logger: logger}
}

// Registry returns the underlying registry.
func (c *Client) Registry() *queue.Registry { return c.registry }

// Push encodes raw and appends it to the named queue.
func (c *Client) Push(name string, raw any) error {
	v, err := envelope.Encode(raw)
	if err != nil {
		c.logger.Warn("push rejected", zap.String("queue", name), zap.Error(err))
		return err
	}
	q, err := c.queue(name)
	if err != nil {
		return err
	}
	if err := q.Push(v); err != nil {
		c.logger.Warn("push rejected", zap.String("queue", name), zap.Error(err))
		return err
	}
	return nil
}

// Pop removes the head item without waiting. Returns nil when empty.
func (c *Client) Pop(name string) (any, error) {
	q, err := c.queue(name)
	if err != nil {
		return nil, err
	}
	if v, ok := q.TryPop(); ok {
		return envelope.Decode(v), nil
	}
	return nil, nil
}

// PopWithTimeout waits up to timeoutMs milliseconds for an item.
// 0 does not wait; a negative timeout waits until ctx ends.
// Returns nil when nothing arrives in time.
func (c *Client) PopWithTimeout(ctx context.Context, name string, timeoutMs int64) (any, error) {
	if timeoutMs == 0 {
		return c.Pop(name)
	}
	q, err := c.queue(name)
	if err != nil {
		return nil, err
	}

	v, err := q.Pop(ctx, utils.DeadlineFromMs(time.Now(), timeoutMs))
	if queue.IsNothingAvailable(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return envelope.Decode(v), nil
}

// Peek returns the head item without removing it. Returns nil when empty.
func (c *Client) Peek(name string) (any, error) {
	q, err := c.queue(name)
	if err != nil {
		return nil, err
	}
	if v, ok := q.Peek(); ok {
		return envelope.Decode(v), nil
	}
	return nil, nil
}

// Size returns the number of stored items.
func (c *Client) Size(name string) (int, error) {
	q, err := c.queue(name)
	if err != nil {
		return 0, err
	}
	return q.Size(), nil
}

// IsEmpty reports whether the named queue holds no items.
func (c *Client) IsEmpty(name string) (bool, error) {
	n, err := c.Size(name)
	return n == 0, err
}

// Clear empties the named queue and returns how many items were removed.
func (c *Client) Clear(name string) (int, error) {
	q, err := c.queue(name)
	if err != nil {
		return 0, err
	}
	return q.Clear(), nil
}

// ListQueues returns every queue name in sorted order.
func (c *Client) ListQueues() []string {
	return c.registry.List()
}

// Snapshot returns the decoded items of the named queue, oldest first.
func (c *Client) Snapshot(name string) ([]any, error) {
	q, err := c.queue(name)
	if err != nil {
		return nil, err
	}
	items := q.Snapshot()
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = envelope.Decode(v)
	}
	return out, nil
}

// Stats returns per-queue stats sorted by name.
func (c *Client) Stats() []queue.Stats {
	return c.registry.Stats()
}

// Enqueue pushes raw onto DefaultQueue.
func (c *Client) Enqueue(raw any) error {
	return c.Push(DefaultQueue, raw)
}

// Dequeue pops from DefaultQueue without waiting.
func (c *Client) Dequeue() (any, error) {
	return c.Pop(DefaultQueue)
}

func (c *Client) queue(name string) (*queue.Queue, error) {
	q, err := c.registry.GetOrCreate(name)
	if err != nil {
		c.logger.Warn("invalid queue name", zap.String("queue", name), zap.Error(err))
		return nil, err
	}
	return q, nil
}
