package queue

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/xk6-queue/pkg/datastructs/shardedmap"
	"github.com/huynhanx03/xk6-queue/pkg/envelope"
	"github.com/huynhanx03/xk6-queue/pkg/hash"
)

// Registry maps names to queues. Queues are created on first reference and
// never removed. Names on different shards never share a lock.
type Registry struct {
	opts   options
	queues *shardedmap.Map[string, *Queue]
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		opts:   o,
		queues: shardedmap.New[string, *Queue](o.shards, hash.String),
	}
}

// GetOrCreate returns the queue called name, creating it if needed.
// Concurrent callers with the same name always get the same queue.
func (r *Registry) GetOrCreate(name string) (*Queue, error) {
	if err := ValidateName(name, r.opts.maxNameLength); err != nil {
		return nil, err
	}
	q, loaded := r.queues.GetOrCreate(name, func() *Queue {
		return newQueue(name, r.opts)
	})
	if !loaded {
		r.opts.logger.Debug("queue created", zap.String("queue", name))
	}
	return q, nil
}

// Get returns the queue called name without creating it.
func (r *Registry) Get(name string) (*Queue, bool) {
	return r.queues.Get(name)
}

// List returns every queue name in sorted order.
func (r *Registry) List() []string {
	names := r.queues.Keys()
	sort.Strings(names)
	return names
}

// Len returns the number of queues.
func (r *Registry) Len() int {
	return r.queues.Len()
}

// Snapshot returns the stored items of every queue, keyed by name.
// Each queue is captured separately, so the result is not one atomic cut.
func (r *Registry) Snapshot() map[string][]envelope.Value {
	out := make(map[string][]envelope.Value, r.queues.Len())
	for _, q := range r.all() {
		out[q.Name()] = q.Snapshot()
	}
	return out
}

// Stats returns per-queue stats sorted by name.
func (r *Registry) Stats() []Stats {
	queues := r.all()
	out := make([]Stats, len(queues))
	for i, q := range queues {
		out[i] = q.Stats()
	}
	return out
}

// Capacity returns the per-queue item limit, 0 when unbounded.
func (r *Registry) Capacity() int {
	return r.opts.capacity
}

// all collects the queues first so no queue lock is taken under a shard lock.
func (r *Registry) all() []*Queue {
	queues := make([]*Queue, 0, r.queues.Len())
	r.queues.Do(func(_ string, q *Queue) {
		queues = append(queues, q)
	})
	sort.Slice(queues, func(i, j int) bool { return queues[i].name < queues[j].name })
	return queues
}

// ValidateName checks that name is non-empty valid UTF-8 of at most maxLen
// bytes with no control characters. maxLen <= 0 disables the length check.
func ValidateName(name string, maxLen int) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidName, "empty name")
	case maxLen > 0 && len(name) > maxLen:
		return errors.Wrapf(ErrInvalidName, "name longer than %d bytes", maxLen)
	case !utf8.ValidString(name):
		return errors.Wrap(ErrInvalidName, "name is not valid UTF-8")
	case strings.IndexFunc(name, isControl) >= 0:
		return errors.Wrapf(ErrInvalidName, "name %q contains control characters", name)
	}
	return nil
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
