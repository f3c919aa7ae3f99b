package queue

import (
	"go.uber.org/zap"

	"github.com/huynhanx03/xk6-queue/pkg/settings"
	"github.com/huynhanx03/xk6-queue/pkg/timer"
)

const (
	defaultShards        = 64
	defaultInitialSize   = 16
	defaultMaxNameLength = 256
)

type options struct {
	capacity      int
	initialSize   int
	shards        int
	maxNameLength int
	logger        *zap.Logger
	timer         timer.Timer
}

// Option configures a Registry and the queues it creates.
type Option func(*options)

func defaultOptions() options {
	return options{
		initialSize:   defaultInitialSize,
		shards:        defaultShards,
		maxNameLength: defaultMaxNameLength,
		logger:        zap.NewNop(),
		timer:         timer.System{},
	}
}

// WithCapacity bounds every queue to n stored items. 0 means unbounded.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.capacity = n
		}
	}
}

// WithInitialSize sets the preallocated slot count of each new queue.
func WithInitialSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialSize = n
		}
	}
}

// WithShards sets the number of registry shards. Rounded up to a power of two.
func WithShards(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shards = n
		}
	}
}

// WithMaxNameLength caps queue name length in bytes.
func WithMaxNameLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxNameLength = n
		}
	}
}

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTimer sets the clock used for activity timestamps.
func WithTimer(t timer.Timer) Option {
	return func(o *options) {
		if t != nil {
			o.timer = t
		}
	}
}

// FromSettings converts queue settings into options.
func FromSettings(cfg settings.Queue, logger *zap.Logger) []Option {
	return []Option{
		WithCapacity(cfg.Capacity),
		WithInitialSize(cfg.InitialSize),
		WithShards(cfg.Shards),
		WithMaxNameLength(cfg.MaxNameLength),
		WithLogger(logger),
	}
}
