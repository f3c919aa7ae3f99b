// Package k6ext exposes the queue store to k6 scripts as k6/x/queue.
package k6ext

import (
	"context"
	"fmt"
	"sync"

	"go.k6.io/k6/js/modules"
	"go.uber.org/zap"

	"github.com/huynhanx03/xk6-queue/pkg/adapter"
	"github.com/huynhanx03/xk6-queue/pkg/logger"
	"github.com/huynhanx03/xk6-queue/pkg/queue"
	"github.com/huynhanx03/xk6-queue/pkg/settings"
)

// ImportPath is the module name scripts import.
const ImportPath = "k6/x/queue"

var (
	_ modules.Module   = (*RootModule)(nil)
	_ modules.Instance = (*ModuleInstance)(nil)
)

// RootModule is shared by every VU of a test run, so all VUs see the same queues.
type RootModule struct {
	once   sync.Once
	client *adapter.Client
	build  func() *adapter.Client
}

// New returns a RootModule configured from XK6_QUEUE_* environment variables.
func New() *RootModule {
	return &RootModule{build: clientFromEnv}
}

// NewWithClient returns a RootModule backed by client.
func NewWithClient(client *adapter.Client) *RootModule {
	return &RootModule{build: func() *adapter.Client { return client }}
}

// NewModuleInstance implements modules.Module.
func (r *RootModule) NewModuleInstance(vu modules.VU) modules.Instance {
	return &ModuleInstance{vu: vu, client: r.Client()}
}

// Client returns the shared client, building it on first use.
func (r *RootModule) Client() *adapter.Client {
	r.once.Do(func() { r.client = r.build() })
	return r.client
}

func clientFromEnv() *adapter.Client {
	cfg, err := settings.Load("")
	if err != nil {
		cfg = settings.Default()
	}
	log := logger.New(&cfg.Logger)
	if err != nil {
		log.Warn("invalid queue configuration, using defaults", zap.Error(err))
	}
	registry := queue.NewRegistry(queue.FromSettings(cfg.Queue, log)...)
	return adapter.New(registry, log)
}

// ModuleInstance is the per-VU view of the shared store.
type ModuleInstance struct {
	vu     modules.VU
	client *adapter.Client
}

// Exports implements modules.Instance.
func (mi *ModuleInstance) Exports() modules.Exports {
	return modules.Exports{
		Named: map[string]any{
			"push":           mi.Push,
			"pop":            mi.Pop,
			"popWithTimeout": mi.PopWithTimeout,
			"peek":           mi.Peek,
			"size":           mi.Size,
			"isEmpty":        mi.IsEmpty,
			"clear":          mi.Clear,
			"listQueues":     mi.ListQueues,
			"snapshot":       mi.Snapshot,
			"stats":          mi.Stats,
			"enqueue":        mi.Enqueue,
			"dequeue":        mi.Dequeue,
		},
	}
}

// Push appends value to the named queue. Values that cannot be stored, such
// as functions or NaN, throw in the calling script.
func (mi *ModuleInstance) Push(name string, value any) error {
	return mi.client.Push(name, value)
}

// Pop never blocks; an empty queue yields null.
func (mi *ModuleInstance) Pop(name string) (any, error) {
	return mi.client.Pop(name)
}

// PopWithTimeout blocks the calling VU for at most timeoutMs milliseconds.
// A negative timeout waits until the VU's iteration context ends.
func (mi *ModuleInstance) PopWithTimeout(name string, timeoutMs int64) (any, error) {
	return mi.client.PopWithTimeout(mi.context(), name, timeoutMs)
}

// Peek, Size, IsEmpty, Clear and Snapshot act on the default queue when the
// script omits the name, so they pair with enqueue and dequeue.

func (mi *ModuleInstance) Peek(name any) (any, error) {
	return mi.client.Peek(queueName(name))
}

func (mi *ModuleInstance) Size(name any) (int, error) {
	return mi.client.Size(queueName(name))
}

func (mi *ModuleInstance) IsEmpty(name any) (bool, error) {
	return mi.client.IsEmpty(queueName(name))
}

func (mi *ModuleInstance) Clear(name any) (int, error) {
	return mi.client.Clear(queueName(name))
}

func (mi *ModuleInstance) ListQueues() []string {
	return mi.client.ListQueues()
}

func (mi *ModuleInstance) Snapshot(name any) ([]any, error) {
	return mi.client.Snapshot(queueName(name))
}

// Stats returns plain objects so scripts see camelCase keys.
func (mi *ModuleInstance) Stats() []map[string]any {
	stats := mi.client.Stats()
	out := make([]map[string]any, len(stats))
	for i, st := range stats {
		out[i] = map[string]any{
			"name":         st.Name,
			"size":         st.Size,
			"waiters":      st.Waiters,
			"capacity":     st.Capacity,
			"pushed":       st.Pushed,
			"popped":       st.Popped,
			"timedOut":     st.TimedOut,
			"cancelled":    st.Cancelled,
			"cleared":      st.Cleared,
			"lastActivity": st.LastActivity.UnixMilli(),
		}
	}
	return out
}

// Enqueue and Dequeue are Push and Pop on the default queue.
func (mi *ModuleInstance) Enqueue(value any) error {
	return mi.client.Enqueue(value)
}

func (mi *ModuleInstance) Dequeue() (any, error) {
	return mi.client.Dequeue()
}

// queueName maps an omitted, undefined or null argument to the default queue.
// An explicit empty string is passed through and rejected as an invalid name.
func queueName(arg any) string {
	switch v := arg.(type) {
	case nil:
		return adapter.DefaultQueue
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (mi *ModuleInstance) context() context.Context {
	if ctx := mi.vu.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
