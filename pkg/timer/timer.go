// Package timer provides wall clocks for activity timestamps.
package timer

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer reports the current time.
type Timer interface {
	Now() time.Time
	Stop()
}

// System reads time.Now on every call.
type System struct{}

func (System) Now() time.Time { return time.Now() }
func (System) Stop()          {}

// CachedTimer refreshes a cached timestamp every step. Reads never call
// time.Now, which keeps hot paths that only need coarse timestamps cheap.
type CachedTimer struct {
	now    atomic.Int64
	step   time.Duration
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewCachedTimer starts a CachedTimer. Call Stop to release its goroutine.
func NewCachedTimer(step time.Duration) *CachedTimer {
	if step <= 0 {
		step = time.Millisecond
	}
	t := &CachedTimer{
		step:   step,
		ticker: time.NewTicker(step),
		done:   make(chan struct{}),
	}
	t.now.Store(time.Now().UnixNano())

	t.wg.Add(1)
	go t.run()

	return t
}

func (t *CachedTimer) run() {
	defer t.wg.Done()

	for {
		select {
		case tick := <-t.ticker.C:
			t.now.Store(tick.UnixNano())
		case <-t.done:
			t.ticker.Stop()
			return
		}
	}
}

// Now returns the last cached timestamp.
func (t *CachedTimer) Now() time.Time {
	return time.Unix(0, t.now.Load())
}

// Stop halts the refresh goroutine. Safe to call more than once.
func (t *CachedTimer) Stop() {
	t.once.Do(func() { close(t.done) })
	t.wg.Wait()
}

// Manual is a Timer that only moves when told to. Used in tests.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual timer set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

func (m *Manual) Stop() {}
