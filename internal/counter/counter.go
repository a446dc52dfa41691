// Package counter maintains the persisted "students helped" counter.
//
// Storage failures never reach the caller: reads fall back to the in-memory
// value (0 until something has been counted) and writes are skipped.
package counter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// Key is the storage key holding the decimal counter value.
const Key = "students_helped"

// KV is a minimal string key-value store.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Notifier receives the counter value after every change.
type Notifier func(value int64)

// Counter is a monotonic counter persisted under Key.
//
// Notifiers run on a single dispatcher goroutine, never on the caller's.
// They see values in the order they were written, and a slow notifier only
// skips intermediate values.
type Counter struct {
	mu       sync.Mutex
	kv       KV
	mem      int64
	reporter *Reporter
	notify   []Notifier

	pending   chan int64 // holds at most the latest unsent value
	closing   chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Option configures a Counter.
type Option func(*Counter)

// WithReporter mirrors every bump to a remote aggregation endpoint.
func WithReporter(r *Reporter) Option {
	return func(c *Counter) { c.reporter = r }
}

// WithNotifier registers fn to be called with each new value.
func WithNotifier(fn Notifier) Option {
	return func(c *Counter) {
		if fn != nil {
			c.notify = append(c.notify, fn)
		}
	}
}

// New creates a Counter over kv. A nil kv keeps the counter in memory only.
func New(kv KV, opts ...Option) *Counter {
	c := &Counter{kv: kv}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.notify) > 0 {
		c.pending = make(chan int64, 1)
		c.closing = make(chan struct{})
		c.stopped = make(chan struct{})
		go c.dispatch()
	}
	return c
}

// Close delivers the last pending value and stops the dispatcher.
func (c *Counter) Close() {
	if c.closing == nil {
		return
	}
	c.closeOnce.Do(func() { close(c.closing) })
	<-c.stopped
}

// Read returns the stored value.
func (c *Counter) Read(ctx context.Context) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readLocked(ctx)
}

// Write stores v. Negative values are stored as 0.
func (c *Counter) Write(ctx context.Context, v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishLocked(c.writeLocked(ctx, v))
}

// Bump adds delta to the stored value and returns the result.
// Negative deltas are treated as 0; the counter never decreases.
func (c *Counter) Bump(ctx context.Context, delta int64) int64 {
	if delta < 0 {
		delta = 0
	}

	c.mu.Lock()
	v := c.writeLocked(ctx, c.readLocked(ctx)+delta)
	c.publishLocked(v)
	c.mu.Unlock()

	if delta > 0 && c.reporter != nil {
		c.reporter.Report(delta)
	}
	return v
}

func (c *Counter) readLocked(ctx context.Context) int64 {
	if c.kv == nil {
		return c.mem
	}

	raw, found, err := c.kv.Get(ctx, Key)
	if err != nil {
		slog.Debug("counter read failed, using in-memory value", "error", err, "value", c.mem)
		return c.mem
	}
	if !found {
		return c.mem
	}

	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v < 0 {
		slog.Debug("counter value unparsable, treating as 0", "raw", raw)
		return 0
	}
	c.mem = v
	return v
}

func (c *Counter) writeLocked(ctx context.Context, v int64) int64 {
	if v < 0 {
		v = 0
	}
	c.mem = v
	if c.kv == nil {
		return v
	}
	if err := c.kv.Set(ctx, Key, strconv.FormatInt(v, 10)); err != nil {
		slog.Debug("counter write skipped", "error", err, "value", v)
	}
	return v
}

// publishLocked replaces any undelivered value with v. Callers hold c.mu,
// so the dispatcher only ever receives values in write order.
func (c *Counter) publishLocked(v int64) {
	if c.pending == nil {
		return
	}
	select {
	case <-c.pending:
	default:
	}
	c.pending <- v
}

func (c *Counter) dispatch() {
	defer close(c.stopped)
	for {
		select {
		case v := <-c.pending:
			c.fire(v)
		case <-c.closing:
			select {
			case v := <-c.pending:
				c.fire(v)
			default:
			}
			return
		}
	}
}

func (c *Counter) fire(v int64) {
	for _, fn := range c.notify {
		fn(v)
	}
}
