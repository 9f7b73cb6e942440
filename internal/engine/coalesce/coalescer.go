// Package coalesce collapses concurrent identical requests into a single
// in-flight execution whose outcome is shared by every waiter.
package coalesce

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Fn is the executor for one request class. It is invoked at most once per
// in-flight key.
type Fn func(ctx context.Context) (any, error)

type pendingRequest struct {
	waiters   int
	startedAt time.Time
}

// Stats is a snapshot of the coalescer's registry.
type Stats struct {
	// Pending is the number of request classes currently in flight.
	Pending int `json:"pending"`
	// Waiters maps each in-flight key to its attached waiter count.
	Waiters map[string]int `json:"waiters"`
	// TotalDeduplicated is the running count of calls that were satisfied
	// by an execution they did not start.
	TotalDeduplicated int64 `json:"totalDeduplicated"`
}

// Coalescer deduplicates concurrent executions by key. The actual collapse
// is delegated to singleflight; the coalescer keeps its own pending table on
// the side for waiter accounting and for the max-age leak guard.
type Coalescer struct {
	group singleflight.Group

	mu      sync.Mutex
	pending map[string]*pendingRequest
	dedup   atomic.Int64

	maxAge    time.Duration
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New creates a Coalescer. When maxAge and sweepInterval are both positive,
// a background sweep forgets pending entries older than maxAge so a stuck
// executor cannot pin its key forever.
func New(maxAge, sweepInterval time.Duration) *Coalescer {
	c := &Coalescer{
		pending: make(map[string]*pendingRequest),
		maxAge:  maxAge,
		done:    make(chan struct{}),
	}

	if maxAge > 0 && sweepInterval > 0 {
		c.wg.Add(1)
		go c.sweepLoop(sweepInterval)
	}
	return c
}

// Do executes fn under key, or joins an execution already in flight for the
// same key. Every waiter observes the same outcome; a failure of the sole
// execution is surfaced verbatim to all of them, with no retry.
//
// The shared execution runs detached from any single waiter's context, so
// one caller cancelling does not fail the others; a cancelled waiter gets
// its context error back while the execution continues for the rest.
func (c *Coalescer) Do(ctx context.Context, key string, fn Fn) (any, error) {
	// The registry entry is created before DoChan, while the flight's own
	// entry is removed inside it. A caller arriving in the window between
	// remove and singleflight's internal cleanup can register a fresh entry
	// here and still join the settling flight without a new fn invocation;
	// that orphan is reclaimed by the sweep.
	c.mu.Lock()
	if p, ok := c.pending[key]; ok {
		p.waiters++
		c.dedup.Add(1)
	} else {
		c.pending[key] = &pendingRequest{waiters: 1, startedAt: time.Now()}
	}
	c.mu.Unlock()

	execCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		// The function runs once per in-flight key, so the registry entry
		// is removed exactly once, on settle.
		defer c.remove(key)
		return fn(execCtx)
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Coalescer) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, key)
}

func (c *Coalescer) sweepLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweep forgets pending entries older than maxAge. Waiters already attached
// still receive the eventual outcome if it ever arrives; future calls for
// the key start fresh.
func (c *Coalescer) sweep() {
	cutoff := time.Now().Add(-c.maxAge)

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, p := range c.pending {
		if p.startedAt.Before(cutoff) {
			c.group.Forget(key)
			delete(c.pending, key)
		}
	}
}

// Stats returns a snapshot of the pending table and deduplication counter.
func (c *Coalescer) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	waiters := make(map[string]int, len(c.pending))
	for key, p := range c.pending {
		waiters[key] = p.waiters
	}
	return Stats{
		Pending:           len(c.pending),
		Waiters:           waiters,
		TotalDeduplicated: c.dedup.Load(),
	}
}

// Close stops the background sweep. Idempotent.
func (c *Coalescer) Close() {
	c.closeOnce.Do(func() { close(c.done) })
	c.wg.Wait()
}
