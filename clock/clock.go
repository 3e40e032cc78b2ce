// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package clock

import (
	"context"
	"sync"
	"time"
)

// Clock allows injecting time and timed suspension into the engines.
type Clock interface {
	Now() time.Time
	// Sleep suspends for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// NewSystem returns a clock backed by the wall clock.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Instant never blocks. It advances its own time by each requested sleep and
// records the durations, so step schedules can be asserted.
type Instant struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

// NewInstant returns an Instant clock starting at t.
func NewInstant(t time.Time) *Instant {
	return &Instant{now: t.UTC()}
}

func (c *Instant) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Instant) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

// Slept returns every duration passed to Sleep, in call order.
func (c *Instant) Slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.slept...)
}

// Virtual is a manually advanced clock. Sleepers block until Advance moves
// time past their deadline or their context ends.
type Virtual struct {
	mu      sync.Mutex
	cond    *sync.Cond
	now     time.Time
	waiters []*waiter
}

type waiter struct {
	until time.Time
	done  chan struct{}
}

// NewVirtual returns a Virtual clock starting at t.
func NewVirtual(t time.Time) *Virtual {
	v := &Virtual{now: t.UTC()}
	v.cond = sync.NewCond(&v.mu)
	return v
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if d <= 0 {
		return nil
	}

	v.mu.Lock()
	w := &waiter{until: v.now.Add(d), done: make(chan struct{})}
	v.waiters = append(v.waiters, w)
	v.cond.Broadcast()
	v.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		v.mu.Lock()
		v.remove(w)
		v.cond.Broadcast()
		v.mu.Unlock()
		return ctx.Err()
	}
}

// Advance moves time forward by d and wakes every sleeper whose deadline
// has been reached.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.now = v.now.Add(d)
	kept := v.waiters[:0]
	for _, w := range v.waiters {
		if !w.until.After(v.now) {
			close(w.done)
			continue
		}
		kept = append(kept, w)
	}
	v.waiters = kept
	v.cond.Broadcast()
}

// BlockUntil waits until exactly n goroutines are sleeping on the clock.
func (v *Virtual) BlockUntil(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for len(v.waiters) != n {
		v.cond.Wait()
	}
}

// Sleepers reports how many goroutines are currently sleeping.
func (v *Virtual) Sleepers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.waiters)
}

func (v *Virtual) remove(target *waiter) {
	for i, w := range v.waiters {
		if w == target {
			v.waiters = append(v.waiters[:i], v.waiters[i+1:]...)
			return
		}
	}
}
