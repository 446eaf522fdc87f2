// Package serial provides a FIFO exclusive-access gate for serializing
// critical sections over shared state. Unlike sync.Mutex, admission order is
// strictly first-come-first-served: callers queued behind a busy gate are
// granted access in the order they arrived, and a waiting caller suspends its
// goroutine cooperatively without blocking unrelated work.
//
// The gate is the single synchronization primitive for the board: every board
// operation runs its state inspection and mutation inside one (or several)
// short Do sections, and expresses any long-lived waiting as a future that is
// resolved from a later section.
package serial

import (
	"context"
	"sync"
)

// Gate is a FIFO mutual-exclusion gate.
// The zero value is an unheld gate ready for use.
type Gate struct {
	mu    sync.Mutex
	held  bool
	queue []chan struct{} // waiting acquirers, head is granted first
}

// New creates an unheld gate.
func New() *Gate {
	return &Gate{}
}

// Acquire blocks until the caller holds the gate.
// Waiters are admitted in FIFO order relative to when they called Acquire.
//
// If ctx is cancelled while waiting, Acquire abandons the queue slot and
// returns ctx.Err(). If the grant raced the cancellation, the slot is handed
// straight to the next waiter so no grant is lost.
func (g *Gate) Acquire(ctx context.Context) error {
	g.mu.Lock()
	if !g.held {
		g.held = true
		g.mu.Unlock()
		return nil
	}

	ready := make(chan struct{})
	g.queue = append(g.queue, ready)
	g.mu.Unlock()

	select {
	case <-ready:
		return nil

	case <-ctx.Done():
		g.mu.Lock()
		for i, ch := range g.queue {
			if ch == ready {
				g.queue = append(g.queue[:i], g.queue[i+1:]...)
				g.mu.Unlock()
				return ctx.Err()
			}
		}
		g.mu.Unlock()

		// Not in the queue anymore: Release already granted us the gate
		// concurrently with the cancellation. Pass the grant on.
		g.Release()
		return ctx.Err()
	}
}

// Release hands the gate to the head of the waiter queue, or marks it unheld
// if nobody is waiting. Must only be called by the current holder.
func (g *Gate) Release() {
	g.mu.Lock()
	if len(g.queue) > 0 {
		ready := g.queue[0]
		g.queue = g.queue[1:]
		g.mu.Unlock()
		// The gate stays held; ownership transfers to the woken waiter.
		close(ready)
		return
	}
	g.held = false
	g.mu.Unlock()
}

// Do runs fn while holding the gate and releases it on every exit path,
// panics included. fn must be short and synchronous: it must not block on
// long-latency work while the gate is held (register a future and resolve it
// from a later section instead).
//
// Returns ctx.Err() if the gate could not be acquired before ctx was
// cancelled; fn does not run in that case.
func (g *Gate) Do(ctx context.Context, fn func()) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	fn()
	return nil
}
