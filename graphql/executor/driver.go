/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package executor

import (
	"sync"

	"github.com/graphql/graphql-js-sub001/concurrent"
	"github.com/graphql/graphql-js-sub001/concurrent/future"
)

// driver is the cooperative scheduler that drives every future.Future a resolver hands back to the
// Field Executor to completion. There is exactly one driver per operation execution, shared by
// every field resolved during it.
//
// Grounded on the teacher's own future.Future/Waker contract (Poll must never block; a pending
// future stores a Waker and calls it back once it can make progress) plus the
// sync.Mutex/sync.Cond idiom worker_pool_executor.go uses for its task queue: a driver is really
// just that same idiom applied to "ready to poll" futures instead of "ready to run" tasks.
type driver struct {
	// runner dispatches individual poll steps in parallel when configured. Nil means steps run one at
	// a time on a pump goroutine spawned on demand (see schedule/run).
	runner concurrent.Executor

	// cancellation, when non-nil, is consulted before every poll step; once it reports an error every
	// future still registered with the driver settles with that error instead of being polled, which
	// is how an external abortSignal firing mid-execution reaches resolvers that already returned a
	// future.Future without requiring each one to watch the token itself.
	cancellation *cancellationHub

	mu      sync.Mutex
	cond    *sync.Cond
	ready   []*pollEntry
	pending int
	active  int
}

// pollEntry is one future.Future registered with the driver, plus the callback to invoke exactly
// once when it finally settles.
type pollEntry struct {
	f    future.Future
	done func(value interface{}, err error)
}

func newDriver(runner concurrent.Executor, cancellation *cancellationHub) *driver {
	d := &driver{runner: runner, cancellation: cancellation}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// poll registers f with the driver. done is invoked exactly once, with either the future's resolved
// value or the error it failed with -- callers never need to call f.Poll themselves.
func (d *driver) poll(f future.Future, done func(value interface{}, err error)) {
	d.mu.Lock()
	d.pending++
	d.mu.Unlock()
	d.schedule(&pollEntry{f: f, done: done})
}

// schedule makes e eligible to be polled again: dispatched to the runner if one is configured, or
// appended to the inline ready queue otherwise. In inline mode, if no run loop is currently
// pumping (none has started yet, or a stream goroutine registered a future after the operation's
// pump already drained and exited), a fresh pump goroutine is spawned -- scheduling itself never
// blocks, so sibling fields still start without waiting on each other's futures.
func (d *driver) schedule(e *pollEntry) {
	if d.runner == nil {
		d.mu.Lock()
		d.ready = append(d.ready, e)
		active := d.active
		d.cond.Signal()
		d.mu.Unlock()
		if active == 0 {
			go d.run()
		}
		return
	}

	// A slow Poll call (or the synchronous work a resolver does before returning PollResultPending)
	// must not block the driver's own pump goroutine, so hand it to the worker pool.
	if _, err := d.runner.Submit(concurrent.TaskFunc(func() (interface{}, error) {
		d.step(e)
		return nil, nil
	})); err != nil {
		d.settle(e, nil, err)
	}
}

// step polls e.f exactly once. A future that isn't ready yet has registered a Waker that will call
// back into schedule once it can make progress; step itself does nothing further in that case.
func (d *driver) step(e *pollEntry) {
	if d.cancellation != nil {
		if err := d.cancellation.token().Err(); err != nil {
			d.settle(e, nil, err)
			return
		}
	}

	waker := future.WakerFunc(func() error {
		d.schedule(e)
		return nil
	})

	result, err := e.f.Poll(waker)
	if err != nil {
		d.settle(e, nil, err)
		return
	}
	if result == future.PollResultPending {
		return
	}
	d.settle(e, result, nil)
}

// settle reports e's outcome and retires its accounting slot. Invoking e.done here, rather than
// from a separate drain pass, is what lets field completion chain directly off of a future's
// resolution instead of needing a second pass over settled entries.
func (d *driver) settle(e *pollEntry, value interface{}, err error) {
	e.done(value, err)

	d.mu.Lock()
	d.pending--
	d.cond.Broadcast()
	d.mu.Unlock()
}

// run pumps the inline ready queue (used only when no concurrent.Executor Runner is configured)
// until every future registered with the driver, including any registered by a done callback while
// run is executing, has settled. The first run loop in flight is the one that blocks waiting for
// wakers to re-arm pending futures; an overlapping call (from schedule finding no active pump)
// just drains whatever is ready and returns.
func (d *driver) run() {
	d.mu.Lock()
	d.active++
	primary := d.active == 1
	d.mu.Unlock()

	for {
		d.mu.Lock()
		for primary && len(d.ready) == 0 && d.pending > 0 {
			d.cond.Wait()
		}
		if len(d.ready) == 0 {
			d.active--
			d.mu.Unlock()
			return
		}
		e := d.ready[0]
		d.ready = d.ready[1:]
		d.mu.Unlock()

		d.step(e)
	}
}

