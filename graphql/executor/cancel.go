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
	"context"
	"sync"

	"github.com/graphql/graphql-js-sub001/graphql"
)

// CancellationToken is handed to resolvers (via ResolveInfo) so that a long-running field or a
// stream source can observe that the client has stopped consuming results -- either because the
// request context was canceled or because a subsequent payload was never requested. It is the same
// shape as graphql.CancellationToken (which ResolveInfo.Cancellation actually returns); the alias
// keeps this package's collaborators from needing to import graphql just to name the type.
type CancellationToken = graphql.CancellationToken

// cancellationHub fans a single cancel-all-scopes signal out to every registration made against it.
// It is grounded on the teacher's future.Waker/Join machinery: a registration is conceptually a
// Future that never resolves to a value on its own, only to an error when the hub is tripped.
type cancellationHub struct {
	mu        sync.Mutex
	once      sync.Once
	err       error
	done      chan struct{}
	listeners []func(error)
}

func newCancellationHub() *cancellationHub {
	return &cancellationHub{done: make(chan struct{})}
}

// Cancel trips the hub with reason err. Safe to call more than once; only the first call has any
// effect, matching future.Future's "once resolved, stop polling" contract. A bare context.Canceled
// is normalized to the engine's own reason; a deadline error is kept as-is since it carries
// information the generic message doesn't.
func (h *cancellationHub) Cancel(err error) {
	if err == nil || err == context.Canceled {
		err = errOperationCanceled
	}
	h.once.Do(func() {
		h.mu.Lock()
		h.err = err
		listeners := h.listeners
		h.listeners = nil
		h.mu.Unlock()

		close(h.done)
		for _, listener := range listeners {
			listener(err)
		}
	})
}

// onCancel registers a cleanup callback to run (synchronously) when the hub is tripped. If the hub
// has already tripped, the callback runs immediately.
func (h *cancellationHub) onCancel(callback func(error)) {
	h.mu.Lock()
	if h.done == nil {
		h.mu.Unlock()
		return
	}
	select {
	case <-h.done:
		err := h.err
		h.mu.Unlock()
		callback(err)
		return
	default:
	}
	h.listeners = append(h.listeners, callback)
	h.mu.Unlock()
}

// token returns a CancellationToken scoped to this hub; every token taken from the same operation's
// hub shares the same underlying signal. There is no narrower token for a single scope or stream.
func (h *cancellationHub) token() CancellationToken {
	return hubToken{h}
}

type hubToken struct {
	hub *cancellationHub
}

func (t hubToken) Done() <-chan struct{} {
	return t.hub.done
}

func (t hubToken) Err() error {
	t.hub.mu.Lock()
	defer t.hub.mu.Unlock()
	return t.hub.err
}

var errOperationCanceled = newExecutionError("operation canceled")
