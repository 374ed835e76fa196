/**
 * Copyright (c) 2019, The Artemis Authors.
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

package future

import "errors"

// readyFuture is a Future that is already resolved at creation time, either to a value or to an
// error. Poll never returns PollResultPending for it.
type readyFuture struct {
	value interface{}
	err   error
}

// Poll implements Future.
func (f *readyFuture) Poll(waker Waker) (PollResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.value, nil
}

// Ready creates a Future that is immediately ready with value. It is useful for adapting a resolver
// that already has its result in hand to code written against the Future interface.
func Ready(value interface{}) Future {
	return &readyFuture{value: value}
}

// Err creates a Future that is immediately ready with an error. A nil err is turned into a non-nil
// error with an empty message rather than a future that resolves successfully with a nil value;
// callers that want a successful nil result should use Ready(nil) instead.
func Err(err error) Future {
	if err == nil {
		err = errors.New("")
	}
	return &readyFuture{err: err}
}
