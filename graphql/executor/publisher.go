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

	"github.com/graphql/graphql-js-sub001/graphql"
	"github.com/graphql/graphql-js-sub001/jsonwriter"
)

// PendingResult describes one unit of incremental work (a deferred fragment or a streamed list
// field) that a payload promises a later "incremental"/"completed" entry for.
type PendingResult struct {
	ID    string
	Path  graphql.ResponsePath
	Label string
}

// MarshalJSONTo implements jsonwriter.ValueMarshaler.
func (p PendingResult) MarshalJSONTo(stream *jsonwriter.Stream) error {
	stream.WriteObjectStart()
	stream.WriteObjectField("id")
	stream.WriteString(p.ID)
	stream.WriteMore()
	stream.WriteObjectField("path")
	stream.WriteInterface(&p.Path)
	if len(p.Label) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("label")
		stream.WriteString(p.Label)
	}
	stream.WriteObjectEnd()
	return stream.Error()
}

// IncrementalResult is one unit of newly-available data: a batch of items for a `@stream`'d list
// field (Items set), or a deferred fragment's resolved fields (Data set).
type IncrementalResult struct {
	ID    string
	Data  resultValue
	Items []resultValue
	Errs  graphql.Errors
}

// MarshalJSONTo implements jsonwriter.ValueMarshaler.
func (r IncrementalResult) MarshalJSONTo(stream *jsonwriter.Stream) error {
	stream.WriteObjectStart()
	stream.WriteObjectField("id")
	stream.WriteString(r.ID)
	stream.WriteMore()
	if r.Data != nil {
		stream.WriteObjectField("data")
		writeResultValue(stream, r.Data)
	} else {
		stream.WriteObjectField("items")
		writeResultValue(stream, listResult(r.Items))
	}
	writeErrorsField(stream, r.Errs)
	stream.WriteObjectEnd()
	return stream.Error()
}

// CompletedResult is the terminal entry for one deferred fragment or stream: its data (if any) has
// already been delivered through "incremental" entries; Errs is set only when the record failed
// (a non-null violation bubbled to its root, or it was aborted by cancellation).
type CompletedResult struct {
	ID   string
	Errs graphql.Errors
}

// MarshalJSONTo implements jsonwriter.ValueMarshaler.
func (c CompletedResult) MarshalJSONTo(stream *jsonwriter.Stream) error {
	stream.WriteObjectStart()
	stream.WriteObjectField("id")
	stream.WriteString(c.ID)
	writeErrorsField(stream, c.Errs)
	stream.WriteObjectEnd()
	return stream.Error()
}

func writeErrorsField(stream *jsonwriter.Stream, errs graphql.Errors) {
	if !errs.HaveOccurred() {
		return
	}
	stream.WriteMore()
	stream.WriteObjectField("errors")
	stream.WriteArrayStart()
	for i, err := range errs.Errors {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteInterface(err)
	}
	stream.WriteArrayEnd()
}

// payloadPublisher is the Payload Publisher: it serializes every finished unit of work (the initial
// response, then zero or more incremental payloads from the Incremental Graph) into a single,
// strictly-ordered channel of ExecutionResult, deciding hasNext along the way. There's exactly one
// payloadPublisher per operation execution.
type payloadPublisher struct {
	out chan ExecutionResult

	mu          sync.Mutex
	outstanding int
	closed      bool
	initialSent bool
	// pendingNew accumulates announcements for records the Incremental Graph created since the last
	// payload went out. The initial payload drains whatever was discovered during initial execution;
	// a record created later (a `@defer` nested inside another deferred fragment) rides out in the
	// "pending" section of the next subsequent payload, so the client always learns an id before the
	// entry that resolves it.
	pendingNew []PendingResult
	// queue holds entries published (by a deferred group or stream settling) before the initial
	// payload itself was sent. Completion order of background work is otherwise independent of when
	// the initial response finishes executing, but the wire format requires "pending" to precede any
	// "incremental"/"completed" entry that announces it, so anything that finishes early waits here
	// until publishInitial flushes it.
	queue []ExecutionResult

	// deferredStarts holds the lazy-mode deferred groups waiting for the initial payload to go out
	// before their fields run; publishInitial drains it after sending.
	deferredStarts []func()

	// done is closed once the publisher has sent its last entry. The ctx-cancellation watcher
	// goroutine Execute starts selects on this to stop watching once there is nothing left to cancel.
	done chan struct{}
}

func newPayloadPublisher() *payloadPublisher {
	return &payloadPublisher{out: make(chan ExecutionResult, 4), done: make(chan struct{})}
}

// channel returns the channel Execute hands back to the caller.
func (p *payloadPublisher) channel() <-chan ExecutionResult {
	return p.out
}

// announce records that a new deferred fragment/stream exists and that one additional "completed"
// entry must publish before the response can be considered complete. The announcement itself is
// delivered in the "pending" section of the next payload to go out.
func (p *payloadPublisher) announce(pending PendingResult) {
	p.mu.Lock()
	p.outstanding++
	p.pendingNew = append(p.pendingNew, pending)
	p.mu.Unlock()
}

// publishInitial sends the non-incremental portion of the response, carrying an announcement for
// every deferred fragment/stream discovered while it executed. When nothing was discovered (and
// nothing settled early enough to be queued below), this is the only payload and the channel is
// closed right after. Anything that reached publishOne/publishStreamBatch before this call queued
// itself instead of sending directly (see deliver) -- it is flushed here, immediately after the
// entry that announces it.
func (p *payloadPublisher) publishInitial(result ExecutionResult) {
	p.mu.Lock()
	p.initialSent = true
	result.Pending = p.pendingNew
	p.pendingNew = nil
	queued := p.queue
	p.queue = nil
	starts := p.deferredStarts
	p.deferredStarts = nil
	result.HasNext = p.outstanding > 0 || len(queued) > 0
	p.mu.Unlock()

	p.send(result)
	for _, q := range queued {
		p.send(q)
	}
	for _, start := range starts {
		start()
	}
	p.maybeClose()
}

// onInitialSent runs start once the initial payload has been published -- immediately, if that
// already happened (a deferred group nested inside another deferred group is discovered while its
// parent executes, after the initial response is long gone).
func (p *payloadPublisher) onInitialSent(start func()) {
	p.mu.Lock()
	if !p.initialSent {
		p.deferredStarts = append(p.deferredStarts, start)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	start()
}

// publishCompleted reports a fully-resolved deferred fragment: its data as an "incremental" entry
// and its terminal "completed" entry in the same payload, or -- when the record failed (a non-null
// violation bubbled to the fragment root) -- only a "completed" entry carrying the errors, its data
// being unrepresentable.
func (p *payloadPublisher) publishCompleted(record *deferredFragmentRecord) {
	if record.data == nil {
		p.publishOne(ExecutionResult{Completed: []CompletedResult{{ID: record.id, Errs: record.errs}}})
		return
	}
	p.publishOne(ExecutionResult{
		Incremental: []IncrementalResult{{ID: record.id, Data: record.data, Errs: record.errs}},
		Completed:   []CompletedResult{{ID: record.id}},
	})
}

// publishStreamBatch sends a batch of newly-available items for a `@stream`'d list field. Set
// terminal to true on the call that observes the end of the underlying iterator (or an error that
// ends the stream); that call is reported as the stream's "completed" entry rather than another
// incremental batch, and it also retires the stream's outstanding slot.
func (p *payloadPublisher) publishStreamBatch(stream *streamRecord, items []resultValue, errs graphql.Errors, terminal bool) {
	if terminal {
		p.publishOne(ExecutionResult{Completed: []CompletedResult{{ID: stream.id, Errs: errs}}})
		return
	}
	p.deliver(ExecutionResult{
		Incremental: []IncrementalResult{{ID: stream.id, Items: items, Errs: errs}},
		subsequent:  true,
		HasNext:     true,
	})
}

// publishOne reports result as one finished unit of incremental work, decrementing the outstanding
// counter; result.HasNext reflects whatever remains outstanding after it. The entry itself is
// handed to deliver, which queues it instead of sending it directly if the initial payload has not
// gone out yet -- a deferred group or stream can settle synchronously, before the initial response
// has even finished executing, and the wire format forbids naming an id in "pending" after the
// entry that resolves it has already gone out.
func (p *payloadPublisher) publishOne(result ExecutionResult) {
	result.subsequent = true

	p.mu.Lock()
	p.outstanding--
	result.HasNext = p.outstanding > 0
	p.mu.Unlock()

	p.deliver(result)
}

// deliver queues result if the initial payload hasn't been sent yet, or sends it (attaching any
// not-yet-announced pending records, and retiring the publisher once nothing else is outstanding)
// otherwise.
func (p *payloadPublisher) deliver(result ExecutionResult) {
	p.mu.Lock()
	if !p.initialSent {
		p.queue = append(p.queue, result)
		p.mu.Unlock()
		return
	}
	result.Pending = append(result.Pending, p.pendingNew...)
	p.pendingNew = nil
	p.mu.Unlock()

	p.send(result)
	p.maybeClose()
}

func (p *payloadPublisher) send(result ExecutionResult) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return
	}
	p.out <- result
}

// maybeClose closes the publisher's channel once the initial payload has been sent and nothing
// remains outstanding. Safe to call from multiple goroutines and more than once.
func (p *payloadPublisher) maybeClose() {
	p.mu.Lock()
	if p.closed || !p.initialSent || p.outstanding > 0 {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	close(p.out)
	close(p.done)
}
