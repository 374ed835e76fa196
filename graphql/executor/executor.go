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
	"bytes"
	"io"

	"github.com/graphql/graphql-js-sub001/graphql"
	"github.com/graphql/graphql-js-sub001/jsonwriter"
)

// ExecutionResult is one entry delivered on the channel returned by PreparedOperation.Execute. The
// first entry is always the "initial" payload (Data/Errors/Pending); subsequent entries, present
// only when a `@defer`/`@stream` directive produced outstanding work, carry Incremental/Completed
// batches until HasNext reports false, per the incremental delivery response format.
type ExecutionResult struct {
	// Data is the (possibly partial, null-propagated) result of the initial response. Absent on
	// every entry after the first.
	Data resultValue

	// Errors collected while producing Data.
	Errors graphql.Errors

	// Pending lists deferred fragments/streams this payload promises a later Incremental/Completed
	// entry for. Mostly set on the first entry; a subsequent entry carries one only when a record was
	// discovered after the initial payload went out (a `@defer` nested inside another deferred
	// fragment).
	Pending []PendingResult

	// Incremental carries newly-available data: `@stream` item batches and resolved `@defer`'d
	// fragments.
	Incremental []IncrementalResult

	// Completed carries the terminal entry for each finished deferred fragment or stream.
	Completed []CompletedResult

	// HasNext reports whether at least one more entry will be sent on the channel after this one.
	HasNext bool

	// subsequent marks a result produced after the initial payload. Unlike the initial payload
	// (where "hasNext" is only meaningful, and only present, once some deferred/streamed work is
	// outstanding), every subsequent entry carries "hasNext" regardless of its value -- it's the
	// terminator (false) or a promise of more to come (true), never simply absent.
	subsequent bool
}

// MarshalJSONTo writes result to w using the incremental delivery response shape: "data"/"errors"
// appear only on the initial payload, "pending"/"incremental"/"completed" only when non-empty, and
// "hasNext" is present on every entry once any incremental work exists in the first place.
func (result ExecutionResult) MarshalJSONTo(w io.Writer) error {
	stream := jsonwriter.NewStream(w)
	stream.WriteObjectStart()

	wroteField := false
	writeMoreIfNeeded := func() {
		if wroteField {
			stream.WriteMore()
		}
		wroteField = true
	}

	if result.Data != nil {
		writeMoreIfNeeded()
		stream.WriteObjectField("data")
		writeResultValue(stream, result.Data)
	}
	if result.Errors.HaveOccurred() {
		writeMoreIfNeeded()
		stream.WriteObjectField("errors")
		stream.WriteArrayStart()
		for i, err := range result.Errors.Errors {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteInterface(err)
		}
		stream.WriteArrayEnd()
	}
	if len(result.Pending) > 0 {
		writeMoreIfNeeded()
		stream.WriteObjectField("pending")
		stream.WriteArrayStart()
		for i, p := range result.Pending {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteValue(p)
		}
		stream.WriteArrayEnd()
	}
	if len(result.Incremental) > 0 {
		writeMoreIfNeeded()
		stream.WriteObjectField("incremental")
		stream.WriteArrayStart()
		for i, r := range result.Incremental {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteValue(r)
		}
		stream.WriteArrayEnd()
	}
	if len(result.Completed) > 0 {
		writeMoreIfNeeded()
		stream.WriteObjectField("completed")
		stream.WriteArrayStart()
		for i, c := range result.Completed {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteValue(c)
		}
		stream.WriteArrayEnd()
	}
	if result.subsequent || result.HasNext || len(result.Pending) > 0 {
		writeMoreIfNeeded()
		stream.WriteObjectField("hasNext")
		stream.WriteBool(result.HasNext)
	}

	stream.WriteObjectEnd()
	return stream.Error()
}

// MarshalJSON implements json.Marshaler in terms of MarshalJSONTo, so an ExecutionResult handed to
// encoding/json (or any matcher built on it) serializes with the same wire shape.
func (result ExecutionResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := result.MarshalJSONTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
