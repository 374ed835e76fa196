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
	"github.com/graphql/graphql-js-sub001/jsonwriter"
)

// resultValue is the dynamic value of a completed field in the response tree: nil, a coerced leaf
// value (string/int/float/bool or anything else jsonwriter.Stream.WriteInterface knows how to
// serialize), an *objectResult, or a listResult.
type resultValue interface{}

// objectResult is an ordered object value in a completed result tree. Field order follows the
// grouped field set's first-occurrence order rather than Go map iteration order, since clients rely
// on a GraphQL response preserving query order.
type objectResult struct {
	keys   []string
	values map[string]resultValue
}

func newObjectResult(sizeHint int) *objectResult {
	return &objectResult{
		keys:   make([]string, 0, sizeHint),
		values: make(map[string]resultValue, sizeHint),
	}
}

// set assigns the value for key, recording first-occurrence order. Calling set twice for the same
// key (the merged-field-group case) overwrites the value in place without disturbing order.
func (o *objectResult) set(key string, value resultValue) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// MarshalJSONTo implements jsonwriter.ValueMarshaler.
func (o *objectResult) MarshalJSONTo(stream *jsonwriter.Stream) error {
	if o == nil {
		stream.WriteNil()
		return stream.Error()
	}
	stream.WriteObjectStart()
	for i, key := range o.keys {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(key)
		writeResultValue(stream, o.values[key])
	}
	stream.WriteObjectEnd()
	return stream.Error()
}

// listResult is an ordered list value in a completed result tree.
type listResult []resultValue

// MarshalJSONTo implements jsonwriter.ValueMarshaler.
func (l listResult) MarshalJSONTo(stream *jsonwriter.Stream) error {
	if l == nil {
		stream.WriteNil()
		return stream.Error()
	}
	if len(l) == 0 {
		stream.WriteEmptyArray()
		return stream.Error()
	}
	stream.WriteArrayStart()
	for i, item := range l {
		if i > 0 {
			stream.WriteMore()
		}
		writeResultValue(stream, item)
	}
	stream.WriteArrayEnd()
	return stream.Error()
}

// writeResultValue writes any resultValue to stream, dispatching to the ValueMarshaler path for the
// tree-shaped cases and to the general-purpose fallback (jsonwriter.Stream.WriteInterface) for
// coerced leaf values.
func writeResultValue(stream *jsonwriter.Stream, value resultValue) {
	switch v := value.(type) {
	case nil:
		stream.WriteNil()
	case jsonwriter.ValueMarshaler:
		stream.WriteValue(v)
	default:
		stream.WriteInterface(v)
	}
}
