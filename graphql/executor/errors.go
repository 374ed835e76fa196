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
	"github.com/graphql/graphql-js-sub001/graphql"
)

// newExecutionError builds a *graphql.Error of ErrKindExecution the way every engine-raised error
// in this package is built, so each is recognizable to callers matching on graphql.Error.Kind.
func newExecutionError(message string, args ...interface{}) error {
	return graphql.NewError(message, append([]interface{}{graphql.ErrKindExecution}, args...)...)
}

// fieldError wraps err as an execution error located at p, with the AST locations of the given
// field nodes attached. It is the single place field/value completion errors are built so that path
// and location attachment can't be forgotten at a call site. An err that is already a
// *graphql.Error is localized in place (keeping any path/locations it carries) rather than
// re-wrapped, so its message never accumulates the kind/op decorations Error() prints.
func fieldError(err error, p *path, locations []graphql.ErrorLocation) *graphql.Error {
	if e, ok := err.(*graphql.Error); ok {
		out := *e
		out.Kind = graphql.ErrKindExecution
		if out.Path.Empty() {
			out.Path = p.responsePath()
		}
		if len(out.Locations) == 0 {
			out.Locations = locations
		}
		return &out
	}
	return graphql.NewError(err.Error(), graphql.ErrKindExecution, p.responsePath(), locations, err).(*graphql.Error)
}

// errNullBubbled marks a null propagating up from a failed non-null position deeper in the result
// tree. The violation it stands for has already been recorded in the enclosing error sink at the
// point it crossed the original field boundary; a caller observing this sentinel nulls its own
// position (and keeps propagating if that position is itself non-null) without recording another
// error.
var errNullBubbled = graphql.NewError("null bubbled from a non-nullable field").(*graphql.Error)
