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

// path is a persistent (immutable, shareable) linked list recording the chain of response keys and
// list indices leading to a value being completed. Each field/list-item completion allocates one
// new node that points at its parent's path, so sibling completions never interfere with each
// other; there is no pointer arithmetic over a result tree to recover it (contrast with how
// ResultNode.Path() in earlier revisions of this engine walked the tree by address, which is fragile
// under any change to how nodes are stored).
type path struct {
	parent *path
	key    interface{} // string for an object field, int for a list index
}

// child returns a new path extending p with a field name.
func (p *path) child(fieldName string) *path {
	return &path{parent: p, key: fieldName}
}

// index returns a new path extending p with a list index.
func (p *path) index(i int) *path {
	return &path{parent: p, key: i}
}

// responsePath materializes p into a graphql.ResponsePath, suitable for attaching to errors and
// for the "path"/"subPath" fields of incremental payloads.
func (p *path) responsePath() graphql.ResponsePath {
	var keys []interface{}
	for node := p; node != nil; node = node.parent {
		keys = append(keys, node.key)
	}

	var result graphql.ResponsePath
	for i := len(keys) - 1; i >= 0; i-- {
		switch key := keys[i].(type) {
		case string:
			result.AppendFieldName(key)
		case int:
			result.AppendIndex(key)
		}
	}
	return result
}
