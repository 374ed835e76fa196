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

package graphql

// possibleTypeSetData is the shared, mutable storage behind a PossibleTypeSet. PossibleTypeSet
// itself is passed around by value (as TypeMap is), so the data it mutates lives behind a pointer.
type possibleTypeSetData struct {
	// order records Object types in the order they were added, so that consumers iterating the set
	// (e.g. the "possibleTypes" introspection field) see a deterministic order.
	order []Object

	// types supports O(1) membership tests.
	types map[Object]struct{}
}

// PossibleTypeSet is the set of concrete Object types that can satisfy an AbstractType: the Object
// types implementing an Interface, or the member types of a Union.
type PossibleTypeSet struct {
	data *possibleTypeSetData
}

// NewPossibleTypeSet creates an empty PossibleTypeSet.
func NewPossibleTypeSet() PossibleTypeSet {
	return PossibleTypeSet{data: &possibleTypeSetData{types: map[Object]struct{}{}}}
}

// Add inserts t into the set. Adding the same Object twice is a no-op.
func (set PossibleTypeSet) Add(t Object) {
	d := set.data
	if _, exists := d.types[t]; exists {
		return
	}
	d.types[t] = struct{}{}
	d.order = append(d.order, t)
}

// Contains reports whether t is a member of the set. The zero-value PossibleTypeSet (as returned by
// Schema.PossibleTypes for an abstract type with no registered implementors) contains nothing.
func (set PossibleTypeSet) Contains(t Object) bool {
	if set.data == nil {
		return false
	}
	_, exists := set.data.types[t]
	return exists
}

// Objects returns the set's members in the order they were added.
func (set PossibleTypeSet) Objects() []Object {
	if set.data == nil {
		return nil
	}
	return set.data.order
}

// Len returns the number of members in the set.
func (set PossibleTypeSet) Len() int {
	if set.data == nil {
		return 0
	}
	return len(set.data.order)
}
