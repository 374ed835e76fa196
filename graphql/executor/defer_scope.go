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

// deferScope represents one `@defer` application site encountered during field collection. Scopes
// form a forest: a fragment deferred inside another deferred fragment gets a scope whose parent is
// the enclosing one. A nil *deferScope always means "not deferred; part of the initial response".
type deferScope struct {
	id     uint64
	label  string
	parent *deferScope
}

// hasAncestor reports whether s is d itself or one of d's ancestors.
func (d *deferScope) hasAncestor(s *deferScope) bool {
	for cur := d; cur != nil; cur = cur.parent {
		if cur == s {
			return true
		}
	}
	return false
}

// scopeSet is an unordered set of deferScopes, used as the key describing "this grouped field set
// is only reachable once every scope in the set has resolved". Equal scopeSets (after simplify) map
// to the same executionPlan partition.
type scopeSet map[*deferScope]struct{}

func newScopeSet(scopes ...*deferScope) scopeSet {
	set := make(scopeSet, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}

func (set scopeSet) clone() scopeSet {
	out := make(scopeSet, len(set))
	for s := range set {
		out[s] = struct{}{}
	}
	return out
}

// unionScopeSets returns the set of scopes appearing in either a or b. A merged field group is
// gated on every scope any of its occurrences was collected under; the "reachable through a
// non-deferred path means not gated at all" override lives in mergedScopeSetOf, not here.
func unionScopeSets(a, b scopeSet) scopeSet {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := a.clone()
	for s := range b {
		out[s] = struct{}{}
	}
	return out
}

// simplify drops any scope whose ancestor is also in the set: the ancestor's fragment encloses the
// descendant's, so a group gated on the ancestor is delivered no later than one gated on the
// descendant, and keeping both would require both to separately "complete" in the incremental graph
// before the group could ever be published.
func (set scopeSet) simplify() scopeSet {
	if len(set) <= 1 {
		return set
	}
	out := set.clone()
	for s := range set {
		for other := range set {
			if other == s {
				continue
			}
			if s.hasAncestor(other) {
				delete(out, s)
			}
		}
	}
	return out
}

// ordered returns the set's scopes sorted by allocation id, so callers that assign externally
// visible state per scope (the Incremental Graph's record/wire ids) do it in a stable order
// instead of Go's randomized map iteration order.
func (set scopeSet) ordered() []*deferScope {
	out := make([]*deferScope, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].id > out[j].id; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// key returns a comparable representation of the set for use as a map key in the execution plan.
// Go maps aren't directly comparable or hashable as keys when their value type isn't; scopeSet
// (map[*deferScope]struct{}) can't be a map key itself, so key canonicalizes each distinct set
// into a sorted slice of ids which, as a string, is; plan.go uses it to group and compare sets.
func (set scopeSet) key() string {
	if len(set) == 0 {
		return ""
	}
	ids := make([]uint64, 0, len(set))
	for s := range set {
		ids = append(ids, s.id)
	}
	// Insertion sort: scope sets are small (bounded by query nesting depth of @defer use).
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}

	buf := make([]byte, 0, len(ids)*9)
	for _, id := range ids {
		buf = appendUint64(buf, id)
		buf = append(buf, ',')
	}
	return string(buf)
}

func appendUint64(buf []byte, v uint64) []byte {
	if v == 0 {
		return append(buf, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(buf, tmp[i:]...)
}
