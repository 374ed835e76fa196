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

// appendGroup inserts an already-built fieldGroup wholesale, preserving gfs's first-occurrence
// order. Used by the planner to redistribute groups from one groupedFieldSet into another without
// losing each detail's identity.
func (gfs *groupedFieldSet) appendGroup(group *fieldGroup) {
	if _, ok := gfs.index[group.responseKey]; !ok {
		gfs.order = append(gfs.order, group.responseKey)
	}
	gfs.index[group.responseKey] = group
}

// executionGroup is a set of fields that all became reachable together: every field in it is
// gated on the exact same set of outstanding `@defer` scopes. The Incremental Graph creates one
// pendingExecutionGroup per executionGroup per enclosing object (see graph.go).
type executionGroup struct {
	// scopes is the simplified, non-empty set of defer scopes gating this group's delivery.
	scopes scopeSet
	fields *groupedFieldSet
}

// executionPlan is the result of planning a single groupedFieldSet for execution: the fields that
// belong in the initial (non-deferred) response, plus zero or more executionGroups to be delivered
// later as incremental payloads once their gating scopes resolve.
//
// Reference: this is the engine's realization of "grouped field set partitioning" from the
// `@defer`/`@stream` incremental delivery proposal -- CollectFields in the base GraphQL spec always
// returns one undifferentiated grouped field set; this executor additionally partitions it by the
// scopes recorded during collection.
type executionPlan struct {
	initial  *groupedFieldSet
	deferred []*executionGroup
}

// buildExecutionPlan partitions gfs into the plan described above. parentScopes is the ambient set
// of defer scopes already satisfied by the time this selection set is reached -- empty at the
// operation root, but non-empty when planning the fields of an object that is itself nested inside
// a deferred fragment (the object's own selection set is collected starting from that ambient scope
// set, so every field group's merged scopes is at least as wide as parentScopes). A field group
// whose merged scope set (the union of every contributing occurrence's scopes, simplified; see
// mergedScopeSetOf)
// equals parentScopes crosses no new `@defer` boundary at this level and belongs in the initial
// (non-deferred, relative to this level) response. Otherwise it is placed into the executionGroup
// for its exact simplified scope set, creating that group on first use so that groups appear in
// first-encounter order (matching how the Incremental Graph wants to schedule them).
func buildExecutionPlan(gfs *groupedFieldSet, parentScopes scopeSet) *executionPlan {
	plan := &executionPlan{initial: newGroupedFieldSet()}
	groupsByKey := map[string]*executionGroup{}

	parentKey := parentScopes.simplify().key()

	for _, fg := range gfs.groups() {
		merged := mergedScopeSetOf(fg).simplify()
		if merged.key() == parentKey {
			plan.initial.appendGroup(fg)
			continue
		}

		key := merged.key()
		group, ok := groupsByKey[key]
		if !ok {
			group = &executionGroup{scopes: merged, fields: newGroupedFieldSet()}
			groupsByKey[key] = group
			plan.deferred = append(plan.deferred, group)
		}
		group.fields.appendGroup(fg)
	}

	return plan
}

// mergedScopeSetOf computes the scopes gating a fieldGroup as a whole: the union of every
// contributing fieldDetail's scopes, with one override -- a detail with no scope at all means the
// field is reachable through a non-deferred path, so the whole entry belongs to the initial
// response and the merged set collapses to empty. Two occurrences under unrelated defer scopes
// union to a set gated on both; buildExecutionPlan's simplify call then prunes any scope whose
// ancestor the union also contains.
func mergedScopeSetOf(fg *fieldGroup) scopeSet {
	merged := newScopeSet()
	for _, detail := range fg.details {
		if len(detail.scopes) == 0 {
			return newScopeSet()
		}
		merged = unionScopeSets(merged, detail.scopes)
	}
	return merged
}
