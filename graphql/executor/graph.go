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
	"strconv"
	"sync"

	"github.com/graphql/graphql-js-sub001/graphql"
)

// The Incremental Graph tracks every in-flight `@defer`/`@stream` unit of work for one operation
// and decides, as pendingExecutionGroups finish, when a deferred fragment has everything it needs
// to be handed to the Payload Publisher. Records are kept in maps indexed by the stable ids scope
// allocation already hands out (collect.go's collector.allocScopeID) rather than linked via
// *deferScope pointers directly, so nothing here needs to reason about pointer identity across
// goroutines. Each record announces itself to the publisher the moment it is created, which is what
// guarantees a "pending" entry always precedes the "incremental"/"completed" entries naming its id,
// no matter how early the record's own execution settles relative to the initial payload.
type incrementalGraph struct {
	mu sync.Mutex

	// fragments is indexed by deferScope.id. fragments[id] is nil until the scope is first referenced
	// by an executionGroup.
	fragments map[uint64]*deferredFragmentRecord

	// nextID numbers fragment records and streams with one shared counter so every PendingResult
	// handed to the Payload Publisher carries a globally unique wire id.
	nextID int

	publisher *payloadPublisher
}

// deferredFragmentRecord tracks one `@defer`'d fragment spread/inline fragment: a label, the
// response path it is rooted at, the data accumulated from every pendingExecutionGroup feeding it,
// and how many of those groups are still outstanding. failed flips once any feeding group's data
// became unrepresentable (a non-null violation bubbled to the group root); a failed record emits a
// "completed" entry carrying errors and no data.
type deferredFragmentRecord struct {
	id    string
	scope *deferScope
	path  *path

	data   *objectResult
	errs   graphql.Errors
	failed bool

	pendingGroups int
}

// pendingExecutionGroup is one scheduled unit of deferred work: the fields gated on exactly one
// (possibly shared) scope set, and the fragment records that must be notified when it finishes.
type pendingExecutionGroup struct {
	fragments []*deferredFragmentRecord
}

// streamRecord tracks one `@stream`'d list field's delivery of items beyond its initialCount.
type streamRecord struct {
	id    string
	path  *path
	label string
}

func newIncrementalGraph(publisher *payloadPublisher) *incrementalGraph {
	return &incrementalGraph{
		fragments: map[uint64]*deferredFragmentRecord{},
		publisher: publisher,
	}
}

// allocID hands out the next wire id. Caller must hold g.mu.
func (g *incrementalGraph) allocID() string {
	id := strconv.Itoa(g.nextID)
	g.nextID++
	return id
}

// fragmentRecordFor returns (creating and announcing if necessary) the deferredFragmentRecord for
// scope, rooted at p. Multiple executionGroups contributing to the same scope share the same record.
func (g *incrementalGraph) fragmentRecordFor(scope *deferScope, p *path) *deferredFragmentRecord {
	g.mu.Lock()

	record, ok := g.fragments[scope.id]
	if !ok {
		record = &deferredFragmentRecord{
			id:    g.allocID(),
			scope: scope,
			path:  p,
			data:  newObjectResult(0),
		}
		g.fragments[scope.id] = record
		g.mu.Unlock()
		g.publisher.announce(PendingResult{ID: record.id, Path: p.responsePath(), Label: scope.label})
		return record
	}

	g.mu.Unlock()
	return record
}

// beginGroup registers a pendingExecutionGroup feeding every fragment record in scopes (by id, via
// fragmentRecordFor) and returns a handle used to report its completion. Every fragment touched has
// its pendingGroups counter incremented so the graph knows not to release it until this group (and
// every other one feeding it) has reported in.
func (g *incrementalGraph) beginGroup(scopes scopeSet, p *path) *pendingExecutionGroup {
	fragments := make([]*deferredFragmentRecord, 0, len(scopes))
	for _, scope := range scopes.ordered() {
		fragments = append(fragments, g.fragmentRecordFor(scope, p))
	}

	g.mu.Lock()
	for _, record := range fragments {
		record.pendingGroups++
	}
	g.mu.Unlock()

	return &pendingExecutionGroup{fragments: fragments}
}

// completeGroup merges data/errs produced by executing group's fields into every fragment record it
// feeds, decrements their pending counters, and publishes any fragment that has become fully
// resolved (every group feeding it has reported in). data == nil marks a group whose result is
// unrepresentable -- a non-null violation bubbled all the way to the group root -- which fails every
// fragment the group feeds.
func (g *incrementalGraph) completeGroup(group *pendingExecutionGroup, data *objectResult, errs graphql.Errors) {
	g.mu.Lock()
	var toRelease []*deferredFragmentRecord
	for _, record := range group.fragments {
		if data == nil {
			record.failed = true
		} else if !record.failed {
			record.data.merge(data)
		}
		record.errs.AppendErrors(errs)
		record.pendingGroups--
		if record.pendingGroups == 0 {
			toRelease = append(toRelease, record)
		}
	}
	g.mu.Unlock()

	for _, record := range toRelease {
		g.release(record)
	}
}

// release hands a fully-resolved fragment record to the publisher. A record whose defer scope has a
// parent scope is only released once that parent fragment has itself been published, which parent
// != nil fragments satisfy transitively since the parent's own release happens first in program
// order (the parent's pendingGroups can only reach zero after its own groups, which are a superset
// of what gates any nested scope, have completed).
func (g *incrementalGraph) release(record *deferredFragmentRecord) {
	if record.failed {
		record.data = nil
	}
	g.publisher.publishCompleted(record)
}

// beginStream allocates and announces a streamRecord for a `@stream`'d list field rooted at p (the
// list field's own path; individual items extend it with their index).
func (g *incrementalGraph) beginStream(p *path, label string) *streamRecord {
	g.mu.Lock()
	record := &streamRecord{id: g.allocID(), path: p, label: label}
	g.mu.Unlock()
	g.publisher.announce(PendingResult{ID: record.id, Path: p.responsePath(), Label: label})
	return record
}

// merge folds the fields of other into o, in other's key order, overwriting any key already present
// (a key should never be present in both halves of a correctly-partitioned execution plan, but last
// write wins rather than panicking if it is).
func (o *objectResult) merge(other *objectResult) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		o.set(key, other.values[key])
	}
}
