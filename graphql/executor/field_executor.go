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
	"context"
	"fmt"
	"sync"

	"github.com/graphql/graphql-js-sub001/concurrent/future"
	"github.com/graphql/graphql-js-sub001/graphql"
	"github.com/graphql/graphql-js-sub001/graphql/ast"
	values "github.com/graphql/graphql-js-sub001/graphql/internal/value"
)

// errorSink accumulates field errors from concurrently-executing fields. A single sink is shared by
// every field in one executeSelectionSet call (and, transitively, by every nested selection set
// reached from it, so the initial response reports into one place). Each deferred group and each
// streamed item reports into a sink of its own.
type errorSink struct {
	mu   sync.Mutex
	errs graphql.Errors
}

func (s *errorSink) add(err *graphql.Error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.errs.Append(err)
	s.mu.Unlock()
}

// fieldExecutor implements the Field Executor (resolving and completing one grouped field set
// against a concrete source object) plus the recursive Value Completer it depends on. One is built
// per operation execution and shared by every object reached during that execution -- it is stateless
// apart from the ExecutionContext, driver and Incremental Graph it was built with.
type fieldExecutor struct {
	ectx   *ExecutionContext
	driver *driver
	graph  *incrementalGraph
}

// executeSelectionSet implements ExecuteGroupedFieldSet: it resolves and completes every field group
// in gfs against source (the already-resolved value for objectType), invoking done with the finished
// object once every field has settled. serial forces fields to resolve one at a time in gfs's order,
// used only for the grouped field set of a mutation operation's root selection set.
func (fe *fieldExecutor) executeSelectionSet(
	ctx context.Context,
	objectType graphql.Object,
	source interface{},
	gfs *groupedFieldSet,
	p *path,
	parentSelection *fieldSelectionInfo,
	serial bool,
	errs *errorSink,
	done func(*objectResult),
) {
	groups := gfs.groups()
	result := newObjectResult(len(groups))

	if len(groups) == 0 {
		done(result)
		return
	}

	// nulled flips once any field's completion reports a non-null violation: the object being built
	// here is the violation's nearest enclosing position, so its whole value becomes null. Remaining
	// in-flight fields are still awaited (their side effects settle) but the assembled result is
	// discarded.
	var (
		mu        sync.Mutex
		remaining = len(groups)
		nulled    bool
	)
	settle := func() {
		mu.Lock()
		remaining--
		r := remaining
		isNulled := nulled
		mu.Unlock()
		if r == 0 {
			if isNulled {
				done(nil)
			} else {
				done(result)
			}
		}
	}

	record := func(key string, value resultValue, violated bool) {
		mu.Lock()
		if violated {
			nulled = true
		}
		result.set(key, value)
		mu.Unlock()
		settle()
	}

	if !serial {
		for _, fg := range groups {
			fe.executeField(ctx, objectType, source, fg, p, parentSelection, errs, record)
		}
		return
	}

	// Serial root mutation fields: chain each field's completion into the next one's start instead of
	// firing them all at once. A non-null violation aborts the remaining fields outright (the group's
	// data is already unrepresentable); external cancellation observed between two fields preempts
	// every field from here on, injecting the cancellation reason as each remaining response key's own
	// localized error instead of invoking its resolver.
	var runSerially func(i int)
	runSerially = func(i int) {
		if i >= len(groups) {
			return
		}
		if err := fe.ectx.cancellation.token().Err(); err != nil {
			fg := groups[i]
			fieldPath := p.child(fg.responseKey)
			errs.add(fieldError(err, fieldPath, locationsOf(fieldNodesOf(fg))))
			record(fg.responseKey, nil, false)
			runSerially(i + 1)
			return
		}
		fe.executeField(ctx, objectType, source, groups[i], p, parentSelection, errs, func(key string, value resultValue, violated bool) {
			record(key, value, violated)
			if violated {
				for j := i + 1; j < len(groups); j++ {
					settle()
				}
				return
			}
			runSerially(i + 1)
		})
	}
	runSerially(0)
}

func fieldNodesOf(fg *fieldGroup) []*ast.Field {
	nodes := make([]*ast.Field, 0, len(fg.details))
	for _, detail := range fg.details {
		nodes = append(nodes, detail.node)
	}
	return nodes
}

// executeField resolves and completes a single field group, reporting its response key and
// completed value to done once settled. violated reports that the field's declared type is non-null
// yet its value had to become null (a resolver error, a null completion, or a violation bubbling up
// from deeper in the tree) -- the enclosing executeSelectionSet responds by nulling the entire
// object being built, per the GraphQL null-propagation rule. The error itself is recorded in errs
// exactly once, at the boundary where it first occurred; a bubbled null arrives as the
// errNullBubbled sentinel and is not recorded again.
func (fe *fieldExecutor) executeField(
	ctx context.Context,
	objectType graphql.Object,
	source interface{},
	fg *fieldGroup,
	parentPath *path,
	parentSelection *fieldSelectionInfo,
	errs *errorSink,
	done func(key string, value resultValue, violated bool),
) {
	responseKey := fg.responseKey
	node := fg.details[0].node
	fieldDef := lookupField(objectType, node)
	fieldPath := parentPath.child(responseKey)

	if fieldDef == nil {
		// Unknown field; validation should have caught this. Treat as null rather than panicking.
		done(responseKey, nil, false)
		return
	}

	nonNull := graphql.IsNonNullType(fieldDef.Type())

	fieldNodes := make([]*ast.Field, 0, len(fg.details))
	for _, detail := range fg.details {
		fieldNodes = append(fieldNodes, detail.node)
	}

	args, err := values.ArgumentValues(fieldDef, node, fe.ectx.variableValues)
	if err != nil {
		errs.add(fieldError(err, fieldPath, locationsOf(fieldNodes)))
		done(responseKey, nil, nonNull)
		return
	}

	selection := &fieldSelectionInfo{
		parent:     parentSelection,
		fieldNodes: fieldNodes,
		field:      fieldDef,
		args:       args,
	}

	info := &resolveInfo{
		ectx:            fe.ectx,
		parentSelection: parentSelection,
		selection:       selection,
		object:          objectType,
		path:            fieldPath,
		cancellation:    fe.ectx.cancellation.token(),
	}

	resolver := fieldDef.Resolver()
	if resolver == nil {
		resolver = fe.ectx.operation.DefaultFieldResolver()
	}

	fieldScopes := mergedScopeSetOf(fg).simplify()
	fieldDesc := fmt.Sprintf("%s.%s", objectType.Name(), node.Name.Value())

	onResolved := func(value interface{}, err error) {
		if err != nil {
			errs.add(fieldError(err, fieldPath, locationsOf(fieldNodes)))
			done(responseKey, nil, nonNull)
			return
		}
		fe.completeValue(ctx, fieldDef.Type(), fieldPath, value, fieldNodes, fieldDesc, fieldScopes, errs, func(completed resultValue, fieldErr *graphql.Error) {
			if fieldErr != nil {
				if fieldErr != errNullBubbled {
					errs.add(fieldErr)
				}
				done(responseKey, nil, nonNull)
				return
			}
			done(responseKey, completed, false)
		})
	}

	value, err := resolver.Resolve(ctx, source, info)
	if err != nil {
		onResolved(nil, err)
		return
	}
	if f, ok := value.(future.Future); ok {
		fe.driver.poll(f, onResolved)
		return
	}
	onResolved(value, nil)
}

// lookupField finds the Field definition for node in objectType, handling the implicit
// introspection meta-fields (__typename, __schema, __type) which never appear in Fields().
func lookupField(objectType graphql.Object, node *ast.Field) graphql.Field {
	name := node.Name.Value()
	switch name {
	case typenameMetaFieldName:
		return typenameMetaField{}
	case schemaMetaFieldName:
		return schemaMetaField{}
	case typeMetaFieldName:
		return typeMetaField{}
	}
	return objectType.Fields()[name]
}

func locationsOf(nodes []*ast.Field) []graphql.ErrorLocation {
	locations := make([]graphql.ErrorLocation, len(nodes))
	for i, node := range nodes {
		locations[i] = graphql.ErrorLocationOfASTNode(node)
	}
	return locations
}
