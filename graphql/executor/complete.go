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
	"reflect"
	"sync"

	"github.com/graphql/graphql-js-sub001/graphql"
	"github.com/graphql/graphql-js-sub001/graphql/ast"
	values "github.com/graphql/graphql-js-sub001/graphql/internal/value"
	"github.com/graphql/graphql-js-sub001/iterator"
)

// completeValue implements the Value Completer: given the static type expected at p and the value a
// resolver produced for it, it dispatches on the type's shape (NonNull/List/LeafType/AbstractType/
// Object) and calls done exactly once with either the completed resultValue or a *graphql.Error
// (never both). nodes is the full set of AST occurrences merged into this field (the first names
// it; all contribute selection sets and error locations). errs is the sink every nested field
// error discovered along the way reports into; completeValue returns a *graphql.Error to done when
// the position's value could not be produced -- either a fresh error (not yet in errs; the caller
// records it) or the errNullBubbled sentinel marking a null propagating up from a violation
// already recorded deeper in the tree.
func (fe *fieldExecutor) completeValue(
	ctx context.Context,
	fieldType graphql.Type,
	p *path,
	value interface{},
	nodes []*ast.Field,
	fieldDesc string,
	scopes scopeSet,
	errs *errorSink,
	done func(resultValue, *graphql.Error),
) {
	if nonNull, ok := fieldType.(graphql.NonNull); ok {
		fe.completeValue(ctx, nonNull.InnerType(), p, value, nodes, fieldDesc, scopes, errs, func(completed resultValue, err *graphql.Error) {
			if err != nil {
				done(nil, err)
				return
			}
			if completed == nil {
				done(nil, fieldError(
					newExecutionError(fmt.Sprintf("Cannot return null for non-nullable field %s.", fieldDesc)),
					p, locationsOf(nodes)))
				return
			}
			done(completed, nil)
		})
		return
	}

	if value == nil {
		done(nil, nil)
		return
	}
	if err, ok := value.(error); ok {
		done(nil, fieldError(err, p, locationsOf(nodes)))
		return
	}

	switch t := fieldType.(type) {
	case graphql.List:
		fe.completeListValue(ctx, t, p, value, nodes, fieldDesc, scopes, errs, done)

	case graphql.LeafType:
		completed, err := t.CoerceResultValue(value)
		if err != nil {
			done(nil, fieldError(err, p, locationsOf(nodes)))
			return
		}
		done(resultValue(completed), nil)

	case graphql.AbstractType:
		fe.resolveAbstractType(ctx, t, p, value, nodes, errs, func(objectType graphql.Object, err *graphql.Error) {
			if err != nil {
				done(nil, err)
				return
			}
			fe.completeObjectValue(ctx, objectType, p, value, nodes, scopes, errs, done)
		})

	case graphql.Object:
		fe.completeObjectValue(ctx, t, p, value, nodes, scopes, errs, done)

	default:
		done(nil, fieldError(
			newExecutionError(fmt.Sprintf("Cannot complete value of unsupported type %v.", fieldType)),
			p, locationsOf(nodes)))
	}
}

// resolveAbstractType runs abstractType's TypeResolver (falling back to each possible type's own
// IsTypeOf, matching the base GraphQL spec's DefaultResolveTypeFn) to find the concrete Object type
// that value should be completed as.
func (fe *fieldExecutor) resolveAbstractType(
	ctx context.Context,
	abstractType graphql.AbstractType,
	p *path,
	value interface{},
	nodes []*ast.Field,
	errs *errorSink,
	done func(graphql.Object, *graphql.Error),
) {
	info := &resolveInfo{ectx: fe.ectx, path: p, cancellation: fe.ectx.cancellation.token()}

	resolver := abstractType.TypeResolver()
	if resolver != nil {
		objectType, err := resolver.Resolve(ctx, value, info)
		if err != nil {
			done(nil, fieldError(err, p, locationsOf(nodes)))
			return
		}
		if objectType == nil {
			done(nil, fieldError(
				newExecutionError(fmt.Sprintf("Could not determine the exact type of %q for value.", abstractType.Name())),
				p, locationsOf(nodes)))
			return
		}
		done(objectType, nil)
		return
	}

	for _, candidate := range fe.ectx.operation.Schema().PossibleTypes(abstractType).Objects() {
		isTypeOf := candidate.IsTypeOf()
		if isTypeOf == nil {
			continue
		}
		ok, err := isTypeOf(ctx, value, info)
		if err != nil {
			done(nil, fieldError(err, p, locationsOf(nodes)))
			return
		}
		if ok {
			done(candidate, nil)
			return
		}
	}

	done(nil, fieldError(
		newExecutionError(fmt.Sprintf("Could not determine the exact type of %q for value.", abstractType.Name())),
		p, locationsOf(nodes)))
}

// completeObjectValue collects and executes objectType's own (re-planned) selection set against
// value, then reports the resulting object as this field's completed value. Every merged
// occurrence's selection set contributes, in node order, so `{ hero { name } hero { friends } }`
// yields one object carrying both subfields. The nested selection is collected fresh (rather than
// reusing any collection done by an enclosing call) because the set of sub-fields to collect
// depends on objectType, which is only known once the field's own value has resolved.
func (fe *fieldExecutor) completeObjectValue(
	ctx context.Context,
	objectType graphql.Object,
	p *path,
	value interface{},
	nodes []*ast.Field,
	scopes scopeSet,
	errs *errorSink,
	done func(resultValue, *graphql.Error),
) {
	hasSelection := false
	for _, node := range nodes {
		if node.SelectionSet != nil {
			hasSelection = true
			break
		}
	}
	if !hasSelection {
		done(nil, fieldError(
			newExecutionError(fmt.Sprintf("Field %q of type %q must have a selection of subfields.", nodes[0].Name.Value(), objectType.Name())),
			p, locationsOf(nodes)))
		return
	}

	ectx := fe.ectx
	collector := &collector{
		schema:         ectx.operation.Schema(),
		document:       ectx.operation.Document(),
		fragments:      ectx.operation.fragmentMap,
		variableValues: ectx.variableValues,
		allocScopeID:   ectx.allocScopeID,
		isSubscription: ectx.operation.Type() == ast.OperationTypeSubscription,
	}

	gfs := newGroupedFieldSet()
	visited := map[string]bool{}
	for _, node := range nodes {
		if node.SelectionSet == nil {
			continue
		}
		if err := collector.collectFields(node.SelectionSet, objectType, scopes, visited, gfs); err != nil {
			done(nil, fieldError(err, p, locationsOf(nodes)))
			return
		}
	}

	fe.executeObjectFields(ctx, objectType, value, gfs, p, scopes, nil, false, errs, func(result *objectResult) {
		if result == nil {
			// A non-null violation inside the object nulled it wholesale; the error is already in
			// errs, so propagate the null without re-reporting.
			done(nil, errNullBubbled)
			return
		}
		done(result, nil)
	})
}

// executeObjectFields partitions gfs via buildExecutionPlan and executes its initial portion against
// value, reporting the finished object to done. Once the initial portion settles, any executionGroup
// in the plan's deferred half is registered with the Incremental Graph and scheduled to execute
// asynchronously -- its own completion feeds graph.completeGroup rather than this call's done.
func (fe *fieldExecutor) executeObjectFields(
	ctx context.Context,
	objectType graphql.Object,
	value interface{},
	gfs *groupedFieldSet,
	p *path,
	ambientScopes scopeSet,
	parentSelection *fieldSelectionInfo,
	serial bool,
	errs *errorSink,
	done func(*objectResult),
) {
	plan := buildExecutionPlan(gfs, ambientScopes)

	fe.executeSelectionSet(ctx, objectType, value, plan.initial, p, parentSelection, serial, errs, func(result *objectResult) {
		for _, group := range plan.deferred {
			fe.scheduleDeferredGroup(ctx, objectType, value, group, p, parentSelection, errs)
		}
		done(result)
	})
}

// scheduleDeferredGroup registers group with the Incremental Graph and arranges for its fields to
// run to completion, reporting the outcome back to the graph instead of to any enclosing
// completeValue call -- this is how a `@defer`'d group's execution becomes decoupled from the
// response that discovered it. Under early execution the group starts immediately (overlapping
// whatever initial-response work remains); otherwise it waits until the initial payload has been
// published.
func (fe *fieldExecutor) scheduleDeferredGroup(
	ctx context.Context,
	objectType graphql.Object,
	value interface{},
	group *executionGroup,
	p *path,
	parentSelection *fieldSelectionInfo,
	errs *errorSink,
) {
	pending := fe.graph.beginGroup(group.scopes, p)
	start := func() {
		groupErrs := &errorSink{}
		fe.executeSelectionSet(ctx, objectType, value, group.fields, p, parentSelection, false, groupErrs, func(result *objectResult) {
			fe.graph.completeGroup(pending, result, groupErrs.errs)
		})
	}
	if fe.ectx.enableEarlyExecution {
		start()
		return
	}
	fe.graph.publisher.onInitialSent(start)
}

// completeListValue implements list completion, including `@stream`: when the field carries a
// `@stream` directive (and its `if` argument isn't false), items at or beyond initialCount are
// delivered through the Incremental Graph as a stream instead of being awaited for the initial
// response.
func (fe *fieldExecutor) completeListValue(
	ctx context.Context,
	listType graphql.List,
	p *path,
	value interface{},
	nodes []*ast.Field,
	fieldDesc string,
	scopes scopeSet,
	errs *errorSink,
	done func(resultValue, *graphql.Error),
) {
	it, size, err := asIterable(value)
	if err != nil {
		done(nil, fieldError(err, p, locationsOf(nodes)))
		return
	}

	streamArgs, streamErr := values.DirectiveValues(graphql.StreamDirective(), nodes[0].Directives, fe.ectx.variableValues)
	streaming := false
	initialCount := 0
	label := ""
	if streamErr == nil && streamArgs.Get("if") != nil {
		streaming = true
		if ifValue, ok := streamArgs.Lookup("if"); ok {
			if b, ok := ifValue.(bool); ok && !b {
				streaming = false
			}
		}
		if n, ok := streamArgs.Lookup("initialCount"); ok {
			if i, ok := n.(int); ok {
				initialCount = i
			}
		}
		if l, ok := streamArgs.Lookup("label"); ok {
			label, _ = l.(string)
		}

		// `@stream` has no meaning on a subscription's per-event result, and a list nested directly
		// inside another streamed list (the enclosing field's own path segment is already a numeric
		// index) would need a second, nested stream record this graph doesn't model -- both disable
		// streaming and fall back to completing the whole list inline.
		if fe.ectx.operation.Type() == ast.OperationTypeSubscription {
			streaming = false
		}
		if _, nested := p.key.(int); nested {
			streaming = false
		}
	}

	elementType := listType.ElementType()
	elementIsNonNull := graphql.IsNonNullType(elementType)
	items := make([]resultValue, 0, size)
	nulled := false

	var completeNext func(index int)
	var streamRest func(index int)

	// finish reports the list's completed value. A NonNull element that failed to complete bubbles
	// its null all the way out to this list (the nearest nullable position above it), per the same
	// non-nullability rule executeField applies to an ordinary field -- the individual item slot
	// doesn't get to stay null on its own since its type forbids that. The violation was already
	// recorded when it crossed the item boundary, so the null propagates as errNullBubbled.
	finish := func() {
		if nulled {
			done(nil, errNullBubbled)
			return
		}
		done(listResult(items), nil)
	}

	completeNext = func(index int) {
		if streaming && index >= initialCount {
			if nulled {
				finish()
				return
			}
			streamRest(index)
			return
		}

		raw, iterErr := it.Next()
		if iterErr == iterator.Done {
			finish()
			return
		}
		if iterErr != nil {
			errs.add(fieldError(iterErr, p, locationsOf(nodes)))
			finish()
			return
		}

		itemPath := p.index(index)
		fe.completeValue(ctx, elementType, itemPath, raw, nodes, fieldDesc, scopes, errs, func(completed resultValue, err *graphql.Error) {
			if err != nil {
				if err != errNullBubbled {
					errs.add(err)
				}
				if elementIsNonNull {
					nulled = true
				} else {
					items = append(items, nil)
				}
			} else {
				items = append(items, completed)
			}
			completeNext(index + 1)
		})
	}

	streamRest = func(index int) {
		stream := fe.graph.beginStream(p, label)
		// An iterator that supports early return gets it invoked (once) should the operation be
		// canceled while the stream is still draining.
		if closer, ok := it.(interface{ Close() error }); ok {
			fe.ectx.cancellation.onCancel(func(error) {
				_ = closer.Close()
			})
		}
		go fe.driveStream(ctx, stream, it, elementType, nodes, fieldDesc, index)
		finish()
	}

	completeNext(0)
}

// driveStream pulls items from it one at a time (beyond the list's initialCount, already handled
// inline by completeListValue) and publishes each as its own incremental batch via the Payload
// Publisher, until the iterator is exhausted, errors, a non-null item violation bubbles to the
// stream root, or the operation is canceled -- each of which ends the stream with its terminal
// "completed" entry.
func (fe *fieldExecutor) driveStream(
	ctx context.Context,
	stream *streamRecord,
	it Iterator,
	elementType graphql.Type,
	nodes []*ast.Field,
	fieldDesc string,
	index int,
) {
	if err := fe.ectx.cancellation.token().Err(); err != nil {
		fe.graph.publisher.publishStreamBatch(stream, nil,
			graphql.ErrorsOf(fieldError(err, stream.path, locationsOf(nodes))), true)
		return
	}

	raw, err := it.Next()
	if err == iterator.Done {
		fe.graph.publisher.publishStreamBatch(stream, nil, graphql.NoErrors(), true)
		return
	}
	if err != nil {
		fe.graph.publisher.publishStreamBatch(stream, nil,
			graphql.ErrorsOf(fieldError(err, stream.path, locationsOf(nodes))), true)
		return
	}

	elementIsNonNull := graphql.IsNonNullType(elementType)
	itemErrs := &errorSink{}
	fe.completeValue(ctx, elementType, stream.path.index(index), raw, nodes, fieldDesc, newScopeSet(), itemErrs, func(completed resultValue, fieldErr *graphql.Error) {
		if fieldErr != nil {
			if fieldErr != errNullBubbled {
				itemErrs.add(fieldErr)
			}
			if elementIsNonNull {
				// The violation bubbles past the item to the stream itself: deliver the terminal
				// entry with the accumulated errors and stop pulling from the iterator.
				fe.graph.publisher.publishStreamBatch(stream, nil, itemErrs.errs, true)
				return
			}
			completed = nil
		}
		fe.graph.publisher.publishStreamBatch(stream, []resultValue{completed}, itemErrs.errs, false)
		fe.driveStream(ctx, stream, it, elementType, nodes, fieldDesc, index+1)
	})
}

// asIterable adapts value into an Iterator, accepting the engine's own Iterable/SizedIterable
// collaborator interfaces as well as plain Go slices and arrays (reflection-based, grounded on
// default_field_resolver.go's own reflect conventions -- iterable.go only ships map-backed
// adapters).
func asIterable(value interface{}) (Iterator, int, error) {
	if sized, ok := value.(SizedIterable); ok {
		return sized.Iterator(), sized.Size(), nil
	}
	if iterable, ok := value.(Iterable); ok {
		return iterable.Iterator(), 0, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return &sliceIterator{value: rv}, rv.Len(), nil
	}

	return nil, 0, newExecutionError(fmt.Sprintf("Expected Iterable or slice value for list field, got %T.", value))
}

// sliceIterator implements Iterator over a reflect.Value known to be a Slice or Array.
type sliceIterator struct {
	mu    sync.Mutex
	value reflect.Value
	index int
}

// Next implements Iterator.
func (it *sliceIterator) Next() (interface{}, error) {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.index >= it.value.Len() {
		return nil, iterator.Done
	}
	v := it.value.Index(it.index).Interface()
	it.index++
	return v, nil
}
