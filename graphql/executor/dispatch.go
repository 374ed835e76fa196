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

	"github.com/graphql/graphql-js-sub001/concurrent/future"
	"github.com/graphql/graphql-js-sub001/graphql"
	"github.com/graphql/graphql-js-sub001/graphql/ast"
	values "github.com/graphql/graphql-js-sub001/graphql/internal/value"
	"github.com/graphql/graphql-js-sub001/iterator"
)

// Execute runs operation the same way PreparedOperation.Execute does, except it statically rejects
// -- before a single resolver runs -- any operation whose document applies `@defer`/`@stream`
// anywhere reachable from its root selection set. Those directives need the incremental-delivery
// channel ExecuteIncrementally returns; a bare ExecutionResult has no room for a `pending`/
// `incremental`/`completed` sequence to ride along in.
func Execute(ctx context.Context, operation *PreparedOperation, opts ...ExecuteOption) ExecutionResult {
	if usesIncrementalDelivery(operation.definition, operation.fragmentMap) {
		return ExecutionResult{Errors: graphql.ErrorsOf(
			"Operation uses `@defer`/`@stream` directives; call ExecuteIncrementally instead of Execute.")}
	}
	return <-operation.Execute(ctx, opts...)
}

// IncrementalResults is what ExecuteIncrementally returns: the settled initial payload plus a
// channel of whatever subsequent payloads the operation's `@defer`/`@stream` usage produces. When
// the operation never used either directive, InitialResult.HasNext is false and SubsequentResults
// yields nothing before closing.
type IncrementalResults struct {
	InitialResult     ExecutionResult
	SubsequentResults <-chan ExecutionResult
}

// ExecuteIncrementally runs operation and always succeeds in the sense that it never rejects based
// on `@defer`/`@stream` usage -- the caller gets the initial payload back directly and a channel for
// whatever follows, collapsing to a single, already-terminated entry when there was nothing to defer
// or stream in the first place.
func ExecuteIncrementally(ctx context.Context, operation *PreparedOperation, opts ...ExecuteOption) IncrementalResults {
	ch := operation.Execute(ctx, opts...)
	initial := <-ch
	return IncrementalResults{InitialResult: initial, SubsequentResults: ch}
}

// usesIncrementalDelivery reports whether any selection reachable from definition's root selection
// set -- including through fragment spreads -- carries an `@defer` or `@stream` directive. This is a
// purely syntactic check (it does not evaluate the directives' `if` argument against variable
// values, matching the teacher-adjacent convention of treating directive *presence* in the document,
// not its runtime-resolved truthiness, as what distinguishes an incremental-capable operation).
func usesIncrementalDelivery(definition *ast.OperationDefinition, fragments map[string]*ast.FragmentDefinition) bool {
	return selectionSetUsesIncrementalDelivery(definition.SelectionSet, fragments, map[string]bool{})
}

func selectionSetUsesIncrementalDelivery(set ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, visited map[string]bool) bool {
	for _, selection := range set {
		switch node := selection.(type) {
		case *ast.Field:
			if directivesRequestIncrementalDelivery(node.Directives) {
				return true
			}
			if selectionSetUsesIncrementalDelivery(node.SelectionSet, fragments, visited) {
				return true
			}

		case *ast.FragmentSpread:
			if directivesRequestIncrementalDelivery(node.Directives) {
				return true
			}
			name := node.Name.Value()
			if visited[name] {
				continue
			}
			visited[name] = true
			fragment := fragments[name]
			if fragment == nil {
				continue
			}
			if selectionSetUsesIncrementalDelivery(fragment.SelectionSet, fragments, visited) {
				return true
			}

		case *ast.InlineFragment:
			if directivesRequestIncrementalDelivery(node.Directives) {
				return true
			}
			if selectionSetUsesIncrementalDelivery(node.SelectionSet, fragments, visited) {
				return true
			}
		}
	}
	return false
}

func directivesRequestIncrementalDelivery(directives ast.Directives) bool {
	for _, d := range directives {
		switch d.Name.Value() {
		case "defer", "stream":
			return true
		}
	}
	return false
}

// PerEventExecutor runs operation once per source event produced by a subscription's source event
// stream, with event bound as the root value, and returns the single ExecutionResult for that event.
// Supplying a custom one (via WithPerEventExecutor) lets a caller reuse a differently-configured
// Execute path (e.g. a distinct Runner) per event instead of the default.
type PerEventExecutor func(ctx context.Context, operation *PreparedOperation, event interface{}, opts ...ExecuteOption) ExecutionResult

// defaultPerEventExecutor runs operation's selection set with event as the root value and reports
// its single ExecutionResult. On a subscription `@defer` is rejected at collection time (see
// collect.go's applyDefer) and `@stream` is ignored, the list being completed inline (see the
// `@stream` check in complete.go), so operation.Execute's channel for a subscription event never
// has more than one entry to drain.
func defaultPerEventExecutor(ctx context.Context, operation *PreparedOperation, event interface{}, opts ...ExecuteOption) ExecutionResult {
	perEventOpts := make([]ExecuteOption, 0, len(opts)+1)
	perEventOpts = append(perEventOpts, opts...)
	perEventOpts = append(perEventOpts, RootValue(event))
	return <-operation.Execute(ctx, perEventOpts...)
}

// SubscribeFieldResolver supplies the resolver used to produce a subscription's source event stream
// when the root field itself configured no Subscriber. Mirrors WithDefaultFieldResolver's role for
// ordinary field resolution.
func SubscribeFieldResolver(resolver graphql.FieldResolver) ExecuteOption {
	return func(params *ExecuteParams) {
		params.subscribeFieldResolver = resolver
	}
}

// WithPerEventExecutor overrides the function used to execute operation once per source event; the
// default re-runs operation.Execute with the event bound as root value.
func WithPerEventExecutor(executor PerEventExecutor) ExecuteOption {
	return func(params *ExecuteParams) {
		params.perEventExecutor = executor
	}
}

// Subscribe dispatches a subscription operation: it resolves the root field's source event stream
// (via its Subscriber, the SubscribeFieldResolver option, or finally its ordinary Resolver, in that
// order) and returns a channel that yields one ExecutionResult per source event, closing once the
// stream is exhausted, errors, or ctx is done. A failure resolving the source stream itself produces
// a single `{ errors }` result instead of a stream, per spec.
func Subscribe(ctx context.Context, operation *PreparedOperation, opts ...ExecuteOption) <-chan ExecutionResult {
	out := make(chan ExecutionResult, 1)

	if operation.Type() != ast.OperationTypeSubscription {
		out <- ExecutionResult{Errors: graphql.ErrorsOf("Subscribe requires a subscription operation.")}
		close(out)
		return out
	}

	var params ExecuteParams
	for _, opt := range opts {
		opt(&params)
	}

	ectx, errs := newExecutionContext(ctx, operation, &params)
	if errs.HaveOccurred() {
		out <- ExecutionResult{Errors: errs}
		close(out)
		return out
	}

	go operation.runSubscription(ctx, ectx, &params, opts, out)
	return out
}

// runSubscription resolves the subscription root field's source event stream and feeds one
// ExecutionResult per event to out, closing out once the stream ends, fails, or ctx is canceled.
func (operation *PreparedOperation) runSubscription(
	ctx context.Context,
	ectx *ExecutionContext,
	params *ExecuteParams,
	opts []ExecuteOption,
	out chan<- ExecutionResult,
) {
	defer close(out)

	col := &collector{
		schema:         operation.schema,
		document:       operation.document,
		fragments:      operation.fragmentMap,
		variableValues: ectx.variableValues,
		allocScopeID:   ectx.allocScopeID,
		isSubscription: true,
	}

	gfs := newGroupedFieldSet()
	if err := col.collectFields(operation.definition.SelectionSet, operation.rootType, newScopeSet(), map[string]bool{}, gfs); err != nil {
		out <- ExecutionResult{Errors: graphql.ErrorsOf(err)}
		return
	}

	groups := gfs.groups()
	if len(groups) == 0 {
		out <- ExecutionResult{Errors: graphql.ErrorsOf("Subscription operation must select exactly one root field.")}
		return
	}

	fg := groups[0]
	node := fg.details[0].node
	fieldDef := lookupField(operation.rootType, node)
	if fieldDef == nil {
		out <- ExecutionResult{Errors: graphql.ErrorsOf(fmt.Sprintf(
			`The subscription field "%s" is not defined.`, node.Name.Value()))}
		return
	}

	fieldNodes := make([]*ast.Field, 0, len(fg.details))
	for _, detail := range fg.details {
		fieldNodes = append(fieldNodes, detail.node)
	}

	args, err := values.ArgumentValues(fieldDef, node, ectx.variableValues)
	if err != nil {
		out <- ExecutionResult{Errors: graphql.ErrorsOf(fieldError(err, (*path)(nil), locationsOf(fieldNodes)))}
		return
	}

	selection := &fieldSelectionInfo{fieldNodes: fieldNodes, field: fieldDef, args: args}
	info := &resolveInfo{
		ectx:         ectx,
		selection:    selection,
		object:       operation.rootType,
		path:         (*path)(nil),
		cancellation: ectx.cancellation.token(),
	}

	resolver := fieldDef.Subscriber()
	if resolver == nil {
		resolver = params.subscribeFieldResolver
	}
	if resolver == nil {
		resolver = fieldDef.Resolver()
	}
	if resolver == nil {
		out <- ExecutionResult{Errors: graphql.ErrorsOf(fmt.Sprintf(
			`The subscription field "%s" has no resolver to produce its source event stream.`, node.Name.Value()))}
		return
	}

	value, err := resolver.Resolve(ctx, ectx.rootValue, info)
	if err == nil {
		if f, ok := value.(future.Future); ok {
			d := newDriver(params.Runner, ectx.cancellation)
			done := make(chan struct{})
			var resolved interface{}
			d.poll(f, func(v interface{}, e error) {
				resolved, err = v, e
				close(done)
			})
			<-done
			value = resolved
		}
	}
	if err != nil {
		out <- ExecutionResult{Errors: graphql.ErrorsOf(fieldError(err, (*path)(nil), locationsOf(fieldNodes)))}
		return
	}

	iterable, ok := value.(Iterable)
	if !ok {
		out <- ExecutionResult{Errors: graphql.ErrorsOf(fmt.Sprintf(
			`The subscription field "%s" must return an AsyncIterable source event stream.`, node.Name.Value()))}
		return
	}

	perEvent := params.perEventExecutor
	if perEvent == nil {
		perEvent = defaultPerEventExecutor
	}

	it := iterable.Iterator()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ectx.cancellation.token().Done():
			return
		default:
		}

		event, err := it.Next()
		if err == iterator.Done {
			return
		}
		if err != nil {
			out <- ExecutionResult{Errors: graphql.ErrorsOf(err)}
			return
		}

		out <- perEvent(ctx, operation, event, opts...)
	}
}
