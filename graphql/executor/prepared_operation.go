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

	"github.com/graphql/graphql-js-sub001/concurrent"
	"github.com/graphql/graphql-js-sub001/graphql"
	"github.com/graphql/graphql-js-sub001/graphql/ast"
)

// PreparedOperation is like "prepared statement" in conventional DBMS. In GraphQL, an Operation [0]
// is an executable definition [1] in GraphQL Document [2]. Operation can be either a (read-only)
// query, or a mutation or subscription. Before executing an operation, executor needs to make some
// "preparations" such as parsing and validation. PreparedOperation allows you to perform these
// static tasks in advance to save the overheads for subsequent repeatedly execution.
//
// Note PreparedOperation is not bound to any runner; each Execute call takes its own through the
// Runner option.
//
// [0]: https://facebook.github.io/graphql/draft/#sec-Language.Operations
// [1]: https://facebook.github.io/graphql/draft/#ExecutableDefinition
// [2]: https://facebook.github.io/graphql/draft/#sec-Language.Document
type PreparedOperation struct {
	// Schema of the type system that is currently executing
	schema graphql.Schema

	// Document that contains definitions for this operation
	document ast.Document

	// Definition of this operation
	definition *ast.OperationDefinition

	// rootType extracts the root type corresponding to the operation in the schema.
	rootType graphql.Object

	// FragmentMap maps name to the fragment definition in the document to speed up lookup when
	// fragment spread during execution.
	fragmentMap map[string]*ast.FragmentDefinition

	// Resolver to be used for resolving field value when the field doesn't provide one.
	defaultFieldResolver graphql.FieldResolver
}

// PrepareParams specifies parameters to Prepare. All data are required except DefaultFieldResolver,
// and OperationName, which is needed only when Document defines more than one operation.
type PrepareParams struct {
	// Schema of the type system that this operation is executing on
	Schema graphql.Schema

	// Document that contains operations to be prepared for execution
	Document ast.Document

	// The name of the Operation in the Document to execute.
	OperationName string

	// Resolver to be used to fields without providing custom resolvers.
	DefaultFieldResolver graphql.FieldResolver
}

// PrepareOption configures a PrepareParams field. Each option wraps one optional field of
// PrepareParams so callers can write Prepare(schema, document, executor.OperationName("Foo"))
// instead of building a PrepareParams literal by hand.
type PrepareOption func(*PrepareParams)

// OperationName selects which operation in document to prepare when it defines more than one.
func OperationName(name string) PrepareOption {
	return func(params *PrepareParams) {
		params.OperationName = name
	}
}

// WithDefaultFieldResolver overrides the resolver used for fields that don't supply their own.
func WithDefaultFieldResolver(resolver graphql.FieldResolver) PrepareOption {
	return func(params *PrepareParams) {
		params.DefaultFieldResolver = resolver
	}
}

// Prepare prepares the named (or sole) operation in document for execution against schema.
func Prepare(schema graphql.Schema, document ast.Document, opts ...PrepareOption) (*PreparedOperation, graphql.Errors) {
	params := PrepareParams{Schema: schema, Document: document}
	for _, opt := range opts {
		opt(&params)
	}
	return prepare(params)
}

// prepare is the struct-parameter form Prepare builds on; kept separate so the functional-options
// surface above stays a thin adapter over one code path.
func prepare(params PrepareParams) (*PreparedOperation, graphql.Errors) {
	var errs graphql.Errors

	schema := params.Schema
	document := params.Document

	// TODO: Validate schema and document.

	// Find the definition for the operation to be executed from document.
	var operation *ast.OperationDefinition

	operationName := params.OperationName
	// Also build map for fragmentMap.
	fragmentMap := map[string]*ast.FragmentDefinition{}

	for _, definition := range document.Definitions {
		switch definition := definition.(type) {
		case *ast.OperationDefinition:
			if len(operationName) == 0 {
				if operation != nil {
					return nil, graphql.ErrorsOf("Must provide operation name if query contains multiple operations.")
				}
				operation = definition
			} else {
				if operationName == definition.Name.Value() {
					operation = definition
				}
			}

		case *ast.FragmentDefinition:
			fragmentMap[definition.Name.Value()] = definition
		}
	}

	if operation == nil {
		if len(operationName) > 0 {
			errs.Emplace(fmt.Sprintf(`Unknown operation named "%s".`, operationName))
			return nil, errs
		}
		errs.Emplace("Must provide an operation.")
		return nil, errs
	}

	// Extract the root operation type.
	var rootType graphql.Object
	switch operation.OperationType() {
	case ast.OperationTypeQuery:
		rootType = schema.Query()
		if rootType == nil {
			return nil, graphql.ErrorsOf(
				"Schema does not define the required query root type.",
				[]graphql.ErrorLocation{graphql.ErrorLocationOfASTNode(operation)})
		}

	case ast.OperationTypeMutation:
		rootType = schema.Mutation()
		if rootType == nil {
			return nil, graphql.ErrorsOf(
				"Schema is not configured for mutations.",
				[]graphql.ErrorLocation{graphql.ErrorLocationOfASTNode(operation)})
		}

	case ast.OperationTypeSubscription:
		rootType = schema.Subscription()
		if rootType == nil {
			return nil, graphql.ErrorsOf(
				"Schema is not configured for subscriptions.",
				[]graphql.ErrorLocation{graphql.ErrorLocationOfASTNode(operation)})
		}

	default:
		return nil, graphql.ErrorsOf(
			"Can only have query, mutation and subscription operations.",
			[]graphql.ErrorLocation{graphql.ErrorLocationOfASTNode(operation)})
	}

	defaultFieldResolver := params.DefaultFieldResolver
	if defaultFieldResolver == nil {
		defaultFieldResolver = &DefaultFieldResolver{
			UnresolvedAsError:   true,
			ScanAnonymousFields: true,
			ScanMethods:         true,
			FieldTagName:        "graphql",
		}
	}

	return &PreparedOperation{
		schema:               schema,
		document:             document,
		definition:           operation,
		rootType:             rootType,
		fragmentMap:          fragmentMap,
		defaultFieldResolver: defaultFieldResolver,
	}, graphql.NoErrors()
}

// Schema returns the type system definition which the operation is based on.
func (operation *PreparedOperation) Schema() graphql.Schema {
	return operation.schema
}

// Document returns the request document.
func (operation *PreparedOperation) Document() ast.Document {
	return operation.document
}

// VariableDefinitions returns the variable definitions describing the variables taken by the
// operation.
func (operation *PreparedOperation) VariableDefinitions() []*ast.VariableDefinition {
	return operation.definition.VariableDefinitions
}

// ExecuteParams specifies parameter to execute a prepared operation.
type ExecuteParams struct {
	// Runner specifies the executor whose workers poll resolver futures. If it is not provided,
	// futures are polled inline on the execution's own goroutines.
	Runner concurrent.Executor

	// DataLoaderManager that manages dispatch for data loaders being used during execution; User can
	// also tracks DataLoader instances being used during the execution.
	DataLoaderManager graphql.DataLoaderManager

	// RootValue is an initial value corresponding to the root type being executed. Conceptually, an
	// initial value represents the “universe” of data available via a GraphQL Service. It is common
	// for a GraphQL Service to always use the same initial value for every request.
	RootValue interface{}

	// AppContext is an application-specific data that will get passed to all resolve functions.
	AppContext interface{}

	// VariableValues contains values for any Variables defined by the Operation.
	VariableValues map[string]interface{}

	// EnableEarlyExecution starts each deferred execution group the moment it is discovered,
	// overlapping with the rest of the initial response's execution. Off by default: a group then
	// waits until the initial payload has been published before its fields run, so deferred work
	// never competes with the fields the client sees first.
	EnableEarlyExecution bool

	// subscribeFieldResolver, when set via SubscribeFieldResolver, produces the source event stream
	// for a subscription's root field when the field itself configured no Subscriber. Unused by
	// Execute/ExecuteIncrementally; only Subscribe (dispatch.go) consults it.
	subscribeFieldResolver graphql.FieldResolver

	// perEventExecutor, when set via WithPerEventExecutor, overrides how Subscribe (dispatch.go) runs
	// operation once per source event. Unused by Execute/ExecuteIncrementally.
	perEventExecutor PerEventExecutor
}

// ExecuteOption configures an ExecuteParams field, the functional-options counterpart to
// PrepareOption above.
type ExecuteOption func(*ExecuteParams)

// Runner supplies the concurrent.Executor whose workers poll resolver futures; without it every
// future is polled inline (see driver.go).
func Runner(runner concurrent.Executor) ExecuteOption {
	return func(params *ExecuteParams) {
		params.Runner = runner
	}
}

// WithDataLoaderManager supplies the DataLoaderManager resolvers can fetch via
// graphql.ResolveInfo.DataLoaderManager().
func WithDataLoaderManager(manager graphql.DataLoaderManager) ExecuteOption {
	return func(params *ExecuteParams) {
		params.DataLoaderManager = manager
	}
}

// RootValue supplies the root value resolvers for the operation's top-level fields receive as
// source.
func RootValue(rootValue interface{}) ExecuteOption {
	return func(params *ExecuteParams) {
		params.RootValue = rootValue
	}
}

// AppContext supplies the application-specific value every graphql.ResolveInfo.AppContext() call
// during this execution returns.
func AppContext(appContext interface{}) ExecuteOption {
	return func(params *ExecuteParams) {
		params.AppContext = appContext
	}
}

// VariableValues supplies the values bound to the operation's variable definitions.
func VariableValues(values map[string]interface{}) ExecuteOption {
	return func(params *ExecuteParams) {
		params.VariableValues = values
	}
}

// EnableEarlyExecution makes deferred execution groups start speculatively, as soon as planning
// discovers them, instead of after the initial payload is published.
func EnableEarlyExecution() ExecuteOption {
	return func(params *ExecuteParams) {
		params.EnableEarlyExecution = true
	}
}

// Execute runs operation and returns a channel of ExecutionResult. The first value received is
// always the initial response; if the operation's selection set used no `@defer`/`@stream`
// directive, it is also the only value and the channel is closed immediately after. ctx governs
// deadline and cancellation for the whole execution, observable by resolvers through
// graphql.ResolveInfo.Cancellation().
func (operation *PreparedOperation) Execute(c context.Context, opts ...ExecuteOption) <-chan ExecutionResult {
	var params ExecuteParams
	for _, opt := range opts {
		opt(&params)
	}

	ectx, errs := newExecutionContext(c, operation, &params)
	publisher := newPayloadPublisher()
	if errs.HaveOccurred() {
		go publisher.publishInitial(ExecutionResult{Errors: errs})
		return publisher.channel()
	}

	graph := newIncrementalGraph(publisher)
	d := newDriver(params.Runner, ectx.cancellation)
	fe := &fieldExecutor{ectx: ectx, driver: d, graph: graph}

	// Fan c's own cancellation into the operation's cancellationHub, so a resolver future or async
	// iterable that registered with the hub rejects the moment the caller's context is done, not just
	// when the engine itself happens to notice. The watcher retires once the publisher has sent its
	// last entry so it never outlives the execution it was started for.
	go func() {
		select {
		case <-c.Done():
			ectx.cancellation.Cancel(c.Err())
		case <-publisher.done:
		}
	}()

	go operation.run(c, fe, publisher)

	return publisher.channel()
}

// run collects and executes operation's root selection set against fe, blocking until every root
// field (and whatever futures they registered with fe's driver) has settled, then reports the
// initial payload -- every deferred group or stream scheduled along the way keeps publishing on its
// own as it finishes, independent of this goroutine, until publisher's outstanding count reaches
// zero and it closes.
func (operation *PreparedOperation) run(ctx context.Context, fe *fieldExecutor, publisher *payloadPublisher) {
	col := &collector{
		schema:         operation.schema,
		document:       operation.document,
		fragments:      operation.fragmentMap,
		variableValues: fe.ectx.variableValues,
		allocScopeID:   fe.ectx.allocScopeID,
		isSubscription: operation.Type() == ast.OperationTypeSubscription,
	}

	gfs := newGroupedFieldSet()
	if err := col.collectFields(operation.definition.SelectionSet, operation.rootType, newScopeSet(), map[string]bool{}, gfs); err != nil {
		publisher.publishInitial(ExecutionResult{Errors: graphql.ErrorsOf(err)})
		return
	}

	errs := &errorSink{}
	serial := operation.Type() == ast.OperationTypeMutation

	rootDone := make(chan *objectResult, 1)
	fe.executeObjectFields(ctx, operation.rootType, fe.ectx.rootValue, gfs, nil, newScopeSet(), nil, serial, errs, func(result *objectResult) {
		rootDone <- result
	})

	result := <-rootDone

	// Cancellation that fired before the initial response finished executing preempts whatever partial
	// result/errors individual fields reported: the whole response becomes { errors: [reason] } and no
	// incremental work is announced, since nothing pending has been handed to the client yet for it to
	// expect a matching completed/incremental entry. This only applies to a query/subscription root,
	// whose fields execute concurrently with no defined completion order to salvage -- a mutation root
	// runs serially (see executeSelectionSet's runSerially), so by the time it observes cancellation it
	// has already built a well-defined partial result with the cancellation localized to each field
	// that never got to run; that result is published as-is instead of being discarded here.
	if !serial {
		if err := fe.ectx.cancellation.token().Err(); err != nil {
			publisher.publishInitial(ExecutionResult{Data: (*objectResult)(nil), Errors: graphql.ErrorsOf(err)})
			return
		}
	}

	publisher.publishInitial(ExecutionResult{Data: result, Errors: errs.errs})
}

// RootType returns operation.rootType.
func (operation *PreparedOperation) RootType() graphql.Object {
	return operation.rootType
}

// Definition returns operation.definition.
func (operation *PreparedOperation) Definition() *ast.OperationDefinition {
	return operation.definition
}

// Type returns operation.definition.OperationType().
func (operation *PreparedOperation) Type() ast.OperationType {
	return operation.definition.OperationType()
}

// FragmentDef finds the fragment definition for given name.
func (operation *PreparedOperation) FragmentDef(name string) *ast.FragmentDefinition {
	return operation.fragmentMap[name]
}

// DefaultFieldResolver returns operation.defaultFieldResolver.
func (operation *PreparedOperation) DefaultFieldResolver() graphql.FieldResolver {
	return operation.defaultFieldResolver
}
