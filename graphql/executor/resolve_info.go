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
	"github.com/graphql/graphql-js-sub001/graphql/ast"
)

// fieldSelectionInfo implements graphql.FieldSelectionInfo. One is allocated per field being
// resolved and chained to its parent, mirroring the path/groupedFieldSet chaining used elsewhere in
// this package rather than walking a materialized result tree.
type fieldSelectionInfo struct {
	parent     *fieldSelectionInfo
	fieldNodes []*ast.Field
	field      graphql.Field
	args       graphql.ArgumentValues
}

// Parent implements graphql.FieldSelectionInfo.
func (info *fieldSelectionInfo) Parent() graphql.FieldSelectionInfo {
	if info.parent == nil {
		// Returning a non-nil interface wrapping a nil pointer would be a trap for callers comparing
		// against nil; return a genuinely nil interface instead.
		return nil
	}
	return info.parent
}

// FieldDefinitions implements graphql.FieldSelectionInfo.
func (info *fieldSelectionInfo) FieldDefinitions() []*ast.Field {
	return info.fieldNodes
}

// Field implements graphql.FieldSelectionInfo.
func (info *fieldSelectionInfo) Field() graphql.Field {
	return info.field
}

// Args implements graphql.FieldSelectionInfo.
func (info *fieldSelectionInfo) Args() graphql.ArgumentValues {
	return info.args
}

// resolveInfo implements graphql.ResolveInfo. One is built per field resolution by the Field
// Executor; fields that are cheap to recompute (Path) are computed lazily on request since most
// resolvers never call ResolveInfo.Path().
type resolveInfo struct {
	ectx *ExecutionContext

	parentSelection *fieldSelectionInfo
	selection       *fieldSelectionInfo

	object graphql.Object
	path   *path

	cancellation CancellationToken
}

var _ graphql.ResolveInfo = (*resolveInfo)(nil)

// Schema implements graphql.ResolveInfo.
func (info *resolveInfo) Schema() graphql.Schema {
	return info.ectx.operation.Schema()
}

// Document implements graphql.ResolveInfo.
func (info *resolveInfo) Document() ast.Document {
	return info.ectx.operation.Document()
}

// Operation implements graphql.ResolveInfo.
func (info *resolveInfo) Operation() *ast.OperationDefinition {
	return info.ectx.operation.Definition()
}

// DataLoaderManager implements graphql.ResolveInfo.
func (info *resolveInfo) DataLoaderManager() graphql.DataLoaderManager {
	return info.ectx.dataLoaderManager
}

// RootValue implements graphql.ResolveInfo.
func (info *resolveInfo) RootValue() interface{} {
	return info.ectx.rootValue
}

// AppContext implements graphql.ResolveInfo.
func (info *resolveInfo) AppContext() interface{} {
	return info.ectx.appContext
}

// VariableValues implements graphql.ResolveInfo.
func (info *resolveInfo) VariableValues() graphql.VariableValues {
	return info.ectx.variableValues
}

// ParentFieldSelection implements graphql.ResolveInfo.
func (info *resolveInfo) ParentFieldSelection() graphql.FieldSelectionInfo {
	if info.parentSelection == nil {
		return nil
	}
	return info.parentSelection
}

// Object implements graphql.ResolveInfo.
func (info *resolveInfo) Object() graphql.Object {
	return info.object
}

// FieldDefinitions implements graphql.ResolveInfo.
func (info *resolveInfo) FieldDefinitions() []*ast.Field {
	return info.selection.fieldNodes
}

// Field implements graphql.ResolveInfo.
func (info *resolveInfo) Field() graphql.Field {
	return info.selection.field
}

// Path implements graphql.ResolveInfo. Traverses the persistent path chain once, on demand.
func (info *resolveInfo) Path() graphql.ResponsePath {
	return info.path.responsePath()
}

// Args implements graphql.ResolveInfo.
func (info *resolveInfo) Args() graphql.ArgumentValues {
	return info.selection.args
}

// Cancellation implements graphql.ResolveInfo.
func (info *resolveInfo) Cancellation() graphql.CancellationToken {
	return info.cancellation
}
