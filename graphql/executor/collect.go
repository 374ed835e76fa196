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
	values "github.com/graphql/graphql-js-sub001/graphql/internal/value"
)

// fieldDetail is one selection-set occurrence contributing to a fieldGroup.
type fieldDetail struct {
	node   *ast.Field
	parent graphql.Object
	scopes scopeSet
}

// fieldGroup collects every occurrence of a single response key within one selection set.
type fieldGroup struct {
	responseKey string
	details     []*fieldDetail
}

// groupedFieldSet is the ordered result of field collection: one fieldGroup per distinct response
// key, in first-occurrence order (the order GraphQL specifies fields must be returned in).
type groupedFieldSet struct {
	order []string
	index map[string]*fieldGroup
}

func newGroupedFieldSet() *groupedFieldSet {
	return &groupedFieldSet{index: map[string]*fieldGroup{}}
}

func (gfs *groupedFieldSet) append(responseKey string, detail *fieldDetail) {
	group, ok := gfs.index[responseKey]
	if !ok {
		group = &fieldGroup{responseKey: responseKey}
		gfs.index[responseKey] = group
		gfs.order = append(gfs.order, responseKey)
	}
	group.details = append(group.details, detail)
}

func (gfs *groupedFieldSet) groups() []*fieldGroup {
	out := make([]*fieldGroup, len(gfs.order))
	for i, key := range gfs.order {
		out[i] = gfs.index[key]
	}
	return out
}

// collector carries the read-only state needed across a single collectFields call tree: the schema
// and document (to resolve fragment spreads and directive argument coercion) and a scope-id
// allocator shared with the rest of the operation so ids stay globally unique.
type collector struct {
	schema         graphql.Schema
	document       ast.Document
	fragments      map[string]*ast.FragmentDefinition
	variableValues graphql.VariableValues
	allocScopeID   func() uint64

	// isSubscription marks that the enclosing operation is a subscription. `@defer` has no meaning on
	// a subscription's root selection set (there is no incremental delivery channel distinct from the
	// per-event result), so applyDefer rejects it outright rather than silently ignoring it.
	isSubscription bool
}

// collectFields implements the Field Collector: it walks selectionSet (honoring `@skip`/`@include`
// and fragment spreads), producing one groupedFieldSet entry per response key. scopes is the set of
// defer scopes already in effect for the enclosing selection (nil/empty at the operation root); a
// scope created for `@defer` found directly in this selection set is chained onto one of them (see
// applyDefer).
func (c *collector) collectFields(
	selectionSet ast.SelectionSet,
	runtimeType graphql.Object,
	scopes scopeSet,
	visitedFragments map[string]bool,
	out *groupedFieldSet,
) error {
	for _, selection := range selectionSet {
		switch node := selection.(type) {
		case *ast.Field:
			include, err := c.shouldInclude(node.Directives)
			if err != nil {
				return err
			}
			if !include {
				continue
			}
			responseKey := node.Alias.Value()
			if len(responseKey) == 0 {
				responseKey = node.Name.Value()
			}
			out.append(responseKey, &fieldDetail{node: node, parent: runtimeType, scopes: scopes})

		case *ast.FragmentSpread:
			include, err := c.shouldInclude(node.Directives)
			if err != nil {
				return err
			}
			if !include {
				continue
			}

			fragmentName := node.Name.Value()
			fragmentScopes, deferred, err := c.applyDefer(node.Directives, scopes)
			if err != nil {
				return err
			}
			// One visited-set is shared, and mutated in place, across the entire recursive walk of a
			// single collection call, so a non-deferred spread of the same fragment reached again from
			// a sibling branch is skipped. A deferred spread is exempt (neither checked nor marked) so
			// the same fragment can be deferred once and inlined elsewhere without one occurrence
			// suppressing the other.
			if !deferred && visitedFragments[fragmentName] {
				continue
			}

			fragment := c.fragments[fragmentName]
			if fragment == nil {
				continue
			}
			if !c.doesFragmentApply(fragment.TypeCondition, runtimeType) {
				continue
			}

			if !deferred {
				visitedFragments[fragmentName] = true
			}

			if err := c.collectFields(fragment.SelectionSet, runtimeType, fragmentScopes, visitedFragments, out); err != nil {
				return err
			}

		case *ast.InlineFragment:
			include, err := c.shouldInclude(node.Directives)
			if err != nil {
				return err
			}
			if !include {
				continue
			}
			if node.TypeCondition.Name.Value() != "" && !c.doesFragmentApply(node.TypeCondition, runtimeType) {
				continue
			}

			fragmentScopes, _, err := c.applyDefer(node.Directives, scopes)
			if err != nil {
				return err
			}
			if err := c.collectFields(node.SelectionSet, runtimeType, fragmentScopes, visitedFragments, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *collector) shouldInclude(directives ast.Directives) (bool, error) {
	skipArgs, err := values.DirectiveValues(graphql.SkipDirective(), directives, c.variableValues)
	if err != nil {
		return false, err
	}
	if skip, ok := skipArgs.Lookup("if"); ok {
		if b, ok := skip.(bool); ok && b {
			return false, nil
		}
	}

	includeArgs, err := values.DirectiveValues(graphql.IncludeDirective(), directives, c.variableValues)
	if err != nil {
		return false, err
	}
	if include, ok := includeArgs.Lookup("if"); ok {
		if b, ok := include.(bool); ok && !b {
			return false, nil
		}
	}
	return true, nil
}

// applyDefer inspects directives for `@defer`. When present (and its `if` argument isn't false), it
// allocates a fresh deferScope chained onto the nearest scope already active for any of the incoming
// scopes (there is at most one meaningful parent since scopes narrows monotonically as collection
// descends) and returns a scope set holding only the new scope, together with a deferred=true flag.
func (c *collector) applyDefer(directives ast.Directives, scopes scopeSet) (scopeSet, bool, error) {
	deferArgs, err := values.DirectiveValues(graphql.DeferDirective(), directives, c.variableValues)
	if err != nil {
		return scopes, false, err
	}
	if deferArgs.Get("if") == nil {
		// Directive absent entirely (DirectiveValues returns NoArgumentValues when not present).
		return scopes, false, nil
	}
	if ifValue, ok := deferArgs.Lookup("if"); ok {
		if b, ok := ifValue.(bool); ok && !b {
			return scopes, false, nil
		}
	}
	if c.isSubscription {
		return scopes, false, newExecutionError("`@defer` is not supported on subscription operations.")
	}

	label, _ := deferArgs.Lookup("label")
	labelStr, _ := label.(string)

	var parent *deferScope
	for s := range scopes {
		parent = s
		break
	}

	newScope := &deferScope{id: c.allocScopeID(), label: labelStr, parent: parent}
	return newScopeSet(newScope), true, nil
}

func (c *collector) doesFragmentApply(typeCondition ast.NamedType, runtimeType graphql.Object) bool {
	name := typeCondition.Name.Value()
	if len(name) == 0 {
		return true
	}
	conditionType := c.schema.TypeMap().Lookup(name)
	if conditionType == nil {
		return false
	}
	if conditionType == graphql.Type(runtimeType) {
		return true
	}
	if abstractType, ok := conditionType.(graphql.AbstractType); ok {
		return c.schema.PossibleTypes(abstractType).Contains(runtimeType)
	}
	return false
}
