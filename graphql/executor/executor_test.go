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

package executor_test

import (
	"context"
	"errors"

	"github.com/graphql/graphql-js-sub001/concurrent"
	"github.com/graphql/graphql-js-sub001/concurrent/future"
	"github.com/graphql/graphql-js-sub001/graphql"
	"github.com/graphql/graphql-js-sub001/graphql/ast"
	"github.com/graphql/graphql-js-sub001/graphql/executor"
	"github.com/graphql/graphql-js-sub001/graphql/parser"
	"github.com/graphql/graphql-js-sub001/graphql/token"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// mustParse parses source into a Document, failing the running spec immediately on a syntax error.
func mustParse(source string) ast.Document {
	document, err := parser.Parse(token.NewSource(source), parser.ParseOptions{})
	Expect(err).ShouldNot(HaveOccurred())
	return document
}

func resolverReturning(value interface{}) graphql.FieldResolver {
	return graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
		return value, nil
	})
}

var _ = DescribeExecute("basic field resolution", func(runner concurrent.Executor) {
	execute := wrapExecute(executor.Runner(runner))

	It("resolves sibling scalar fields (S1)", func() {
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"a": {Type: graphql.T(graphql.String()), Resolver: resolverReturning("A")},
					"b": {Type: graphql.T(graphql.String()), Resolver: resolverReturning("B")},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("{ a b }"))

		Eventually(result).Should(MatchResultInJSON(`{
			"data": { "a": "A", "b": "B" }
		}`))
	})

	It("reports a field error and nulls data for a null non-nullable field (S2)", func() {
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"p": {Type: graphql.NonNullOfType(graphql.Int()), Resolver: resolverReturning(nil)},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("{ p }"))

		Eventually(result).Should(MatchResultInJSON(`{
			"data": null,
			"errors": [{
				"message": "Cannot return null for non-nullable field Q.p.",
				"path": ["p"],
				"locations": [{"line": 1, "column": 3}]
			}]
		}`))
	})

	It("keeps a null item in a nullable list untouched (S3, nullable element)", func() {
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"xs": {
						Type:     graphql.ListOfType(graphql.Int()),
						Resolver: resolverReturning([]interface{}{1, 2, nil, 4}),
					},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("{ xs }"))

		Eventually(result).Should(MatchResultInJSON(`{
			"data": { "xs": [1, 2, null, 4] }
		}`))
	})

	It("nulls the whole list when a non-nullable element is null (S3, non-null element)", func() {
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"xs": {
						Type:     graphql.ListOfType(graphql.NonNullOfType(graphql.Int())),
						Resolver: resolverReturning([]interface{}{1, 2, nil, 4}),
					},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("{ xs }"))

		Eventually(result).Should(MatchResultInJSON(`{
			"data": { "xs": null },
			"errors": [{
				"message": "Cannot return null for non-nullable field Q.xs.",
				"path": ["xs", 2],
				"locations": [{"line": 1, "column": 3}]
			}]
		}`))
	})

	It("bubbles a non-null violation to the nearest nullable ancestor with a single error", func() {
		outerType := graphql.MustNewObject(&graphql.ObjectConfig{
			Name: "Outer",
			Fields: graphql.Fields{
				"inner": {Type: graphql.NonNullOfType(graphql.Int()), Resolver: resolverReturning(nil)},
			},
		})
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"outer": {Type: graphql.T(outerType), Resolver: resolverReturning(struct{}{})},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("{ outer { inner } }"))

		Eventually(result).Should(MatchResultInJSON(`{
			"data": { "outer": null },
			"errors": [{
				"message": "Cannot return null for non-nullable field Outer.inner.",
				"path": ["outer", "inner"],
				"locations": [{"line": 1, "column": 11}]
			}]
		}`))
	})

	It("collects a non-deferred fragment once per collection even when respread from a sibling branch", func() {
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"a": {
						Type: graphql.T(graphql.String()),
						Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
							return nil, errors.New("kaboom")
						}),
					},
					"b": {Type: graphql.T(graphql.String()), Resolver: resolverReturning("B")},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("{ ...A ...B } fragment A on Q { a } fragment B on Q { ...A b }"))

		// A single location on the error shows fragment A's field was collected exactly once even
		// though A is spread both at the root and again inside B.
		Eventually(result).Should(MatchResultInJSON(`{
			"data": { "a": null, "b": "B" },
			"errors": [{
				"message": "kaboom",
				"path": ["a"],
				"locations": [{"line": 1, "column": 33}]
			}]
		}`))
	})

	It("merges repeated field occurrences into one object carrying every subselection", func() {
		pairType := graphql.MustNewObject(&graphql.ObjectConfig{
			Name: "Pair",
			Fields: graphql.Fields{
				"a": {Type: graphql.T(graphql.String()), Resolver: resolverReturning("A")},
				"b": {Type: graphql.T(graphql.String()), Resolver: resolverReturning("B")},
			},
		})
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"pair": {Type: graphql.T(pairType), Resolver: resolverReturning(struct{}{})},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("{ pair { a } pair { b } }"))

		Eventually(result).Should(MatchResultInJSON(`{
			"data": { "pair": { "a": "A", "b": "B" } }
		}`))
	})

	It("surfaces a resolver error as a field error without aborting sibling fields", func() {
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"a": {Type: graphql.T(graphql.String()), Resolver: resolverReturning("A")},
					"boom": {
						Type: graphql.T(graphql.String()),
						Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
							return nil, errors.New("kaboom")
						}),
					},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("{ a boom }"))

		Eventually(result).Should(MatchResultInJSON(`{
			"data": { "a": "A", "boom": null },
			"errors": [{ "message": "kaboom", "path": ["boom"], "locations": [{"line": 1, "column": 5}] }]
		}`))
	})

	It("resolves a field whose resolver returns a future", func() {
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"a": {
						Type: graphql.T(graphql.String()),
						Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
							return future.Ready("A"), nil
						}),
					},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("{ a }"))

		Eventually(result).Should(MatchResultInJSON(`{
			"data": { "a": "A" }
		}`))
	})

	It("serializes mutation root fields one at a time, in document order (S4)", func() {
		counter := 0
		schema, err := graphql.NewSchema(&graphql.SchemaConfig{
			Query: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "Q",
				Fields: graphql.Fields{
					"noop": {Type: graphql.T(graphql.String()), Resolver: resolverReturning("noop")},
				},
			}),
			Mutation: graphql.MustNewObject(&graphql.ObjectConfig{
				Name: "M",
				Fields: graphql.Fields{
					"a": {
						Type: graphql.T(graphql.Int()),
						Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
							counter = 1
							return counter, nil
						}),
					},
					"b": {
						Type: graphql.T(graphql.Int()),
						Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
							return counter, nil
						}),
					},
				},
			}),
		})
		Expect(err).ShouldNot(HaveOccurred())

		result := execute(schema, mustParse("mutation { a b }"))

		Eventually(result).Should(MatchResultInJSON(`{
			"data": { "a": 1, "b": 1 }
		}`))
	})
})
