package sdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/hanpama/typegraph/ir"
)

func testBundle() *ir.SchemaBundle {
	return &ir.SchemaBundle{
		QueryType:        "Query",
		SubscriptionType: "Events",
		Types: []*ir.CompiledType{
			{
				Kind: ir.TypeKindObject,
				Name: "Query",
				ResolverFields: []*ir.CompiledResolverField{
					{
						Kind:  ir.ResolverKindField,
						Name:  "rows",
						Shape: ir.ShapeReceiverAndArgs,
						Type:  ir.ListSpec(ir.NamedSpec("Row", false), false),
						Args: []*ir.CompiledArg{
							{
								Name:       "limit",
								Type:       ir.NamedSpec("Int", true),
								HasDefault: true,
								Default:    float64(10),
							},
						},
					},
					{
						Kind:        ir.ResolverKindField,
						Name:        "legacyRows",
						Shape:       ir.ShapeReceiverOnly,
						Type:        ir.ListSpec(ir.NamedSpec("Row", false), true),
						Deprecation: &ir.Deprecation{Reason: "use rows"},
					},
				},
			},
			{
				Kind:        ir.TypeKindObject,
				Name:        "Row",
				Description: "one sheet row",
				DataFields: []*ir.CompiledDataField{
					{Name: "id", Type: ir.NamedSpec("ID", false)},
					{Name: "a", Type: ir.NamedSpec("Int", false)},
					{Name: "tag", Type: ir.NamedSpec("String", true)},
				},
				Implements: []string{"Node"},
			},
			{
				Kind: ir.TypeKindInterface,
				Name: "Node",
				ResolverFields: []*ir.CompiledResolverField{
					{Kind: ir.ResolverKindField, Name: "id", Shape: ir.ShapeReceiverOnly, Type: ir.NamedSpec("ID", false)},
				},
			},
			{
				Kind: ir.TypeKindInput,
				Name: "Filter",
				DataFields: []*ir.CompiledDataField{
					{Name: "min", Type: ir.NamedSpec("Int", true), HasDefault: true, Default: float64(0)},
				},
			},
			{
				Kind: ir.TypeKindSubscription,
				Name: "Events",
				ResolverFields: []*ir.CompiledResolverField{
					{Kind: ir.ResolverKindSubscription, Name: "ticks", Shape: ir.ShapeReceiverOnly, IsAsync: true, Type: ir.NamedSpec("Int", false)},
				},
			},
		},
		Unions: []*ir.UnionDef{
			{Name: "Entry", Members: []string{"Row", "Header"}},
		},
		Scalars: []*ir.ScalarDef{
			{Name: "Instant", Description: "a point in time"},
		},
		Enums: []*ir.EnumDef{
			{Name: "Color", Values: []*ir.EnumValue{{Name: "BLUE"}, {Name: "RED"}}},
		},
	}
}

func TestRenderParses(t *testing.T) {
	out := Render(testBundle())

	// Header must still parse as an object for full schema validation.
	src := out + "\ntype Header { h: Int! }\n"
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: src})
	require.NoError(t, err)

	assert.Equal(t, "Query", schema.Query.Name)
	assert.Equal(t, "Events", schema.Subscription.Name)
	assert.Nil(t, schema.Mutation)

	row := schema.Types["Row"]
	require.NotNil(t, row)
	assert.Equal(t, ast.Object, row.Kind)
	assert.Equal(t, []string{"Node"}, row.Interfaces)

	rows := schema.Query.Fields.ForName("rows")
	require.NotNil(t, rows)
	assert.Equal(t, "[Row!]!", rows.Type.String())
	limit := rows.Arguments.ForName("limit")
	require.NotNil(t, limit)
	require.NotNil(t, limit.DefaultValue)
	assert.Equal(t, "10", limit.DefaultValue.Raw)

	legacy := schema.Query.Fields.ForName("legacyRows")
	require.NotNil(t, legacy)
	dep := legacy.Directives.ForName("deprecated")
	require.NotNil(t, dep)
	assert.Equal(t, "use rows", dep.Arguments.ForName("reason").Value.Raw)

	union := schema.Types["Entry"]
	require.NotNil(t, union)
	assert.Equal(t, ast.Union, union.Kind)
	assert.Equal(t, []string{"Row", "Header"}, union.Types)

	filter := schema.Types["Filter"]
	require.NotNil(t, filter)
	assert.Equal(t, ast.InputObject, filter.Kind)
	min := filter.Fields.ForName("min")
	require.NotNil(t, min)
	require.NotNil(t, min.DefaultValue)

	assert.Equal(t, ast.Scalar, schema.Types["Instant"].Kind)
	assert.Equal(t, ast.Enum, schema.Types["Color"].Kind)
}

func TestRenderDeterministic(t *testing.T) {
	assert.Equal(t, Render(testBundle()), Render(testBundle()))
}
