// Package sdl renders a compiled schema bundle as GraphQL SDL text. The
// bundle is translated into a gqlparser schema document and printed through
// its formatter, so the output always stays parseable by standard tooling.
package sdl

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/hanpama/typegraph/ir"
)

// Render produces SDL from the bundle. Type and union names are emitted in
// lexicographic order so output is deterministic.
func Render(bundle *ir.SchemaBundle) string {
	doc := &ast.SchemaDocument{}
	doc.Schema = append(doc.Schema, schemaDefinition(bundle))

	defs := make(ast.DefinitionList, 0, len(bundle.Types)+len(bundle.Unions)+len(bundle.Scalars)+len(bundle.Enums))
	for _, t := range bundle.Types {
		defs = append(defs, typeDefinition(t))
	}
	for _, u := range bundle.Unions {
		defs = append(defs, &ast.Definition{
			Kind:        ast.Union,
			Name:        u.Name,
			Description: u.Description,
			Types:       u.Members,
		})
	}
	for _, s := range bundle.Scalars {
		defs = append(defs, &ast.Definition{
			Kind:        ast.Scalar,
			Name:        s.Name,
			Description: s.Description,
		})
	}
	for _, e := range bundle.Enums {
		defs = append(defs, enumDefinition(e))
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	doc.Definitions = defs

	var b strings.Builder
	formatter.NewFormatter(&b).FormatSchemaDocument(doc)
	return b.String()
}

func schemaDefinition(bundle *ir.SchemaBundle) *ast.SchemaDefinition {
	def := &ast.SchemaDefinition{}
	def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{
		Operation: ast.Query,
		Type:      bundle.QueryType,
	})
	if bundle.MutationType != "" {
		def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Mutation,
			Type:      bundle.MutationType,
		})
	}
	if bundle.SubscriptionType != "" {
		def.OperationTypes = append(def.OperationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Subscription,
			Type:      bundle.SubscriptionType,
		})
	}
	return def
}

func typeDefinition(t *ir.CompiledType) *ast.Definition {
	def := &ast.Definition{
		Name:        t.Name,
		Description: t.Description,
		Interfaces:  t.Implements,
	}
	switch t.Kind {
	case ir.TypeKindInput:
		def.Kind = ast.InputObject
	case ir.TypeKindInterface:
		def.Kind = ast.Interface
	default:
		// Subscription roots are plain objects at the SDL level.
		def.Kind = ast.Object
	}

	for _, f := range t.DataFields {
		field := &ast.FieldDefinition{
			Name:        f.Name,
			Description: f.Description,
			Type:        astType(f.Type),
		}
		if t.Kind == ir.TypeKindInput && f.HasDefault {
			field.DefaultValue = astValue(f.Default)
		}
		def.Fields = append(def.Fields, field)
	}
	for _, f := range t.ResolverFields {
		def.Fields = append(def.Fields, resolverFieldDefinition(f))
	}
	return def
}

func resolverFieldDefinition(f *ir.CompiledResolverField) *ast.FieldDefinition {
	field := &ast.FieldDefinition{
		Name:        f.Name,
		Description: f.Description,
		Type:        astType(f.Type),
	}
	for _, a := range f.Args {
		arg := &ast.ArgumentDefinition{
			Name:        a.Name,
			Description: a.Description,
			Type:        astType(a.Type),
		}
		if a.HasDefault {
			arg.DefaultValue = astValue(a.Default)
		}
		field.Arguments = append(field.Arguments, arg)
	}
	if f.Deprecation != nil {
		field.Directives = append(field.Directives, deprecatedDirective(f.Deprecation.Reason))
	}
	return field
}

func enumDefinition(e *ir.EnumDef) *ast.Definition {
	def := &ast.Definition{
		Kind:        ast.Enum,
		Name:        e.Name,
		Description: e.Description,
	}
	for _, v := range e.Values {
		value := &ast.EnumValueDefinition{Name: v.Name, Description: v.Description}
		if v.Deprecation != nil {
			value.Directives = append(value.Directives, deprecatedDirective(v.Deprecation.Reason))
		}
		def.EnumValues = append(def.EnumValues, value)
	}
	return def
}

func deprecatedDirective(reason string) *ast.Directive {
	d := &ast.Directive{Name: "deprecated"}
	if reason != "" {
		d.Arguments = append(d.Arguments, &ast.Argument{
			Name:  "reason",
			Value: &ast.Value{Raw: reason, Kind: ast.StringValue},
		})
	}
	return d
}

func astType(spec *ir.TypeSpec) *ast.Type {
	if spec == nil {
		return nil
	}
	var t *ast.Type
	if spec.Kind == ir.TypeSpecKindList {
		t = &ast.Type{Elem: astType(spec.OfType)}
	} else {
		t = &ast.Type{NamedType: spec.Named}
	}
	t.NonNull = !spec.Nullable
	return t
}

// astValue lifts a plain default value into a literal node.
func astValue(v any) *ast.Value {
	switch val := v.(type) {
	case nil:
		return &ast.Value{Raw: "null", Kind: ast.NullValue}
	case bool:
		return &ast.Value{Raw: strconv.FormatBool(val), Kind: ast.BooleanValue}
	case string:
		return &ast.Value{Raw: val, Kind: ast.StringValue}
	case float64:
		if val == math.Trunc(val) {
			return &ast.Value{Raw: strconv.FormatInt(int64(val), 10), Kind: ast.IntValue}
		}
		return &ast.Value{Raw: strconv.FormatFloat(val, 'g', -1, 64), Kind: ast.FloatValue}
	case int:
		return &ast.Value{Raw: strconv.Itoa(val), Kind: ast.IntValue}
	case []any:
		out := &ast.Value{Kind: ast.ListValue}
		for _, item := range val {
			out.Children = append(out.Children, &ast.ChildValue{Value: astValue(item)})
		}
		return out
	case map[string]any:
		out := &ast.Value{Kind: ast.ObjectValue}
		names := make([]string, 0, len(val))
		for name := range val {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out.Children = append(out.Children, &ast.ChildValue{Name: name, Value: astValue(val[name])})
		}
		return out
	default:
		return &ast.Value{Raw: "null", Kind: ast.NullValue}
	}
}
