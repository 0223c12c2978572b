package compiler

import (
	"reflect"
	"strings"

	"github.com/hanpama/typegraph/internal/annotation"
	"github.com/hanpama/typegraph/internal/registry"
	"github.com/hanpama/typegraph/ir"
)

// buildTypeSpec maps a declared type expression to an IR TypeSpec under the
// directionality rules for its position. forceNullable is set by callers when
// a default value makes absence acceptable regardless of declared optionality.
// decl and member only feed error messages.
func buildTypeSpec(reg *registry.Registry, t reflect.Type, tag reflect.StructTag, expectInput, forceNullable bool, decl, member string) (*ir.TypeSpec, error) {
	info := annotation.Analyze(t, tag)
	if info.IsContext || info.IsStream {
		return nil, errUnsupportedAnnotation(decl, member, t)
	}
	nullable := info.Optional || forceNullable

	if info.IsList {
		if info.ListItem == nil {
			return nil, errListRequiresParameter(decl, member)
		}
		of, err := buildTypeSpec(reg, info.ListItem, "", expectInput, false, decl, member)
		if err != nil {
			return nil, err
		}
		return ir.ListSpec(of, nullable), nil
	}

	if info.IsUnion {
		return buildUnionTypeSpec(reg, info, nullable, expectInput, decl, member)
	}

	if name, ok := registry.BuiltinScalarName(info.Inner); ok {
		return ir.NamedSpec(name, nullable), nil
	}

	if entry, ok := reg.Lookup(info.Inner); ok {
		switch entry.Kind {
		case ir.TypeKindScalar, ir.TypeKindEnum:
			return ir.NamedSpec(entry.Name, nullable), nil
		case ir.TypeKindInput:
			if !expectInput {
				return nil, errOutputTypeExpected(decl, member, entry.Name)
			}
		default:
			if expectInput {
				return nil, errInputTypeExpected(decl, member, entry.Name)
			}
		}
		return ir.NamedSpec(entry.Name, nullable), nil
	}

	return nil, errUnsupportedAnnotation(decl, member, t)
}

func buildUnionTypeSpec(reg *registry.Registry, info annotation.Info, nullable, expectInput bool, decl, member string) (*ir.TypeSpec, error) {
	if expectInput {
		return nil, errUnionInputNotSupported(decl, member)
	}
	if len(info.UnionMembers) == 0 {
		return nil, errUnsupportedAnnotation(decl, member, info.Inner)
	}

	memberNames := make([]string, 0, len(info.UnionMembers))
	for _, m := range info.UnionMembers {
		entry, ok := reg.Lookup(m.Type)
		if !ok || entry.Kind != ir.TypeKindObject {
			return nil, errUnionMemberMustBeObject(decl, member, typeLabel(m.Type))
		}
		memberNames = append(memberNames, entry.Name)
	}

	// An anonymous union struct has no declared name; synthesize one from the
	// member names in declaration order.
	name := info.Inner.Name()
	if name == "" {
		name = strings.Join(memberNames, "")
	}

	return &ir.TypeSpec{
		Kind:         ir.TypeSpecKindUnion,
		Named:        name,
		UnionMembers: memberNames,
		Nullable:     nullable,
	}, nil
}

func typeLabel(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
