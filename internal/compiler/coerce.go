package compiler

import (
	"fmt"
	"reflect"

	"github.com/hanpama/typegraph/internal/annotation"
	"github.com/hanpama/typegraph/internal/registry"
	"github.com/hanpama/typegraph/ir"
)

// coerceValue converts an engine-supplied plain value (primitives, []any,
// map[string]any) into a reflect.Value of the declared type t. This is the
// coercion plan baked into every compiled resolver wrapper: raw mappings turn
// into input structs, enum names into enum values, and custom scalars go
// through their Parse func, recursively through pointers and lists.
func coerceValue(reg *registry.Registry, t reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		inner, err := coerceValue(reg, t.Elem(), v)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil

	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			// Already a typed slice, e.g. a default parsed straight into the
			// declared type.
			rv := reflect.ValueOf(v)
			if rv.Type() == t {
				return rv, nil
			}
			return reflect.Value{}, errCoerce(t, v)
		}
		out := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			iv, err := coerceValue(reg, t.Elem(), item)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(iv)
		}
		return out, nil
	}

	if entry, ok := reg.Lookup(t); ok {
		switch entry.Kind {
		case ir.TypeKindEnum:
			return coerceEnum(entry, t, v)
		case ir.TypeKindScalar:
			parsed, err := entry.Scalar.Parse(v)
			if err != nil {
				return reflect.Value{}, err
			}
			return convertPlain(t, parsed)
		case ir.TypeKindInput:
			return coerceInput(reg, entry, t, v)
		}
	}

	return convertPlain(t, v)
}

func coerceEnum(entry *registry.Entry, t reflect.Type, v any) (reflect.Value, error) {
	name, ok := v.(string)
	if !ok {
		// A value of the enum's own Go type passes through unchanged.
		rv := reflect.ValueOf(v)
		if rv.Type() == t {
			return rv, nil
		}
		return reflect.Value{}, errInvalidEnumValue(entry.Name, v)
	}
	value, ok := entry.Enum.Lookup(name)
	if !ok {
		return reflect.Value{}, errInvalidEnumValue(entry.Name, name)
	}
	return convertPlain(t, value.Value)
}

func coerceInput(reg *registry.Registry, entry *registry.Entry, t reflect.Type, v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return rv, nil
	}
	mapping, ok := v.(map[string]any)
	if !ok {
		return reflect.Value{}, errInputMappingExpected(entry.Name)
	}

	out := reflect.New(t).Elem()
	for _, f := range reflect.VisibleFields(t) {
		if f.PkgPath != "" || f.Anonymous {
			continue
		}
		tag := annotation.ParseTag(f.Tag)
		if tag.Hidden {
			continue
		}
		name := fieldName(tag.Name, f.Name)
		raw, present := mapping[name]
		if !present {
			if !tag.HasDefault {
				continue
			}
			plain, err := parseDefaultLiteral(tag.Default)
			if err != nil {
				return reflect.Value{}, errBadDefault(entry.Name, name, tag.Default, err)
			}
			raw = plain
		}
		fv, err := coerceValue(reg, f.Type, raw)
		if err != nil {
			return reflect.Value{}, err
		}
		out.FieldByIndex(f.Index).Set(fv)
	}
	return out, nil
}

// convertPlain adapts a plain value to t using Go conversion rules, covering
// the primitive re-typings the wire layer introduces (JSON numbers arrive as
// float64, IDs as string).
func convertPlain(t reflect.Type, v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(t) && convertibleKinds(rv.Kind(), t.Kind()) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, errCoerce(t, v)
}

func convertibleKinds(from, to reflect.Kind) bool {
	return numericKind(from) && numericKind(to) ||
		from == reflect.String && to == reflect.String ||
		from == to
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func errCoerce(t reflect.Type, v any) error {
	return fmt.Errorf("cannot coerce %T into %s", v, t)
}
