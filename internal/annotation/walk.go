package annotation

import (
	"errors"
	"reflect"
)

var (
	ErrListRequiresParameter   = errors.New("list types must be parameterized")
	ErrStreamRequiresParameter = errors.New("stream channels must be parameterized")
)

// WalkRefs collects the named declared-type candidates referenced by a type
// expression: union members, list and stream items, and plain named types.
// Callers filter the result against the registry; scalars and unregistered
// types are simply dropped there.
func WalkRefs(t reflect.Type) ([]reflect.Type, error) {
	info := AnalyzeType(t)
	if info.IsContext {
		return nil, nil
	}
	inner := info.Inner
	if info.IsStream {
		if info.StreamItem == nil {
			return nil, ErrStreamRequiresParameter
		}
		inner = info.StreamItem
	}
	return walkInner(inner)
}

func walkInner(t reflect.Type) ([]reflect.Type, error) {
	info := AnalyzeType(t)
	if info.IsContext {
		return nil, nil
	}
	if info.IsList {
		if info.ListItem == nil {
			return nil, ErrListRequiresParameter
		}
		return walkInner(info.ListItem)
	}
	if info.IsUnion {
		var refs []reflect.Type
		for _, m := range info.UnionMembers {
			sub, err := walkInner(m.Type)
			if err != nil {
				return nil, err
			}
			refs = append(refs, sub...)
		}
		return refs, nil
	}
	if isNamedCandidate(info.Inner) {
		return []reflect.Type{info.Inner}, nil
	}
	return nil, nil
}

func isNamedCandidate(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return t.Name() != "" && t != ctxTagType && t != unionTagType
	case reflect.Interface:
		return t != emptyInterface
	default:
		// Defined scalar-kinded types may be registered enums or custom
		// scalars; the registry filter decides.
		return t.PkgPath() != ""
	}
}
