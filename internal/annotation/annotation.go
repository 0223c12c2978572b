// Package annotation normalizes a declared Go type expression, possibly
// nested (pointer-of-slice-of-union, channel-of-pointer, ...), into a flat
// Info value the rest of the compiler consumes. Analysis is a pure function
// of the reflect.Type and the struct tag; it touches no shared state.
package annotation

import (
	"context"
	"reflect"
	"strings"

	"github.com/hanpama/typegraph/marker"
)

var (
	ctxTagType     = reflect.TypeOf(marker.CtxTag{})
	unionTagType   = reflect.TypeOf(marker.Union{})
	contextType    = reflect.TypeOf((*context.Context)(nil)).Elem()
	emptyInterface = reflect.TypeOf((*any)(nil)).Elem()
)

// Info is the normalized shape of one declared type expression.
//
// ListItem and StreamItem are nil when the corresponding flag is set but the
// item type cannot be determined (element declared as the empty interface);
// consumers must treat that as a compile error, never as an absent list.
type Info struct {
	// Inner is the unwrapped declared type: pointers stripped, single-member
	// unions collapsed to their member.
	Inner reflect.Type

	Optional bool

	IsList   bool
	ListItem reflect.Type

	IsStream   bool
	StreamItem reflect.Type

	IsUnion      bool
	UnionMembers []UnionMember

	IsContext    bool
	ContextState reflect.Type

	Tag Tag
}

// UnionMember is one member position of a tagged-union struct.
type UnionMember struct {
	FieldName string
	// Type is the member object type (the pointee of the declared field).
	Type reflect.Type
}

// Tag is the parsed side metadata of a declaration.
type Tag struct {
	Name        string
	Hidden      bool
	Description string
	Default     string
	HasDefault  bool
}

// ParseTag splits the side metadata off a struct tag. An empty or absent tag
// yields the zero value.
func ParseTag(tag reflect.StructTag) Tag {
	var t Tag
	if v, ok := tag.Lookup("graphql"); ok && v != "" {
		name, _, _ := strings.Cut(v, ",")
		if name == "-" {
			t.Hidden = true
		} else {
			t.Name = name
		}
	}
	t.Description = tag.Get("desc")
	if v, ok := tag.Lookup("default"); ok {
		t.Default = v
		t.HasDefault = true
	}
	return t
}

// Analyze normalizes one declared type expression plus its struct tag.
func Analyze(t reflect.Type, tag reflect.StructTag) Info {
	info := Info{Tag: ParseTag(tag)}

	inner, optional := unwrapPointers(t)
	info.Optional = optional

	switch inner.Kind() {
	case reflect.Slice, reflect.Array:
		info.IsList = true
		info.ListItem = itemType(inner.Elem())
	case reflect.Chan:
		if inner.ChanDir() != reflect.SendDir {
			info.IsStream = true
			info.StreamItem = itemType(inner.Elem())
		}
	case reflect.Struct:
		if hasEmbedded(inner, ctxTagType) {
			info.IsContext = true
			if f, ok := inner.FieldByName("State"); ok && len(f.Index) == 1 {
				info.ContextState = f.Type
			}
		} else if hasEmbedded(inner, unionTagType) {
			members := unionMembers(inner)
			if len(members) == 1 {
				// A union with a single non-absent member collapses to an
				// optional reference to that member.
				info.Optional = true
				inner = members[0].Type
			} else {
				info.IsUnion = true
				info.UnionMembers = members
			}
		}
	}

	info.Inner = inner
	return info
}

// AnalyzeType analyzes a type expression carrying no side metadata.
func AnalyzeType(t reflect.Type) Info {
	return Analyze(t, "")
}

// IsBareContext reports whether t is the untagged context marker: the plain
// context.Context interface or the CtxTag marker itself. The tagged
// marker.Ctx[S] form is required instead.
func IsBareContext(t reflect.Type) bool {
	return t == contextType || t == ctxTagType
}

// unwrapPointers strips pointer indirection, tracking visited identities so
// self-referential pointer types (type P *P) terminate with the alias
// unresolved rather than looping.
func unwrapPointers(t reflect.Type) (reflect.Type, bool) {
	optional := false
	seen := map[reflect.Type]bool{}
	for t.Kind() == reflect.Pointer {
		if seen[t] {
			break
		}
		seen[t] = true
		optional = true
		t = t.Elem()
	}
	return t, optional
}

// itemType resolves a container's element type. The empty interface carries
// no usable item type and maps to nil.
func itemType(elem reflect.Type) reflect.Type {
	if elem == emptyInterface {
		return nil
	}
	return elem
}

func hasEmbedded(t reflect.Type, markerType reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type == markerType {
			return true
		}
	}
	return false
}

func unionMembers(t reflect.Type) []UnionMember {
	var members []UnionMember
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous || f.PkgPath != "" {
			continue
		}
		memberType := f.Type
		if memberType.Kind() == reflect.Pointer {
			memberType = memberType.Elem()
		}
		members = append(members, UnionMember{FieldName: f.Name, Type: memberType})
	}
	return members
}
