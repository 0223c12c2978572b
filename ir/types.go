// Package ir holds the compiled, immutable intermediate representation
// produced by the typegraph declaration compiler and consumed by an execution
// engine. Every value here is built once at declaration or schema-build time
// and never mutated afterward, so it is safe to share across concurrent
// executions without locking.
package ir

import (
	"context"
	"reflect"
	"strings"
)

// TypeKind discriminates the kind of a compiled named type.
type TypeKind string

const (
	TypeKindObject       TypeKind = "OBJECT"
	TypeKindInput        TypeKind = "INPUT_OBJECT"
	TypeKindInterface    TypeKind = "INTERFACE"
	TypeKindSubscription TypeKind = "SUBSCRIPTION"
	TypeKindScalar       TypeKind = "SCALAR"
	TypeKindEnum         TypeKind = "ENUM"
	TypeKindUnion        TypeKind = "UNION"
)

// TypeSpec is a type reference in field, argument or input-value position.
// Nullability is attached to the outermost spec only; nested optionality is
// resolved before construction.
type TypeSpec struct {
	Kind     TypeSpecKind `json:"kind"`
	Named    string       `json:"named,omitempty"`
	OfType   *TypeSpec    `json:"ofType,omitempty"`
	Nullable bool         `json:"nullable,omitempty"`

	// Union payload, set only for KindUnion specs.
	UnionMembers     []string `json:"unionMembers,omitempty"`
	UnionDescription string   `json:"unionDescription,omitempty"`
}

type TypeSpecKind string

const (
	TypeSpecKindNamed TypeSpecKind = "NAMED"
	TypeSpecKindList  TypeSpecKind = "LIST"
	TypeSpecKindUnion TypeSpecKind = "UNION"
)

func NamedSpec(name string, nullable bool) *TypeSpec {
	return &TypeSpec{Kind: TypeSpecKindNamed, Named: name, Nullable: nullable}
}

func ListSpec(of *TypeSpec, nullable bool) *TypeSpec {
	return &TypeSpec{Kind: TypeSpecKindList, OfType: of, Nullable: nullable}
}

// NamedType returns the innermost named type (the union name for union specs).
func (t *TypeSpec) NamedType() string {
	if t == nil {
		return ""
	}
	if t.Kind == TypeSpecKindList {
		return t.OfType.NamedType()
	}
	return t.Named
}

// String renders the spec in GraphQL notation, e.g. [Row!]!.
func (t *TypeSpec) String() string {
	if t == nil {
		return "Unknown"
	}
	var rendered string
	switch t.Kind {
	case TypeSpecKindNamed, TypeSpecKindUnion:
		rendered = t.Named
	case TypeSpecKindList:
		rendered = "[" + t.OfType.String() + "]"
	default:
		return "Unknown"
	}
	if !t.Nullable && !strings.HasSuffix(rendered, "!") {
		rendered += "!"
	}
	return rendered
}

// CallShape is the fixed parameter convention a compiled resolver expects
// from the execution engine. The context slot is order-insensitive in the
// declaration; the caller-visible convention is always receiver first,
// context second (when present), then the argument mapping.
type CallShape string

const (
	ShapeReceiverOnly           CallShape = "receiverOnly"
	ShapeReceiverAndContext     CallShape = "receiverAndContext"
	ShapeReceiverAndArgs        CallShape = "receiverAndArgs"
	ShapeReceiverContextAndArgs CallShape = "receiverContextAndArgs"
)

// ResolverKind discriminates plain fields from subscription roots.
type ResolverKind string

const (
	ResolverKindField        ResolverKind = "field"
	ResolverKindSubscription ResolverKind = "subscription"
)

// ResolverFunc is the stable runtime call convention baked by the resolver
// compiler. The engine supplies the parent value, the opaque per-operation
// state, and the argument mapping keyed by declared name; argument coercion
// into the resolver's own parameter types already happened inside the func.
// Subscription resolvers return the stream channel as the value.
type ResolverFunc func(ctx context.Context, source any, state any, args map[string]any) (any, error)

// CompiledArg is one declared argument of a resolver field.
type CompiledArg struct {
	Name        string    `json:"name"`
	Type        *TypeSpec `json:"type"`
	Description string    `json:"description,omitempty"`
	HasDefault  bool      `json:"hasDefault,omitempty"`
	Default     any       `json:"default,omitempty"`
}

// CompiledResolverField is a resolver-backed member of a compiled type.
//
// IsAsync is the calling convention: the callable returns a stream channel
// the engine must drain. Offload is the scheduling request: it is set for
// every IsAsync resolver and for synchronous resolvers the declaration asked
// to run off the hot path, which the engine may invoke concurrently with
// sibling fields.
type CompiledResolverField struct {
	Kind         ResolverKind   `json:"kind"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Deprecation  *Deprecation   `json:"deprecation,omitempty"`
	Shape        CallShape      `json:"shape"`
	NeedsContext bool           `json:"needsContext,omitempty"`
	IsAsync      bool           `json:"isAsync,omitempty"`
	Offload      bool           `json:"offload,omitempty"`
	Type         *TypeSpec      `json:"fieldType"`
	Args         []*CompiledArg `json:"args,omitempty"`

	Func ResolverFunc   `json:"-"`
	Refs []reflect.Type `json:"-"`
}

// CompiledDataField is a plain member exposed directly, both on object types
// (read through Accessor) and on input types (written during coercion).
type CompiledDataField struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        *TypeSpec `json:"fieldType"`
	HasDefault  bool      `json:"hasDefault,omitempty"`
	Default     any       `json:"default,omitempty"`

	Accessor ResolverFunc   `json:"-"`
	Refs     []reflect.Type `json:"-"`
}

type Deprecation struct {
	Reason string `json:"reason,omitempty"`
}

// CompiledType is one fully compiled declared type. Built once per Go type,
// memoized on the registry; recompilation yields the same value.
type CompiledType struct {
	Kind           TypeKind                 `json:"kind"`
	Name           string                   `json:"name"`
	Description    string                   `json:"description,omitempty"`
	DataFields     []*CompiledDataField     `json:"dataFields,omitempty"`
	ResolverFields []*CompiledResolverField `json:"resolverFields,omitempty"`
	Implements     []string                 `json:"implements,omitempty"`

	GoType reflect.Type   `json:"-"`
	Refs   []reflect.Type `json:"-"`
}

// UnionDef is one deduplicated union definition discovered during schema
// graph construction.
type UnionDef struct {
	Name        string   `json:"name"`
	Members     []string `json:"members"`
	Description string   `json:"description,omitempty"`
}

// ScalarDef describes a registered custom scalar.
type ScalarDef struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	SpecifiedByURL string `json:"specifiedByURL,omitempty"`

	Serialize func(any) (any, error) `json:"-"`
	Parse     func(any) (any, error) `json:"-"`
}

// EnumDef describes a registered enum and its symbolic values.
type EnumDef struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Values      []*EnumValue `json:"values"`
}

type EnumValue struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Deprecation *Deprecation `json:"deprecation,omitempty"`

	Value any `json:"-"`
}

// Lookup returns the enum value for a symbolic name.
func (e *EnumDef) Lookup(name string) (*EnumValue, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// NameOf returns the symbolic name for a runtime enum value.
func (e *EnumDef) NameOf(value any) (string, bool) {
	for _, v := range e.Values {
		if v.Value == value {
			return v.Name, true
		}
	}
	return "", false
}

// SchemaBundle is the complete IR handed to the execution engine. It is
// assembled once per schema construction and immutable afterward.
type SchemaBundle struct {
	QueryType        string          `json:"queryType"`
	MutationType     string          `json:"mutationType,omitempty"`
	SubscriptionType string          `json:"subscriptionType,omitempty"`
	Types            []*CompiledType `json:"types"`
	Unions           []*UnionDef     `json:"unions,omitempty"`
	Scalars          []*ScalarDef    `json:"scalars,omitempty"`
	Enums            []*EnumDef      `json:"enums,omitempty"`
}

// TypeByName returns the compiled type with the given name, or nil.
func (b *SchemaBundle) TypeByName(name string) *CompiledType {
	for _, t := range b.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// ResolverField returns the resolver-backed field with the given name, or nil.
func (t *CompiledType) ResolverField(name string) *CompiledResolverField {
	for _, f := range t.ResolverFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// DataField returns the plain field with the given name, or nil.
func (t *CompiledType) DataField(name string) *CompiledDataField {
	for _, f := range t.DataFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}
