// Package typegraph compiles plain Go type declarations into an immutable
// GraphQL schema representation. Structs become object or input types,
// interfaces become GraphQL interfaces, and marked functions become field or
// subscription resolvers with a fixed calling convention an execution engine
// can invoke without further reflection.
//
// Compilation happens in two stages. Registration analyzes one declaration at
// a time and memoizes the compiled result; schema construction walks the
// reachable closure from the root types and assembles the final bundle.
package typegraph

import (
	"fmt"
	"reflect"

	"github.com/hanpama/typegraph/internal/compiler"
	"github.com/hanpama/typegraph/internal/registry"
	"github.com/hanpama/typegraph/ir"
)

// Registry accumulates compiled type declarations. Referenced types must be
// registered before the types that use them; name collision and
// directionality checks run against what is already present.
//
// A Registry is safe for concurrent use.
type Registry struct {
	reg *registry.Registry
}

func NewRegistry() *Registry {
	return &Registry{reg: registry.New()}
}

// RegisterObject compiles T as an output object type. Registering the same
// Go type again is a no-op returning the first compiled result.
func RegisterObject[T any](r *Registry, opts ...TypeOption) (*ir.CompiledType, error) {
	return registerType[T](r, ir.TypeKindObject, opts)
}

// RegisterInput compiles T as an input object type. Input types may not
// declare resolvers.
func RegisterInput[T any](r *Registry, opts ...TypeOption) (*ir.CompiledType, error) {
	return registerType[T](r, ir.TypeKindInput, opts)
}

// RegisterInterface compiles the Go interface T as a GraphQL interface. Its
// method set becomes abstract resolver fields; objects registered afterward
// that satisfy T are recorded as implementers.
func RegisterInterface[T any](r *Registry, opts ...TypeOption) (*ir.CompiledType, error) {
	return registerType[T](r, ir.TypeKindInterface, opts)
}

func registerType[T any](r *Registry, kind ir.TypeKind, opts []TypeOption) (*ir.CompiledType, error) {
	goType := typeOf[T]()
	if existing, ok := r.reg.Lookup(goType); ok {
		if existing.Type == nil || !compatibleKind(kind, existing.Kind) {
			return nil, errRegisteredAs(goType, existing.Kind)
		}
		return existing.Type, nil
	}
	var o typeOptions
	for _, opt := range opts {
		opt(&o)
	}
	compiled, err := compiler.CompileType(r.reg, goType, kind, compiler.TypeConfig{
		Name:        o.name,
		Description: o.description,
		Resolvers:   o.resolvers,
	})
	if err != nil {
		return nil, err
	}
	if err := reserveName(r.reg, compiled.Name, goType); err != nil {
		return nil, err
	}
	entry := r.reg.Add(&registry.Entry{
		Kind:   compiled.Kind,
		Name:   compiled.Name,
		GoType: goType,
		Type:   compiled,
	})
	return entry.Type, nil
}

// RegisterScalar compiles T as a custom scalar. Serialize turns a T value
// into a JSON-safe representation; Parse turns an input literal or variable
// value into a T. Both are required.
func RegisterScalar[T any](r *Registry, serialize, parse func(any) (any, error), opts ...TypeOption) (*ir.ScalarDef, error) {
	goType := typeOf[T]()
	if existing, ok := r.reg.Lookup(goType); ok {
		if existing.Kind != ir.TypeKindScalar {
			return nil, errRegisteredAs(goType, existing.Kind)
		}
		return existing.Scalar, nil
	}
	var o typeOptions
	for _, opt := range opts {
		opt(&o)
	}
	def, err := compiler.CompileScalar(goType, compiler.ScalarConfig{
		Name:           o.name,
		Description:    o.description,
		SpecifiedByURL: o.specifiedByURL,
		Serialize:      serialize,
		Parse:          parse,
	})
	if err != nil {
		return nil, err
	}
	if err := reserveName(r.reg, def.Name, goType); err != nil {
		return nil, err
	}
	entry := r.reg.Add(&registry.Entry{
		Kind:   ir.TypeKindScalar,
		Name:   def.Name,
		GoType: goType,
		Scalar: def,
	})
	return entry.Scalar, nil
}

// RegisterEnum compiles T as an enum with the given symbolic-name-to-value
// table. Input coercion maps names to values; serialization maps values back
// to names.
func RegisterEnum[T any](r *Registry, values map[string]T, opts ...TypeOption) (*ir.EnumDef, error) {
	goType := typeOf[T]()
	if existing, ok := r.reg.Lookup(goType); ok {
		if existing.Kind != ir.TypeKindEnum {
			return nil, errRegisteredAs(goType, existing.Kind)
		}
		return existing.Enum, nil
	}
	var o typeOptions
	for _, opt := range opts {
		opt(&o)
	}
	table := make(map[string]any, len(values))
	for name, v := range values {
		table[name] = v
	}
	def, err := compiler.CompileEnum(goType, compiler.EnumConfig{
		Name:        o.name,
		Description: o.description,
		Values:      table,
	})
	if err != nil {
		return nil, err
	}
	if err := reserveName(r.reg, def.Name, goType); err != nil {
		return nil, err
	}
	entry := r.reg.Add(&registry.Entry{
		Kind:   ir.TypeKindEnum,
		Name:   def.Name,
		GoType: goType,
		Enum:   def,
	})
	return entry.Enum, nil
}

// compatibleKind reports whether a registration under requested can reuse an
// entry stored as stored. Subscription promotion keeps an object registration
// idempotent.
func compatibleKind(requested, stored ir.TypeKind) bool {
	if requested == stored {
		return true
	}
	return requested == ir.TypeKindObject && stored == ir.TypeKindSubscription
}

// reserveName guards the schema namespace before an entry is published.
// Builtin scalar names are never available, and a name held by a different Go
// type is a conflict rather than a silent overwrite.
func reserveName(reg *registry.Registry, name string, goType reflect.Type) error {
	for _, builtin := range registry.BuiltinScalarNames() {
		if name == builtin {
			return fmt.Errorf("typegraph: type name %q is reserved for a builtin scalar", name)
		}
	}
	if other, ok := reg.LookupName(name); ok && other.GoType != goType {
		return fmt.Errorf("typegraph: type name %q is already registered by %s", name, registry.SortKey(other.GoType))
	}
	return nil
}

func errRegisteredAs(goType reflect.Type, kind ir.TypeKind) error {
	return fmt.Errorf("typegraph: %s is already registered as %s", registry.SortKey(goType), kind)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
