// Package registry is the explicit declared-type registry shared by the
// compiler and the schema-graph builder. It is the only mutable state in the
// system: written under a mutex while classes are being declared (startup),
// read-only afterward. Tests construct a fresh Registry per case.
package registry

import (
	"reflect"
	"sort"
	"sync"

	"github.com/hanpama/typegraph/ir"
)

// Entry is one registered declaration, tagged by kind. Exactly one of Type,
// Scalar, Enum is set, matching the kind.
type Entry struct {
	Kind   ir.TypeKind
	Name   string
	GoType reflect.Type

	Type   *ir.CompiledType
	Scalar *ir.ScalarDef
	Enum   *ir.EnumDef
}

type Registry struct {
	mu     sync.Mutex
	byType map[reflect.Type]*Entry
	byName map[string]*Entry

	// implementers maps an interface's Go type to the object Go types known
	// to satisfy it. Updated on every object/interface registration.
	implementers map[reflect.Type][]reflect.Type
}

func New() *Registry {
	return &Registry{
		byType:       make(map[reflect.Type]*Entry),
		byName:       make(map[string]*Entry),
		implementers: make(map[reflect.Type][]reflect.Type),
	}
}

// Lookup returns the entry registered for the Go type.
func (r *Registry) Lookup(t reflect.Type) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byType[t]
	return e, ok
}

// LookupName returns the entry registered under the schema type name.
func (r *Registry) LookupName(name string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byName[name]
	return e, ok
}

// Add publishes an entry. Re-registering the same Go type is idempotent: the
// previously stored entry is returned untouched, so duplicate registration
// can never diverge from the first compilation.
func (r *Registry) Add(e *Entry) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byType[e.GoType]; ok {
		return existing
	}
	r.byType[e.GoType] = e
	r.byName[e.Name] = e

	switch e.Kind {
	case ir.TypeKindObject:
		for _, other := range r.byType {
			if other.Kind == ir.TypeKindInterface && satisfies(e.GoType, other.GoType) {
				r.implementers[other.GoType] = append(r.implementers[other.GoType], e.GoType)
			}
		}
	case ir.TypeKindInterface:
		for _, other := range r.byType {
			if other.Kind == ir.TypeKindObject && satisfies(other.GoType, e.GoType) {
				r.implementers[e.GoType] = append(r.implementers[e.GoType], other.GoType)
			}
		}
	}
	return e
}

// Implementers returns the object Go types implementing the interface, in a
// stable order independent of registration order.
func (r *Registry) Implementers(iface reflect.Type) []reflect.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	impls := append([]reflect.Type(nil), r.implementers[iface]...)
	sort.Slice(impls, func(i, j int) bool { return SortKey(impls[i]) < SortKey(impls[j]) })
	return impls
}

// InterfacesOf returns the registered interface entries the object type
// satisfies, in stable order.
func (r *Registry) InterfacesOf(obj reflect.Type) []*Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Entry
	for _, e := range r.byType {
		if e.Kind == ir.TypeKindInterface && satisfies(obj, e.GoType) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return SortKey(out[i].GoType) < SortKey(out[j].GoType) })
	return out
}

// SortKey is the declaration identity used wherever type iteration order must
// be reproducible across runs.
func SortKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.Name()
}

func satisfies(obj, iface reflect.Type) bool {
	if iface.Kind() != reflect.Interface {
		return false
	}
	return obj.Implements(iface) || reflect.PointerTo(obj).Implements(iface)
}
