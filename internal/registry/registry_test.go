package registry

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/typegraph/ir"
	"github.com/hanpama/typegraph/marker"
)

type node interface{ ID() marker.ID }

type user struct{ Name string }

func (u user) ID() marker.ID { return marker.ID(u.Name) }

type robot struct{ Serial string }

func (r *robot) ID() marker.ID { return marker.ID(r.Serial) }

type widget struct{ Label string }

func objEntry(t reflect.Type, name string) *Entry {
	return &Entry{
		Kind:   ir.TypeKindObject,
		Name:   name,
		GoType: t,
		Type:   &ir.CompiledType{Kind: ir.TypeKindObject, Name: name, GoType: t},
	}
}

func ifaceEntry(t reflect.Type, name string) *Entry {
	return &Entry{
		Kind:   ir.TypeKindInterface,
		Name:   name,
		GoType: t,
		Type:   &ir.CompiledType{Kind: ir.TypeKindInterface, Name: name, GoType: t},
	}
}

func TestAddIsIdempotent(t *testing.T) {
	r := New()
	first := r.Add(objEntry(reflect.TypeOf(user{}), "User"))
	second := r.Add(objEntry(reflect.TypeOf(user{}), "User"))
	assert.Same(t, first, second)

	got, ok := r.Lookup(reflect.TypeOf(user{}))
	require.True(t, ok)
	assert.Same(t, first, got)

	byName, ok := r.LookupName("User")
	require.True(t, ok)
	assert.Same(t, first, byName)
}

func TestImplementerIndexEitherRegistrationOrder(t *testing.T) {
	nodeType := reflect.TypeOf((*node)(nil)).Elem()
	userType := reflect.TypeOf(user{})
	robotType := reflect.TypeOf(robot{})

	// Objects before the interface.
	r := New()
	r.Add(objEntry(userType, "User"))
	r.Add(objEntry(robotType, "Robot"))
	r.Add(objEntry(reflect.TypeOf(widget{}), "Widget"))
	r.Add(ifaceEntry(nodeType, "Node"))
	assert.Equal(t, []reflect.Type{robotType, userType}, r.Implementers(nodeType))

	// Interface before the objects.
	r = New()
	r.Add(ifaceEntry(nodeType, "Node"))
	r.Add(objEntry(userType, "User"))
	r.Add(objEntry(robotType, "Robot"))
	assert.Equal(t, []reflect.Type{robotType, userType}, r.Implementers(nodeType))
}

func TestInterfacesOf(t *testing.T) {
	nodeType := reflect.TypeOf((*node)(nil)).Elem()
	r := New()
	r.Add(ifaceEntry(nodeType, "Node"))
	r.Add(objEntry(reflect.TypeOf(user{}), "User"))

	entries := r.InterfacesOf(reflect.TypeOf(user{}))
	require.Len(t, entries, 1)
	assert.Equal(t, "Node", entries[0].Name)

	assert.Empty(t, r.InterfacesOf(reflect.TypeOf(widget{})))
}

func TestBuiltinScalarName(t *testing.T) {
	for _, tc := range []struct {
		typ  reflect.Type
		want string
	}{
		{reflect.TypeOf(true), "Boolean"},
		{reflect.TypeOf(int(0)), "Int"},
		{reflect.TypeOf(int32(0)), "Int"},
		{reflect.TypeOf(uint16(0)), "Int"},
		{reflect.TypeOf(float64(0)), "Float"},
		{reflect.TypeOf(""), "String"},
		{reflect.TypeOf(marker.ID("")), "ID"},
	} {
		name, ok := BuiltinScalarName(tc.typ)
		require.True(t, ok, "expected %s to be a builtin scalar", tc.typ)
		assert.Equal(t, tc.want, name)
	}

	// Defined types resolve through the registry, not the builtin table.
	type customString string
	_, ok := BuiltinScalarName(reflect.TypeOf(customString("")))
	assert.False(t, ok)

	_, ok = BuiltinScalarName(reflect.TypeOf(user{}))
	assert.False(t, ok)
}
