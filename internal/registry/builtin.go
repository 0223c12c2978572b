package registry

import (
	"reflect"

	"github.com/hanpama/typegraph/marker"
)

var idType = reflect.TypeOf(marker.ID(""))

// BuiltinScalarName maps predeclared Go types to the builtin scalar table.
// Named defined types never match here (except marker.ID); they resolve
// through the registry as enums, custom scalars or declared types.
func BuiltinScalarName(t reflect.Type) (string, bool) {
	if t == idType {
		return "ID", true
	}
	if t.PkgPath() != "" {
		return "", false
	}
	switch t.Kind() {
	case reflect.Bool:
		return "Boolean", true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "Int", true
	case reflect.Float32, reflect.Float64:
		return "Float", true
	case reflect.String:
		return "String", true
	}
	return "", false
}

// BuiltinScalarNames lists the scalar names every schema carries implicitly.
func BuiltinScalarNames() []string {
	return []string{"Boolean", "Float", "ID", "Int", "String"}
}
