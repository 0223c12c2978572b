package compiler

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/typegraph/internal/registry"
	"github.com/hanpama/typegraph/ir"
	"github.com/hanpama/typegraph/marker"
)

// Shared declaration fixtures. Registration order follows the
// referenced-before-referencing rule the compiler enforces.

type cell struct{ Value string }

type row struct {
	A     int
	Cells []cell
}

type filterInput struct {
	Min int `default:"0"`
	Max *int
}

type appState struct{ Tenant string }

type color string

const (
	colorRed  color = "red"
	colorBlue color = "blue"
)

type instant int64

func mustRegisterObject(t *testing.T, reg *registry.Registry, goType reflect.Type, cfg TypeConfig) *ir.CompiledType {
	t.Helper()
	compiled, err := CompileType(reg, goType, ir.TypeKindObject, cfg)
	require.NoError(t, err)
	reg.Add(&registry.Entry{Kind: compiled.Kind, Name: compiled.Name, GoType: goType, Type: compiled})
	return compiled
}

func mustRegisterInput(t *testing.T, reg *registry.Registry, goType reflect.Type, cfg TypeConfig) *ir.CompiledType {
	t.Helper()
	compiled, err := CompileType(reg, goType, ir.TypeKindInput, cfg)
	require.NoError(t, err)
	reg.Add(&registry.Entry{Kind: compiled.Kind, Name: compiled.Name, GoType: goType, Type: compiled})
	return compiled
}

func mustRegisterInterface(t *testing.T, reg *registry.Registry, goType reflect.Type, cfg TypeConfig) *ir.CompiledType {
	t.Helper()
	compiled, err := CompileType(reg, goType, ir.TypeKindInterface, cfg)
	require.NoError(t, err)
	reg.Add(&registry.Entry{Kind: compiled.Kind, Name: compiled.Name, GoType: goType, Type: compiled})
	return compiled
}

// newTestRegistry registers the shared fixtures: Cell and Row objects, the
// Filter input, the Color enum and the Instant scalar.
func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()

	mustRegisterObject(t, reg, reflect.TypeOf(cell{}), TypeConfig{Name: "Cell"})
	mustRegisterObject(t, reg, reflect.TypeOf(row{}), TypeConfig{Name: "Row"})
	mustRegisterInput(t, reg, reflect.TypeOf(filterInput{}), TypeConfig{Name: "Filter"})

	enum, err := CompileEnum(reflect.TypeOf(color("")), EnumConfig{
		Name:   "Color",
		Values: map[string]any{"RED": colorRed, "BLUE": colorBlue},
	})
	require.NoError(t, err)
	reg.Add(&registry.Entry{
		Kind:   ir.TypeKindEnum,
		Name:   enum.Name,
		GoType: reflect.TypeOf(color("")),
		Enum:   enum,
	})

	scalar, err := CompileScalar(reflect.TypeOf(instant(0)), ScalarConfig{
		Name: "Instant",
		Serialize: func(v any) (any, error) {
			return fmt.Sprintf("@%d", v), nil
		},
		Parse: func(v any) (any, error) {
			s, ok := v.(string)
			if !ok || !strings.HasPrefix(s, "@") {
				return nil, fmt.Errorf("not an instant: %v", v)
			}
			var n int64
			if _, err := fmt.Sscanf(s, "@%d", &n); err != nil {
				return nil, err
			}
			return instant(n), nil
		},
	})
	require.NoError(t, err)
	reg.Add(&registry.Entry{
		Kind:   ir.TypeKindScalar,
		Name:   scalar.Name,
		GoType: reflect.TypeOf(instant(0)),
		Scalar: scalar,
	})

	return reg
}

func cellType() reflect.Type  { return reflect.TypeOf(cell{}) }
func rowType() reflect.Type   { return reflect.TypeOf(row{}) }
func idType() reflect.Type    { return reflect.TypeOf(marker.ID("")) }
func colorType() reflect.Type { return reflect.TypeOf(color("")) }
