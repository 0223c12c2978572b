package compiler

import (
	"reflect"
	"sort"

	"github.com/hanpama/typegraph/ir"
)

// ScalarConfig carries the registration-time options of a custom scalar.
type ScalarConfig struct {
	Name           string
	Description    string
	SpecifiedByURL string
	Serialize      func(any) (any, error)
	Parse          func(any) (any, error)
}

// CompileScalar validates a custom scalar declaration.
func CompileScalar(goType reflect.Type, cfg ScalarConfig) (*ir.ScalarDef, error) {
	name := cfg.Name
	if name == "" {
		name = goType.Name()
	}
	if cfg.Serialize == nil || cfg.Parse == nil {
		return nil, errScalarRequiresFuncs(name)
	}
	return &ir.ScalarDef{
		Name:           name,
		Description:    cfg.Description,
		SpecifiedByURL: cfg.SpecifiedByURL,
		Serialize:      cfg.Serialize,
		Parse:          cfg.Parse,
	}, nil
}

// EnumConfig carries the registration-time options of an enum.
type EnumConfig struct {
	Name        string
	Description string
	Values      map[string]any
}

// CompileEnum validates an enum declaration. Values are emitted sorted by
// symbolic name so the IR is reproducible.
func CompileEnum(goType reflect.Type, cfg EnumConfig) (*ir.EnumDef, error) {
	name := cfg.Name
	if name == "" {
		name = goType.Name()
	}
	if len(cfg.Values) == 0 {
		return nil, errEnumRequiresValues(name)
	}
	names := make([]string, 0, len(cfg.Values))
	for n := range cfg.Values {
		names = append(names, n)
	}
	sort.Strings(names)
	values := make([]*ir.EnumValue, 0, len(names))
	for _, n := range names {
		values = append(values, &ir.EnumValue{Name: n, Value: cfg.Values[n]})
	}
	return &ir.EnumDef{Name: name, Description: cfg.Description, Values: values}, nil
}
