package compiler

import (
	"context"
	"reflect"
	"sort"

	"github.com/hanpama/typegraph/internal/annotation"
	"github.com/hanpama/typegraph/internal/registry"
	"github.com/hanpama/typegraph/ir"
)

// TypeConfig carries the registration-time options of one declared type.
type TypeConfig struct {
	Name        string
	Description string
	Resolvers   []ResolverConfig
}

// CompileType assembles one declared Go type into a complete IR type node.
// All legality checks run before any IR is emitted; on success the result is
// immutable and ready to be memoized on the registry.
func CompileType(reg *registry.Registry, goType reflect.Type, kind ir.TypeKind, cfg TypeConfig) (*ir.CompiledType, error) {
	name := cfg.Name
	if name == "" {
		name = goType.Name()
	}

	var fieldResolvers, subResolvers []*ir.CompiledResolverField
	for _, rc := range cfg.Resolvers {
		compiled, err := compileResolver(reg, goType, name, rc)
		if err != nil {
			return nil, err
		}
		switch compiled.Kind {
		case ir.ResolverKindSubscription:
			subResolvers = append(subResolvers, compiled)
		default:
			fieldResolvers = append(fieldResolvers, compiled)
		}
	}

	effective := kind
	if kind == ir.TypeKindInput {
		if len(fieldResolvers) > 0 || len(subResolvers) > 0 {
			return nil, errInputResolverNotAllowed(name)
		}
	} else {
		if len(fieldResolvers) > 0 && len(subResolvers) > 0 {
			return nil, errMixedResolverKinds(name)
		}
		if kind == ir.TypeKindInterface && len(subResolvers) > 0 {
			return nil, errInterfaceSubscription(name)
		}
		// A class whose resolver members are all subscriptions is a
		// subscription root, whatever it was declared as.
		if len(subResolvers) > 0 {
			effective = ir.TypeKindSubscription
		}
	}

	var dataFields []*ir.CompiledDataField
	var err error
	if goType.Kind() == reflect.Interface {
		abstract, aerr := compileInterfaceFields(reg, goType, name)
		if aerr != nil {
			return nil, aerr
		}
		fieldResolvers = append(abstract, fieldResolvers...)
	} else {
		dataFields, err = compileDataFields(reg, goType, name, effective)
		if err != nil {
			return nil, err
		}
	}

	if effective == ir.TypeKindSubscription && len(dataFields) > 0 {
		return nil, errSubscriptionDataFields(name)
	}

	// A resolver member sharing a name with a plain member overrides it: the
	// computed value wins over the stored one.
	resolvers := fieldResolvers
	if effective == ir.TypeKindSubscription {
		resolvers = subResolvers
	}
	dataFields = suppressShadowed(dataFields, resolvers)

	var implements []string
	var refs []reflect.Type
	if effective == ir.TypeKindObject || effective == ir.TypeKindInterface {
		for _, ie := range reg.InterfacesOf(goType) {
			implements = append(implements, ie.Name)
			refs = append(refs, ie.GoType)
		}
	}
	for _, f := range dataFields {
		refs = append(refs, f.Refs...)
	}
	for _, r := range resolvers {
		refs = append(refs, r.Refs...)
	}

	return &ir.CompiledType{
		Kind:           effective,
		Name:           name,
		Description:    cfg.Description,
		DataFields:     dataFields,
		ResolverFields: resolvers,
		Implements:     implements,
		GoType:         goType,
		Refs:           dedupeRefs(refs),
	}, nil
}

// compileDataFields enumerates the visible plain members of a struct type.
// Unexported fields, embedded markers and members tagged "-" stay hidden.
func compileDataFields(reg *registry.Registry, goType reflect.Type, declName string, kind ir.TypeKind) ([]*ir.CompiledDataField, error) {
	if goType.Kind() != reflect.Struct {
		return nil, errUnsupportedAnnotation(declName, "", goType)
	}
	expectInput := kind == ir.TypeKindInput

	var fields []*ir.CompiledDataField
	for _, f := range reflect.VisibleFields(goType) {
		if f.PkgPath != "" || f.Anonymous {
			continue
		}
		tag := annotation.ParseTag(f.Tag)
		if tag.Hidden {
			continue
		}
		name := fieldName(tag.Name, f.Name)

		// Input fields with a default are acceptable when absent; output data
		// fields only when the default is explicitly null.
		forceNullable := tag.HasDefault
		if !expectInput {
			forceNullable = tag.Default == "null"
		}
		spec, err := buildTypeSpec(reg, f.Type, f.Tag, expectInput, forceNullable, declName, name)
		if err != nil {
			return nil, err
		}

		field := &ir.CompiledDataField{
			Name:        name,
			Description: tag.Description,
			Type:        spec,
		}
		if tag.HasDefault {
			plain, err := parseDefaultLiteral(tag.Default)
			if err != nil {
				return nil, errBadDefault(declName, name, tag.Default, err)
			}
			field.HasDefault, field.Default = true, plain
		}
		field.Accessor = makeAccessor(f, field.HasDefault, field.Default)

		refs, err := collectRefs(reg, declName, name, []reflect.Type{f.Type})
		if err != nil {
			return nil, err
		}
		field.Refs = refs
		fields = append(fields, field)
	}
	return fields, nil
}

// compileInterfaceFields derives resolver field descriptors from an
// interface's method set. The methods are abstract; implementers supply the
// callables.
func compileInterfaceFields(reg *registry.Registry, goType reflect.Type, declName string) ([]*ir.CompiledResolverField, error) {
	var fields []*ir.CompiledResolverField
	for i := 0; i < goType.NumMethod(); i++ {
		m := goType.Method(i)
		if m.PkgPath != "" {
			continue
		}
		if isStreamReturn(m.Type) {
			return nil, errInterfaceSubscription(declName)
		}
		compiled, err := compileAbstractResolver(reg, declName, m)
		if err != nil {
			return nil, err
		}
		fields = append(fields, compiled)
	}
	return fields, nil
}

func isStreamReturn(fnT reflect.Type) bool {
	if fnT.NumOut() == 0 {
		return false
	}
	return annotation.AnalyzeType(fnT.Out(0)).IsStream
}

// makeAccessor reads the plain member off the parent value. With no parent
// (root types) the declared default is returned instead.
func makeAccessor(f reflect.StructField, hasDefault bool, plainDefault any) ir.ResolverFunc {
	index := f.Index
	return func(_ context.Context, source any, _ any, _ map[string]any) (any, error) {
		if source == nil {
			if hasDefault {
				return plainDefault, nil
			}
			return nil, nil
		}
		rv := reflect.ValueOf(source)
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return plainDefault, nil
			}
			rv = rv.Elem()
		}
		return rv.FieldByIndex(index).Interface(), nil
	}
}

func suppressShadowed(dataFields []*ir.CompiledDataField, resolvers []*ir.CompiledResolverField) []*ir.CompiledDataField {
	if len(resolvers) == 0 || len(dataFields) == 0 {
		return dataFields
	}
	names := map[string]bool{}
	for _, r := range resolvers {
		names[r.Name] = true
	}
	kept := dataFields[:0]
	for _, f := range dataFields {
		if !names[f.Name] {
			kept = append(kept, f)
		}
	}
	return kept
}

func dedupeRefs(refs []reflect.Type) []reflect.Type {
	seen := map[reflect.Type]bool{}
	var out []reflect.Type
	for _, r := range refs {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return registry.SortKey(out[i]) < registry.SortKey(out[j]) })
	return out
}
