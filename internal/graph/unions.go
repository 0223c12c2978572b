package graph

import (
	"sort"

	"github.com/hanpama/typegraph/ir"
)

// collectUnions scans every field and argument TypeSpec of the discovered
// types for union references and deduplicates them by name. A name reused
// with a different member set or description is a conflicting definition.
func collectUnions(types []*ir.CompiledType) ([]*ir.UnionDef, error) {
	byName := map[string]*ir.UnionDef{}
	for _, t := range types {
		for _, spec := range typeSpecs(t) {
			if err := mergeUnionSpecs(byName, spec); err != nil {
				return nil, err
			}
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	unions := make([]*ir.UnionDef, 0, len(names))
	for _, name := range names {
		unions = append(unions, byName[name])
	}
	return unions, nil
}

func mergeUnionSpecs(byName map[string]*ir.UnionDef, spec *ir.TypeSpec) error {
	for ; spec != nil; spec = spec.OfType {
		if spec.Kind != ir.TypeSpecKindUnion {
			continue
		}
		if spec.Named == "" {
			return errUnionRequiresName()
		}
		if len(spec.UnionMembers) == 0 {
			return errUnionRequiresMembers(spec.Named)
		}
		def := &ir.UnionDef{
			Name:        spec.Named,
			Members:     spec.UnionMembers,
			Description: spec.UnionDescription,
		}
		existing, ok := byName[spec.Named]
		if !ok {
			byName[spec.Named] = def
			continue
		}
		if !sameUnion(existing, def) {
			return errUnionConflict(spec.Named)
		}
	}
	return nil
}

func sameUnion(a, b *ir.UnionDef) bool {
	if a.Description != b.Description || len(a.Members) != len(b.Members) {
		return false
	}
	for i := range a.Members {
		if a.Members[i] != b.Members[i] {
			return false
		}
	}
	return true
}

func typeSpecs(t *ir.CompiledType) []*ir.TypeSpec {
	var specs []*ir.TypeSpec
	for _, f := range t.DataFields {
		specs = append(specs, f.Type)
	}
	for _, f := range t.ResolverFields {
		specs = append(specs, f.Type)
		for _, a := range f.Args {
			specs = append(specs, a.Type)
		}
	}
	return specs
}
