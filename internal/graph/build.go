// Package graph builds the final schema bundle from one or more root types:
// closure discovery over inter-type references, interface implementer
// resolution, union deduplication and the cross-type invariants that only
// hold for a complete schema. Construction either fully succeeds or fails;
// there is no partial schema.
package graph

import (
	"context"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hanpama/typegraph/internal/registry"
	"github.com/hanpama/typegraph/ir"
)

var tracer trace.Tracer = otel.Tracer("github.com/hanpama/typegraph")

// Roots names the root declaration types. Query is required.
type Roots struct {
	Query        reflect.Type
	Mutation     reflect.Type
	Subscription reflect.Type
}

// Build discovers the transitive closure of reachable types starting from the
// roots and assembles the immutable SchemaBundle. The registry is only read;
// compiled types are reused as-is, so several schemas can share one registry.
func Build(ctx context.Context, reg *registry.Registry, roots Roots) (*ir.SchemaBundle, error) {
	_, span := tracer.Start(ctx, "typegraph.BuildSchema")
	defer span.End()

	bundle, err := build(reg, roots)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("typegraph.types", len(bundle.Types)),
		attribute.Int("typegraph.unions", len(bundle.Unions)),
	)
	return bundle, nil
}

func build(reg *registry.Registry, roots Roots) (*ir.SchemaBundle, error) {
	if roots.Query == nil {
		return nil, errSchemaRequiresQuery()
	}

	rootEntries := make([]*registry.Entry, 0, 3)
	for _, rootType := range []reflect.Type{roots.Query, roots.Mutation, roots.Subscription} {
		if rootType == nil {
			continue
		}
		entry, ok := reg.Lookup(rootType)
		if !ok || entry.Type == nil {
			return nil, errTypeNotRegistered(typeName(rootType))
		}
		rootEntries = append(rootEntries, entry)
	}

	b := &builder{reg: reg, visited: map[reflect.Type]bool{}}
	for _, entry := range rootEntries {
		b.enqueue(entry.GoType)
	}
	if err := b.discover(); err != nil {
		return nil, err
	}

	for _, entry := range rootEntries {
		if err := validateRootDefaults(entry.Type); err != nil {
			return nil, err
		}
	}

	unions, err := collectUnions(b.types)
	if err != nil {
		return nil, err
	}

	bundle := &ir.SchemaBundle{
		QueryType: mustName(reg, roots.Query),
		Types:     b.types,
		Unions:    unions,
		Scalars:   b.scalars,
		Enums:     b.enums,
	}
	if roots.Mutation != nil {
		bundle.MutationType = mustName(reg, roots.Mutation)
	}
	if roots.Subscription != nil {
		bundle.SubscriptionType = mustName(reg, roots.Subscription)
	}
	return bundle, nil
}

type builder struct {
	reg     *registry.Registry
	pending []reflect.Type
	visited map[reflect.Type]bool

	types   []*ir.CompiledType
	scalars []*ir.ScalarDef
	enums   []*ir.EnumDef
}

func (b *builder) enqueue(t reflect.Type) {
	b.pending = append(b.pending, t)
}

// discover walks the reference graph breadth-first so output ordering follows
// reachability from the roots. Reference sets are stored pre-sorted by
// declaration identity, which keeps the walk reproducible across runs.
func (b *builder) discover() error {
	for len(b.pending) > 0 {
		t := b.pending[0]
		b.pending = b.pending[1:]
		if b.visited[t] {
			continue
		}
		b.visited[t] = true

		entry, ok := b.reg.Lookup(t)
		if !ok {
			return errTypeNotRegistered(typeName(t))
		}
		switch entry.Kind {
		case ir.TypeKindScalar:
			b.scalars = append(b.scalars, entry.Scalar)
			continue
		case ir.TypeKindEnum:
			b.enums = append(b.enums, entry.Enum)
			continue
		}

		b.types = append(b.types, entry.Type)
		if entry.Kind == ir.TypeKindInterface {
			for _, impl := range b.reg.Implementers(entry.GoType) {
				if !b.visited[impl] {
					b.enqueue(impl)
				}
			}
		}
		for _, ref := range entry.Type.Refs {
			if !b.visited[ref] {
				b.enqueue(ref)
			}
		}
	}
	return nil
}

// validateRootDefaults rejects root plain fields without defaults: a root has
// no enclosing instance to read stored values from, so only defaulted or
// resolver-backed members are executable there.
func validateRootDefaults(root *ir.CompiledType) error {
	for _, f := range root.DataFields {
		if !f.HasDefault {
			return errRootFieldMissingDefault(root.Name, f.Name)
		}
	}
	return nil
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func mustName(reg *registry.Registry, t reflect.Type) string {
	entry, _ := reg.Lookup(t)
	return entry.Name
}
