package typegraph

import (
	"context"
	"errors"
	"reflect"

	"github.com/hanpama/typegraph/engine"
	"github.com/hanpama/typegraph/internal/graph"
	"github.com/hanpama/typegraph/internal/sdl"
	"github.com/hanpama/typegraph/ir"
)

// ErrNoEngine is returned by Schema.Execute when the schema was built
// without an execution engine.
var ErrNoEngine = errors.New("typegraph: schema has no execution engine")

// Roots names the operation root types by example value. Query is required;
// a nil Mutation or Subscription omits that operation. Pointer values are
// accepted and dereferenced.
type Roots struct {
	Query        any
	Mutation     any
	Subscription any
}

// Schema is a built schema graph plus an optional execution engine. It is
// immutable and safe to share across goroutines.
type Schema struct {
	bundle *ir.SchemaBundle
	engine engine.Engine
}

type SchemaOption func(*Schema)

// WithEngine attaches the execution engine Execute delegates to.
func WithEngine(e engine.Engine) SchemaOption {
	return func(s *Schema) { s.engine = e }
}

// NewSchema builds the reachable schema closure from the given roots. All
// referenced types must already be registered; any declaration or graph
// error aborts the build with no partial schema.
func NewSchema(ctx context.Context, r *Registry, roots Roots, opts ...SchemaOption) (*Schema, error) {
	bundle, err := graph.Build(ctx, r.reg, graph.Roots{
		Query:        rootType(roots.Query),
		Mutation:     rootType(roots.Mutation),
		Subscription: rootType(roots.Subscription),
	})
	if err != nil {
		return nil, err
	}
	s := &Schema{bundle: bundle}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func rootType(v any) reflect.Type {
	if v == nil {
		return nil
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Bundle returns the compiled schema bundle for engine handoff.
func (s *Schema) Bundle() *ir.SchemaBundle { return s.bundle }

// SDL renders the schema in GraphQL schema definition language.
func (s *Schema) SDL() string { return sdl.Render(s.bundle) }

// EncodeJSON exports the bundle as deterministic JSON, with callable values
// omitted, for out-of-process engines.
func (s *Schema) EncodeJSON() ([]byte, error) { return s.bundle.EncodeJSON() }

// Execute runs one operation through the attached engine.
func (s *Schema) Execute(ctx context.Context, req engine.Request, state any) (engine.Response, error) {
	if s.engine == nil {
		return engine.Response{}, ErrNoEngine
	}
	return s.engine.Execute(ctx, s.bundle, req, state), nil
}
