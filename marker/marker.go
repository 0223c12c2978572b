// Package marker holds the declaration marker types recognized by the
// typegraph compiler. It is a leaf package: both the public API and the
// internal compiler packages depend on it for type identity checks.
package marker

import "context"

// ID is the GraphQL ID scalar. Declare fields and arguments as marker.ID
// (instead of string) to map them to ID.
type ID string

// CtxTag marks a struct as the execution-context parameter of a resolver.
// It is embedded by Ctx and must not be used as a parameter type on its own.
type CtxTag struct{}

// Ctx is the typed execution-context slot of a resolver. When a resolver
// declares a Ctx[S] parameter, the execution engine fills it with the request
// context and the state value shared across the operation.
//
//	func (q Query) Viewer(ctx typegraph.Ctx[*AppState]) (User, error)
//
// A bare context.Context parameter is rejected at compile time; the state
// type must be spelled out so the engine knows what to inject.
type Ctx[S any] struct {
	CtxTag

	Context context.Context
	State   S
}

// Union marks a struct as a tagged union of object types. Every exported
// field must be a pointer to a registered object type; exactly one of them is
// non-nil at runtime.
//
//	type SearchResult struct {
//		typegraph.Union
//		User  *User
//		Robot *Robot
//	}
//
// An anonymous union struct gets its name synthesized by concatenating the
// member type names in declaration order.
type Union struct{}
