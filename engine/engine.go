// Package engine defines the contract between a compiled schema bundle and
// the execution engine that runs operations against it.
package engine

import (
	"context"

	"github.com/hanpama/typegraph/ir"
)

// Engine executes GraphQL operations against a compiled schema bundle.
//
// General contract
//   - The bundle handed to the engine is authoritative and pre-validated.
//     Every type reference inside it resolves to a bundle entry; the engine
//     never needs to re-check declarations, argument legality, or union
//     consistency at execution time.
//   - The bundle is immutable. Engines may index or cache any part of it
//     without copying and may share it across concurrent operations.
//   - Field resolvers are invoked through ir.CompiledResolverField.Func,
//     which carries a fixed call convention: the engine passes the parent
//     value, the opaque per-operation state, and the raw argument mapping
//     keyed by declared name. Argument coercion into the resolver's own
//     parameter types is baked into the func; the engine passes values as
//     decoded from the request.
//   - A resolver's Shape describes which declaration-side parameters exist,
//     for engines that want to schedule context-free fields differently.
//     Func always accepts the full four-parameter convention regardless.
//   - Resolvers with IsAsync true return a receive-only channel as the
//     value; the engine owns draining it and must stop when ctx is done.
//   - Offload flags resolvers the declaration wants off the synchronous
//     path. For IsAsync resolvers it is implied; for synchronous ones it is
//     a hint that the call may block, inviting concurrent dispatch alongside
//     sibling fields. Ignoring the hint is allowed.
//   - Data fields are read through ir.CompiledDataField.Accessor with the
//     same convention. Accessors never block and never need state or args.
//   - Errors returned by resolver funcs are field errors, not engine
//     failures: locate them, apply null propagation, and continue.
//
// Concurrency
//   - Engines may call any number of resolver funcs concurrently. The funcs
//     themselves are safe; safety of the user resolvers behind them is the
//     declaring application's responsibility, as with any GraphQL server.
type Engine interface {
	// Execute runs one operation and returns the response payload. The
	// state value is threaded into every resolver that declared a context
	// parameter and is otherwise opaque to the engine.
	Execute(ctx context.Context, bundle *ir.SchemaBundle, req Request, state any) Response
}

// Request is a standard GraphQL-over-HTTP request payload.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is the corresponding response payload.
type Response struct {
	Data   any     `json:"data,omitempty"`
	Errors []Error `json:"errors,omitempty"`
}

// Error is a located GraphQL error.
type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}
