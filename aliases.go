package typegraph

import "github.com/hanpama/typegraph/marker"

// Re-exports of the declaration markers so typical schema code only imports
// this package.

// Ctx declares a resolver's injected context slot carrying the request
// context and the application state value S.
type Ctx[S any] = marker.Ctx[S]

// ID is the builtin ID scalar.
type ID = marker.ID

// Union marks an embedded struct as a tagged union declaration.
type Union = marker.Union
