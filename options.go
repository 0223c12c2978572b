package typegraph

import (
	"github.com/hanpama/typegraph/internal/compiler"
	"github.com/hanpama/typegraph/ir"
)

type typeOptions struct {
	name           string
	description    string
	specifiedByURL string
	resolvers      []compiler.ResolverConfig
}

// TypeOption customizes one type registration.
type TypeOption func(*typeOptions)

// WithName overrides the schema name derived from the Go type name.
func WithName(name string) TypeOption {
	return func(o *typeOptions) { o.name = name }
}

// WithDescription attaches a description to the registered type.
func WithDescription(description string) TypeOption {
	return func(o *typeOptions) { o.description = description }
}

// WithSpecifiedBy records the specification URL of a custom scalar. It has
// no effect on other kinds.
func WithSpecifiedBy(url string) TypeOption {
	return func(o *typeOptions) { o.specifiedByURL = url }
}

// WithField marks fn as a field resolver named name. fn must be a function
// whose first parameter is the registered type (or a pointer to it),
// optionally followed by a Ctx[S] parameter and an arguments struct, in
// either order.
func WithField(name string, fn any, opts ...FieldOption) TypeOption {
	return withResolver(name, ir.ResolverKindField, fn, opts)
}

// WithSubscription marks fn as a subscription resolver named name. fn must
// return a receive-only channel; a type whose resolvers are all
// subscriptions compiles as a subscription root.
func WithSubscription(name string, fn any, opts ...FieldOption) TypeOption {
	return withResolver(name, ir.ResolverKindSubscription, fn, opts)
}

func withResolver(name string, kind ir.ResolverKind, fn any, opts []FieldOption) TypeOption {
	return func(o *typeOptions) {
		cfg := compiler.ResolverConfig{Name: name, Kind: kind, Func: fn}
		for _, opt := range opts {
			opt(&cfg)
		}
		o.resolvers = append(o.resolvers, cfg)
	}
}

// FieldOption customizes one resolver declaration.
type FieldOption func(*compiler.ResolverConfig)

// WithFieldDescription attaches a description to the field.
func WithFieldDescription(description string) FieldOption {
	return func(c *compiler.ResolverConfig) { c.Description = description }
}

// Async asks the engine to schedule the resolver off the synchronous path.
// A stream return is asynchronous with or without the option; a plain return
// keeps the synchronous calling convention, and the request survives as the
// compiled field's Offload hint so the engine may run the call concurrently.
func Async() FieldOption {
	return func(c *compiler.ResolverConfig) { c.Async = true }
}

// Deprecated marks the field deprecated with the given reason.
func Deprecated(reason string) FieldOption {
	return func(c *compiler.ResolverConfig) { c.Deprecated = reason }
}
