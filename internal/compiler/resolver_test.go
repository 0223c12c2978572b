package compiler

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/typegraph/ir"
	"github.com/hanpama/typegraph/marker"
)

type greeter struct{ Prefix string }

type greetArgs struct {
	Name  string
	Title *string `default:"null"`
}

func greet(g greeter, args greetArgs) (string, error) {
	name := args.Name
	if args.Title != nil {
		name = *args.Title + " " + name
	}
	return g.Prefix + name, nil
}

func TestCompileResolverShapes(t *testing.T) {
	reg := newTestRegistry(t)
	parent := reflect.TypeOf(greeter{})

	for _, tc := range []struct {
		name      string
		fn        any
		wantShape ir.CallShape
		wantCtx   bool
	}{
		{
			name:      "receiver only",
			fn:        func(g greeter) string { return g.Prefix },
			wantShape: ir.ShapeReceiverOnly,
		},
		{
			name:      "receiver and args",
			fn:        greet,
			wantShape: ir.ShapeReceiverAndArgs,
		},
		{
			name:      "receiver and context",
			fn:        func(g greeter, ctx marker.Ctx[appState]) string { return ctx.State.Tenant },
			wantShape: ir.ShapeReceiverAndContext,
			wantCtx:   true,
		},
		{
			name: "receiver context and args",
			fn: func(g greeter, ctx marker.Ctx[appState], args greetArgs) string {
				return args.Name
			},
			wantShape: ir.ShapeReceiverContextAndArgs,
			wantCtx:   true,
		},
		{
			name: "context after args classifies the same",
			fn: func(g greeter, args greetArgs, ctx marker.Ctx[appState]) string {
				return args.Name
			},
			wantShape: ir.ShapeReceiverContextAndArgs,
			wantCtx:   true,
		},
		{
			name:      "pointer receiver",
			fn:        func(g *greeter) string { return g.Prefix },
			wantShape: ir.ShapeReceiverOnly,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			field, err := compileResolver(reg, parent, "Greeter", ResolverConfig{
				Name: "greet", Kind: ir.ResolverKindField, Func: tc.fn,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantShape, field.Shape)
			assert.Equal(t, tc.wantCtx, field.NeedsContext)
			assert.False(t, field.IsAsync)
			assert.Equal(t, "String!", field.Type.String())
		})
	}
}

func TestCompileResolverArgs(t *testing.T) {
	reg := newTestRegistry(t)
	field, err := compileResolver(reg, reflect.TypeOf(greeter{}), "Greeter", ResolverConfig{
		Name: "greet", Kind: ir.ResolverKindField, Func: greet,
	})
	require.NoError(t, err)

	require.Len(t, field.Args, 2)
	assert.Equal(t, "name", field.Args[0].Name)
	assert.Equal(t, "String!", field.Args[0].Type.String())
	assert.False(t, field.Args[0].HasDefault)

	// A default literal forces the argument nullable.
	assert.Equal(t, "title", field.Args[1].Name)
	assert.Equal(t, "String", field.Args[1].Type.String())
	assert.True(t, field.Args[1].HasDefault)
	assert.Nil(t, field.Args[1].Default)
}

func TestCompileResolverAdapter(t *testing.T) {
	reg := newTestRegistry(t)
	field, err := compileResolver(reg, reflect.TypeOf(greeter{}), "Greeter", ResolverConfig{
		Name: "greet", Kind: ir.ResolverKindField, Func: greet,
	})
	require.NoError(t, err)

	got, err := field.Func(context.Background(), greeter{Prefix: "Hello "}, nil,
		map[string]any{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada", got)

	got, err = field.Func(context.Background(), &greeter{Prefix: "Hello "}, nil,
		map[string]any{"name": "Ada", "title": "Dr"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Dr Ada", got)
}

func TestCompileResolverAdapterContext(t *testing.T) {
	reg := newTestRegistry(t)
	fn := func(g greeter, ctx marker.Ctx[appState]) (string, error) {
		if ctx.Context == nil {
			return "", errors.New("missing request context")
		}
		return ctx.State.Tenant, nil
	}
	field, err := compileResolver(reg, reflect.TypeOf(greeter{}), "Greeter", ResolverConfig{
		Name: "tenant", Kind: ir.ResolverKindField, Func: fn,
	})
	require.NoError(t, err)

	got, err := field.Func(context.Background(), greeter{}, appState{Tenant: "acme"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "acme", got)
}

func TestCompileResolverAdapterError(t *testing.T) {
	reg := newTestRegistry(t)
	boom := errors.New("boom")
	field, err := compileResolver(reg, reflect.TypeOf(greeter{}), "Greeter", ResolverConfig{
		Name: "fail", Kind: ir.ResolverKindField,
		Func: func(g greeter) (string, error) { return "", boom },
	})
	require.NoError(t, err)

	_, err = field.Func(context.Background(), greeter{}, nil, nil)
	assert.ErrorIs(t, err, boom)
}

func TestCompileResolverCoercion(t *testing.T) {
	reg := newTestRegistry(t)
	type searchArgs struct {
		Filter filterInput
		Tint   color
		At     *instant
	}
	fn := func(g greeter, args searchArgs) []cell {
		n := args.Filter.Min
		if args.Tint == colorBlue {
			n++
		}
		if args.At != nil {
			n += int(*args.At)
		}
		return make([]cell, n)
	}
	field, err := compileResolver(reg, reflect.TypeOf(greeter{}), "Greeter", ResolverConfig{
		Name: "search", Kind: ir.ResolverKindField, Func: fn,
	})
	require.NoError(t, err)

	got, err := field.Func(context.Background(), greeter{}, nil, map[string]any{
		"filter": map[string]any{"min": float64(2)},
		"tint":   "BLUE",
		"at":     "@3",
	})
	require.NoError(t, err)
	assert.Len(t, got, 6)

	// Unknown enum names are runtime coercion failures.
	_, err = field.Func(context.Background(), greeter{}, nil, map[string]any{
		"filter": map[string]any{}, "tint": "GREEN",
	})
	require.Error(t, err)
}

func TestCompileResolverStreams(t *testing.T) {
	reg := newTestRegistry(t)
	parent := reflect.TypeOf(greeter{})

	// A channel return is intrinsically asynchronous.
	field, err := compileResolver(reg, parent, "Greeter", ResolverConfig{
		Name: "ticks", Kind: ir.ResolverKindSubscription,
		Func: func(g greeter) <-chan int { return nil },
	})
	require.NoError(t, err)
	assert.True(t, field.IsAsync)
	assert.True(t, field.Offload)
	assert.Equal(t, "Int!", field.Type.String())

	// A subscription resolver with a plain return cannot suspend.
	_, err = compileResolver(reg, parent, "Greeter", ResolverConfig{
		Name: "ticks", Kind: ir.ResolverKindSubscription,
		Func: func(g greeter) int { return 0 },
	})
	require.EqualError(t, err, "Greeter.ticks: subscription resolver must return a stream channel")

	// An async request on a plain signature is demoted to the synchronous
	// convention; the scheduling request survives as the offload hint.
	field, err = compileResolver(reg, parent, "Greeter", ResolverConfig{
		Name: "n", Kind: ir.ResolverKindField, Async: true,
		Func: func(g greeter) int { return 0 },
	})
	require.NoError(t, err)
	assert.False(t, field.IsAsync)
	assert.True(t, field.Offload)

	// Without the request a plain resolver carries no hint at all.
	field, err = compileResolver(reg, parent, "Greeter", ResolverConfig{
		Name: "n", Kind: ir.ResolverKindField,
		Func: func(g greeter) int { return 0 },
	})
	require.NoError(t, err)
	assert.False(t, field.IsAsync)
	assert.False(t, field.Offload)

	// A field resolver returning a stream stays asynchronous.
	field, err = compileResolver(reg, parent, "Greeter", ResolverConfig{
		Name: "feed", Kind: ir.ResolverKindField,
		Func: func(g greeter) <-chan cell { return nil },
	})
	require.NoError(t, err)
	assert.True(t, field.IsAsync)
	assert.True(t, field.Offload)
	assert.Equal(t, "Cell!", field.Type.String())
}

func TestCompileResolverErrors(t *testing.T) {
	reg := newTestRegistry(t)
	parent := reflect.TypeOf(greeter{})

	cases := []struct {
		name    string
		fn      any
		wantMsg string
	}{
		{
			name:    "not a func",
			fn:      42,
			wantMsg: "Greeter.bad: resolver must be a method expression or func",
		},
		{
			name:    "variadic",
			fn:      func(g greeter, extra ...string) string { return "" },
			wantMsg: "Greeter.bad: resolver must be a method expression or func",
		},
		{
			name:    "wrong receiver",
			fn:      func(c cell) string { return "" },
			wantMsg: "Greeter.bad: resolver receiver must be Greeter, got compiler.cell",
		},
		{
			name:    "bare context.Context",
			fn:      func(g greeter, ctx context.Context) string { return "" },
			wantMsg: "Greeter.bad: context parameter must use the typed Ctx[S] form",
		},
		{
			name:    "bare CtxTag",
			fn:      func(g greeter, ctx marker.CtxTag) string { return "" },
			wantMsg: "Greeter.bad: context parameter must use the typed Ctx[S] form",
		},
		{
			name: "duplicate context",
			fn: func(g greeter, a marker.Ctx[appState], b marker.Ctx[appState]) string {
				return ""
			},
			wantMsg: "Greeter.bad: duplicate context parameter",
		},
		{
			name:    "non-struct args",
			fn:      func(g greeter, n int) string { return "" },
			wantMsg: "Greeter.bad: resolver arguments must be declared as a struct, got int",
		},
		{
			name:    "no return value",
			fn:      func(g greeter) {},
			wantMsg: "Greeter.bad: resolver must return a value or (value, error)",
		},
		{
			name:    "second return not error",
			fn:      func(g greeter) (string, string) { return "", "" },
			wantMsg: "Greeter.bad: resolver must return a value or (value, error)",
		},
		{
			name:    "unparameterized stream",
			fn:      func(g greeter) <-chan any { return nil },
			wantMsg: "Greeter.bad: stream channels must be parameterized",
		},
		{
			name:    "unparameterized list argument",
			fn:      func(g greeter, args struct{ Vals []any }) string { return "" },
			wantMsg: "Greeter.bad: list types must be parameterized",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := compileResolver(reg, parent, "Greeter", ResolverConfig{
				Name: "bad", Kind: ir.ResolverKindField, Func: tc.fn,
			})
			require.EqualError(t, err, tc.wantMsg)
		})
	}
}

func TestCompileResolverBadDefault(t *testing.T) {
	reg := newTestRegistry(t)
	fn := func(g greeter, args struct {
		N int `default:"not-json"`
	}) int {
		return args.N
	}
	_, err := compileResolver(reg, reflect.TypeOf(greeter{}), "Greeter", ResolverConfig{
		Name: "bad", Kind: ir.ResolverKindField, Func: fn,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid default literal")
}

func TestCompileResolverRefs(t *testing.T) {
	reg := newTestRegistry(t)
	fn := func(g greeter, args struct{ Filter filterInput }) []row { return nil }
	field, err := compileResolver(reg, reflect.TypeOf(greeter{}), "Greeter", ResolverConfig{
		Name: "rows", Kind: ir.ResolverKindField, Func: fn,
	})
	require.NoError(t, err)
	assert.Equal(t, []reflect.Type{reflect.TypeOf(filterInput{}), rowType()}, field.Refs)
}
