package compiler

import (
	"context"
	"errors"
	"reflect"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/hanpama/typegraph/internal/annotation"
	"github.com/hanpama/typegraph/internal/registry"
	"github.com/hanpama/typegraph/ir"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ResolverConfig is one marked resolver member of a type declaration.
type ResolverConfig struct {
	Name        string
	Kind        ir.ResolverKind
	Func        any
	Description string
	Deprecated  string

	// Async asks the engine to schedule the resolver off the synchronous
	// path. A channel return is asynchronous with or without the request; a
	// plain return keeps the synchronous convention and the request is
	// recorded as a scheduling hint only.
	Async bool
}

// compileResolver turns one typed method into a calling-convention
// descriptor: parameter classification, synchronicity, argument coercion
// plan, and the adapter closure the engine invokes.
func compileResolver(reg *registry.Registry, parent reflect.Type, declName string, cfg ResolverConfig) (*ir.CompiledResolverField, error) {
	fnT := reflect.TypeOf(cfg.Func)
	if fnT == nil || fnT.Kind() != reflect.Func || fnT.IsVariadic() {
		return nil, errResolverNotFunc(declName, cfg.Name)
	}
	if fnT.NumIn() < 1 {
		return nil, errReceiverMismatch(declName, cfg.Name, fnT)
	}
	recvT := fnT.In(0)
	if recvT != parent && recvT != reflect.PointerTo(parent) {
		return nil, errReceiverMismatch(declName, cfg.Name, recvT)
	}

	sig, err := classifyParams(fnT, 1, declName, cfg.Name)
	if err != nil {
		return nil, err
	}
	args, argFields, err := buildArgs(reg, sig.argsType, declName, cfg.Name)
	if err != nil {
		return nil, err
	}
	ret, err := classifyReturn(reg, fnT, cfg.Kind, declName, cfg.Name)
	if err != nil {
		return nil, err
	}

	refs, err := collectRefs(reg, declName, cfg.Name, refSources(fnT, sig))
	if err != nil {
		return nil, err
	}

	field := &ir.CompiledResolverField{
		Kind:         cfg.Kind,
		Name:         cfg.Name,
		Description:  cfg.Description,
		Shape:        callShape(sig.ctxIndex >= 0, len(args) > 0),
		NeedsContext: sig.ctxIndex >= 0,
		IsAsync:      ret.isAsync,
		Offload:      ret.isAsync || cfg.Async,
		Type:         ret.spec,
		Args:         args,
		Refs:         refs,
	}
	if cfg.Deprecated != "" {
		field.Deprecation = &ir.Deprecation{Reason: cfg.Deprecated}
	}
	field.Func = makeAdapter(reg, reflect.ValueOf(cfg.Func), fnT, recvT, sig, argFields, ret.hasErr)
	return field, nil
}

// compileAbstractResolver compiles an interface method into a resolver field
// descriptor with no callable: parameters start at the method's first input,
// there being no receiver value to bind.
func compileAbstractResolver(reg *registry.Registry, declName string, m reflect.Method) (*ir.CompiledResolverField, error) {
	fnT := m.Type
	name := lowerCamel(m.Name)
	if fnT.IsVariadic() {
		return nil, errResolverNotFunc(declName, name)
	}
	sig, err := classifyParams(fnT, 0, declName, name)
	if err != nil {
		return nil, err
	}
	args, _, err := buildArgs(reg, sig.argsType, declName, name)
	if err != nil {
		return nil, err
	}
	ret, err := classifyReturn(reg, fnT, ir.ResolverKindField, declName, name)
	if err != nil {
		return nil, err
	}
	refs, err := collectRefs(reg, declName, name, refSources(fnT, sig))
	if err != nil {
		return nil, err
	}
	return &ir.CompiledResolverField{
		Kind:         ir.ResolverKindField,
		Name:         name,
		Shape:        callShape(sig.ctxIndex >= 0, len(args) > 0),
		NeedsContext: sig.ctxIndex >= 0,
		IsAsync:      ret.isAsync,
		Offload:      ret.isAsync,
		Type:         ret.spec,
		Args:         args,
		Refs:         refs,
	}, nil
}

type paramSig struct {
	ctxIndex  int
	ctxType   reflect.Type
	argsIndex int
	argsType  reflect.Type
}

// classifyParams partitions the parameters after the receiver into the
// injected context slot and the declared-arguments struct. Classification is
// by annotation, not position: the context slot may appear on either side of
// the args struct.
func classifyParams(fnT reflect.Type, start int, decl, member string) (paramSig, error) {
	sig := paramSig{ctxIndex: -1, argsIndex: -1}
	for i := start; i < fnT.NumIn(); i++ {
		p := fnT.In(i)
		if annotation.IsBareContext(p) {
			return sig, errBareContext(decl, member)
		}
		info := annotation.AnalyzeType(p)
		if info.IsContext {
			if sig.ctxIndex >= 0 {
				return sig, errDecl(decl, member, "duplicate context parameter")
			}
			sig.ctxIndex, sig.ctxType = i, p
			continue
		}
		if sig.argsIndex >= 0 || p.Kind() != reflect.Struct {
			return sig, errArgsNotStruct(decl, member, p)
		}
		sig.argsIndex, sig.argsType = i, p
	}
	return sig, nil
}

type argField struct {
	field        reflect.StructField
	name         string
	hasDefault   bool
	typedDefault reflect.Value
}

// buildArgs compiles the exported fields of the args struct into declared
// arguments. A default literal forces the argument nullable and is stored
// both in plain-value shape (for the IR) and coerced into the declared type
// (for the adapter).
func buildArgs(reg *registry.Registry, argsT reflect.Type, decl, member string) ([]*ir.CompiledArg, []argField, error) {
	if argsT == nil {
		return nil, nil, nil
	}
	var args []*ir.CompiledArg
	var fields []argField
	for _, f := range reflect.VisibleFields(argsT) {
		if f.PkgPath != "" || f.Anonymous {
			continue
		}
		tag := annotation.ParseTag(f.Tag)
		if tag.Hidden {
			continue
		}
		name := fieldName(tag.Name, f.Name)
		spec, err := buildTypeSpec(reg, f.Type, f.Tag, true, tag.HasDefault, decl, member)
		if err != nil {
			return nil, nil, err
		}
		arg := &ir.CompiledArg{Name: name, Type: spec, Description: tag.Description}
		af := argField{field: f, name: name}
		if tag.HasDefault {
			plain, err := parseDefaultLiteral(tag.Default)
			if err != nil {
				return nil, nil, errBadDefault(decl, member, tag.Default, err)
			}
			typed, err := coerceValue(reg, f.Type, plain)
			if err != nil {
				return nil, nil, errBadDefault(decl, member, tag.Default, err)
			}
			arg.HasDefault, arg.Default = true, plain
			af.hasDefault, af.typedDefault = true, typed
		}
		args = append(args, arg)
		fields = append(fields, af)
	}
	return args, fields, nil
}

type returnSig struct {
	spec    *ir.TypeSpec
	isAsync bool
	hasErr  bool
}

func classifyReturn(reg *registry.Registry, fnT reflect.Type, kind ir.ResolverKind, decl, member string) (returnSig, error) {
	var ret returnSig
	var outT reflect.Type
	switch fnT.NumOut() {
	case 1:
		outT = fnT.Out(0)
	case 2:
		if fnT.Out(1) != errorType {
			return ret, errBadReturn(decl, member)
		}
		outT = fnT.Out(0)
		ret.hasErr = true
	default:
		return ret, errBadReturn(decl, member)
	}

	info := annotation.AnalyzeType(outT)
	if kind == ir.ResolverKindSubscription && !info.IsStream {
		return ret, errResolverMustBeAsync(decl, member)
	}
	if info.IsStream {
		if info.StreamItem == nil {
			return ret, errStreamRequiresParameter(decl, member)
		}
		spec, err := buildTypeSpec(reg, info.StreamItem, "", false, false, decl, member)
		if err != nil {
			return ret, err
		}
		ret.spec, ret.isAsync = spec, true
		return ret, nil
	}

	spec, err := buildTypeSpec(reg, outT, "", false, false, decl, member)
	if err != nil {
		return ret, err
	}
	// A plain return has no suspension point; even a resolver requested as
	// async runs on the synchronous convention.
	ret.spec, ret.isAsync = spec, false
	return ret, nil
}

func callShape(hasCtx, hasArgs bool) ir.CallShape {
	switch {
	case hasCtx && hasArgs:
		return ir.ShapeReceiverContextAndArgs
	case hasCtx:
		return ir.ShapeReceiverAndContext
	case hasArgs:
		return ir.ShapeReceiverAndArgs
	default:
		return ir.ShapeReceiverOnly
	}
}

func refSources(fnT reflect.Type, sig paramSig) []reflect.Type {
	sources := []reflect.Type{fnT.Out(0)}
	if sig.argsType != nil {
		for _, f := range reflect.VisibleFields(sig.argsType) {
			if f.PkgPath == "" && !f.Anonymous {
				sources = append(sources, f.Type)
			}
		}
	}
	return sources
}

// collectRefs gathers the registered declared types referenced by the given
// type expressions, deduplicated and in stable order.
func collectRefs(reg *registry.Registry, decl, member string, sources []reflect.Type) ([]reflect.Type, error) {
	seen := map[reflect.Type]bool{}
	var refs []reflect.Type
	for _, src := range sources {
		candidates, err := annotation.WalkRefs(src)
		if err != nil {
			return nil, mapWalkErr(err, decl, member)
		}
		for _, c := range candidates {
			if seen[c] {
				continue
			}
			if _, ok := reg.Lookup(c); !ok {
				continue
			}
			seen[c] = true
			refs = append(refs, c)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return registry.SortKey(refs[i]) < registry.SortKey(refs[j]) })
	return refs, nil
}

func mapWalkErr(err error, decl, member string) error {
	switch {
	case errors.Is(err, annotation.ErrListRequiresParameter):
		return errListRequiresParameter(decl, member)
	case errors.Is(err, annotation.ErrStreamRequiresParameter):
		return errStreamRequiresParameter(decl, member)
	default:
		return err
	}
}

func parseDefaultLiteral(literal string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(literal), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// makeAdapter bakes the calling convention into a single closure the engine
// invokes: receiver adaptation, context construction, default application and
// argument coercion all happen here so the engine only ever supplies
// primitive and mapping values.
func makeAdapter(reg *registry.Registry, fnV reflect.Value, fnT, recvT reflect.Type, sig paramSig, argFields []argField, hasErr bool) ir.ResolverFunc {
	return func(ctx context.Context, source any, state any, argVals map[string]any) (any, error) {
		in := make([]reflect.Value, fnT.NumIn())

		recv, err := adaptReceiver(recvT, source)
		if err != nil {
			return nil, err
		}
		in[0] = recv

		if sig.ctxIndex >= 0 {
			in[sig.ctxIndex] = buildContextValue(sig.ctxType, ctx, state)
		}
		if sig.argsIndex >= 0 {
			argsV := reflect.New(sig.argsType).Elem()
			for _, af := range argFields {
				raw, present := argVals[af.name]
				if !present {
					if af.hasDefault {
						argsV.FieldByIndex(af.field.Index).Set(af.typedDefault)
					}
					continue
				}
				fv, err := coerceValue(reg, af.field.Type, raw)
				if err != nil {
					return nil, err
				}
				argsV.FieldByIndex(af.field.Index).Set(fv)
			}
			in[sig.argsIndex] = argsV
		}

		outs := fnV.Call(in)
		if hasErr && !outs[1].IsNil() {
			return nil, outs[1].Interface().(error)
		}
		return outs[0].Interface(), nil
	}
}

func adaptReceiver(recvT reflect.Type, source any) (reflect.Value, error) {
	if source == nil {
		return reflect.Zero(recvT), nil
	}
	rv := reflect.ValueOf(source)
	switch {
	case rv.Type() == recvT:
		return rv, nil
	case recvT.Kind() == reflect.Pointer && rv.Type() == recvT.Elem():
		ptr := reflect.New(recvT.Elem())
		ptr.Elem().Set(rv)
		return ptr, nil
	case rv.Kind() == reflect.Pointer && rv.Type().Elem() == recvT:
		return rv.Elem(), nil
	default:
		return reflect.Value{}, errCoerce(recvT, source)
	}
}

func buildContextValue(ctxT reflect.Type, ctx context.Context, state any) reflect.Value {
	v := reflect.New(ctxT).Elem()
	if ctx != nil {
		if f := v.FieldByName("Context"); f.IsValid() {
			f.Set(reflect.ValueOf(ctx))
		}
	}
	if state != nil {
		if f := v.FieldByName("State"); f.IsValid() {
			sv := reflect.ValueOf(state)
			if sv.Type().AssignableTo(f.Type()) {
				f.Set(sv)
			}
		}
	}
	return v
}
