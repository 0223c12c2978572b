package compiler

import (
	"fmt"
	"reflect"
)

// DeclarationError is raised while compiling a single declared type or
// resolver. It always names the offending declaration and, when applicable,
// the field or parameter.
type DeclarationError struct {
	Decl   string
	Member string
	Msg    string
}

func (e *DeclarationError) Error() string {
	if e.Member != "" {
		return e.Decl + "." + e.Member + ": " + e.Msg
	}
	return e.Decl + ": " + e.Msg
}

func errDecl(decl, member, format string, args ...any) *DeclarationError {
	return &DeclarationError{Decl: decl, Member: member, Msg: fmt.Sprintf(format, args...)}
}

// Declaration-time error templates. Messages are kept stable; tests match on
// them.

func errListRequiresParameter(decl, member string) error {
	return errDecl(decl, member, "list types must be parameterized")
}

func errStreamRequiresParameter(decl, member string) error {
	return errDecl(decl, member, "stream channels must be parameterized")
}

func errUnsupportedAnnotation(decl, member string, t reflect.Type) error {
	return errDecl(decl, member, "unsupported annotation: %s", t)
}

func errUnionInputNotSupported(decl, member string) error {
	return errDecl(decl, member, "union types cannot be used as input")
}

func errUnionMemberMustBeObject(decl, member, name string) error {
	return errDecl(decl, member, "union member %q must be an object type", name)
}

func errInputTypeExpected(decl, member, typeName string) error {
	return errDecl(decl, member, "%s is not an input type", typeName)
}

func errOutputTypeExpected(decl, member, typeName string) error {
	return errDecl(decl, member, "%s cannot be used as output", typeName)
}

func errBareContext(decl, member string) error {
	return errDecl(decl, member, "context parameter must use the typed Ctx[S] form")
}

func errResolverMustBeAsync(decl, member string) error {
	return errDecl(decl, member, "subscription resolver must return a stream channel")
}

func errResolverNotFunc(decl, member string) error {
	return errDecl(decl, member, "resolver must be a method expression or func")
}

func errReceiverMismatch(decl, member string, got reflect.Type) error {
	return errDecl(decl, member, "resolver receiver must be %s, got %s", decl, got)
}

func errArgsNotStruct(decl, member string, got reflect.Type) error {
	return errDecl(decl, member, "resolver arguments must be declared as a struct, got %s", got)
}

func errBadReturn(decl, member string) error {
	return errDecl(decl, member, "resolver must return a value or (value, error)")
}

func errBadDefault(decl, member, literal string, cause error) error {
	return errDecl(decl, member, "invalid default literal %q: %v", literal, cause)
}

func errInputResolverNotAllowed(decl string) error {
	return errDecl(decl, "", "input types cannot declare field resolvers")
}

func errMixedResolverKinds(decl string) error {
	return errDecl(decl, "", "a type cannot mix field and subscription resolvers")
}

func errInterfaceSubscription(decl string) error {
	return errDecl(decl, "", "interface types cannot declare subscription resolvers")
}

func errSubscriptionDataFields(decl string) error {
	return errDecl(decl, "", "subscription types cannot declare data fields")
}

func errScalarRequiresFuncs(decl string) error {
	return errDecl(decl, "", "scalar registration requires Serialize and Parse funcs")
}

func errEnumRequiresValues(decl string) error {
	return errDecl(decl, "", "enum registration requires at least one value")
}

func errInvalidEnumValue(enumName string, value any) error {
	return errDecl(enumName, "", "invalid enum value %v", value)
}

func errInputMappingExpected(typeName string) error {
	return errDecl(typeName, "", "expected a mapping for input type %s", typeName)
}
