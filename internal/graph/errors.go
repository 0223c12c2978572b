package graph

// GraphError is raised only while assembling a full schema from roots. It is
// static and terminal: the caller must fix the declarations and rebuild.
type GraphError struct {
	Type   string
	Member string
	Msg    string
}

func (e *GraphError) Error() string {
	if e.Member != "" {
		return e.Type + "." + e.Member + ": " + e.Msg
	}
	if e.Type != "" {
		return e.Type + ": " + e.Msg
	}
	return e.Msg
}

func errSchemaRequiresQuery() error {
	return &GraphError{Msg: "schema requires a query type"}
}

func errTypeNotRegistered(name string) error {
	return &GraphError{Type: name, Msg: "type was never registered"}
}

func errRootFieldMissingDefault(typeName, field string) error {
	return &GraphError{Type: typeName, Member: field,
		Msg: "root field must declare a default value or a resolver"}
}

func errUnionConflict(name string) error {
	return &GraphError{Type: name, Msg: "conflicting union definitions share this name"}
}

func errUnionRequiresName() error {
	return &GraphError{Msg: "union definitions require a non-empty name"}
}

func errUnionRequiresMembers(name string) error {
	return &GraphError{Type: name, Msg: "union must contain at least one object type"}
}
