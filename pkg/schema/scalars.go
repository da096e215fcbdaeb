package schema

// Built-in GraphQL scalar names.
const (
	ScalarString  = "String"
	ScalarID      = "ID"
	ScalarInt     = "Int"
	ScalarFloat   = "Float"
	ScalarBoolean = "Boolean"
)

var scalarTypes = map[string]string{
	ScalarString:  "string",
	ScalarID:      "string",
	ScalarInt:     "integer",
	ScalarFloat:   "number",
	ScalarBoolean: "boolean",
}

// IsScalarName reports whether name is one of the built-in GraphQL scalars.
func IsScalarName(name string) bool {
	_, ok := scalarTypes[name]
	return ok
}

// ScalarSchema returns the IR for a built-in scalar. Unknown names (custom
// scalars such as DateTime) map to strings carrying the GraphQL name as the
// format so kits can pick a widget.
func ScalarSchema(name string) Schema {
	if typ, ok := scalarTypes[name]; ok {
		return Schema{Type: typ, GraphQLType: name}
	}
	return Schema{Type: "string", Format: name, GraphQLType: name}
}
