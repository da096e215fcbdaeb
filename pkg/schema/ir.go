package schema

import (
	"sort"
	"strings"
)

// Schema is the canonical type IR shared by every schema adapter. JSON-Schema
// documents, introspection results and SDL documents all normalise into it.
type Schema struct {
	Ref              string
	Type             string
	Format           string
	Title            string
	Description      string
	Default          any
	Enum             []any
	Required         []string
	Properties       map[string]Schema
	Items            *Schema
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MinLength        *int
	MaxLength        *int
	Pattern          string
	// GraphQLType keeps the named GraphQL type (String, Int, TodoInput...) when
	// the adapter knows it.
	GraphQLType string
	Extensions  map[string]any `json:"Extensions,omitempty"`
}

// IsZero reports whether the schema carries no type information at all.
func (s Schema) IsZero() bool {
	return s.Ref == "" && s.Type == "" && s.Items == nil && len(s.Properties) == 0 && len(s.Enum) == 0
}

// IsRequired reports whether name is listed in Required.
func (s Schema) IsRequired(name string) bool {
	for _, item := range s.Required {
		if item == name {
			return true
		}
	}
	return false
}

// Operation describes a single Query or Mutation root field.
type Operation struct {
	Name        string
	Description string
	// Arguments is an object schema: one property per argument, Required
	// listing the non-null ones.
	Arguments Schema
	Return    Schema
}

// SchemaIR is the normalized schema set produced by adapters.
type SchemaIR struct {
	Queries     map[string]Operation
	Mutations   map[string]Operation
	Definitions map[string]Schema
}

// NewSchemaIR constructs an empty schema IR container.
func NewSchemaIR() SchemaIR {
	return SchemaIR{
		Queries:     make(map[string]Operation),
		Mutations:   make(map[string]Operation),
		Definitions: make(map[string]Schema),
	}
}

// Mutation looks up a mutation by root field name.
func (ir SchemaIR) Mutation(name string) (Operation, bool) {
	if ir.Mutations == nil {
		return Operation{}, false
	}
	op, ok := ir.Mutations[name]
	return op, ok
}

// Definition looks up a named type definition.
func (ir SchemaIR) Definition(name string) (Schema, bool) {
	if ir.Definitions == nil {
		return Schema{}, false
	}
	def, ok := ir.Definitions[name]
	return def, ok
}

// MutationNames returns the sorted list of available mutations.
func (ir SchemaIR) MutationNames() []string {
	if len(ir.Mutations) == 0 {
		return nil
	}
	names := make([]string, 0, len(ir.Mutations))
	for name := range ir.Mutations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RefName extracts the definition name from local references such as
// "#/definitions/TodoInput" or "#/$defs/TodoInput".
func RefName(ref string) string {
	trimmed := strings.TrimSpace(ref)
	for _, prefix := range []string{"#/definitions/", "#/$defs/", "#/components/schemas/"} {
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimPrefix(trimmed, prefix)
		}
	}
	return ""
}

// Deref resolves a local reference against the IR definitions. Non-reference
// schemas are returned untouched.
func (ir SchemaIR) Deref(s Schema) (Schema, bool) {
	if s.Ref == "" {
		return s, true
	}
	def, ok := ir.Definition(RefName(s.Ref))
	if !ok {
		return s, false
	}
	if def.Description == "" {
		def.Description = s.Description
	}
	return def, true
}
