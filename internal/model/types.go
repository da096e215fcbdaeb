package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"]
// while pattern rules preserve the original expression in Params["pattern"].
// Boolean flags such as exclusivity are encoded as strings to keep JSON
// snapshots stable.
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models an individual input inside a generated form. Path is the dotted
// location of the value inside the form values (todo.name); Name is the last
// segment.
type Field struct {
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Type        FieldType         `json:"type"`
	GraphQLType string            `json:"graphqlType,omitempty"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Nested      []Field           `json:"nested,omitempty"`
	Items       *Field            `json:"items,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// IsLeaf reports whether the field holds a value directly rather than through
// nested fields.
func (f Field) IsLeaf() bool {
	return f.Type != FieldTypeObject || len(f.Nested) == 0
}

// FormModel is the top-level representation hosts and kits consume.
type FormModel struct {
	// Operation is the mutation operation name, Mutation the root field.
	Operation   string            `json:"operation,omitempty"`
	Mutation    string            `json:"mutation"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Lookup finds a field by dotted path, descending into nested fields.
func (m FormModel) Lookup(path string) (Field, bool) {
	var found Field
	var ok bool
	Walk(m.Fields, func(field Field) bool {
		if field.Path == path {
			found, ok = field, true
			return false
		}
		return true
	})
	return found, ok
}

// Paths lists every field path in depth-first model order.
func (m FormModel) Paths() []string {
	var out []string
	Walk(m.Fields, func(field Field) bool {
		out = append(out, field.Path)
		return true
	})
	return out
}

// Walk visits fields depth first. Returning false from visit stops the walk.
func Walk(fields []Field, visit func(Field) bool) bool {
	for _, field := range fields {
		if !visit(field) {
			return false
		}
		if !Walk(field.Nested, visit) {
			return false
		}
	}
	return true
}
