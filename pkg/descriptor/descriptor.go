package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var (
	// ErrEmpty is returned when the document has no content.
	ErrEmpty = errors.New("descriptor: document is empty")
	// ErrOperationCount is returned when the document does not hold exactly
	// one operation.
	ErrOperationCount = errors.New("descriptor: document must contain exactly one operation")
	// ErrNotMutation is returned for query or subscription documents.
	ErrNotMutation = errors.New("descriptor: operation is not a mutation")
	// ErrRootField is returned when the mutation selects zero or several
	// root fields.
	ErrRootField = errors.New("descriptor: mutation must select exactly one root field")
)

// TypeRef is a GraphQL type reference such as String!, [Int] or TodoInput!.
type TypeRef struct {
	Named   string   `json:"named,omitempty"`
	NonNull bool     `json:"nonNull,omitempty"`
	Elem    *TypeRef `json:"elem,omitempty"`
}

// IsList reports whether the reference wraps a list.
func (t TypeRef) IsList() bool {
	return t.Elem != nil
}

// Base returns the innermost named type.
func (t TypeRef) Base() string {
	if t.Elem != nil {
		return t.Elem.Base()
	}
	return t.Named
}

func (t TypeRef) String() string {
	var out string
	if t.Elem != nil {
		out = "[" + t.Elem.String() + "]"
	} else {
		out = t.Named
	}
	if t.NonNull {
		out += "!"
	}
	return out
}

// Variable is a declared operation variable.
type Variable struct {
	Name       string  `json:"name"`
	Type       TypeRef `json:"type"`
	Default    any     `json:"default,omitempty"`
	HasDefault bool    `json:"hasDefault,omitempty"`
}

// Required reports whether the variable must be supplied. A non-null
// variable with a default value is optional for the caller.
func (v Variable) Required() bool {
	return v.Type.NonNull && !v.HasDefault
}

// Descriptor is a parsed single-field mutation.
type Descriptor struct {
	// Name is the operation name, empty for anonymous mutations.
	Name string `json:"name,omitempty"`
	// Field is the selected root mutation field, e.g. createUser.
	Field string `json:"field"`
	// Alias is the response key when the root field is aliased.
	Alias string `json:"alias,omitempty"`
	// Variables are kept in declaration order.
	Variables []Variable `json:"variables,omitempty"`
	// Bindings maps a variable name to the dotted argument path it feeds.
	Bindings map[string]string `json:"bindings,omitempty"`
	// Constants holds literal argument values keyed by argument name.
	Constants map[string]any `json:"constants,omitempty"`

	source string
}

// Parse parses a GraphQL mutation document.
func Parse(src string) (*Descriptor, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmpty
	}

	doc, err := parser.ParseQuery(&ast.Source{Name: "mutation", Input: src})
	if err != nil {
		return nil, fmt.Errorf("descriptor: parse: %w", err)
	}
	if len(doc.Operations) != 1 {
		return nil, ErrOperationCount
	}
	op := doc.Operations[0]
	if op.Operation != ast.Mutation {
		return nil, fmt.Errorf("%w: got %s", ErrNotMutation, op.Operation)
	}

	var root *ast.Field
	for _, selection := range op.SelectionSet {
		field, ok := selection.(*ast.Field)
		if !ok {
			return nil, fmt.Errorf("%w: fragments are not supported at the root", ErrRootField)
		}
		if root != nil {
			return nil, ErrRootField
		}
		root = field
	}
	if root == nil {
		return nil, ErrRootField
	}

	d := &Descriptor{
		Name:   op.Name,
		Field:  root.Name,
		source: src,
	}
	if root.Alias != "" && root.Alias != root.Name {
		d.Alias = root.Alias
	}

	for _, def := range op.VariableDefinitions {
		v := Variable{
			Name: def.Variable,
			Type: convertType(def.Type),
		}
		if def.DefaultValue != nil {
			value, err := def.DefaultValue.Value(nil)
			if err != nil {
				return nil, fmt.Errorf("descriptor: default for $%s: %w", def.Variable, err)
			}
			v.Default = value
			v.HasDefault = true
		}
		d.Variables = append(d.Variables, v)
	}

	for _, arg := range root.Arguments {
		if err := d.bindArgument(arg.Name, arg.Value); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// MustParse panics when the document cannot be parsed. Meant for package
// level declarations and tests.
func MustParse(src string) *Descriptor {
	d, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return d
}

// Document returns the source text sent to the transport.
func (d *Descriptor) Document() string {
	if d == nil {
		return ""
	}
	return d.source
}

// ResponseKey returns the key holding the field result in the response data.
func (d *Descriptor) ResponseKey() string {
	if d == nil {
		return ""
	}
	if d.Alias != "" {
		return d.Alias
	}
	return d.Field
}

// Variable looks up a declared variable.
func (d *Descriptor) Variable(name string) (Variable, bool) {
	if d == nil {
		return Variable{}, false
	}
	for _, v := range d.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// ArgumentFor returns the argument path fed by the variable. Variables that
// are declared but never used fall back to their own name.
func (d *Descriptor) ArgumentFor(variable string) string {
	if d != nil {
		if path, ok := d.Bindings[variable]; ok {
			return path
		}
	}
	return variable
}

// VariableNames returns the declared variable names in order.
func (d *Descriptor) VariableNames() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Variables))
	for _, v := range d.Variables {
		names = append(names, v.Name)
	}
	return names
}

func (d *Descriptor) bindArgument(path string, value *ast.Value) error {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case ast.Variable:
		if _, ok := d.Variable(value.Raw); !ok {
			return fmt.Errorf("descriptor: argument %s uses undeclared variable $%s", path, value.Raw)
		}
		if d.Bindings == nil {
			d.Bindings = make(map[string]string)
		}
		d.Bindings[value.Raw] = path
	case ast.ObjectValue:
		if !containsVariable(value) {
			return d.bindConstant(path, value)
		}
		for _, child := range value.Children {
			if err := d.bindArgument(path+"."+child.Name, child.Value); err != nil {
				return err
			}
		}
	default:
		if containsVariable(value) {
			return fmt.Errorf("descriptor: argument %s mixes variables inside a list", path)
		}
		return d.bindConstant(path, value)
	}
	return nil
}

func (d *Descriptor) bindConstant(path string, value *ast.Value) error {
	literal, err := value.Value(nil)
	if err != nil {
		return fmt.Errorf("descriptor: argument %s: %w", path, err)
	}
	if d.Constants == nil {
		d.Constants = make(map[string]any)
	}
	d.Constants[path] = literal
	return nil
}

func containsVariable(value *ast.Value) bool {
	if value == nil {
		return false
	}
	if value.Kind == ast.Variable {
		return true
	}
	for _, child := range value.Children {
		if containsVariable(child.Value) {
			return true
		}
	}
	return false
}

func convertType(t *ast.Type) TypeRef {
	if t == nil {
		return TypeRef{}
	}
	ref := TypeRef{Named: t.NamedType, NonNull: t.NonNull}
	if t.Elem != nil {
		elem := convertType(t.Elem)
		ref.Elem = &elem
	}
	return ref
}
