package introspection

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/goliatone/go-frontier/pkg/schema"
)

// FromSDL loads a GraphQL SDL document and converts it to the schema IR. The
// SDL is validated by gqlparser, so unknown types surface here rather than at
// submit time.
func FromSDL(name, sdl string) (schema.SchemaIR, error) {
	parsed, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: sdl})
	if err != nil {
		return schema.SchemaIR{}, fmt.Errorf("introspection: load sdl %s: %w", name, err)
	}

	ir := schema.NewSchemaIR()
	for typeName, def := range parsed.Types {
		if def.BuiltIn {
			continue
		}
		switch def.Kind {
		case ast.InputObject:
			ir.Definitions[typeName] = sdlObject(def, true)
		case ast.Object:
			ir.Definitions[typeName] = sdlObject(def, false)
		case ast.Scalar:
			ir.Definitions[typeName] = schema.ScalarSchema(typeName)
		case ast.Enum:
			values := make([]string, 0, len(def.EnumValues))
			for _, value := range def.EnumValues {
				values = append(values, value.Name)
			}
			ir.Definitions[typeName] = enumSchema(typeName, def.Description, values)
		}
	}

	if parsed.Mutation != nil {
		for _, field := range parsed.Mutation.Fields {
			ir.Mutations[field.Name] = sdlOperation(field)
		}
	}
	if parsed.Query != nil {
		for _, field := range parsed.Query.Fields {
			if strings.HasPrefix(field.Name, "__") {
				continue
			}
			ir.Queries[field.Name] = sdlOperation(field)
		}
	}
	return ir, nil
}

func sdlOperation(field *ast.FieldDefinition) schema.Operation {
	args := schema.Schema{
		Type:       "object",
		Properties: make(map[string]schema.Schema, len(field.Arguments)),
	}
	for _, arg := range field.Arguments {
		prop := sdlType(arg.Type)
		prop.Description = arg.Description
		if arg.DefaultValue != nil {
			if value, err := arg.DefaultValue.Value(nil); err == nil {
				prop.Default = value
			}
		}
		args.Properties[arg.Name] = prop
		if arg.Type.NonNull && arg.DefaultValue == nil {
			args.Required = append(args.Required, arg.Name)
		}
	}
	return schema.Operation{
		Name:        field.Name,
		Description: field.Description,
		Arguments:   args,
		Return:      sdlType(field.Type),
	}
}

func sdlObject(def *ast.Definition, input bool) schema.Schema {
	out := schema.Schema{
		Type:        "object",
		Description: def.Description,
		GraphQLType: def.Name,
		Properties:  make(map[string]schema.Schema, len(def.Fields)),
	}
	for _, field := range def.Fields {
		if strings.HasPrefix(field.Name, "__") {
			continue
		}
		prop := sdlType(field.Type)
		prop.Description = field.Description
		if field.DefaultValue != nil {
			if value, err := field.DefaultValue.Value(nil); err == nil {
				prop.Default = value
			}
		}
		out.Properties[field.Name] = prop
		if field.Type.NonNull && (!input || field.DefaultValue == nil) {
			out.Required = append(out.Required, field.Name)
		}
	}
	return out
}

func sdlType(t *ast.Type) schema.Schema {
	if t == nil {
		return schema.Schema{}
	}
	if t.Elem != nil {
		items := sdlType(t.Elem)
		return schema.Schema{Type: "array", Items: &items}
	}
	if schema.IsScalarName(t.NamedType) {
		return schema.ScalarSchema(t.NamedType)
	}
	return schema.Schema{Ref: "#/definitions/" + t.NamedType, GraphQLType: t.NamedType}
}
