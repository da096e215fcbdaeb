package introspection

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-frontier/pkg/schema"
)

const (
	kindScalar      = "SCALAR"
	kindObject      = "OBJECT"
	kindInputObject = "INPUT_OBJECT"
	kindEnum        = "ENUM"
	kindList        = "LIST"
	kindNonNull     = "NON_NULL"
)

var errNoSchema = errors.New("introspection: payload has no __schema")

type envelope struct {
	Data *struct {
		Schema *schemaPayload `json:"__schema"`
	} `json:"data"`
	Schema *schemaPayload `json:"__schema"`
}

type schemaPayload struct {
	QueryType    *namedRef  `json:"queryType"`
	MutationType *namedRef  `json:"mutationType"`
	Types        []fullType `json:"types"`
}

type namedRef struct {
	Name string `json:"name"`
}

type fullType struct {
	Kind        string       `json:"kind"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Fields      []fieldDef   `json:"fields"`
	InputFields []inputValue `json:"inputFields"`
	EnumValues  []enumValue  `json:"enumValues"`
}

type fieldDef struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Args        []inputValue `json:"args"`
	Type        typeRef      `json:"type"`
}

type inputValue struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Type         typeRef `json:"type"`
	DefaultValue *string `json:"defaultValue"`
}

type enumValue struct {
	Name string `json:"name"`
}

type typeRef struct {
	Kind   string   `json:"kind"`
	Name   *string  `json:"name"`
	OfType *typeRef `json:"ofType"`
}

// Parse converts an introspection response into the schema IR. Both the full
// response ({"data": {"__schema": ...}}) and the bare data object are
// accepted.
func Parse(raw []byte) (schema.SchemaIR, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return schema.SchemaIR{}, fmt.Errorf("introspection: decode: %w", err)
	}
	payload := env.Schema
	if env.Data != nil && env.Data.Schema != nil {
		payload = env.Data.Schema
	}
	if payload == nil {
		return schema.SchemaIR{}, errNoSchema
	}
	return convert(payload), nil
}

func convert(payload *schemaPayload) schema.SchemaIR {
	ir := schema.NewSchemaIR()
	byName := make(map[string]fullType, len(payload.Types))
	for _, typ := range payload.Types {
		if strings.HasPrefix(typ.Name, "__") {
			continue
		}
		byName[typ.Name] = typ
		switch typ.Kind {
		case kindInputObject:
			ir.Definitions[typ.Name] = inputObjectSchema(typ)
		case kindEnum:
			ir.Definitions[typ.Name] = enumSchema(typ.Name, typ.Description, enumNames(typ.EnumValues))
		case kindObject:
			ir.Definitions[typ.Name] = objectSchema(typ)
		}
	}

	if payload.MutationType != nil {
		if root, ok := byName[payload.MutationType.Name]; ok {
			for _, field := range root.Fields {
				ir.Mutations[field.Name] = operationFromField(field)
			}
		}
	}
	if payload.QueryType != nil {
		if root, ok := byName[payload.QueryType.Name]; ok {
			for _, field := range root.Fields {
				ir.Queries[field.Name] = operationFromField(field)
			}
		}
	}
	return ir
}

func operationFromField(field fieldDef) schema.Operation {
	return schema.Operation{
		Name:        field.Name,
		Description: field.Description,
		Arguments:   objectFromInputs(field.Args, ""),
		Return:      schemaFromRef(field.Type),
	}
}

func inputObjectSchema(typ fullType) schema.Schema {
	out := objectFromInputs(typ.InputFields, typ.Description)
	out.GraphQLType = typ.Name
	return out
}

func objectSchema(typ fullType) schema.Schema {
	out := schema.Schema{
		Type:        "object",
		Description: typ.Description,
		GraphQLType: typ.Name,
		Properties:  make(map[string]schema.Schema, len(typ.Fields)),
	}
	for _, field := range typ.Fields {
		prop := schemaFromRef(field.Type)
		prop.Description = field.Description
		out.Properties[field.Name] = prop
		if field.Type.Kind == kindNonNull {
			out.Required = append(out.Required, field.Name)
		}
	}
	return out
}

func objectFromInputs(inputs []inputValue, description string) schema.Schema {
	out := schema.Schema{
		Type:        "object",
		Description: description,
		Properties:  make(map[string]schema.Schema, len(inputs)),
	}
	for _, input := range inputs {
		prop := schemaFromRef(input.Type)
		prop.Description = input.Description
		if input.DefaultValue != nil {
			prop.Default = decodeDefault(*input.DefaultValue)
		}
		out.Properties[input.Name] = prop
		if input.Type.Kind == kindNonNull && input.DefaultValue == nil {
			out.Required = append(out.Required, input.Name)
		}
	}
	return out
}

func schemaFromRef(ref typeRef) schema.Schema {
	switch ref.Kind {
	case kindNonNull:
		if ref.OfType == nil {
			return schema.Schema{}
		}
		return schemaFromRef(*ref.OfType)
	case kindList:
		out := schema.Schema{Type: "array"}
		if ref.OfType != nil {
			items := schemaFromRef(*ref.OfType)
			out.Items = &items
		}
		return out
	case kindScalar:
		return schema.ScalarSchema(refName(ref))
	default:
		return schema.Schema{Ref: "#/definitions/" + refName(ref), GraphQLType: refName(ref)}
	}
}

func enumSchema(name, description string, values []string) schema.Schema {
	out := schema.Schema{
		Type:        "string",
		Description: description,
		GraphQLType: name,
	}
	for _, value := range values {
		out.Enum = append(out.Enum, value)
	}
	return out
}

func enumNames(values []enumValue) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, value.Name)
	}
	return out
}

func refName(ref typeRef) string {
	if ref.Name == nil {
		return ""
	}
	return *ref.Name
}

// decodeDefault interprets GraphQL literal defaults that are also valid JSON
// (numbers, booleans, quoted strings). Enum literals stay as raw strings.
func decodeDefault(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}
