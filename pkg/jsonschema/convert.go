package jsonschema

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-frontier/pkg/schema"
)

func convertSchema(ref *openapi3.SchemaRef) schema.Schema {
	if ref == nil {
		return schema.Schema{}
	}
	if ref.Value == nil {
		return schema.Schema{Ref: ref.Ref}
	}
	src := ref.Value
	out := schema.Schema{
		Ref:         ref.Ref,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
	}

	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		out.Properties = make(map[string]schema.Schema, len(src.Properties))
		for name, property := range src.Properties {
			out.Properties[name] = convertSchema(property)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items)
		out.Items = &items
	}
	if src.Min != nil {
		value := *src.Min
		out.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		out.Maximum = &value
	}
	out.ExclusiveMinimum = src.ExclusiveMin
	out.ExclusiveMaximum = src.ExclusiveMax
	if src.MinLength != 0 {
		value := int(src.MinLength)
		out.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		out.MaxLength = &value
	}
	out.Pattern = src.Pattern

	// graphql-2-json-schema expresses nullable references as anyOf [ref, null].
	if out.Type == "" && out.Ref == "" && len(src.AnyOf) > 0 {
		for _, variant := range src.AnyOf {
			converted := convertSchema(variant)
			if converted.IsZero() {
				continue
			}
			converted.Description = firstNonEmpty(out.Description, converted.Description)
			return converted
		}
	}
	if out.Title != "" && schema.IsScalarName(out.Title) {
		out.GraphQLType = out.Title
	}
	if len(src.Extensions) > 0 {
		out.Extensions = make(map[string]any, len(src.Extensions))
		for key, value := range src.Extensions {
			out.Extensions[key] = value
		}
	}
	return out
}

// firstSchemaType picks the first non-null entry of a type array so
// ["string","null"] is treated as an optional string.
func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
