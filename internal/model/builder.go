package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-frontier/pkg/descriptor"
	"github.com/goliatone/go-frontier/pkg/schema"
)

// Builder converts a mutation descriptor plus the schema of its root field
// into a form model.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if len(options.Order) > 0 {
		opts.Order = append([]string(nil), options.Order...)
	}
	return &Builder{opts: opts}
}

// Build derives one top-level field per descriptor variable. The variable's
// schema comes from the argument it is bound to; variables the schema does not
// describe fall back to their declared GraphQL type.
func (b *Builder) Build(desc *descriptor.Descriptor, ir schema.SchemaIR) (FormModel, error) {
	if err := validateDescriptor(desc); err != nil {
		return FormModel{}, err
	}
	op, ok := ir.Mutation(desc.Field)
	if !ok {
		return FormModel{}, fmt.Errorf("%w: %s", ErrUnknownMutation, desc.Field)
	}
	if err := validateSchema(op.Arguments); err != nil {
		return FormModel{}, fmt.Errorf("model builder: invalid arguments for %s: %w", desc.Field, err)
	}

	form := FormModel{
		Operation:   desc.Name,
		Mutation:    desc.Field,
		Description: op.Description,
	}
	if ext := metadataFromExtensions(op.Arguments.Extensions); len(ext) > 0 {
		form.Metadata = ext
	}

	fields := make([]Field, 0, len(desc.Variables))
	for _, variable := range desc.Variables {
		field, err := b.fieldForVariable(desc, variable, op, ir)
		if err != nil {
			return FormModel{}, err
		}
		fields = append(fields, field)
	}
	form.Fields = ApplyOrder(fields, b.opts.Order)
	return form, nil
}

func (b *Builder) fieldForVariable(desc *descriptor.Descriptor, variable descriptor.Variable, op schema.Operation, ir schema.SchemaIR) (Field, error) {
	argSchema, argRequired, found := resolveArgument(ir, op.Arguments, desc.ArgumentFor(variable.Name))
	if !found {
		argSchema = schemaFromType(ir, variable.Type)
	}
	required := variable.Required() || (argRequired && !variable.HasDefault)

	field, err := b.fieldFromSchema(ir, variable.Name, variable.Name, argSchema, required, nil)
	if err != nil {
		return Field{}, err
	}
	if variable.HasDefault && variable.Default != nil {
		field.Default = variable.Default
	}
	if field.GraphQLType == "" {
		field.GraphQLType = variable.Type.Base()
	}
	return field, nil
}

// resolveArgument walks a dotted argument path (todo.name) through the
// arguments object, dereferencing input types along the way.
func resolveArgument(ir schema.SchemaIR, args schema.Schema, path string) (schema.Schema, bool, bool) {
	current := args
	required := false
	for _, segment := range strings.Split(path, ".") {
		resolved, ok := ir.Deref(current)
		if !ok {
			return schema.Schema{}, false, false
		}
		prop, ok := resolved.Properties[segment]
		if !ok {
			return schema.Schema{}, false, false
		}
		required = resolved.IsRequired(segment)
		current = prop
	}
	return current, required, true
}

func schemaFromType(ir schema.SchemaIR, t descriptor.TypeRef) schema.Schema {
	if t.Elem != nil {
		items := schemaFromType(ir, *t.Elem)
		return schema.Schema{Type: "array", Items: &items}
	}
	if schema.IsScalarName(t.Named) {
		return schema.ScalarSchema(t.Named)
	}
	if _, ok := ir.Definition(t.Named); ok {
		return schema.Schema{Ref: "#/definitions/" + t.Named, GraphQLType: t.Named}
	}
	return schema.ScalarSchema(t.Named)
}

// fieldFromSchema converts a schema node into a field. seen tracks the
// definitions currently being expanded so recursive input types terminate.
func (b *Builder) fieldFromSchema(ir schema.SchemaIR, name, path string, s schema.Schema, required bool, seen map[string]bool) (Field, error) {
	if s.Ref != "" {
		refName := schema.RefName(s.Ref)
		def, ok := ir.Deref(s)
		if !ok || seen[refName] {
			return b.unresolvedField(name, path, s, required), nil
		}
		next := make(map[string]bool, len(seen)+1)
		for key := range seen {
			next[key] = true
		}
		next[refName] = true
		seen = next
		if s.Default != nil {
			def.Default = s.Default
		}
		if def.GraphQLType == "" {
			def.GraphQLType = refName
		}
		// Definition titles name the type, not the field.
		def.Title = s.Title
		s = def
	}

	switch {
	case s.Type == "object" || (s.Type == "" && len(s.Properties) > 0):
		return b.fieldFromObject(ir, name, path, s, required, seen)
	case s.Type == "array":
		return b.fieldFromArray(ir, name, path, s, required, seen)
	default:
		return b.fieldFromPrimitive(name, path, s, required), nil
	}
}

func (b *Builder) unresolvedField(name, path string, s schema.Schema, required bool) Field {
	field := b.baseField(name, path, s, required)
	field.Type = FieldTypeObject
	field.ensureMetadata()["$ref"] = s.Ref
	field.finish(s)
	return field
}

func (b *Builder) fieldFromObject(ir schema.SchemaIR, name, path string, s schema.Schema, required bool, seen map[string]bool) (Field, error) {
	field := b.baseField(name, path, s, required)
	field.Type = FieldTypeObject

	propNames := make([]string, 0, len(s.Properties))
	for propName := range s.Properties {
		propNames = append(propNames, propName)
	}
	sort.Strings(propNames)

	for _, propName := range propNames {
		nested, err := b.fieldFromSchema(ir, propName, path+"."+propName, s.Properties[propName], s.IsRequired(propName), seen)
		if err != nil {
			return Field{}, err
		}
		field.Nested = append(field.Nested, nested)
	}
	field.finish(s)
	return field, nil
}

func (b *Builder) fieldFromArray(ir schema.SchemaIR, name, path string, s schema.Schema, required bool, seen map[string]bool) (Field, error) {
	if s.Items == nil {
		return Field{}, fmt.Errorf("model builder: array field %q missing items", path)
	}
	item, err := b.fieldFromSchema(ir, name+"Item", path+".item", *s.Items, false, seen)
	if err != nil {
		return Field{}, err
	}

	field := b.baseField(name, path, s, required)
	field.Type = FieldTypeArray
	field.Items = &item
	field.finish(s)
	return field, nil
}

func (b *Builder) fieldFromPrimitive(name, path string, s schema.Schema, required bool) Field {
	field := b.baseField(name, path, s, required)
	field.Type = mapType(s.Type)
	field.Format = s.Format
	field.finish(s)
	applyFormatHints(&field)
	return field
}

func (b *Builder) baseField(name, path string, s schema.Schema, required bool) Field {
	label := s.Title
	if label == "" || schema.IsScalarName(label) || label == s.GraphQLType {
		label = b.opts.Labeler(name)
	}
	field := Field{
		Name:        name,
		Path:        path,
		GraphQLType: s.GraphQLType,
		Label:       label,
		Description: s.Description,
		Required:    required,
		Default:     s.Default,
	}
	if len(s.Enum) > 0 {
		field.Enum = append([]any(nil), s.Enum...)
	}
	applyValidations(&field, s)
	return field
}

// finish merges extension metadata and UI hints into the field.
func (f *Field) finish(s schema.Schema) {
	ext := metadataFromExtensions(s.Extensions)
	mergeMetadata(f.ensureMetadata(), ext)
	f.UIHints = mergeUIHints(f.UIHints, filterUIHints(ext))
	f.applyUIHintAttributes()
	f.normalizeMetadata()
	f.normalizeUIHints()
}

func mapType(schemaType string) FieldType {
	switch schemaType {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	case "array":
		return FieldTypeArray
	case "object":
		return FieldTypeObject
	default:
		return FieldTypeString
	}
}

func applyValidations(field *Field, s schema.Schema) {
	if field == nil {
		return
	}

	if s.Minimum != nil {
		params := map[string]string{"value": formatFloat(*s.Minimum)}
		if s.ExclusiveMinimum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMin, Params: params})
	}
	if s.Maximum != nil {
		params := map[string]string{"value": formatFloat(*s.Maximum)}
		if s.ExclusiveMaximum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{Kind: ValidationRuleMax, Params: params})
	}
	if s.MinLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.Itoa(*s.MinLength)},
		})
	}
	if s.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(*s.MaxLength)},
		})
	}
	if s.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": s.Pattern},
		})
	}
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// applyFormatHints maps well-known formats and custom scalar names onto an
// input type hint.
func applyFormatHints(field *Field) {
	if field == nil {
		return
	}
	format := strings.TrimSpace(strings.ToLower(field.Format))
	if format == "" {
		return
	}
	if field.UIHints != nil && strings.TrimSpace(field.UIHints["inputType"]) != "" {
		return
	}

	var inputType string
	switch format {
	case "date":
		inputType = "date"
	case "time":
		inputType = "time"
	case "date-time", "datetime", "datetime-local":
		inputType = "datetime-local"
	case "email":
		inputType = "email"
	case "uri", "url":
		inputType = "url"
	case "tel", "phone":
		inputType = "tel"
	case "password":
		inputType = "password"
	case "upload", "byte", "binary":
		inputType = "file"
	default:
		return
	}

	if field.UIHints == nil {
		field.UIHints = make(map[string]string, 1)
	}
	field.UIHints["inputType"] = inputType
}

func (f *Field) ensureMetadata() map[string]string {
	if f.Metadata == nil {
		f.Metadata = make(map[string]string)
	}
	return f.Metadata
}

func (f *Field) normalizeMetadata() {
	if f.Metadata != nil && len(f.Metadata) == 0 {
		f.Metadata = nil
	}
}

func (f *Field) normalizeUIHints() {
	if f.UIHints != nil && len(f.UIHints) == 0 {
		f.UIHints = nil
	}
}

func (f *Field) applyUIHintAttributes() {
	if len(f.UIHints) == 0 {
		return
	}
	if placeholder := f.UIHints["placeholder"]; placeholder != "" && f.Placeholder == "" {
		f.Placeholder = placeholder
	}
	if label := f.UIHints["label"]; label != "" {
		f.Label = label
	}
	if hint := f.UIHints["hint"]; hint != "" && f.Description == "" {
		f.Description = hint
	}
}
