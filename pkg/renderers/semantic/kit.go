// Package semantic is an HTML kit producing Semantic UI form markup.
package semantic

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-frontier/pkg/model"
	"github.com/goliatone/go-frontier/pkg/render"
	"github.com/goliatone/go-frontier/pkg/render/template"
	"github.com/goliatone/go-frontier/pkg/validation"
	"github.com/goliatone/go-frontier/pkg/widgets"
)

// Name is the kit's registry name.
const Name = "semantic"

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded templates so hosts can copy and restyle
// them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Option configures the kit.
type Option func(*Kit)

// WithTemplates replaces the embedded templates. The FS must provide
// field.tpl and form.tpl.
func WithTemplates(files fs.FS) Option {
	return func(k *Kit) {
		if files != nil {
			k.templates = files
		}
	}
}

// WithSubmitLabel sets the default submit button text.
func WithSubmitLabel(label string) Option {
	return func(k *Kit) {
		if label = strings.TrimSpace(label); label != "" {
			k.submitLabel = label
		}
	}
}

// WithWidgets replaces the registry that picks each field's control.
func WithWidgets(registry *widgets.Registry) Option {
	return func(k *Kit) {
		if registry != nil {
			k.widgets = registry
		}
	}
}

// WithAction sets the default form action and method.
func WithAction(method, action string) Option {
	return func(k *Kit) {
		k.method = strings.ToLower(strings.TrimSpace(method))
		k.action = action
	}
}

// Kit implements render.Kit.
type Kit struct {
	templates   fs.FS
	submitLabel string
	method      string
	action      string
	widgets     *widgets.Registry

	engine *template.Engine
}

var _ render.Kit = (*Kit)(nil)

// New creates the kit and parses its templates lazily on first render.
func New(opts ...Option) (*Kit, error) {
	k := &Kit{
		templates:   TemplatesFS(),
		submitLabel: "Submit",
		method:      "post",
		widgets:     widgets.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}
	engine, err := template.New(template.WithFS(k.templates), template.WithSetName(Name))
	if err != nil {
		return nil, fmt.Errorf("semantic: %w", err)
	}
	k.engine = engine
	return k, nil
}

// Name implements render.Kit.
func (k *Kit) Name() string { return Name }

// ContentType implements render.Kit.
func (k *Kit) ContentType() string { return "text/html; charset=utf-8" }

// Field renders one control. Object fields render as a fieldset holding
// their nested controls.
func (k *Kit) Field(ctx context.Context, fc render.FieldContext) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := k.field(fc)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func (k *Kit) field(fc render.FieldContext) (string, error) {
	field := fc.Field
	data := map[string]any{
		"field": map[string]any{
			"path":        field.Path,
			"label":       field.Label,
			"required":    field.Required,
			"placeholder": field.Placeholder,
		},
		"error":       fc.Error,
		"submitting":  fc.Submitting,
		"description": sanitizeDescription(field.Description),
		"hideLabel":   field.UIHints["hideLabel"] == "true",
	}

	widget, _ := k.widgets.Resolve(field)
	switch widget {
	case widgets.WidgetGroup:
		if len(field.Nested) == 0 {
			return "", fmt.Errorf("semantic: %s: %w", field.Path, render.ErrUnsupportedField)
		}
		children := make([]any, 0, len(field.Nested))
		for _, nested := range field.Nested {
			child := render.FieldContext{
				Field:      nested,
				Value:      fc.Values[nested.Path],
				Error:      fc.Errors[nested.Path],
				Errors:     fc.Errors,
				Values:     fc.Values,
				Submitting: fc.Submitting,
			}
			html, err := k.field(child)
			if err != nil {
				if errors.Is(err, render.ErrUnsupportedField) {
					continue
				}
				return "", err
			}
			children = append(children, html)
		}
		data["kind"] = "group"
		data["children"] = children
	case widgets.WidgetCheckbox:
		data["kind"] = "checkbox"
		checked, _ := fc.Value.(bool)
		data["checked"] = checked
	case widgets.WidgetSelect:
		data["kind"] = "select"
		data["options"] = options(field.Enum, fc.Value)
	case widgets.WidgetMultiSelect:
		if field.Items == nil {
			return "", fmt.Errorf("semantic: %s: multiselect without items: %w", field.Path, render.ErrUnsupportedField)
		}
		data["kind"] = "multiselect"
		data["options"] = options(field.Items.Enum, fc.Value)
	case widgets.WidgetTextarea:
		data["kind"] = "textarea"
		data["value"] = displayValue(fc.Value)
		data["rows"] = rows(field.UIHints["rows"])
	default:
		data["kind"] = "input"
		data["value"] = displayValue(fc.Value)
		data["inputType"] = inputType(field, widget)
	}

	return k.engine.RenderTemplate("field", data)
}

// Form wraps rendered controls in a form element.
func (k *Kit) Form(ctx context.Context, fc render.FormContext) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fields := make([]any, 0, len(fc.Fields))
	for _, field := range fc.Fields {
		fields = append(fields, string(field.HTML))
	}

	method, action := k.method, k.action
	if fc.Method != "" {
		method = strings.ToLower(fc.Method)
	}
	if fc.Action != "" {
		action = fc.Action
	}
	submitLabel := k.submitLabel
	if label := fc.Model.Metadata["submitLabel"]; label != "" {
		submitLabel = label
	}

	out, err := k.engine.RenderTemplate("form", map[string]any{
		"mutation":    fc.Model.Mutation,
		"description": sanitizeDescription(fc.Model.Description),
		"fields":      fields,
		"submitting":  fc.Submitting,
		"submitError": fc.SubmitError,
		"submitLabel": submitLabel,
		"method":      method,
		"action":      action,
	})
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func inputType(field model.Field, widget string) string {
	if hint := strings.TrimSpace(field.UIHints["inputType"]); hint != "" {
		return hint
	}
	switch widget {
	case widgets.WidgetNumber, widgets.WidgetPassword:
		return widget
	default:
		return "text"
	}
}

func rows(raw string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
		return n
	}
	return 3
}

func options(enum []any, current any) []any {
	selected := make(map[string]bool)
	if items, ok := validation.ToSlice(current); ok {
		for _, item := range items {
			selected[displayValue(item)] = true
		}
	} else if current != nil {
		selected[displayValue(current)] = true
	}
	out := make([]any, 0, len(enum))
	for _, option := range enum {
		value := fmt.Sprint(option)
		out = append(out, map[string]any{
			"value":    value,
			"label":    model.DefaultLabeler(strings.ToLower(value)),
			"selected": selected[value],
		})
	}
	return out
}

// displayValue renders a value the way a text control shows it. Lists are
// comma separated, matching how posted lists are parsed back.
func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = displayValue(item)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprint(v)
	}
}

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// sanitizeDescription keeps inline formatting from schema descriptions and
// strips everything else.
func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	descriptionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		descriptionPolicy = policy
	})
	return strings.TrimSpace(descriptionPolicy.Sanitize(trimmed))
}
