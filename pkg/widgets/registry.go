// Package widgets decides which control a field is edited with. Kits and
// host views ask the registry instead of switching on field types.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-frontier/pkg/model"
)

// Built-in widget identifiers.
const (
	WidgetGroup       = "group"
	WidgetCheckbox    = "checkbox"
	WidgetSelect      = "select"
	WidgetMultiSelect = "multiselect"
	WidgetTextarea    = "textarea"
	WidgetPassword    = "password"
	WidgetNumber      = "number"
	WidgetText        = "text"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns a shared registry holding the built-in matchers.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher. The latest registration of a name wins ties.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget for a field. A widget hint in UIHints or
// Metadata is honoured before matchers run.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := explicitWidget(field); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order > rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator and records the resolved widget in
// UIHints["widget"] for every field, nested ones included.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	form.Fields = r.decorateFields(form.Fields)
	return nil
}

func (r *Registry) decorateFields(fields []model.Field) []model.Field {
	if len(fields) == 0 {
		return fields
	}
	decorated := make([]model.Field, len(fields))
	for idx, field := range fields {
		decorated[idx] = r.decorateField(field)
	}
	return decorated
}

func (r *Registry) decorateField(field model.Field) model.Field {
	if widget, ok := r.Resolve(field); ok {
		hints := make(map[string]string, len(field.UIHints)+1)
		for key, value := range field.UIHints {
			hints[key] = value
		}
		hints["widget"] = widget
		field.UIHints = hints
	}
	if len(field.Nested) > 0 {
		field.Nested = r.decorateFields(field.Nested)
	}
	return field
}

func explicitWidget(field model.Field) string {
	if widget := strings.TrimSpace(field.UIHints["widget"]); widget != "" {
		return widget
	}
	return strings.TrimSpace(field.Metadata["widget"])
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetGroup, 100, func(field model.Field) bool {
		return field.Type == model.FieldTypeObject
	})
	r.Register(WidgetCheckbox, 90, func(field model.Field) bool {
		return field.Type == model.FieldTypeBoolean
	})
	r.Register(WidgetMultiSelect, 80, func(field model.Field) bool {
		return field.Type == model.FieldTypeArray && field.Items != nil && len(field.Items.Enum) > 0
	})
	r.Register(WidgetSelect, 70, func(field model.Field) bool {
		return field.Type != model.FieldTypeArray && len(field.Enum) > 0
	})
	r.Register(WidgetPassword, 60, func(field model.Field) bool {
		return strings.EqualFold(field.Format, "password") || field.UIHints["inputType"] == "password"
	})
	r.Register(WidgetTextarea, 50, func(field model.Field) bool {
		if field.Type != model.FieldTypeString {
			return false
		}
		switch strings.ToLower(field.Format) {
		case "textarea", "multiline", "markdown":
			return true
		}
		return field.UIHints["rows"] != ""
	})
	r.Register(WidgetNumber, 40, func(field model.Field) bool {
		return field.Type == model.FieldTypeInteger || field.Type == model.FieldTypeNumber
	})
	r.Register(WidgetText, 0, func(model.Field) bool { return true })
}
