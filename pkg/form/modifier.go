package form

import (
	"github.com/goliatone/go-frontier/pkg/model"
)

// Modifier is the command handle for one field path.
type Modifier struct {
	form  *Form
	field model.Field
}

// Path returns the dotted field path.
func (m Modifier) Path() string {
	return m.field.Path
}

// Field returns the model field the modifier edits.
func (m Modifier) Field() model.Field {
	return m.field
}

// Change sets the field value; nil clears it.
func (m Modifier) Change(value any) error {
	if m.form == nil {
		return ErrUnknownField
	}
	return m.form.Change(m.field.Path, value)
}

// Clear is Change(nil).
func (m Modifier) Clear() error {
	return m.Change(nil)
}

// Value reads the current value.
func (m Modifier) Value() (any, bool) {
	if m.form == nil {
		return nil, false
	}
	m.form.mu.Lock()
	defer m.form.mu.Unlock()
	value, ok := getPath(m.form.values, m.field.Path)
	return deepCopy(value), ok
}

// Error reads the current validation message.
func (m Modifier) Error() string {
	if m.form == nil {
		return ""
	}
	m.form.mu.Lock()
	defer m.form.mu.Unlock()
	return m.form.errors[m.field.Path]
}

// Modifiers returns a modifier for every declared field path, nested paths
// included.
func (f *Form) Modifiers() map[string]Modifier {
	out := make(map[string]Modifier, len(f.index))
	for path, field := range f.index {
		out[path] = Modifier{form: f, field: field}
	}
	return out
}

// Modifier returns the modifier for path.
func (f *Form) Modifier(path string) (Modifier, bool) {
	field, ok := f.index[NormalizePath(path)]
	if !ok {
		return Modifier{}, false
	}
	return Modifier{form: f, field: field}, true
}
