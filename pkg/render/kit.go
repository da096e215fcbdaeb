// Package render defines the rendering collaborator a form engine hands field
// state to. A Kit maps one field (path, type, value, error) to markup; the
// engine owns no rendering logic itself.
package render

import (
	"context"
	"errors"

	"github.com/goliatone/go-frontier/pkg/model"
)

// ErrUnsupportedField is returned by kits that have no control for a field
// type. Engines skip such fields instead of failing the whole render.
var ErrUnsupportedField = errors.New("render: unsupported field")

// FieldContext is everything a kit needs to draw one control.
type FieldContext struct {
	Field model.Field
	Value any
	// Error is the current validation message, empty when valid.
	Error string
	// Errors holds messages for nested paths below Field.
	Errors map[string]string
	// Values holds nested values keyed by path for object fields.
	Values     map[string]any
	Submitting bool
}

// RenderedField is a kit-produced control.
type RenderedField struct {
	Path string
	HTML []byte
}

// FormContext wraps the rendered controls.
type FormContext struct {
	Model       model.FormModel
	Fields      []RenderedField
	Submitting  bool
	SubmitError string
	// Action and Method describe where hosts post the form, when relevant.
	Action string
	Method string
}

// Kit renders fields and the surrounding form.
type Kit interface {
	Name() string
	ContentType() string
	Field(ctx context.Context, field FieldContext) ([]byte, error)
	Form(ctx context.Context, form FormContext) ([]byte, error)
}
