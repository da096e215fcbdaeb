package form

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-frontier/pkg/model"
	"github.com/goliatone/go-frontier/pkg/render"
)

// Rendered is the kit output for the whole form.
type Rendered struct {
	ContentType string
	// Fields holds each top-level control keyed by path.
	Fields map[string][]byte
	// Order lists the rendered paths in display order. Fields the kit does
	// not support are absent.
	Order []string
	// Form is the complete document with every control in place.
	Form []byte
}

// Render draws the current state through the configured kit. Fields the kit
// reports as unsupported are skipped.
func (f *Form) Render(ctx context.Context) (Rendered, error) {
	if f.kit == nil {
		return Rendered{}, ErrNoKit
	}
	state := f.State()

	out := Rendered{
		ContentType: f.kit.ContentType(),
		Fields:      make(map[string][]byte, len(f.model.Fields)),
	}
	controls := make([]render.RenderedField, 0, len(f.model.Fields))
	for _, field := range f.model.Fields {
		html, err := f.kit.Field(ctx, fieldContext(field, state))
		if errors.Is(err, render.ErrUnsupportedField) {
			f.logger.Debug("kit skipped field", zap.String("path", field.Path), zap.String("kit", f.kit.Name()))
			continue
		}
		if err != nil {
			return Rendered{}, fmt.Errorf("form: render %s: %w", field.Path, err)
		}
		out.Fields[field.Path] = html
		out.Order = append(out.Order, field.Path)
		controls = append(controls, render.RenderedField{Path: field.Path, HTML: html})
	}

	formCtx := render.FormContext{
		Model:      f.model,
		Fields:     controls,
		Submitting: state.Submitting,
	}
	if state.SubmitError != nil {
		formCtx.SubmitError = state.SubmitError.Error()
	}
	document, err := f.kit.Form(ctx, formCtx)
	if err != nil {
		return Rendered{}, fmt.Errorf("form: render form: %w", err)
	}
	out.Form = document
	return out, nil
}

func fieldContext(field model.Field, state State) render.FieldContext {
	value, _ := state.Value(field.Path)
	fc := render.FieldContext{
		Field:      field,
		Value:      value,
		Error:      state.FieldErrors[field.Path],
		Submitting: state.Submitting,
	}
	if len(field.Nested) == 0 {
		return fc
	}

	fc.Errors = make(map[string]string)
	fc.Values = make(map[string]any)
	model.Walk(field.Nested, func(nested model.Field) bool {
		if msg := state.FieldErrors[nested.Path]; msg != "" {
			fc.Errors[nested.Path] = msg
		}
		if v, ok := state.Value(nested.Path); ok {
			fc.Values[nested.Path] = v
		}
		return true
	})
	return fc
}
