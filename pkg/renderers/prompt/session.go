// Package prompt drives a form from the terminal. A Session asks for every
// field, writes the answers through the form's modifiers and submits,
// asking again for the fields submit validation rejected.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-frontier/pkg/form"
	"github.com/goliatone/go-frontier/pkg/model"
	"github.com/goliatone/go-frontier/pkg/validation"
	"github.com/goliatone/go-frontier/pkg/widgets"
)

const skipOption = "(none)"

// Option configures a Session.
type Option func(*Session)

// WithDriver overrides the survey driver.
func WithDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWidgets replaces the registry that picks each field's prompt.
func WithWidgets(registry *widgets.Registry) Option {
	return func(s *Session) {
		if registry != nil {
			s.widgets = registry
		}
	}
}

// WithMaxRounds caps how many times Run re-asks fields after a rejected
// submit. Defaults to 3.
func WithMaxRounds(rounds int) Option {
	return func(s *Session) {
		if rounds > 0 {
			s.maxRounds = rounds
		}
	}
}

// Session is a terminal conversation filling one form.
type Session struct {
	form      *form.Form
	driver    PromptDriver
	logger    *zap.Logger
	widgets   *widgets.Registry
	maxRounds int
}

// New creates a session for f.
func New(f *form.Form, opts ...Option) (*Session, error) {
	if f == nil {
		return nil, errors.New("prompt: form is required")
	}
	s := &Session{
		form:      f,
		logger:    zap.NewNop(),
		widgets:   widgets.Default(),
		maxRounds: 3,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver()
	}
	return s, nil
}

// Fill asks for every field once.
func (s *Session) Fill(ctx context.Context) error {
	for _, field := range s.form.Fields() {
		if err := s.promptField(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

// Run fills the form and submits it. Fields rejected by submit validation
// are asked again, up to the configured number of rounds.
func (s *Session) Run(ctx context.Context) (form.Result, error) {
	if err := s.Fill(ctx); err != nil {
		return form.Result{}, err
	}

	for round := 0; ; round++ {
		result, err := s.form.Submit(ctx)
		if err != nil {
			_ = s.driver.Info(ctx, "Submit failed: "+err.Error())
			return result, err
		}
		if result.Status != form.StatusInvalid {
			return result, nil
		}
		if round+1 >= s.maxRounds {
			return result, ErrTooManyRounds
		}

		s.logger.Debug("re-prompting invalid fields", zap.Int("round", round+1), zap.Int("errors", len(result.Errors)))
		if err := s.correct(ctx, result.Errors); err != nil {
			return result, err
		}
	}
}

func (s *Session) correct(ctx context.Context, issues map[string]string) error {
	paths := make([]string, 0, len(issues))
	for path := range issues {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", path, issues[path])); err != nil {
			return err
		}
		field, ok := s.form.Field(path)
		if !ok {
			continue
		}
		if err := s.promptField(ctx, field); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, field model.Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	widget, _ := s.widgets.Resolve(field)
	switch {
	case widget == widgets.WidgetGroup:
		for _, child := range field.Nested {
			if err := s.promptField(ctx, child); err != nil {
				return err
			}
		}
		return nil
	case widget == widgets.WidgetCheckbox:
		return s.promptBoolean(ctx, field)
	case widget == widgets.WidgetMultiSelect && field.Items != nil:
		return s.promptMultiSelect(ctx, field)
	case widget == widgets.WidgetSelect && len(field.Enum) > 0:
		return s.promptEnum(ctx, field)
	default:
		return s.promptText(ctx, field, widget)
	}
}

// apply writes value through the modifier and reports the field's message,
// if any, so the caller can ask again.
func (s *Session) apply(ctx context.Context, field model.Field, value any) (bool, error) {
	modifier, ok := s.form.Modifier(field.Path)
	if !ok {
		return false, fmt.Errorf("prompt: %w: %s", form.ErrUnknownField, field.Path)
	}
	if value == nil && field.Required {
		return false, s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.Path, validation.MessageRequired))
	}
	if err := modifier.Change(value); err != nil {
		return false, err
	}
	if msg := modifier.Error(); msg != "" {
		return false, s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.Path, msg))
	}
	return true, nil
}

func (s *Session) promptText(ctx context.Context, field model.Field, widget string) error {
	label := displayLabel(field)
	help := field.Description
	password := widget == widgets.WidgetPassword
	textarea := widget == widgets.WidgetTextarea

	for {
		current := s.currentText(field)
		var raw string
		var err error
		switch {
		case password:
			raw, err = s.driver.Password(ctx, InputConfig{Message: label, Help: help})
		case textarea:
			raw, err = s.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: help})
		default:
			raw, err = s.driver.Input(ctx, InputConfig{Message: label, Default: current, Help: help})
		}
		if err != nil {
			return err
		}

		value, err := validation.Coerce(field, raw)
		if err != nil {
			if infoErr := s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", field.Path, err)); infoErr != nil {
				return infoErr
			}
			continue
		}
		done, err := s.apply(ctx, field, value)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (s *Session) promptBoolean(ctx context.Context, field model.Field) error {
	def, _ := field.Default.(bool)
	if current, ok := s.current(field); ok {
		if b, ok := current.(bool); ok {
			def = b
		}
	}
	answer, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: displayLabel(field),
		Default: def,
		Help:    field.Description,
	})
	if err != nil {
		return err
	}
	_, err = s.apply(ctx, field, answer)
	return err
}

func (s *Session) promptEnum(ctx context.Context, field model.Field) error {
	options := stringifyEnum(field.Enum)
	if !field.Required {
		options = append([]string{skipOption}, options...)
	}
	defaultIdx := -1
	if current := s.currentText(field); current != "" {
		defaultIdx = indexOf(options, current)
	}

	for {
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         field.Description,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			if err := s.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", field.Path)); err != nil {
				return err
			}
			continue
		}
		var value any = options[idx]
		if options[idx] == skipOption {
			value = nil
		}
		done, err := s.apply(ctx, field, value)
		if err != nil || done {
			return err
		}
	}
}

func (s *Session) promptMultiSelect(ctx context.Context, field model.Field) error {
	options := stringifyEnum(field.Items.Enum)
	var defaults []int
	if current, ok := s.current(field); ok {
		if items, ok := validation.ToSlice(current); ok {
			defaults = indicesOf(options, stringifyEnum(items))
		}
	}

	for {
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  displayLabel(field),
			Options:  options,
			Defaults: defaults,
			Help:     field.Description,
		})
		if err != nil {
			return err
		}
		var value any
		if selected := valuesFromIndices(options, indices); len(selected) > 0 {
			items := make([]any, len(selected))
			for i, item := range selected {
				items[i] = item
			}
			value = items
		}
		done, err := s.apply(ctx, field, value)
		if err != nil || done {
			return err
		}
	}
}

func (s *Session) current(field model.Field) (any, bool) {
	if value, ok := s.form.State().Value(field.Path); ok {
		return value, true
	}
	if field.Default != nil {
		return field.Default, true
	}
	return nil, false
}

func (s *Session) currentText(field model.Field) string {
	value, ok := s.current(field)
	if !ok || value == nil {
		return ""
	}
	if items, ok := validation.ToSlice(value); ok {
		return strings.Join(stringifyEnum(items), ", ")
	}
	return fmt.Sprint(value)
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Required {
		label += " *"
	}
	return label
}

func stringifyEnum(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}
