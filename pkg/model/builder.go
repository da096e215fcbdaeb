package model

import (
	"github.com/goliatone/go-frontier/internal/model"
	"github.com/goliatone/go-frontier/pkg/descriptor"
	"github.com/goliatone/go-frontier/pkg/schema"
)

// Builder converts a mutation descriptor and schema into a form model.
type Builder interface {
	Build(desc *descriptor.Descriptor, ir schema.SchemaIR) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
	order   []string
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithOrder lists field paths that should be placed first.
func WithOrder(paths ...string) BuilderOption {
	return func(opts *builderOptions) {
		opts.order = append(opts.order, paths...)
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	return model.New(model.Options{
		Labeler: cfg.labeler,
		Order:   cfg.order,
	})
}
