package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-frontier/pkg/descriptor"
	"github.com/goliatone/go-frontier/pkg/model"
	"github.com/goliatone/go-frontier/pkg/render"
	"github.com/goliatone/go-frontier/pkg/transport"
)

// Option configures a Form at construction.
type Option func(*config)

type config struct {
	descriptor   *descriptor.Descriptor
	mutationText string
	source       Source
	sources      int
	transport    transport.Transport
	initial      map[string]any
	kit          render.Kit
	resetOnSave  bool
	order        []string
	logger       *zap.Logger
	metrics      Metrics
	builder      model.Builder
	decorators   []model.Decorator
}

func defaultConfig() *config {
	return &config{
		logger:  zap.NewNop(),
		metrics: nopMetrics{},
	}
}

// WithMutation sets an already parsed mutation descriptor.
func WithMutation(desc *descriptor.Descriptor) Option {
	return func(c *config) {
		c.descriptor = desc
	}
}

// WithMutationSource sets the mutation document text; it is parsed by New.
func WithMutationSource(src string) Option {
	return func(c *config) {
		c.mutationText = src
	}
}

// WithSchema sets the schema source. Supplying more than one source is a
// configuration error.
func WithSchema(source Source) Option {
	return func(c *config) {
		if source == nil {
			return
		}
		c.source = source
		c.sources++
	}
}

// WithTransport sets the collaborator that executes the mutation.
func WithTransport(t transport.Transport) Option {
	return func(c *config) {
		c.transport = t
	}
}

// WithInitialValues seeds the form values. Reset and resetOnSave restore
// them. The map is copied.
func WithInitialValues(values map[string]any) Option {
	return func(c *config) {
		c.initial = values
	}
}

// WithKit sets the rendering collaborator used by Render.
func WithKit(kit render.Kit) Option {
	return func(c *config) {
		c.kit = kit
	}
}

// WithResetOnSave restores the initial values after a successful submit.
func WithResetOnSave(reset bool) Option {
	return func(c *config) {
		c.resetOnSave = reset
	}
}

// WithOrder lists field paths that should come first.
func WithOrder(paths ...string) Option {
	return func(c *config) {
		c.order = append(c.order, paths...)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics hook.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) {
		if metrics != nil {
			c.metrics = metrics
		}
	}
}

// WithBuilder replaces the model builder. Order still applies on top.
func WithBuilder(builder model.Builder) Option {
	return func(c *config) {
		c.builder = builder
	}
}

// WithDecorators registers model decorators run after the model is built.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(c *config) {
		c.decorators = append(c.decorators, decorators...)
	}
}
