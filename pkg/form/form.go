package form

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-frontier/pkg/descriptor"
	"github.com/goliatone/go-frontier/pkg/model"
	"github.com/goliatone/go-frontier/pkg/render"
	"github.com/goliatone/go-frontier/pkg/transport"
	"github.com/goliatone/go-frontier/pkg/validation"
)

// Observer receives a payload after every state change.
type Observer func(Payload)

// Payload is what observers get: a snapshot, the commands to change it and
// the form to submit or render with.
type Payload struct {
	State     State
	Modifiers map[string]Modifier
	Form      *Form
}

// Render renders the form through its kit.
func (p Payload) Render(ctx context.Context) (Rendered, error) {
	if p.Form == nil {
		return Rendered{}, ErrNoKit
	}
	return p.Form.Render(ctx)
}

type subscription struct {
	id int
	fn Observer
}

// Form holds the values and errors of one mutation form.
type Form struct {
	desc        *descriptor.Descriptor
	model       model.FormModel
	index       map[string]model.Field
	transport   transport.Transport
	kit         render.Kit
	validator   *validation.Validator
	logger      *zap.Logger
	metrics     Metrics
	resetOnSave bool
	initial     map[string]any

	mu          sync.Mutex
	values      map[string]any
	errors      map[string]string
	phase       Phase
	submitCount int
	succeeded   bool
	failed      bool
	submitErr   error
	result      any
	observers   []subscription
	nextID      int
}

// New builds a form. It resolves the schema source once; every failure is
// reported as ErrConfiguration.
func New(ctx context.Context, opts ...Option) (*Form, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	desc := cfg.descriptor
	if desc == nil && cfg.mutationText != "" {
		parsed, err := descriptor.Parse(cfg.mutationText)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		desc = parsed
	}
	if desc == nil {
		return nil, configError("mutation descriptor is required")
	}

	switch {
	case cfg.sources == 0:
		return nil, configError("a schema or live client is required")
	case cfg.sources > 1:
		return nil, configError("only one schema source may be supplied, got %d", cfg.sources)
	}

	ir, err := cfg.source.resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s schema: %w", ErrConfiguration, cfg.source.Kind(), err)
	}

	tr := cfg.transport
	if tr == nil {
		if live, ok := cfg.source.(liveSource); ok {
			if executor, ok := live.client.(transport.Transport); ok {
				tr = executor
			}
		}
	}
	if tr == nil {
		return nil, configError("transport is required")
	}

	builder := cfg.builder
	if builder == nil {
		builder = model.NewBuilder()
	}
	formModel, err := builder.Build(desc, ir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	formModel.Fields = model.ApplyOrder(formModel.Fields, cfg.order)
	for _, decorator := range cfg.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&formModel); err != nil {
			return nil, fmt.Errorf("%w: decorate: %w", ErrConfiguration, err)
		}
	}

	index := make(map[string]model.Field)
	model.Walk(formModel.Fields, func(field model.Field) bool {
		index[field.Path] = field
		return true
	})

	initial := cloneValues(cfg.initial)
	f := &Form{
		desc:        desc,
		model:       formModel,
		index:       index,
		transport:   tr,
		kit:         cfg.kit,
		validator:   validation.New(),
		logger:      cfg.logger.With(zap.String("operation", operationName(desc))),
		metrics:     cfg.metrics,
		resetOnSave: cfg.resetOnSave,
		initial:     initial,
		values:      cloneValues(initial),
		errors:      make(map[string]string),
		phase:       PhaseIdle,
	}
	f.logger.Debug("form ready",
		zap.String("source", cfg.source.Kind()),
		zap.Int("fields", len(index)),
	)
	return f, nil
}

func operationName(desc *descriptor.Descriptor) string {
	return transport.Request{Descriptor: desc}.OperationName()
}

// Descriptor returns the parsed mutation.
func (f *Form) Descriptor() *descriptor.Descriptor {
	return f.desc
}

// Model returns the derived form model.
func (f *Form) Model() model.FormModel {
	return f.model
}

// Fields returns the top-level fields in display order.
func (f *Form) Fields() []model.Field {
	return append([]model.Field(nil), f.model.Fields...)
}

// Field looks up a field by dotted or slash separated path.
func (f *Form) Field(path string) (model.Field, bool) {
	field, ok := f.index[NormalizePath(path)]
	return field, ok
}

// State returns a snapshot of the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Change sets the value at path and re-validates that field. A nil value
// clears it. Setting the value already held changes nothing and notifies
// nobody.
func (f *Form) Change(path string, value any) error {
	path = NormalizePath(path)
	field, ok := f.index[path]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, path)
	}

	f.mu.Lock()
	current, exists := getPath(f.values, path)
	if (value == nil && !exists) || (exists && reflect.DeepEqual(current, value)) {
		f.mu.Unlock()
		return nil
	}

	if value == nil {
		deletePath(f.values, path)
	} else {
		setPath(f.values, path, deepCopy(value))
	}

	for key := range f.errors {
		if underPath(key, path) {
			delete(f.errors, key)
		}
	}
	for _, parent := range ancestors(path) {
		delete(f.errors, parent)
	}
	for key, msg := range f.validator.Value(field, value) {
		f.errors[key] = msg
	}

	state := f.snapshotLocked()
	payload, observers := f.payloadLocked(state)
	f.mu.Unlock()

	f.metrics.FieldChanged(operationName(f.desc))
	if msg := state.FieldErrors[path]; msg != "" {
		f.logger.Debug("field invalid", zap.String("path", path), zap.String("error", msg))
	}
	notify(observers, payload)
	return nil
}

// SetErrors records messages that did not come from local validation, such
// as field errors reported by the server. Paths the form does not declare
// are returned unapplied.
func (f *Form) SetErrors(messages map[string]string) map[string]string {
	rejected := make(map[string]string)
	f.mu.Lock()
	changed := false
	for rawPath, msg := range messages {
		path := NormalizePath(rawPath)
		if _, ok := f.index[path]; !ok || msg == "" {
			rejected[rawPath] = msg
			continue
		}
		if f.errors[path] != msg {
			f.errors[path] = msg
			changed = true
		}
	}
	if !changed {
		f.mu.Unlock()
		return rejected
	}
	payload, observers := f.payloadLocked(f.snapshotLocked())
	f.mu.Unlock()

	notify(observers, payload)
	return rejected
}

// Reset restores the initial values and clears errors and submit results.
func (f *Form) Reset() {
	f.mu.Lock()
	f.values = cloneValues(f.initial)
	f.errors = make(map[string]string)
	f.succeeded = false
	f.failed = false
	f.submitErr = nil
	f.result = nil
	payload, observers := f.payloadLocked(f.snapshotLocked())
	f.mu.Unlock()

	notify(observers, payload)
}

// Subscribe registers an observer and returns a function that removes it.
// Observers run synchronously, in registration order, outside the form lock.
func (f *Form) Subscribe(observer Observer) func() {
	if observer == nil {
		return func() {}
	}
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.observers = append(f.observers, subscription{id: id, fn: observer})
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, sub := range f.observers {
				if sub.id == id {
					f.observers = append(f.observers[:i:i], f.observers[i+1:]...)
					return
				}
			}
		})
	}
}

// Payload returns the current payload without waiting for a change.
func (f *Form) Payload() Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, _ := f.payloadLocked(f.snapshotLocked())
	return payload
}

func (f *Form) snapshotLocked() State {
	return State{
		Values:          cloneValues(f.values),
		Errors:          nestErrors(f.errors),
		FieldErrors:     cloneErrors(f.errors),
		Submitting:      f.phase == PhaseSubmitting,
		Phase:           f.phase,
		Dirty:           !reflect.DeepEqual(f.values, f.initial),
		SubmitCount:     f.submitCount,
		SubmitSucceeded: f.succeeded,
		SubmitFailed:    f.failed,
		SubmitError:     f.submitErr,
		Result:          deepCopy(f.result),
	}
}

func (f *Form) payloadLocked(state State) (Payload, []Observer) {
	observers := make([]Observer, len(f.observers))
	for i, sub := range f.observers {
		observers[i] = sub.fn
	}
	return Payload{State: state, Modifiers: f.Modifiers(), Form: f}, observers
}

func notify(observers []Observer, payload Payload) {
	for _, observer := range observers {
		observer(payload)
	}
}
