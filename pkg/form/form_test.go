package form_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"

	"github.com/goliatone/go-frontier/pkg/form"
	"github.com/goliatone/go-frontier/pkg/render"
	"github.com/goliatone/go-frontier/pkg/schema"
	"github.com/goliatone/go-frontier/pkg/transport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const crmSDL = `
type Query { ping: Boolean }

type Mutation {
  createContact(company: String!, email: String!, firstname: String!, lastname: String!): Contact
  createPet(name: String!): Pet
  createFeedback(rating: Int!, comment: String!): Boolean
  createTodo(todo: TodoInput!): Todo
}

type Contact { id: ID! }
type Pet { id: ID! name: String! }
type Todo { id: ID! }

input TodoInput {
  name: String!
  notes: String
}
`

const (
	contactMutation = `mutation CreateContact($company: String!, $email: String!, $firstname: String!, $lastname: String!) {
  createContact(company: $company, email: $email, firstname: $firstname, lastname: $lastname) { id }
}`
	petMutation      = `mutation CreatePet($name: String!) { createPet(name: $name) { id name } }`
	feedbackMutation = `mutation ($rating: Int!, $comment: String!) { createFeedback(rating: $rating, comment: $comment) }`
	todoMutation     = `mutation AddTodo($todo: TodoInput!) { createTodo(todo: $todo) { id } }`
)

type recordingTransport struct {
	mu    sync.Mutex
	calls []transport.Request
	resp  transport.Response
	err   error
}

func (r *recordingTransport) Execute(_ context.Context, req transport.Request) (transport.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req)
	return r.resp, r.err
}

func (r *recordingTransport) Calls() []transport.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]transport.Request(nil), r.calls...)
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	changes  int
}

func (m *recordingMetrics) SubmitObserved(_ string, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *recordingMetrics) FieldChanged(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes++
}

func newForm(t *testing.T, mutation string, tr transport.Transport, opts ...form.Option) *form.Form {
	t.Helper()
	base := []form.Option{
		form.WithMutationSource(mutation),
		form.WithSchema(form.SDLSchema("crm.graphql", crmSDL)),
		form.WithTransport(tr),
	}
	f, err := form.New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f
}

func mustChange(t *testing.T, f *form.Form, path string, value any) {
	t.Helper()
	if err := f.Change(path, value); err != nil {
		t.Fatalf("change %s: %v", path, err)
	}
}

func TestSubmitBlocksOnMissingRequiredField(t *testing.T) {
	tr := &recordingTransport{}
	f := newForm(t, contactMutation, tr)

	mustChange(t, f, "company", "Acme")
	mustChange(t, f, "firstname", "Ada")
	mustChange(t, f, "lastname", "Lovelace")

	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("validation failures must not be returned as errors: %v", err)
	}
	if result.Status != form.StatusInvalid {
		t.Fatalf("expected invalid status, got %s", result.Status)
	}
	if diff := cmp.Diff(map[string]string{"email": "required"}, result.Errors); diff != "" {
		t.Fatalf("result errors mismatch (-want +got):\n%s", diff)
	}
	if calls := tr.Calls(); len(calls) != 0 {
		t.Fatalf("transport must not be called, got %d calls", len(calls))
	}

	state := f.State()
	if state.Submitting || state.Phase != form.PhaseIdle {
		t.Fatalf("expected idle after validation failure, got %+v", state)
	}
	if diff := cmp.Diff(map[string]any{"email": "required"}, state.Errors); diff != "" {
		t.Fatalf("state errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitEveryRequiredFieldEmpty(t *testing.T) {
	tr := &recordingTransport{}
	f := newForm(t, contactMutation, tr)
	mustChange(t, f, "company", "   ")

	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	for _, path := range []string{"company", "email", "firstname", "lastname"} {
		if result.Errors[path] == "" || f.State().Error(path) == "" {
			t.Fatalf("expected message at %s, got %v", path, result.Errors)
		}
	}
	if len(tr.Calls()) != 0 {
		t.Fatalf("transport must not be called")
	}
}

func TestSubmitSendsValues(t *testing.T) {
	tr := &recordingTransport{resp: transport.Response{Data: map[string]any{
		"createPet": map[string]any{"id": "1", "name": "My cat"},
	}}}
	f := newForm(t, petMutation, tr)

	mustChange(t, f, "name", "My cat")
	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Status != form.StatusSucceeded {
		t.Fatalf("expected success, got %s", result.Status)
	}

	calls := tr.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one transport call, got %d", len(calls))
	}
	if diff := cmp.Diff(map[string]any{"name": "My cat"}, calls[0].Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
	if calls[0].OperationName() != "CreatePet" {
		t.Fatalf("unexpected operation %q", calls[0].OperationName())
	}

	state := f.State()
	if state.Submitting || !state.SubmitSucceeded || state.SubmitCount != 1 {
		t.Fatalf("unexpected state after success: %+v", state)
	}
	if diff := cmp.Diff(map[string]any{"id": "1", "name": "My cat"}, state.Result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(state.Result, result.Payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestResetOnSaveRestoresInitialValues(t *testing.T) {
	tr := &recordingTransport{resp: transport.Response{Data: map[string]any{"createFeedback": true}}}
	f := newForm(t, feedbackMutation, tr,
		form.WithResetOnSave(true),
		form.WithInitialValues(map[string]any{}),
	)

	mustChange(t, f, "rating", 5)
	mustChange(t, f, "comment", "ok")
	if !f.State().Dirty {
		t.Fatalf("expected dirty form before submit")
	}

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"rating": 5, "comment": "ok"}, tr.Calls()[0].Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}

	state := f.State()
	if diff := cmp.Diff(map[string]any{}, state.Values); diff != "" {
		t.Fatalf("values should equal initial values (-want +got):\n%s", diff)
	}
	if state.Dirty {
		t.Fatalf("form should be clean after reset on save")
	}
}

func TestResetOnSaveRestoresSeededValues(t *testing.T) {
	initial := map[string]any{"rating": 3}
	tr := &recordingTransport{}
	f := newForm(t, feedbackMutation, tr,
		form.WithResetOnSave(true),
		form.WithInitialValues(initial),
	)
	initial["rating"] = 1

	mustChange(t, f, "rating", 5)
	mustChange(t, f, "comment", "fine")
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"rating": 3}, f.State().Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesKeptWithoutResetOnSave(t *testing.T) {
	f := newForm(t, petMutation, &recordingTransport{})
	mustChange(t, f, "name", "Rex")
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Rex"}, f.State().Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeIsIdempotent(t *testing.T) {
	metrics := &recordingMetrics{}
	f := newForm(t, petMutation, &recordingTransport{}, form.WithMetrics(metrics))

	notifications := 0
	unsubscribe := f.Subscribe(func(form.Payload) { notifications++ })
	defer unsubscribe()

	mustChange(t, f, "name", "Tom")
	first := f.State()
	mustChange(t, f, "name", "Tom")
	second := f.State()

	if diff := cmp.Diff(first.Values, second.Values); diff != "" {
		t.Fatalf("repeat change altered values (-first +second):\n%s", diff)
	}
	if notifications != 1 {
		t.Fatalf("expected one notification, got %d", notifications)
	}
	if metrics.changes != 1 {
		t.Fatalf("expected one recorded change, got %d", metrics.changes)
	}

	mustChange(t, f, "name", nil)
	mustChange(t, f, "name", nil)
	if notifications != 2 {
		t.Fatalf("clearing twice should notify once, got %d", notifications)
	}
}

func TestChangeValidatesField(t *testing.T) {
	f := newForm(t, contactMutation, &recordingTransport{})

	mustChange(t, f, "email", "")
	if got := f.State().Error("email"); got != "required" {
		t.Fatalf("expected required, got %q", got)
	}
	mustChange(t, f, "email", "ada@example.com")
	state := f.State()
	if !state.Valid() {
		t.Fatalf("expected no errors, got %v", state.FieldErrors)
	}
	if state.Error("company") != "" {
		t.Fatalf("untouched fields are only validated on submit")
	}
}

func TestChangeUnknownField(t *testing.T) {
	f := newForm(t, petMutation, &recordingTransport{})
	if err := f.Change("owner", "me"); !errors.Is(err, form.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestNestedPaths(t *testing.T) {
	tr := &recordingTransport{}
	f := newForm(t, todoMutation, tr)

	modifier, ok := f.Modifier("todo/name")
	if !ok {
		t.Fatalf("expected modifier for todo/name")
	}
	if modifier.Path() != "todo.name" {
		t.Fatalf("unexpected path %q", modifier.Path())
	}

	result, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"todo.name": "required"}, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"todo": map[string]any{"name": "required"}}, f.State().Errors); diff != "" {
		t.Fatalf("nested errors mismatch (-want +got):\n%s", diff)
	}

	if err := modifier.Change("Write tests"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if msg := modifier.Error(); msg != "" {
		t.Fatalf("expected error cleared, got %q", msg)
	}
	if value, _ := modifier.Value(); value != "Write tests" {
		t.Fatalf("unexpected value %#v", value)
	}

	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := map[string]any{"todo": map[string]any{"name": "Write tests"}}
	if diff := cmp.Diff(want, tr.Calls()[0].Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}

	if err := modifier.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if diff := cmp.Diff(map[string]any{}, f.State().Values); diff != "" {
		t.Fatalf("empty parents should be pruned (-want +got):\n%s", diff)
	}
}

func TestModifiersCoverEveryPath(t *testing.T) {
	f := newForm(t, todoMutation, &recordingTransport{})
	var got []string
	for path := range f.Modifiers() {
		got = append(got, path)
	}
	want := f.Model().Paths()
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("modifier paths mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderOption(t *testing.T) {
	f := newForm(t, contactMutation, &recordingTransport{}, form.WithOrder("lastname", "email"))

	var got []string
	for _, field := range f.Fields() {
		got = append(got, field.Path)
	}
	want := []string{"lastname", "email", "company", "firstname"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

type blockingTransport struct {
	started chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (b *blockingTransport) Execute(ctx context.Context, req transport.Request) (transport.Response, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	close(b.started)
	select {
	case <-b.release:
	case <-ctx.Done():
		return transport.Response{}, ctx.Err()
	}
	return transport.Response{Data: map[string]any{"createPet": map[string]any{"id": "1"}}}, nil
}

func TestBusySubmitNeverDoubleInvokes(t *testing.T) {
	tr := &blockingTransport{started: make(chan struct{}), release: make(chan struct{})}
	metrics := &recordingMetrics{}
	f := newForm(t, petMutation, tr, form.WithMetrics(metrics))
	mustChange(t, f, "name", "Felix")

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()
	<-tr.started

	if !f.State().Submitting {
		t.Fatalf("expected submitting while transport is pending")
	}
	result, err := f.Submit(context.Background())
	if !errors.Is(err, form.ErrBusy) || result.Status != form.StatusBusy {
		t.Fatalf("expected busy result, got %v %v", result.Status, err)
	}

	// Changes apply immediately during an in-flight submit.
	mustChange(t, f, "name", "Garfield")
	if value, _ := f.State().Value("name"); value != "Garfield" {
		t.Fatalf("change during submit was not applied, got %#v", value)
	}

	close(tr.release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}

	tr.mu.Lock()
	calls := tr.calls
	tr.mu.Unlock()
	if calls != 1 {
		t.Fatalf("expected one transport call, got %d", calls)
	}
	state := f.State()
	if state.Submitting || state.Phase != form.PhaseIdle {
		t.Fatalf("expected idle after completion, got %+v", state)
	}
	if value, _ := state.Value("name"); value != "Garfield" {
		t.Fatalf("value changed mid-submit should survive, got %#v", value)
	}
	if diff := cmp.Diff([]string{form.OutcomeBusy, form.OutcomeSucceeded}, metrics.outcomes); diff != "" {
		t.Fatalf("outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestTransportErrorIsSubmitError(t *testing.T) {
	cause := errors.New("connection refused")
	tr := &recordingTransport{err: cause}
	f := newForm(t, petMutation, tr)
	mustChange(t, f, "name", "Tom")

	result, err := f.Submit(context.Background())
	var submitErr *form.SubmitError
	if !errors.As(err, &submitErr) {
		t.Fatalf("expected SubmitError, got %T %v", err, err)
	}
	if !errors.Is(err, cause) || submitErr.Operation != "CreatePet" {
		t.Fatalf("unexpected submit error %+v", submitErr)
	}
	if result.Status != form.StatusFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}

	state := f.State()
	if state.Submitting || !state.SubmitFailed || state.SubmitSucceeded {
		t.Fatalf("unexpected state after failure: %+v", state)
	}
	if !errors.Is(state.SubmitError, cause) {
		t.Fatalf("state should record the failure, got %v", state.SubmitError)
	}
	if diff := cmp.Diff(map[string]any{"name": "Tom"}, state.Values); diff != "" {
		t.Fatalf("values should survive a failure (-want +got):\n%s", diff)
	}
	if len(tr.Calls()) != 1 {
		t.Fatalf("failures must not be retried")
	}

	tr.mu.Lock()
	tr.err = nil
	tr.mu.Unlock()
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if state := f.State(); state.SubmitError != nil || state.SubmitCount != 2 {
		t.Fatalf("expected cleared failure on resubmit, got %+v", state)
	}
}

func TestConfigurationErrors(t *testing.T) {
	sdl := form.WithSchema(form.SDLSchema("crm.graphql", crmSDL))
	tr := form.WithTransport(&recordingTransport{})

	cases := map[string][]form.Option{
		"missing mutation": {sdl, tr},
		"invalid mutation": {form.WithMutationSource(`query { ping }`), sdl, tr},
		"missing schema":   {form.WithMutationSource(petMutation), tr},
		"two schemas": {
			form.WithMutationSource(petMutation), sdl,
			form.WithSchema(form.StaticSchema(schema.NewSchemaIR())), tr,
		},
		"missing transport": {form.WithMutationSource(petMutation), sdl},
		"unknown mutation": {
			form.WithMutationSource(`mutation ($id: ID!) { deletePet(id: $id) }`), sdl, tr,
		},
		"empty static schema": {
			form.WithMutationSource(petMutation), form.WithSchema(form.StaticSchema(schema.NewSchemaIR())), tr,
		},
		"broken sdl": {
			form.WithMutationSource(petMutation), form.WithSchema(form.SDLSchema("bad", "type {")), tr,
		},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := form.New(context.Background(), opts...); !errors.Is(err, form.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

type liveClient struct {
	recordingTransport
	ir schema.SchemaIR
}

func (c *liveClient) Introspect(context.Context) (schema.SchemaIR, error) {
	return c.ir, nil
}

func TestLiveClientDoublesAsTransport(t *testing.T) {
	ir := schema.NewSchemaIR()
	ir.Mutations["createPet"] = schema.Operation{
		Name: "createPet",
		Arguments: schema.Schema{
			Type:       "object",
			Required:   []string{"name"},
			Properties: map[string]schema.Schema{"name": {Type: "string"}},
		},
	}
	client := &liveClient{ir: ir}

	f, err := form.New(context.Background(),
		form.WithMutationSource(petMutation),
		form.WithSchema(form.LiveClient(client)),
	)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	mustChange(t, f, "name", "Tom")
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(client.Calls()) != 1 {
		t.Fatalf("expected the live client to execute the mutation")
	}
}

func TestSubscribeReceivesPayload(t *testing.T) {
	f := newForm(t, petMutation, &recordingTransport{})

	var phases []form.Phase
	var last form.Payload
	unsubscribe := f.Subscribe(func(p form.Payload) {
		phases = append(phases, p.State.Phase)
		last = p
	})

	mustChange(t, f, "name", "Tom")
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := []form.Phase{form.PhaseIdle, form.PhaseSubmitting, form.PhaseIdle}
	if diff := cmp.Diff(want, phases); diff != "" {
		t.Fatalf("phases mismatch (-want +got):\n%s", diff)
	}
	if last.Form != f || len(last.Modifiers) != 1 {
		t.Fatalf("payload should carry the form and its modifiers")
	}
	if err := last.Modifiers["name"].Change("Jerry"); err != nil {
		t.Fatalf("modifier change: %v", err)
	}

	unsubscribe()
	unsubscribe()
	mustChange(t, f, "name", "Spike")
	if len(phases) != 4 {
		t.Fatalf("unsubscribed observer was notified, got %d calls", len(phases))
	}
}

func TestResetAndSetErrors(t *testing.T) {
	f := newForm(t, contactMutation, &recordingTransport{},
		form.WithInitialValues(map[string]any{"company": "Acme", "unused": true}),
	)
	mustChange(t, f, "company", "Initech")

	rejected := f.SetErrors(map[string]string{"email": "already taken", "nope": "x"})
	if diff := cmp.Diff(map[string]string{"nope": "x"}, rejected); diff != "" {
		t.Fatalf("rejected mismatch (-want +got):\n%s", diff)
	}
	if f.State().Error("email") != "already taken" {
		t.Fatalf("expected server error recorded")
	}

	f.Reset()
	state := f.State()
	if diff := cmp.Diff(map[string]any{"company": "Acme", "unused": true}, state.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !state.Valid() || state.Dirty {
		t.Fatalf("reset should clear errors, got %+v", state)
	}
}

func TestObjectErrorSurvivesChildErrors(t *testing.T) {
	f := newForm(t, todoMutation, &recordingTransport{})

	rejected := f.SetErrors(map[string]string{"todo": "todo rejected", "todo.name": "taken"})
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejected paths %v", rejected)
	}
	want := map[string]any{
		"todo": map[string]any{form.ObjectErrorKey: "todo rejected", "name": "taken"},
	}
	state := f.State()
	if diff := cmp.Diff(want, state.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if state.Error("todo") != "todo rejected" || state.Error("todo.name") != "taken" {
		t.Fatalf("flat errors lost, got %v", state.FieldErrors)
	}
}

func TestPanickingTransportLeavesFormIdle(t *testing.T) {
	calls := 0
	tr := transport.Func(func(context.Context, transport.Request) (transport.Response, error) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return transport.Response{Data: map[string]any{"createPet": map[string]any{"id": "1"}}}, nil
	})
	f := newForm(t, petMutation, tr)
	mustChange(t, f, "name", "Felix")

	result, err := f.Submit(context.Background())
	if !errors.Is(err, form.ErrTransportPanic) || result.Status != form.StatusFailed {
		t.Fatalf("expected panic reported as failure, got %v %v", result.Status, err)
	}
	var submitErr *form.SubmitError
	if !errors.As(err, &submitErr) {
		t.Fatalf("expected SubmitError, got %T", err)
	}
	state := f.State()
	if state.Submitting || state.Phase != form.PhaseIdle || !state.SubmitFailed {
		t.Fatalf("expected idle failed state, got %+v", state)
	}

	result, err = f.Submit(context.Background())
	if err != nil || result.Status != form.StatusSucceeded {
		t.Fatalf("expected next submit to succeed, got %v %v", result.Status, err)
	}
}

func TestInitialValuesOutsideVariablesAreNotSent(t *testing.T) {
	tr := &recordingTransport{}
	f := newForm(t, petMutation, tr, form.WithInitialValues(map[string]any{"name": "Tom", "extra": 1}))
	if _, err := f.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Tom"}, tr.Calls()[0].Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
}

type stubKit struct{}

func (stubKit) Name() string        { return "stub" }
func (stubKit) ContentType() string { return "text/plain" }

func (stubKit) Field(_ context.Context, fc render.FieldContext) ([]byte, error) {
	if fc.Field.Path == "firstname" {
		return nil, fmt.Errorf("stub: %w", render.ErrUnsupportedField)
	}
	return []byte(fmt.Sprintf("%s=%v[%s]", fc.Field.Path, fc.Value, fc.Error)), nil
}

func (stubKit) Form(_ context.Context, fc render.FormContext) ([]byte, error) {
	out := fc.Model.Mutation + ":"
	for _, field := range fc.Fields {
		out += " " + string(field.HTML)
	}
	return []byte(out), nil
}

func TestRenderThroughKit(t *testing.T) {
	f := newForm(t, contactMutation, &recordingTransport{}, form.WithKit(stubKit{}))
	mustChange(t, f, "company", "Acme")
	mustChange(t, f, "email", "")

	rendered, err := f.Payload().Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"company", "email", "lastname"}, rendered.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if got := string(rendered.Fields["email"]); got != "email=[required]" {
		t.Fatalf("unexpected email control %q", got)
	}
	want := "createContact: company=Acme[] email=[required] lastname=<nil>[]"
	if got := string(rendered.Form); got != want {
		t.Fatalf("form mismatch:\nwant %q\ngot  %q", want, got)
	}

	bare := newForm(t, petMutation, &recordingTransport{})
	if _, err := bare.Render(context.Background()); !errors.Is(err, form.ErrNoKit) {
		t.Fatalf("expected ErrNoKit, got %v", err)
	}
}
