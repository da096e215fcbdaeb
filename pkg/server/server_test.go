package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-frontier/pkg/form"
	"github.com/goliatone/go-frontier/pkg/metrics"
	"github.com/goliatone/go-frontier/pkg/renderers/semantic"
	"github.com/goliatone/go-frontier/pkg/server"
	"github.com/goliatone/go-frontier/pkg/transport"
	"github.com/goliatone/go-frontier/pkg/transport/graphqlhttp"
)

const todoSDL = `
type Query { ok: Boolean }

type Mutation {
  createTodo(todo: TodoInput!, urgent: Boolean): Todo
}

type Todo { id: ID! }

input TodoInput {
  name: String!
  estimate: Int
}
`

const todoMutation = `mutation AddTodo($todo: TodoInput!, $urgent: Boolean) {
  createTodo(todo: $todo, urgent: $urgent) { id }
}`

type stubTransport struct {
	mu    sync.Mutex
	calls []transport.Request
	err   error
}

func (s *stubTransport) Execute(_ context.Context, req transport.Request) (transport.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if s.err != nil {
		return transport.Response{}, s.err
	}
	return transport.Response{Data: map[string]any{"createTodo": map[string]any{"id": "1"}}}, nil
}

func newForm(t *testing.T, tr transport.Transport, opts ...form.Option) *form.Form {
	t.Helper()
	kit, err := semantic.New()
	if err != nil {
		t.Fatalf("new kit: %v", err)
	}
	base := []form.Option{
		form.WithMutationSource(todoMutation),
		form.WithSchema(form.SDLSchema("todo.graphql", todoSDL)),
		form.WithTransport(tr),
		form.WithKit(kit),
	}
	f, err := form.New(context.Background(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f
}

func newHandler(t *testing.T, f *form.Form, opts ...server.Option) http.Handler {
	t.Helper()
	handler, err := server.NewHandler(f, opts...)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func postJSON(t *testing.T, handler http.Handler, body string) (*httptest.ResponseRecorder, server.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp server.Response
	if rr.Code != http.StatusBadRequest {
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rr.Body.String(), err)
		}
	}
	return rr, resp
}

func TestViewRendersKit(t *testing.T) {
	handler := newHandler(t, newForm(t, &stubTransport{}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got)
	}
	body := rr.Body.String()
	for _, fragment := range []string{`data-mutation="createTodo"`, `name="todo.name"`, `name="urgent"`} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, body)
		}
	}
}

func TestFormPostSubmitsCoercedValues(t *testing.T) {
	tr := &stubTransport{}
	handler := newHandler(t, newForm(t, tr))

	values := url.Values{"todo.name": {"Write docs"}, "todo.estimate": {"3"}, "urgent": {"on"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(tr.calls) != 1 {
		t.Fatalf("expected one transport call, got %d", len(tr.calls))
	}
	want := map[string]any{
		"todo":   map[string]any{"name": "Write docs", "estimate": int64(3)},
		"urgent": true,
	}
	if diff := cmp.Diff(want, tr.calls[0].Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestFormPostInvalidRendersErrors(t *testing.T) {
	tr := &stubTransport{}
	handler := newHandler(t, newForm(t, tr))

	values := url.Values{"todo.estimate": {"soon"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("transport must not run for invalid input")
	}
	body := rr.Body.String()
	for _, fragment := range []string{`value="soon"`, `>required</div>`} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, body)
		}
	}
}

func TestJSONPostSucceeds(t *testing.T) {
	tr := &stubTransport{}
	handler := newHandler(t, newForm(t, tr, form.WithResetOnSave(true)))

	rr, resp := postJSON(t, handler, `{"todo": {"name": "Ship", "estimate": 2}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if resp.Status != string(form.StatusSucceeded) {
		t.Fatalf("unexpected status %q", resp.Status)
	}
	if diff := cmp.Diff(map[string]any{"id": "1"}, resp.Result); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{}, resp.Values); diff != "" {
		t.Fatalf("expected values reset (-want +got):\n%s", diff)
	}
	want := map[string]any{"todo": map[string]any{"name": "Ship", "estimate": int64(2)}}
	if diff := cmp.Diff(want, tr.calls[0].Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONPostInvalid(t *testing.T) {
	handler := newHandler(t, newForm(t, &stubTransport{}))

	rr, resp := postJSON(t, handler, `{"values": {"urgent": true}}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if resp.Status != string(form.StatusInvalid) {
		t.Fatalf("unexpected status %q", resp.Status)
	}
	if diff := cmp.Diff(map[string]string{"todo.name": "required"}, resp.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	handler := newHandler(t, newForm(t, &stubTransport{}))
	rr, _ := postJSON(t, handler, `{"todo":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestServerFieldErrorsAreApplied(t *testing.T) {
	tr := &stubTransport{err: &graphqlhttp.ResponseError{Errors: []graphqlhttp.GraphQLError{
		{Message: "already exists", Path: []any{"createTodo", "todo", "name"}},
		{Message: "quota exceeded"},
	}}}
	f := newForm(t, tr)
	handler := newHandler(t, f)

	rr, resp := postJSON(t, handler, `{"todo": {"name": "Ship"}}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
	if diff := cmp.Diff(map[string]string{"todo.name": "already exists"}, resp.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"quota exceeded"}, resp.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if f.State().Error("todo.name") != "already exists" {
		t.Fatalf("expected server error recorded on the form")
	}
}

func TestTransportFailureIsBadGateway(t *testing.T) {
	handler := newHandler(t, newForm(t, &stubTransport{err: errors.New("connection refused")}))

	rr, resp := postJSON(t, handler, `{"todo": {"name": "Ship"}}`)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if resp.Status != string(form.StatusFailed) {
		t.Fatalf("unexpected status %q", resp.Status)
	}
	if !strings.Contains(resp.Error, "connection refused") {
		t.Fatalf("expected transport error in body, got %q", resp.Error)
	}
}

func TestBusySubmitIsConflict(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	blocking := transport.Func(func(ctx context.Context, _ transport.Request) (transport.Response, error) {
		close(entered)
		<-release
		return transport.Response{}, nil
	})
	f := newForm(t, blocking)
	handler := newHandler(t, f)

	if err := f.Change("todo.name", "First"); err != nil {
		t.Fatalf("change: %v", err)
	}
	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()
	<-entered

	rr, resp := postJSON(t, handler, `{"todo": {"name": "Second"}}`)
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	if resp.Status != string(form.StatusBusy) {
		t.Fatalf("unexpected status %q", resp.Status)
	}
}

func TestStateAndHealth(t *testing.T) {
	f := newForm(t, &stubTransport{}, form.WithInitialValues(map[string]any{"urgent": true}))
	handler := newHandler(t, f)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/state", nil))
	var resp server.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"urgent": true}, resp.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response %d %s", rr.Code, rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector, err := metrics.New(metrics.WithRegisterer(registry))
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	f := newForm(t, &stubTransport{}, form.WithMetrics(collector))
	handler := newHandler(t, f, server.WithMetrics(registry))

	postJSON(t, handler, `{"todo": {"name": "Ship"}}`)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `frontier_submit_total{operation="AddTodo",outcome="succeeded"} 1`) {
		t.Fatalf("expected submit counter in:\n%s", rr.Body.String())
	}
}

func TestNewHandlerRequiresForm(t *testing.T) {
	if _, err := server.NewHandler(nil); err == nil {
		t.Fatalf("expected error for nil form")
	}
}
