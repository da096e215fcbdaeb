package graphqlhttp_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-frontier/pkg/descriptor"
	"github.com/goliatone/go-frontier/pkg/transport"
	"github.com/goliatone/go-frontier/pkg/transport/graphqlhttp"
)

type capturedRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

func newServer(t *testing.T, status int, body string, seen *capturedRequest, header *http.Header) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		if header != nil {
			*header = r.Header.Clone()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExecuteSendsDocumentAndVariables(t *testing.T) {
	var seen capturedRequest
	var header http.Header
	srv := newServer(t, http.StatusOK, `{"data": {"createTodo": {"id": "7"}}}`, &seen, &header)

	client, err := graphqlhttp.New(srv.URL, graphqlhttp.WithHeader("Authorization", "Bearer token"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	desc := descriptor.MustParse(`mutation AddTodo($name: String!) { createTodo(name: $name) { id } }`)
	resp, err := client.Execute(context.Background(), transport.Request{
		Descriptor: desc,
		Variables:  map[string]any{"name": "Ship it"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if seen.OperationName != "AddTodo" || seen.Query != desc.Document() {
		t.Fatalf("unexpected request: %+v", seen)
	}
	if diff := cmp.Diff(map[string]any{"name": "Ship it"}, seen.Variables); diff != "" {
		t.Fatalf("variables mismatch (-want +got):\n%s", diff)
	}
	if got := header.Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	want := map[string]any{"id": "7"}
	if diff := cmp.Diff(want, resp.Result(desc)); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteGraphQLErrors(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{
  "data": null,
  "errors": [
    {"message": "email already taken", "path": ["createUser", "email"]},
    {"message": "company is blocked", "extensions": {"field": "company"}},
    {"message": "rate limited"}
  ]
}`, nil, nil)

	client, _ := graphqlhttp.New(srv.URL)
	desc := descriptor.MustParse(`mutation ($email: String) { createUser(email: $email) { id } }`)
	_, err := client.Execute(context.Background(), transport.Request{Descriptor: desc})

	var respErr *graphqlhttp.ResponseError
	if !errors.As(err, &respErr) {
		t.Fatalf("expected ResponseError, got %T %v", err, err)
	}
	if len(respErr.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(respErr.Errors))
	}
	want := map[string]string{"email": "email already taken", "company": "company is blocked"}
	if diff := cmp.Diff(want, respErr.FieldErrors()); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteStatusError(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, `upstream down`, nil, nil)

	client, _ := graphqlhttp.New(srv.URL)
	desc := descriptor.MustParse(`mutation ($id: ID!) { deleteTodo(id: $id) }`)
	_, err := client.Execute(context.Background(), transport.Request{Descriptor: desc})

	var statusErr *graphqlhttp.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T %v", err, err)
	}
	if statusErr.StatusCode != http.StatusBadGateway || statusErr.Body != "upstream down" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
}

func TestStatusErrorBodyTruncatesOnRuneBoundary(t *testing.T) {
	// 511 ASCII bytes put the two-byte "é" across the truncation limit.
	body := strings.Repeat("a", 511) + strings.Repeat("é", 10)
	srv := newServer(t, http.StatusInternalServerError, body, nil, nil)

	client, _ := graphqlhttp.New(srv.URL)
	desc := descriptor.MustParse(`mutation ($id: ID!) { deleteTodo(id: $id) }`)
	_, err := client.Execute(context.Background(), transport.Request{Descriptor: desc})

	var statusErr *graphqlhttp.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T %v", err, err)
	}
	if !utf8.ValidString(statusErr.Body) {
		t.Fatalf("body split a rune: %q", statusErr.Body)
	}
	if want := strings.Repeat("a", 511) + "..."; statusErr.Body != want {
		t.Fatalf("unexpected body %q", statusErr.Body)
	}
}

func TestIntrospect(t *testing.T) {
	var seen capturedRequest
	srv := newServer(t, http.StatusOK, `{"data": {"__schema": {
  "mutationType": {"name": "Mutation"},
  "types": [
    {"kind": "OBJECT", "name": "Mutation", "fields": [
      {"name": "createTodo", "args": [
        {"name": "name", "type": {"kind": "NON_NULL", "ofType": {"kind": "SCALAR", "name": "String"}}}
      ], "type": {"kind": "SCALAR", "name": "Boolean"}}
    ]}
  ]
}}}`, &seen, nil)

	client, _ := graphqlhttp.New(srv.URL)
	ir, err := client.Introspect(context.Background())
	if err != nil {
		t.Fatalf("introspect: %v", err)
	}
	if seen.OperationName != "IntrospectionQuery" {
		t.Fatalf("expected introspection operation, got %q", seen.OperationName)
	}
	op, ok := ir.Mutation("createTodo")
	if !ok {
		t.Fatalf("expected createTodo")
	}
	if diff := cmp.Diff([]string{"name"}, op.Arguments.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRequiresEndpoint(t *testing.T) {
	if _, err := graphqlhttp.New("  "); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}
