package transport_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/goliatone/go-frontier/pkg/descriptor"
	"github.com/goliatone/go-frontier/pkg/transport"
)

func TestWithTracingRecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	desc := descriptor.MustParse(`mutation AddTodo($name: String!) { createTodo(name: $name) { id } }`)
	boom := errors.New("boom")
	calls := 0
	next := transport.Func(func(ctx context.Context, req transport.Request) (transport.Response, error) {
		calls++
		if calls == 2 {
			return transport.Response{}, boom
		}
		return transport.Response{Data: map[string]any{"createTodo": map[string]any{"id": "1"}}}, nil
	})

	traced := transport.WithTracing(next, provider.Tracer("test"))
	resp, err := traced.Execute(context.Background(), transport.Request{Descriptor: desc, Variables: map[string]any{"name": "x"}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := resp.Result(desc); got == nil {
		t.Fatalf("expected result payload")
	}
	if _, err := traced.Execute(context.Background(), transport.Request{Descriptor: desc}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "graphql.mutation" || spans[0].Status().Code != codes.Ok {
		t.Fatalf("unexpected first span: %s %v", spans[0].Name(), spans[0].Status())
	}
	if spans[1].Status().Code != codes.Error {
		t.Fatalf("expected error status, got %v", spans[1].Status())
	}
	found := false
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "graphql.operation.name" && attr.Value.AsString() == "AddTodo" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected operation name attribute")
	}
}

func TestRequestOperationNameFallsBackToField(t *testing.T) {
	desc := descriptor.MustParse(`mutation ($id: ID!) { deleteTodo(id: $id) }`)
	if got := (transport.Request{Descriptor: desc}).OperationName(); got != "deleteTodo" {
		t.Fatalf("expected field fallback, got %q", got)
	}
	if got := (transport.Request{}).OperationName(); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}
