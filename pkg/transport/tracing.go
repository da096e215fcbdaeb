package transport

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-frontier/pkg/transport"

type tracing struct {
	next   Transport
	tracer trace.Tracer
}

// WithTracing wraps next so every execution runs inside a
// "graphql.mutation" span. A nil tracer uses the global provider.
func WithTracing(next Transport, tracer trace.Tracer) Transport {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &tracing{next: next, tracer: tracer}
}

func (t *tracing) Execute(ctx context.Context, req Request) (Response, error) {
	if t.next == nil {
		return Response{}, ErrNilTransport
	}
	ctx, span := t.tracer.Start(ctx, "graphql.mutation", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("graphql.operation.name", req.OperationName()),
		attribute.String("graphql.operation.type", "mutation"),
		attribute.Int("graphql.variables.count", len(req.Variables)),
	)
	if req.Descriptor != nil {
		span.SetAttributes(attribute.String("graphql.field", req.Descriptor.Field))
	}

	resp, err := t.next.Execute(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}
	span.SetStatus(codes.Ok, "")
	return resp, nil
}
