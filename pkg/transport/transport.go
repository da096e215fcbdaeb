// Package transport defines the collaborator that executes a mutation on the
// form's behalf. The engine only depends on its two outcomes: response data or
// an error. Retries, caching and auth belong to implementations.
package transport

import (
	"context"
	"errors"

	"github.com/goliatone/go-frontier/pkg/descriptor"
)

// ErrNilTransport is returned by helpers handed a nil Transport.
var ErrNilTransport = errors.New("transport: transport is nil")

// Request is a single mutation execution.
type Request struct {
	Descriptor *descriptor.Descriptor
	// Variables holds the form values keyed by variable name.
	Variables map[string]any
}

// OperationName returns the operation name, falling back to the root field.
func (r Request) OperationName() string {
	if r.Descriptor == nil {
		return ""
	}
	if r.Descriptor.Name != "" {
		return r.Descriptor.Name
	}
	return r.Descriptor.Field
}

// Response carries the mutation result.
type Response struct {
	// Data is the GraphQL data object, keyed by response key.
	Data map[string]any
}

// Result returns the payload of the mutation root field.
func (r Response) Result(desc *descriptor.Descriptor) any {
	if r.Data == nil || desc == nil {
		return nil
	}
	return r.Data[desc.ResponseKey()]
}

// Transport executes mutations.
type Transport interface {
	Execute(ctx context.Context, req Request) (Response, error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, req Request) (Response, error)

// Execute implements Transport.
func (fn Func) Execute(ctx context.Context, req Request) (Response, error) {
	return fn(ctx, req)
}
