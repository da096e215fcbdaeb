package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-frontier/pkg/introspection"
	"github.com/goliatone/go-frontier/pkg/jsonschema"
	"github.com/goliatone/go-frontier/pkg/schema"
)

// Source is where the form reads its schema from. It is a closed set: use
// StaticSchema, JSONSchema, SDLSchema or LiveClient.
type Source interface {
	// Kind names the variant for logs.
	Kind() string
	resolve(ctx context.Context) (schema.SchemaIR, error)
}

type staticSource struct {
	ir schema.SchemaIR
}

// StaticSchema uses an already normalised schema.
func StaticSchema(ir schema.SchemaIR) Source {
	return staticSource{ir: ir}
}

func (staticSource) Kind() string { return "static" }

func (s staticSource) resolve(context.Context) (schema.SchemaIR, error) {
	if len(s.ir.Mutations) == 0 {
		return schema.SchemaIR{}, errors.New("static schema has no mutations")
	}
	return s.ir, nil
}

type documentSource struct {
	doc schema.Document
}

// JSONSchema parses a graphql-2-json-schema style document (JSON or YAML).
func JSONSchema(doc schema.Document) Source {
	return documentSource{doc: doc}
}

func (documentSource) Kind() string { return "jsonschema" }

func (s documentSource) resolve(context.Context) (schema.SchemaIR, error) {
	return jsonschema.Parse(s.doc)
}

type sdlSource struct {
	name string
	sdl  string
}

// SDLSchema parses GraphQL SDL.
func SDLSchema(name, sdl string) Source {
	return sdlSource{name: name, sdl: sdl}
}

func (sdlSource) Kind() string { return "sdl" }

func (s sdlSource) resolve(context.Context) (schema.SchemaIR, error) {
	return introspection.FromSDL(s.name, s.sdl)
}

type liveSource struct {
	client introspection.Client
}

// LiveClient introspects the schema through client once, at construction.
// When client also implements transport.Transport it becomes the default
// transport.
func LiveClient(client introspection.Client) Source {
	return liveSource{client: client}
}

func (liveSource) Kind() string { return "live" }

func (s liveSource) resolve(ctx context.Context) (schema.SchemaIR, error) {
	if s.client == nil {
		return schema.SchemaIR{}, errors.New("live client is nil")
	}
	ir, err := s.client.Introspect(ctx)
	if err != nil {
		return schema.SchemaIR{}, fmt.Errorf("introspect: %w", err)
	}
	return ir, nil
}
