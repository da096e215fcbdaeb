// Package frontier is the top-level entry point: it loads schema and
// mutation documents from files or URLs and builds forms from them.
package frontier

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-frontier/internal/loader"
	"github.com/goliatone/go-frontier/pkg/descriptor"
	"github.com/goliatone/go-frontier/pkg/form"
	"github.com/goliatone/go-frontier/pkg/introspection"
	"github.com/goliatone/go-frontier/pkg/jsonschema"
	"github.com/goliatone/go-frontier/pkg/renderers/semantic"
	"github.com/goliatone/go-frontier/pkg/schema"
)

// NewLoader constructs a document loader while keeping the concrete type
// hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return loader.New(schema.NewLoaderOptions(options...))
}

// New builds a form. It is form.New re-exported for callers that only
// import the root package.
func New(ctx context.Context, opts ...form.Option) (*form.Form, error) {
	return form.New(ctx, opts...)
}

// LoadSchema fetches a schema document and picks the matching form source:
// .graphql/.graphqls/.gql files are SDL, documents holding __schema are
// introspection results, YAML files and JSON documents with Mutation under
// properties are JSON schema documents.
func LoadSchema(ctx context.Context, l schema.Loader, location string) (form.Source, error) {
	doc, err := load(ctx, l, location)
	if err != nil {
		return nil, err
	}
	raw := doc.Raw()

	switch strings.ToLower(filepath.Ext(doc.Location())) {
	case ".graphql", ".graphqls", ".gql":
		return form.SDLSchema(filepath.Base(doc.Location()), string(raw)), nil
	case ".yaml", ".yml":
		return form.JSONSchema(doc), nil
	}
	if bytes.Contains(raw, []byte(`"__schema"`)) {
		ir, err := introspection.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("frontier: %s: %w", location, err)
		}
		return form.StaticSchema(ir), nil
	}
	if jsonschema.NewAdapter(l).Detect(raw) {
		return form.JSONSchema(doc), nil
	}
	return nil, fmt.Errorf("frontier: %s: unrecognised schema document", location)
}

// LoadMutation fetches and parses a mutation document. A location that
// starts with the mutation keyword is parsed as the document itself.
func LoadMutation(ctx context.Context, l schema.Loader, location string) (*descriptor.Descriptor, error) {
	trimmed := strings.TrimSpace(location)
	if strings.HasPrefix(trimmed, "mutation") && strings.ContainsAny(trimmed, "{(") {
		return descriptor.Parse(trimmed)
	}
	doc, err := load(ctx, l, location)
	if err != nil {
		return nil, err
	}
	desc, err := descriptor.Parse(string(doc.Raw()))
	if err != nil {
		return nil, fmt.Errorf("frontier: %s: %w", location, err)
	}
	return desc, nil
}

// EmbeddedTemplates exposes the built-in HTML kit templates so callers can
// copy and restyle them.
func EmbeddedTemplates() fs.FS {
	return semantic.TemplatesFS()
}

func load(ctx context.Context, l schema.Loader, location string) (schema.Document, error) {
	if l == nil {
		l = NewLoader()
	}
	src := schema.ParseSource(location)
	if src == nil {
		return schema.Document{}, fmt.Errorf("frontier: empty document location")
	}
	doc, err := l.Load(ctx, src)
	if err != nil {
		return schema.Document{}, fmt.Errorf("frontier: load %s: %w", location, err)
	}
	return doc, nil
}
