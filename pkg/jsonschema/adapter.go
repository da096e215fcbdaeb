package jsonschema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-frontier/pkg/schema"
)

const DefaultAdapterName = "jsonschema"

// Adapter turns graphql-2-json-schema style documents into the schema IR.
// Documents may be JSON or YAML.
type Adapter struct {
	loader schema.Loader
}

// NewAdapter constructs an adapter. The loader is only needed by Load.
func NewAdapter(loader schema.Loader) *Adapter {
	return &Adapter{loader: loader}
}

// Name returns the adapter registry identifier.
func (a *Adapter) Name() string {
	return DefaultAdapterName
}

// Detect reports whether the payload exposes a Mutation or Query root under
// properties.
func (a *Adapter) Detect(raw []byte) bool {
	payload, err := decodePayload(raw, true)
	if err != nil {
		return false
	}
	props, ok := payload["properties"].(map[string]any)
	if !ok {
		return false
	}
	_, hasMutation := props["Mutation"]
	_, hasQuery := props["Query"]
	return hasMutation || hasQuery
}

// Load fetches and parses a schema document.
func (a *Adapter) Load(ctx context.Context, src schema.Source) (schema.SchemaIR, error) {
	if a == nil || a.loader == nil {
		return schema.SchemaIR{}, errors.New("jsonschema adapter: loader is nil")
	}
	doc, err := a.loader.Load(ctx, src)
	if err != nil {
		return schema.SchemaIR{}, fmt.Errorf("jsonschema adapter: load %s: %w", src.Location(), err)
	}
	return a.Parse(doc)
}

// Parse normalises an already loaded document.
func (a *Adapter) Parse(doc schema.Document) (schema.SchemaIR, error) {
	payload, err := decodePayload(doc.Raw(), doc.IsJSON())
	if err != nil {
		return schema.SchemaIR{}, fmt.Errorf("jsonschema adapter: decode %s: %w", doc.Location(), err)
	}
	return normalize(payload)
}

// Parse is a shortcut for NewAdapter(nil).Parse.
func Parse(doc schema.Document) (schema.SchemaIR, error) {
	return NewAdapter(nil).Parse(doc)
}

// ParseBytes parses an inline JSON or YAML payload.
func ParseBytes(name string, raw []byte) (schema.SchemaIR, error) {
	doc, err := schema.NewDocument(schema.SourceInline(name), raw)
	if err != nil {
		return schema.SchemaIR{}, err
	}
	return Parse(doc)
}

func decodePayload(raw []byte, isJSON bool) (map[string]any, error) {
	var payload map[string]any
	if isJSON {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, err
		}
	} else {
		if err := yaml.Unmarshal(raw, &payload); err != nil {
			return nil, err
		}
	}
	if payload == nil {
		return nil, errors.New("document root must be an object")
	}
	return payload, nil
}
