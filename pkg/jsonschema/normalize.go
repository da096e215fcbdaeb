package jsonschema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-frontier/pkg/schema"
)

const (
	rootQuery    = "Query"
	rootMutation = "Mutation"
)

func normalize(payload map[string]any) (schema.SchemaIR, error) {
	ir := schema.NewSchemaIR()

	for _, key := range []string{"definitions", "$defs"} {
		defs, ok := payload[key].(map[string]any)
		if !ok {
			continue
		}
		for _, name := range sortedKeys(defs) {
			converted, err := decodeSchema(defs[name], "#/"+key+"/"+name)
			if err != nil {
				return schema.SchemaIR{}, err
			}
			ir.Definitions[name] = converted
		}
	}

	props, _ := payload["properties"].(map[string]any)
	if len(props) == 0 {
		return schema.SchemaIR{}, fmt.Errorf("jsonschema: document has no properties")
	}

	for root, target := range map[string]map[string]schema.Operation{
		rootMutation: ir.Mutations,
		rootQuery:    ir.Queries,
	} {
		node, ok := props[root].(map[string]any)
		if !ok {
			continue
		}
		ops := operationNodes(node)
		for _, name := range sortedKeys(ops) {
			op, err := decodeOperation(name, ops[name], "#/properties/"+root)
			if err != nil {
				return schema.SchemaIR{}, err
			}
			target[name] = op
		}
	}

	if len(ir.Mutations) == 0 && len(ir.Queries) == 0 {
		return schema.SchemaIR{}, fmt.Errorf("jsonschema: document declares no Query or Mutation operations")
	}
	return ir, nil
}

// operationNodes accepts both the graphql-2-json-schema layout
// (Mutation.properties.<op>) and the shorthand Mutation.<op>.
func operationNodes(root map[string]any) map[string]any {
	if nested, ok := root["properties"].(map[string]any); ok {
		return nested
	}
	out := make(map[string]any, len(root))
	for key, value := range root {
		switch key {
		case "type", "title", "description", "required", "$ref":
			continue
		}
		if _, ok := value.(map[string]any); ok {
			out[key] = value
		}
	}
	return out
}

func decodeOperation(name string, raw any, pointer string) (schema.Operation, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return schema.Operation{}, fmt.Errorf("jsonschema: operation %s at %s is not an object", name, pointer)
	}
	pointer = pointer + "/" + name

	op := schema.Operation{Name: name}
	if desc, ok := node["description"].(string); ok {
		op.Description = desc
	}

	parts := node
	if nested, ok := node["properties"].(map[string]any); ok {
		parts = nested
	}

	if args, ok := parts["arguments"]; ok {
		converted, err := decodeSchema(args, pointer+"/arguments")
		if err != nil {
			return schema.Operation{}, err
		}
		if converted.Type == "" {
			converted.Type = "object"
		}
		op.Arguments = converted
	} else {
		op.Arguments = schema.Schema{Type: "object"}
	}

	if ret, ok := parts["return"]; ok {
		converted, err := decodeSchema(ret, pointer+"/return")
		if err != nil {
			return schema.Operation{}, err
		}
		op.Return = converted
	}
	return op, nil
}

// decodeSchema round-trips the node through kin-openapi so keyword decoding
// (type arrays, numeric bounds, $ref) follows a single implementation.
func decodeSchema(raw any, pointer string) (schema.Schema, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("jsonschema: encode %s: %w", pointer, err)
	}
	var ref openapi3.SchemaRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return schema.Schema{}, fmt.Errorf("jsonschema: decode %s: %w", pointer, err)
	}
	return convertSchema(&ref), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
