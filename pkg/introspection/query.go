package introspection

import (
	"context"

	"github.com/goliatone/go-frontier/pkg/schema"
)

// Query is the introspection document sent by live clients. It only asks for
// what form derivation needs: root operation types, fields with arguments,
// input objects and enums.
const Query = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    types {
      kind
      name
      description
      fields(includeDeprecated: true) {
        name
        description
        args { ...InputValue }
        type { ...TypeRef }
      }
      inputFields { ...InputValue }
      enumValues(includeDeprecated: true) { name description }
    }
  }
}

fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
        }
      }
    }
  }
}`

// Client is a live GraphQL client able to describe its own schema.
type Client interface {
	Introspect(ctx context.Context) (schema.SchemaIR, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context) (schema.SchemaIR, error)

// Introspect implements Client.
func (fn ClientFunc) Introspect(ctx context.Context) (schema.SchemaIR, error) {
	return fn(ctx)
}
