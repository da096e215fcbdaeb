package graphqlhttp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GraphQLError is one entry of the response "errors" list.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Field returns the dotted path of the error, skipping the root field, or an
// empty string when the error is not tied to a field. Servers that report
// input validation under extensions.field are honoured first.
func (e GraphQLError) Field() string {
	if e.Extensions != nil {
		if field, ok := e.Extensions["field"].(string); ok && field != "" {
			return field
		}
	}
	if len(e.Path) < 2 {
		return ""
	}
	parts := make([]string, 0, len(e.Path)-1)
	for _, segment := range e.Path[1:] {
		parts = append(parts, fmt.Sprint(segment))
	}
	return strings.Join(parts, ".")
}

// ResponseError is returned when the server answered with GraphQL errors.
type ResponseError struct {
	Errors []GraphQLError
	// Data holds any partial data sent alongside the errors.
	Data json.RawMessage
}

func (e *ResponseError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "graphqlhttp: graphql error"
	}
	messages := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		messages = append(messages, item.Message)
	}
	return "graphqlhttp: " + strings.Join(messages, "; ")
}

// FieldErrors maps field paths to server messages for errors that name a
// field. Hosts can merge these into the form errors they display.
func (e *ResponseError) FieldErrors() map[string]string {
	if e == nil {
		return nil
	}
	out := make(map[string]string)
	for _, item := range e.Errors {
		if field := item.Field(); field != "" {
			out[field] = item.Message
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	StatusCode int
	Body       string
	Errors     []GraphQLError
}

func (e *StatusError) Error() string {
	if e == nil {
		return "graphqlhttp: unexpected status"
	}
	if len(e.Errors) > 0 {
		return fmt.Sprintf("graphqlhttp: status %d: %s", e.StatusCode, e.Errors[0].Message)
	}
	return fmt.Sprintf("graphqlhttp: status %d", e.StatusCode)
}
