package form

import (
	"sort"
	"strconv"
	"strings"
)

// Phase is the engine state machine position.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
)

// State is a read-only snapshot. Maps are deep copies owned by the caller.
type State struct {
	// Values holds the set values, nested by path segment.
	Values map[string]any
	// Errors mirrors the shape of Values with message strings as leaves. An
	// object with messages on both itself and its children keeps its own
	// under ObjectErrorKey.
	Errors map[string]any
	// FieldErrors is Errors flattened by dotted path.
	FieldErrors map[string]string
	Submitting  bool
	Phase       Phase
	// Dirty reports whether Values differ from the initial values.
	Dirty           bool
	SubmitCount     int
	SubmitSucceeded bool
	SubmitFailed    bool
	// SubmitError is the last transport failure, cleared by the next submit.
	SubmitError error
	// Result is the payload returned for the mutation field by the last
	// successful submit.
	Result any
}

// Value resolves a dotted path in Values.
func (s State) Value(path string) (any, bool) {
	return getPath(s.Values, NormalizePath(path))
}

// Error returns the validation message at path, or "".
func (s State) Error(path string) string {
	return s.FieldErrors[NormalizePath(path)]
}

// Valid reports whether no validation errors are recorded.
func (s State) Valid() bool {
	return len(s.FieldErrors) == 0
}

// NormalizePath accepts dotted or slash separated paths and returns the
// dotted form used throughout the engine.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, "/", ".")
	return strings.Trim(path, ".")
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	var current any = root
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at a dotted path, replacing non-map intermediates.
// Field paths never address list elements, so only maps are created.
func setPath(root map[string]any, path string, value any) {
	segments := strings.Split(path, ".")
	node := root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

// deletePath removes the value at path and prunes parents left empty.
func deletePath(root map[string]any, path string) {
	segments := strings.Split(path, ".")
	parents := make([]map[string]any, 0, len(segments))
	node := root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			return
		}
		parents = append(parents, node)
		node = child
	}
	delete(node, segments[len(segments)-1])

	for i := len(parents) - 1; i >= 0; i-- {
		key := segments[i]
		child, _ := parents[i][key].(map[string]any)
		if len(child) > 0 {
			return
		}
		delete(parents[i], key)
	}
}

// ObjectErrorKey holds the message of an object path in Errors when the
// object also has messages on its children.
const ObjectErrorKey = "_error"

// nestErrors turns flat path messages into the nested Errors shape. A path
// carrying both its own message and child messages becomes a map holding
// the children and its own message under ObjectErrorKey.
func nestErrors(flat map[string]string) map[string]any {
	out := make(map[string]any, len(flat))
	paths := make([]string, 0, len(flat))
	for path := range flat {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		segments := strings.Split(path, ".")
		node := out
		for _, segment := range segments[:len(segments)-1] {
			switch existing := node[segment].(type) {
			case map[string]any:
				node = existing
			case string:
				child := map[string]any{ObjectErrorKey: existing}
				node[segment] = child
				node = child
			default:
				child := make(map[string]any)
				node[segment] = child
				node = child
			}
		}
		last := segments[len(segments)-1]
		if existing, ok := node[last].(map[string]any); ok {
			existing[ObjectErrorKey] = flat[path]
			continue
		}
		node[last] = flat[path]
	}
	return out
}

func cloneErrors(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// underPath reports whether candidate is path or one of its descendants.
func underPath(candidate, path string) bool {
	return candidate == path || strings.HasPrefix(candidate, path+".")
}

// ancestors returns the strict ancestor paths of path, nearest last.
func ancestors(path string) []string {
	segments := strings.Split(path, ".")
	out := make([]string, 0, len(segments)-1)
	for i := 1; i < len(segments); i++ {
		out = append(out, strings.Join(segments[:i], "."))
	}
	return out
}
