package model

import "strings"

// ApplyOrder returns fields with the listed paths first, in the given order,
// followed by the remaining fields in their original order. Dotted paths
// reorder nested fields within their parent. Unknown and duplicate entries
// are ignored.
func ApplyOrder(fields []Field, order []string) []Field {
	if len(order) == 0 || len(fields) == 0 {
		return fields
	}
	return orderLevel(fields, order, "")
}

func orderLevel(fields []Field, order []string, prefix string) []Field {
	byPath := make(map[string]int, len(fields))
	for i, field := range fields {
		byPath[field.Path] = i
	}

	out := make([]Field, 0, len(fields))
	taken := make(map[int]bool, len(fields))
	for _, entry := range order {
		entry = strings.TrimSpace(entry)
		if prefix != "" && !strings.HasPrefix(entry, prefix) {
			continue
		}
		idx, ok := byPath[entry]
		if !ok || taken[idx] {
			continue
		}
		taken[idx] = true
		out = append(out, fields[idx])
	}
	for i, field := range fields {
		if !taken[i] {
			out = append(out, field)
		}
	}

	for i := range out {
		if len(out[i].Nested) > 0 {
			out[i].Nested = orderLevel(out[i].Nested, order, out[i].Path+".")
		}
	}
	return out
}
