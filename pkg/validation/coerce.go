package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-frontier/pkg/model"
)

// Coerce converts raw text entered in a host view into the value shape the
// field expects. Blank input yields nil so the field is cleared. Lists accept
// comma separated items.
func Coerce(field model.Field, raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	switch field.Type {
	case model.FieldTypeInteger:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("validation: %s: %s", field.Path, MessageExpectedWhole)
		}
		return n, nil
	case model.FieldTypeNumber:
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("validation: %s: %s", field.Path, MessageExpectedNumber)
		}
		return n, nil
	case model.FieldTypeBoolean:
		switch strings.ToLower(trimmed) {
		case "true", "on", "yes", "1":
			return true, nil
		case "false", "off", "no", "0":
			return false, nil
		}
		return nil, fmt.Errorf("validation: %s: %s", field.Path, MessageExpectedBool)
	case model.FieldTypeArray:
		var items []any
		for _, part := range strings.Split(trimmed, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if field.Items == nil {
				items = append(items, part)
				continue
			}
			item, err := Coerce(*field.Items, part)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if len(items) == 0 {
			return nil, nil
		}
		return items, nil
	default:
		return raw, nil
	}
}
