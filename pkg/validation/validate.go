package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-frontier/pkg/model"
)

// Messages returned for the built-in checks.
const (
	MessageRequired       = "required"
	MessageExpectedText   = "expected text"
	MessageExpectedNumber = "expected a number"
	MessageExpectedWhole  = "expected a whole number"
	MessageExpectedBool   = "expected true or false"
	MessageExpectedList   = "expected a list"
	MessageExpectedObject = "expected an object"
	MessagePattern        = "does not match required pattern"
)

// Validator validates values against model fields, caching compiled rules.
type Validator struct {
	cache *Cache
}

// New returns a Validator with an empty rules cache.
func New() *Validator {
	return &Validator{cache: NewCache()}
}

// Field checks a single value against the field's own rules. Nested fields
// and list items are not visited; use Value for that. It returns an empty
// string when the value is acceptable.
func (v *Validator) Field(field model.Field, value any) string {
	rules := v.rules(field)
	if IsEmpty(value) {
		if rules.Required {
			return MessageRequired
		}
		return ""
	}

	switch rules.Type {
	case model.FieldTypeString:
		s, ok := value.(string)
		if !ok {
			return MessageExpectedText
		}
		if msg := rules.checkEnum(s); msg != "" {
			return msg
		}
		return rules.checkString(s)
	case model.FieldTypeInteger, model.FieldTypeNumber:
		n, ok := ToFloat(value)
		if !ok {
			return MessageExpectedNumber
		}
		if rules.Type == model.FieldTypeInteger && n != math.Trunc(n) {
			return MessageExpectedWhole
		}
		return rules.checkRange(n)
	case model.FieldTypeBoolean:
		if _, ok := value.(bool); !ok {
			return MessageExpectedBool
		}
	case model.FieldTypeArray:
		items, ok := ToSlice(value)
		if !ok {
			return MessageExpectedList
		}
		return rules.checkLength(len(items))
	case model.FieldTypeObject:
		if _, ok := value.(map[string]any); !ok {
			return MessageExpectedObject
		}
	}
	return ""
}

// Value validates value as the content of field, descending into nested
// fields and list items. Issues are keyed by field path.
func (v *Validator) Value(field model.Field, value any) map[string]string {
	issues := make(map[string]string)
	v.walk([]model.Field{field}, map[string]any{field.Name: value}, issues)
	return issues
}

// Tree validates a whole values document against the top-level fields.
func (v *Validator) Tree(fields []model.Field, values map[string]any) map[string]string {
	issues := make(map[string]string)
	if values == nil {
		values = map[string]any{}
	}
	v.walk(fields, values, issues)
	return issues
}

func (v *Validator) walk(fields []model.Field, container map[string]any, out map[string]string) {
	for _, field := range fields {
		value := container[field.Name]

		if !field.IsLeaf() {
			if value == nil {
				if !field.Required {
					continue
				}
				before := len(out)
				v.walk(field.Nested, map[string]any{}, out)
				if len(out) == before {
					out[field.Path] = MessageRequired
				}
				continue
			}
			nested, ok := value.(map[string]any)
			if !ok {
				out[field.Path] = MessageExpectedObject
				continue
			}
			v.walk(field.Nested, nested, out)
			continue
		}

		if msg := v.Field(field, value); msg != "" {
			out[field.Path] = msg
			continue
		}
		if field.Type == model.FieldTypeArray && field.Items != nil {
			if msg := v.items(*field.Items, value); msg != "" {
				out[field.Path] = msg
			}
		}
	}
}

// items reports the first failing list element, keyed on the list itself
// since element paths are not declared fields. The item template's Path is
// the list path plus ".item".
func (v *Validator) items(item model.Field, value any) string {
	elements, _ := ToSlice(value)
	element := item
	element.Name = "item"
	for i, value := range elements {
		issues := make(map[string]string)
		v.walk([]model.Field{element}, map[string]any{"item": value}, issues)
		if len(issues) == 0 {
			continue
		}
		keys := make([]string, 0, len(issues))
		for key := range issues {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		key := keys[0]
		where := strings.TrimPrefix(strings.TrimPrefix(key, item.Path), ".")
		if where == "" {
			return fmt.Sprintf("item %d: %s", i, issues[key])
		}
		return fmt.Sprintf("item %d %s: %s", i, where, issues[key])
	}
	return ""
}

func (v *Validator) rules(field model.Field) Rules {
	if v == nil || v.cache == nil {
		return RulesFor(field)
	}
	return v.cache.For(field)
}

func (r Rules) checkString(value string) string {
	length := utf8.RuneCountInString(value)
	if r.Required && strings.TrimSpace(value) == "" {
		return MessageRequired
	}
	if r.MinLen != nil && length < *r.MinLen {
		return fmt.Sprintf("min length %d", *r.MinLen)
	}
	if r.MaxLen != nil && length > *r.MaxLen {
		return fmt.Sprintf("max length %d", *r.MaxLen)
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return MessagePattern
	}
	return ""
}

func (r Rules) checkEnum(value string) string {
	if len(r.Enum) == 0 {
		return ""
	}
	for _, option := range r.Enum {
		if option == value {
			return ""
		}
	}
	return "must be one of " + strings.Join(r.Enum, ", ")
}

func (r Rules) checkRange(value float64) string {
	if r.Min != nil {
		if r.ExclusiveMin && value <= *r.Min {
			return fmt.Sprintf("must be greater than %v", *r.Min)
		}
		if value < *r.Min {
			return fmt.Sprintf("min %v", *r.Min)
		}
	}
	if r.Max != nil {
		if r.ExclusiveMax && value >= *r.Max {
			return fmt.Sprintf("must be less than %v", *r.Max)
		}
		if value > *r.Max {
			return fmt.Sprintf("max %v", *r.Max)
		}
	}
	return ""
}

func (r Rules) checkLength(length int) string {
	if r.Required && length == 0 {
		return MessageRequired
	}
	if r.MinLen != nil && length < *r.MinLen {
		return fmt.Sprintf("min length %d", *r.MinLen)
	}
	if r.MaxLen != nil && length > *r.MaxLen {
		return fmt.Sprintf("max length %d", *r.MaxLen)
	}
	return ""
}

// IsEmpty reports whether value counts as missing: nil, a blank string or an
// empty list. false and 0 are values.
func IsEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	default:
		return false
	}
}

// ToFloat converts the numeric shapes values arrive in (Go integer and float
// kinds, JSON numbers, float64 from decoded JSON) to float64.
func ToFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case nil:
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// ToSlice converts list values of any element type to []any.
func ToSlice(value any) ([]any, bool) {
	switch typed := value.(type) {
	case []any:
		return typed, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
