package validation

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/goliatone/go-frontier/pkg/model"
)

// Rules is the compiled form of a field's constraints.
type Rules struct {
	Required     bool
	Type         model.FieldType
	Enum         []string
	Min          *float64
	Max          *float64
	ExclusiveMin bool
	ExclusiveMax bool
	MinLen       *int
	MaxLen       *int
	Pattern      *regexp.Regexp
}

// RulesFor compiles the validation rules of a single field. Invalid patterns
// are ignored rather than failing every change.
func RulesFor(field model.Field) Rules {
	rules := Rules{Required: field.Required, Type: field.Type}
	for _, value := range field.Enum {
		rules.Enum = append(rules.Enum, stringify(value))
	}
	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleMin:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.Min = &val
				rules.ExclusiveMin = v.Params["exclusive"] == "true"
			}
		case model.ValidationRuleMax:
			if val, ok := parseFloat(v.Params["value"]); ok {
				rules.Max = &val
				rules.ExclusiveMax = v.Params["exclusive"] == "true"
			}
		case model.ValidationRuleMinLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.MinLen = &val
			}
		case model.ValidationRuleMaxLength:
			if val, ok := parseInt(v.Params["value"]); ok {
				rules.MaxLen = &val
			}
		case model.ValidationRulePattern:
			if expr := v.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					rules.Pattern = re
				}
			}
		}
	}
	return rules
}

// Cache memoizes compiled rules per field path. It is safe for concurrent
// use.
type Cache struct {
	mu    sync.RWMutex
	rules map[string]Rules
}

// NewCache returns an empty rules cache.
func NewCache() *Cache {
	return &Cache{rules: make(map[string]Rules)}
}

// For returns the cached rules for field, compiling them on first use.
func (c *Cache) For(field model.Field) Rules {
	if c == nil {
		return RulesFor(field)
	}
	c.mu.RLock()
	rules, ok := c.rules[field.Path]
	c.mu.RUnlock()
	if ok {
		return rules
	}

	rules = RulesFor(field)
	c.mu.Lock()
	c.rules[field.Path] = rules
	c.mu.Unlock()
	return rules
}

func parseFloat(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	return val, err == nil
}

func parseInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	val, err := strconv.Atoi(raw)
	return val, err == nil
}
