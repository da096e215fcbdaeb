package model

import internalmodel "github.com/goliatone/go-frontier/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeArray   = internalmodel.FieldTypeArray
	FieldTypeObject  = internalmodel.FieldTypeObject
)

const (
	ValidationRuleMin       = internalmodel.ValidationRuleMin
	ValidationRuleMax       = internalmodel.ValidationRuleMax
	ValidationRuleMinLength = internalmodel.ValidationRuleMinLength
	ValidationRuleMaxLength = internalmodel.ValidationRuleMaxLength
	ValidationRulePattern   = internalmodel.ValidationRulePattern
)

type ValidationRule = internalmodel.ValidationRule
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel

var (
	ErrMissingDescriptor = internalmodel.ErrMissingDescriptor
	ErrUnknownMutation   = internalmodel.ErrUnknownMutation
)

// Walk visits fields depth first until visit returns false.
func Walk(fields []Field, visit func(Field) bool) bool {
	return internalmodel.Walk(fields, visit)
}

// ApplyOrder moves the listed paths to the front, keeping the rest in place.
func ApplyOrder(fields []Field, order []string) []Field {
	return internalmodel.ApplyOrder(fields, order)
}

// DefaultLabeler converts a field name into a human-friendly label.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
