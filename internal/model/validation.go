package model

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-frontier/pkg/descriptor"
	"github.com/goliatone/go-frontier/pkg/schema"
)

var (
	// ErrMissingDescriptor is returned when Build receives no descriptor.
	ErrMissingDescriptor = errors.New("model builder: mutation descriptor is required")
	// ErrUnknownMutation is returned when the schema has no matching root field.
	ErrUnknownMutation = errors.New("model builder: mutation not found in schema")
)

func validateDescriptor(desc *descriptor.Descriptor) error {
	if desc == nil {
		return ErrMissingDescriptor
	}
	if desc.Field == "" {
		return fmt.Errorf("model builder: descriptor has no root field")
	}
	return nil
}

func validateSchema(s schema.Schema) error {
	if s.Type == "array" && s.Items == nil {
		return errors.New("array schema requires items")
	}
	if s.Type == "object" {
		for _, nested := range s.Properties {
			if err := validateSchema(nested); err != nil {
				return err
			}
		}
	}
	if s.Items != nil {
		return validateSchema(*s.Items)
	}
	return nil
}
