// Package validation checks form values against the rules carried by model
// fields: required-ness, GraphQL scalar types, enums, numeric ranges, lengths
// and patterns. Messages are short and stable so hosts can show them as-is or
// map them to their own copy.
package validation
