// Package model defines the typed form model consumed by the form engine,
// kits and host views. Builders reside in internal/model but return the types
// defined here.
//
// A form has one top-level field per mutation variable. Input objects expand
// into Nested fields whose Path is dotted (todo.name); lists keep an Items
// template. Validation rules expose canonical identifiers (min/max,
// minLength/maxLength, pattern) with string parameters. Schema extensions
// under the `x-frontier` namespace flow into Field metadata, and the curated
// UIHints map (placeholder, helpText, widget, inputType...) is what kits read
// to adjust markup.
package model
