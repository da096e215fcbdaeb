// Package template wraps pongo2 template sets for HTML kits. Templates load
// from an fs.FS or a directory; render data is normalised to plain maps so
// templates address struct fields by their JSON names.
package template
