// Package descriptor parses GraphQL mutation documents into the Descriptor
// consumed by the form engine. A descriptor names the root mutation field,
// the typed variables a form has to collect and how each variable is bound to
// the field's arguments. Parsing is delegated to gqlparser so the accepted
// syntax matches what GraphQL servers accept.
package descriptor
