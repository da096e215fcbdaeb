// Package introspection derives the schema IR from a live GraphQL endpoint
// (the standard introspection query) or from SDL documents. Both paths produce
// the same operations and definitions as the static JSON-Schema adapter, so a
// form resolves identical fields whichever source it was given.
package introspection
