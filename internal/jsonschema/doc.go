// Package jsonschema provides utilities for generating and representing JSON
// Schema structures from Go types using reflection.
//
// It supports structs, primitives, slices, maps, and pointers. Recursive
// types are cut off with a bare object schema, which is sufficient for the
// flat error envelopes and response shapes this library works with.
//
// The main entry point is [Generate], which derives a [Schema] from any Go
// struct type T without requiring a runtime value.
package jsonschema
