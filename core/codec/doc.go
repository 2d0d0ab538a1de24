// Package codec decodes raw response text into schema-validated Go values.
//
// The two core entry points mirror each other: [ParseJSON] is the strict
// variant that returns a [*ParseError] when the text is not valid JSON or the
// decoded value fails schema validation, and [SafeParseJSON] is the
// non-failing variant that reports the same outcomes as a [Result] so callers
// can branch without error plumbing.
//
// Because upstream APIs occasionally emit almost-JSON (single quotes,
// trailing commas, unquoted keys), [ParseJSONLenient] additionally repairs
// malformed syntax with jsonrepair before giving up.
//
// A schema is any implementation of [Schema]; [SchemaFunc] adapts a plain
// function, [Any] accepts every structurally valid document, and
// [StructSchema] derives a required-field validator from a struct type by
// reflection.
package codec
