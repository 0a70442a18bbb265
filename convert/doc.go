// Package convert moves values between loosely typed trees (maps, slices and
// scalars as produced by JSON or YAML parsers) and Go types.
//
// A Converter dispatches on the target type: hooks registered for the exact
// type come first, then predicate hooks (newest first), then the built-in
// handling of scalars, pointers, collections and records. The function chosen
// for a type is cached until the next registration.
package convert
