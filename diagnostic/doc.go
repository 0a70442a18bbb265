// Package diagnostic defines the single error family returned when a loosely
// typed tree does not match a declared record type, and the type-path trace
// attached to those errors as they unwind through nested structuring.
//
// Key capabilities:
//   - A closed set of failure kinds, matched with errors.Is
//   - Field errors carrying the offending value and "did you mean" hints
//   - Validation errors grouping located child failures
//   - Embed/Extract of (item, type) frames, innermost first
package diagnostic
