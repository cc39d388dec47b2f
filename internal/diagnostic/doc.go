// Package diagnostic provides structured warnings and errors for the mirror
// generator.
//
// Key capabilities:
//   - Typed generation errors (unresolved references, duplicate
//     discriminants, cycles, missing converters, ...) matchable with errors.As
//   - A Diagnostics collector used by schema validation and the check command
//   - "Did you mean" suggestions attached to unresolved names
package diagnostic
