// Package match provides identifier tokenization, case conversion and
// Levenshtein-based ranking of near-miss names.
//
// Key functions:
//   - SnakeCase: module file names for mirrored declarations
//   - NormalizeIdent: case- and separator-insensitive comparison key
//   - Levenshtein: edit distance between strings
//   - Suggest: "did you mean" candidates for unresolved type names
package match
