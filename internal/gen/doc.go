// Package gen renders mirrored declarations as Python source.
//
// Generation uses text/template over prepared view data; the same registry
// and plan always render byte-identical files.
//
// Output layout:
//   - one <snake_case>.py module per declaration
//   - __init__.py re-exporting every mirror in emission order
//
// Every file opens with a "# Generated by <tool> version: <semver>" header.
// Check compares regenerated files with a directory and reports missing,
// stale, version-drifted and orphaned files.
package gen
