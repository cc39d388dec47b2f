// Package convert synthesizes the converter of every mirrored declaration:
// the to_rs() method that rebuilds the canonical value by calling the
// canonical runtime module.
//
// Field values are converted by strategy. Primitives pass through, nested
// mirrors call their own converter, and Option, list, set and dict values
// are rebuilt around their converted elements. Containers whose elements
// pass through are passed through whole.
//
// Synthesis fails when a converter would call into a mirror-only
// declaration (MissingConverterError), when dispatch does not cover exactly
// the declared variants (NonExhaustiveMatchError), when a pinned mirrored
// primitive disagrees with the canonical one (TypeMismatchError) and when
// conversion edges form a cycle (CyclicSchemaError).
package convert
