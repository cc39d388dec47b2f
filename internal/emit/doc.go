// Package emit turns a schema.Model into mirrored declarations.
//
// Each named type becomes exactly one Declaration:
//   - struct: a Record, one FieldDecl per field in declaration order
//   - unit enum: an Enumeration with Rust discriminant values
//   - tagged enum: a Union of per-variant classes keyed by the discriminator
//
// Declarations are produced in topological order of the reference graph so
// a mirrored model only refers to models defined before it. Ties are broken
// by declaration order, which keeps output deterministic. Any reference
// cycle, a self reference included, fails with a CyclicSchemaError.
package emit
