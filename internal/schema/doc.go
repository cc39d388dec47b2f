// Package schema holds the canonical schema model: the description format
// read from YAML (or produced by the Rust collector), the type-expression
// parser, and Build, which resolves a description into a validated Model.
//
// # Description format
//
//	version: "1"
//	package: rustantic_test
//	models_package: rustantic_test.generated
//	types:
//	  - name: Nested
//	    kind: struct
//	    fields:
//	      - {name: name, type: String}
//	      - {name: num, type: u32}
//	  - name: MyUnitEnum
//	    kind: enum
//	    labels: [A, {B: 300}, {C: 900}, D]
//	  - name: MyEnum
//	    kind: union
//	    variants:
//	      - {name: A, type: Nested}
//	      - {name: C, type: i16}
//
// Field types are Rust type expressions. Unsigned integers derive a
// non-negative constraint unless the field sets "constraint: none".
//
// # Validation
//
// Build reports every problem it finds rather than stopping at the first:
// unresolved references (with suggestions), duplicate names and
// discriminants, reserved or invalid identifiers and malformed type
// expressions. A Model is only returned when no error was recorded.
package schema
