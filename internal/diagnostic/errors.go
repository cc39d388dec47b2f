package diagnostic

import (
	"fmt"
	"strings"
)

// Error codes. They are stable and appear in check output.
const (
	CodeUnresolvedType        = "unresolved_type"
	CodeDuplicateDiscriminant = "duplicate_discriminant"
	CodeCyclicSchema          = "cyclic_schema"
	CodeNonExhaustiveMatch    = "non_exhaustive_match"
	CodeTypeMismatch          = "type_mismatch"
	CodeMissingConverter      = "missing_converter"
	CodeDuplicateType         = "duplicate_type"
	CodeDuplicateField        = "duplicate_field"
	CodeReservedName          = "reserved_name"
	CodeTypeSyntax            = "type_syntax"
	CodeUnsupportedItem       = "unsupported_item"
)

// Coded is implemented by every generation error.
type Coded interface {
	error
	Code() string
}

// Located is implemented by errors that point at a schema type and member.
type Located interface {
	error
	Location() (typeName, member string)
}

// UnresolvedTypeError reports a type reference that names neither a declared
// type nor a known primitive.
type UnresolvedTypeError struct {
	Type        string // declaring type
	Member      string // field or variant holding the reference
	Ref         string // the unresolved name
	Suggestions []string
}

func (e *UnresolvedTypeError) Error() string {
	msg := fmt.Sprintf("%s.%s references unknown type %q", e.Type, e.Member, e.Ref)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(e.Suggestions), ", "))
	}

	return msg
}

func (e *UnresolvedTypeError) Code() string { return CodeUnresolvedType }

func (e *UnresolvedTypeError) Location() (string, string) { return e.Type, e.Member }

// DuplicateDiscriminantError reports a label used twice within one enum.
type DuplicateDiscriminantError struct {
	Type  string
	Label string
}

func (e *DuplicateDiscriminantError) Error() string {
	return fmt.Sprintf("%s declares discriminant %q more than once", e.Type, e.Label)
}

func (e *DuplicateDiscriminantError) Code() string { return CodeDuplicateDiscriminant }

func (e *DuplicateDiscriminantError) Location() (string, string) { return e.Type, e.Label }

// CyclicSchemaError reports a reference cycle that prevents emitting mirrors
// in definition order.
type CyclicSchemaError struct {
	Cycle []string // type names, first repeated at the end
}

func (e *CyclicSchemaError) Error() string {
	return "reference cycle: " + strings.Join(e.Cycle, " -> ")
}

func (e *CyclicSchemaError) Code() string { return CodeCyclicSchema }

func (e *CyclicSchemaError) Location() (string, string) {
	if len(e.Cycle) == 0 {
		return "", ""
	}

	return e.Cycle[0], ""
}

// NonExhaustiveMatchError reports a tagged enum whose converter dispatch does
// not cover exactly the declared variants.
type NonExhaustiveMatchError struct {
	Type      string
	Unhandled []string // declared variants without a canonical constructor
	Unknown   []string // handled discriminants that are not declared
}

func (e *NonExhaustiveMatchError) Error() string {
	var parts []string
	if len(e.Unhandled) > 0 {
		parts = append(parts, "no constructor for "+strings.Join(e.Unhandled, ", "))
	}

	if len(e.Unknown) > 0 {
		parts = append(parts, "undeclared discriminants "+strings.Join(e.Unknown, ", "))
	}

	return fmt.Sprintf("%s converter is not exhaustive: %s", e.Type, strings.Join(parts, "; "))
}

func (e *NonExhaustiveMatchError) Code() string { return CodeNonExhaustiveMatch }

func (e *NonExhaustiveMatchError) Location() (string, string) { return e.Type, "" }

// TypeMismatchError reports a mirrored representation that does not agree
// with the canonical one.
type TypeMismatchError struct {
	Type      string
	Member    string
	Canonical string
	Mirrored  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s.%s: mirrored %s does not match canonical %s",
		e.Type, e.Member, e.Mirrored, e.Canonical)
}

func (e *TypeMismatchError) Code() string { return CodeTypeMismatch }

func (e *TypeMismatchError) Location() (string, string) { return e.Type, e.Member }

// MissingConverterError reports a converter that needs to call into a
// mirrored declaration emitted without one.
type MissingConverterError struct {
	Type       string // the dependent whose converter needs the call
	Member     string
	Dependency string // the mirror-only declaration
}

func (e *MissingConverterError) Error() string {
	return fmt.Sprintf("%s.%s needs %s to be converted, but %s is emitted without a converter",
		e.Type, e.Member, e.Dependency, e.Dependency)
}

func (e *MissingConverterError) Code() string { return CodeMissingConverter }

func (e *MissingConverterError) Location() (string, string) { return e.Type, e.Member }

// DuplicateTypeError reports two named types sharing a name.
type DuplicateTypeError struct {
	Type string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("type %q is declared more than once", e.Type)
}

func (e *DuplicateTypeError) Code() string { return CodeDuplicateType }

func (e *DuplicateTypeError) Location() (string, string) { return e.Type, "" }

// DuplicateFieldError reports two struct fields sharing a name.
type DuplicateFieldError struct {
	Type  string
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s declares field %q more than once", e.Type, e.Field)
}

func (e *DuplicateFieldError) Code() string { return CodeDuplicateField }

func (e *DuplicateFieldError) Location() (string, string) { return e.Type, e.Field }

// ReservedNameError reports a name that cannot be used in mirrored form.
type ReservedNameError struct {
	Type   string
	Member string
	Name   string
	Reason string
}

func (e *ReservedNameError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("type name %q: %s", e.Name, e.Reason)
	}

	return fmt.Sprintf("%s.%s: name %q %s", e.Type, e.Member, e.Name, e.Reason)
}

func (e *ReservedNameError) Code() string { return CodeReservedName }

func (e *ReservedNameError) Location() (string, string) { return e.Type, e.Member }

// TypeSyntaxError reports a malformed type expression.
type TypeSyntaxError struct {
	Type   string
	Member string
	Expr   string
	Reason string
}

func (e *TypeSyntaxError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("invalid type expression %q: %s", e.Expr, e.Reason)
	}

	return fmt.Sprintf("%s.%s: invalid type expression %q: %s", e.Type, e.Member, e.Expr, e.Reason)
}

func (e *TypeSyntaxError) Code() string { return CodeTypeSyntax }

func (e *TypeSyntaxError) Location() (string, string) { return e.Type, e.Member }

// UnsupportedItemError reports a source item the generator cannot mirror.
type UnsupportedItemError struct {
	Type   string
	Pos    string
	Reason string
}

func (e *UnsupportedItemError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Type, e.Reason)
	}

	return fmt.Sprintf("%s: %s", e.Type, e.Reason)
}

func (e *UnsupportedItemError) Code() string { return CodeUnsupportedItem }

func (e *UnsupportedItemError) Location() (string, string) { return e.Type, "" }

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}

	return out
}
