package schema

import (
	"mirror-generator/internal/common"
)

// TypeKind represents the variety of a named type.
type TypeKind int

const (
	TypeStruct     TypeKind = iota // named struct with typed fields
	TypeUnitEnum                   // ordered labels, no payload
	TypeTaggedEnum                 // discriminated union of payload variants
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeStruct:
		return "struct"
	case TypeUnitEnum:
		return "unit enum"
	case TypeTaggedEnum:
		return "tagged enum"
	default:
		return common.UnknownStr
	}
}

// NamedType is a resolved schema entity.
type NamedType struct {
	Name  string
	Kind  TypeKind
	Doc   string
	Index int // declaration order

	// Converter is false for mirror-only declarations.
	Converter bool

	Fields   []Field   // TypeStruct
	Labels   []Label   // TypeUnitEnum
	Variants []Variant // TypeTaggedEnum
}

// Field is a resolved struct field.
type Field struct {
	Name       string
	Type       *TypeRef
	Constraint Constraint // never ConstraintDerived after Build
	// Mirror is the pinned mirrored primitive, KindInvalid when unpinned.
	Mirror Kind
}

// Label is a unit enum label with its canonical discriminant value.
type Label struct {
	Name     string
	Value    int64
	Explicit bool
}

// Variant is a tagged enum variant.
type Variant struct {
	Name    string
	Payload *TypeRef // nil for variants without payload
	Field   string   // payload field name in mirrored form
	Mirror  Kind
}

// HasPayload reports whether the variant carries data.
func (v *Variant) HasPayload() bool {
	return v.Payload != nil
}

// References returns the named types t refers to, in member order, without
// duplicates.
func (t *NamedType) References() []string {
	var (
		names []string
		seen  = map[string]bool{}
	)

	add := func(ref *TypeRef) {
		for _, n := range ref.NamedRefs() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}

	for i := range t.Fields {
		add(t.Fields[i].Type)
	}

	for i := range t.Variants {
		add(t.Variants[i].Payload)
	}

	return names
}

// Model is a validated schema: every reference resolves, names are unique and
// mirrored names are legal. A Model is immutable once built.
type Model struct {
	// Package is the canonical runtime module.
	Package string
	// ModelsPackage is the Python package holding the mirrors.
	ModelsPackage string
	// Discriminator is the reserved tag field name of mirrored tagged enums.
	Discriminator string

	types []*NamedType
	index map[string]*NamedType
}

// Types returns the named types in declaration order.
func (m *Model) Types() []*NamedType {
	return m.types
}

// Lookup returns the named type called name.
func (m *Model) Lookup(name string) (*NamedType, bool) {
	t, ok := m.index[name]
	return t, ok
}

// Names returns the type names in declaration order.
func (m *Model) Names() []string {
	names := make([]string, len(m.types))
	for i, t := range m.types {
		names[i] = t.Name
	}

	return names
}

// Dependencies returns the named types the type called name refers to.
func (m *Model) Dependencies(name string) []string {
	t, ok := m.index[name]
	if !ok {
		return nil
	}

	return t.References()
}
